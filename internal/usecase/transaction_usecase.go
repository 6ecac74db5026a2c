package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/leos/gowallet/internal/domain"
	"github.com/leos/gowallet/internal/infrastructure/metrics"
)

// TransactionUseCase orchestrates ledger writes: deposits, withdrawals,
// transfers and rollbacks. Every write locks the affected wallet rows so the
// balance check and the ledger insert form one atomic unit, and updates the
// cached balance projection in the same database transaction.
type TransactionUseCase struct {
	txManager  TransactionManager
	walletRepo WalletRepository
	txRepo     TransactionRepository
	idGen      IDGenerator
	retrier    Retrier
	cache      Cache
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewTransactionUseCase creates a new TransactionUseCase. retrier, cache and
// m may be nil.
func NewTransactionUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	txRepo TransactionRepository,
	idGen IDGenerator,
	retrier Retrier,
	cache Cache,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:  txManager,
		walletRepo: walletRepo,
		txRepo:     txRepo,
		idGen:      idGen,
		retrier:    retrier,
		cache:      cache,
		metrics:    m,
		logger:     logger,
	}
}

// DepositInput represents input for creating a deposit or withdrawal.
type DepositInput struct {
	WalletID string
	Currency string
	Amount   decimal.Decimal
	Provider string
}

// WithdrawalInput is the withdrawal twin of DepositInput.
type WithdrawalInput = DepositInput

// CreateDeposit credits a wallet. The wallet's derived balance increases
// atomically with the persisted entry becoming visible.
func (uc *TransactionUseCase) CreateDeposit(ctx context.Context, input DepositInput) (*domain.Transaction, error) {
	walletID, err := domain.ParseWalletID(input.WalletID)
	if err != nil {
		return nil, err
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrMinDepositAmount
	}

	amount, err := uc.toMoney(input.Amount, input.Currency)
	if err != nil {
		return nil, err
	}

	var created *domain.Transaction

	err = uc.retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		wallet, err := uc.walletRepo.GetByIDForUpdate(ctx, tx, walletID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()

		deposit, err := domain.NewDeposit(uc.idGen.Generate(), wallet, amount, input.Provider, now)
		if err != nil {
			return err
		}

		if err := uc.txRepo.Create(ctx, tx, deposit); err != nil {
			return err
		}

		if err := uc.walletRepo.UpdateBalance(ctx, tx, wallet.ID, wallet.Apply(deposit), now); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		created = deposit

		return nil
	})
	if err != nil {
		uc.countError(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.DepositsCreated.Inc()
		uc.observeAmount(created)
	}

	uc.invalidate(ctx, walletID)
	uc.logger.Info().
		Str("transaction_id", created.ID).
		Str("wallet_id", walletID).
		Str("amount", amount.String()).
		Msg("deposit created")

	return created, nil
}

// CreateWithdrawal debits a wallet. The funds check runs against the row
// locked inside the same transaction as the insert, so two concurrent
// withdrawals can never both pass it against a stale balance.
func (uc *TransactionUseCase) CreateWithdrawal(ctx context.Context, input WithdrawalInput) (*domain.Transaction, error) {
	walletID, err := domain.ParseWalletID(input.WalletID)
	if err != nil {
		return nil, err
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrMinWithdrawalAmount
	}

	amount, err := uc.toMoney(input.Amount, input.Currency)
	if err != nil {
		return nil, err
	}

	var created *domain.Transaction

	err = uc.retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		wallet, err := uc.walletRepo.GetByIDForUpdate(ctx, tx, walletID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()

		withdrawal, err := domain.NewWithdrawal(uc.idGen.Generate(), wallet, amount, input.Provider, now)
		if err != nil {
			return err
		}

		if err := uc.txRepo.Create(ctx, tx, withdrawal); err != nil {
			return err
		}

		if err := uc.walletRepo.UpdateBalance(ctx, tx, wallet.ID, wallet.Apply(withdrawal), now); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		created = withdrawal

		return nil
	})
	if err != nil {
		uc.countError(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.WithdrawalsCreated.Inc()
		uc.observeAmount(created)
	}

	uc.invalidate(ctx, walletID)
	uc.logger.Info().
		Str("transaction_id", created.ID).
		Str("wallet_id", walletID).
		Str("amount", amount.String()).
		Msg("withdrawal created")

	return created, nil
}

// CreateTransfer moves money between two wallets: one withdrawal on the
// sender and one deposit on the receiver, committed as a single database
// transaction. Wallet rows are locked in sorted ID order so two transfers
// crossing the same pair in opposite directions cannot deadlock. Returns a
// map from wallet ID to its resulting ledger entry.
func (uc *TransactionUseCase) CreateTransfer(ctx context.Context, req *domain.TransferRequest) (map[string]*domain.Transaction, error) {
	ids := []string{req.SenderWalletID, req.ReceiverWalletID}
	sort.Strings(ids)

	var result map[string]*domain.Transaction

	err := uc.retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		wallets, err := uc.walletRepo.GetByIDsForUpdate(ctx, tx, ids)
		if err != nil {
			return err
		}

		if len(wallets) != len(ids) {
			return domain.ErrWalletNotFound
		}

		var sender, receiver *domain.Wallet
		for _, w := range wallets {
			switch w.ID {
			case req.SenderWalletID:
				sender = w
			case req.ReceiverWalletID:
				receiver = w
			}
		}

		if sender == nil || receiver == nil {
			return domain.ErrWalletNotFound
		}

		now := time.Now().UTC()

		withdrawal, err := domain.NewWithdrawal(uc.idGen.Generate(), sender, req.Amount, req.Provider, now)
		if err != nil {
			return err
		}

		deposit, err := domain.NewDeposit(uc.idGen.Generate(), receiver, req.Amount, req.Provider, now)
		if err != nil {
			return err
		}

		if err := uc.txRepo.Create(ctx, tx, withdrawal); err != nil {
			return err
		}

		if err := uc.txRepo.Create(ctx, tx, deposit); err != nil {
			return err
		}

		if err := uc.walletRepo.UpdateBalance(ctx, tx, sender.ID, sender.Apply(withdrawal), now); err != nil {
			return err
		}

		if err := uc.walletRepo.UpdateBalance(ctx, tx, receiver.ID, receiver.Apply(deposit), now); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		result = map[string]*domain.Transaction{
			sender.ID:   withdrawal,
			receiver.ID: deposit,
		}

		return nil
	})
	if err != nil {
		uc.countError(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransfersCreated.Inc()
	}

	uc.invalidate(ctx, req.SenderWalletID)
	uc.invalidate(ctx, req.ReceiverWalletID)
	uc.logger.Info().
		Str("sender_wallet_id", req.SenderWalletID).
		Str("receiver_wallet_id", req.ReceiverWalletID).
		Str("amount", req.Amount.String()).
		Msg("transfer created")

	return result, nil
}

// RollbackDeposit reverses a deposit with a compensating entry.
func (uc *TransactionUseCase) RollbackDeposit(ctx context.Context, depositID string) (*domain.Transaction, error) {
	return uc.rollback(ctx, depositID, domain.KindDeposit)
}

// RollbackWithdrawal reverses a withdrawal with a compensating entry.
func (uc *TransactionUseCase) RollbackWithdrawal(ctx context.Context, withdrawalID string) (*domain.Transaction, error) {
	return uc.rollback(ctx, withdrawalID, domain.KindWithdrawal)
}

// RollbackTransaction reverses a ledger entry of either kind. Rollback
// entries themselves cannot be reversed.
func (uc *TransactionUseCase) RollbackTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	parsed, err := uc.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	switch parsed.Kind {
	case domain.KindDeposit:
		return uc.RollbackDeposit(ctx, transactionID)
	case domain.KindWithdrawal:
		return uc.RollbackWithdrawal(ctx, transactionID)
	default:
		return nil, fmt.Errorf("%w: cannot roll back %s", domain.ErrInvalidTransactionType, parsed.Kind)
	}
}

func (uc *TransactionUseCase) rollback(ctx context.Context, originalID string, expected domain.TransactionKind) (*domain.Transaction, error) {
	var (
		created  *domain.Transaction
		walletID string
	)

	err := uc.retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		original, err := uc.txRepo.GetByID(ctx, originalID)
		if err != nil {
			return err
		}

		if original.Kind != expected {
			return domain.ErrInvalidTransactionType
		}

		wallet, err := uc.walletRepo.GetByIDForUpdate(ctx, tx, original.WalletID)
		if err != nil {
			return err
		}

		rolledBack, err := uc.txRepo.HasRollback(ctx, tx, originalID)
		if err != nil {
			return err
		}

		if rolledBack {
			return domain.ErrTransactionRolledBack
		}

		now := time.Now().UTC()

		rollback, err := domain.NewRollback(uc.idGen.Generate(), original, now)
		if err != nil {
			return err
		}

		// Reversing a deposit debits the wallet and must not overdraw it.
		if rollback.Kind == domain.KindRollbackDeposit {
			if err := wallet.ValidateDebit(rollback.Amount); err != nil {
				return err
			}
		}

		if err := uc.txRepo.Create(ctx, tx, rollback); err != nil {
			return err
		}

		if err := uc.walletRepo.UpdateBalance(ctx, tx, wallet.ID, wallet.Apply(rollback), now); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		created = rollback
		walletID = wallet.ID

		return nil
	})
	if err != nil {
		uc.countError(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.RollbacksCreated.WithLabelValues(string(created.Kind)).Inc()
	}

	uc.invalidate(ctx, walletID)
	uc.logger.Info().
		Str("transaction_id", created.ID).
		Str("original_transaction_id", originalID).
		Str("kind", string(created.Kind)).
		Msg("rollback created")

	return created, nil
}

// GetTransaction retrieves a ledger entry by ID.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.txRepo.GetByID(ctx, id)
}

// ListTransactionsByWallet lists a wallet's ledger entries with delegated
// filtering, ordering and pagination.
func (uc *TransactionUseCase) ListTransactionsByWallet(ctx context.Context, walletID string, query ListQuery) ([]*domain.Transaction, error) {
	id, err := domain.ParseWalletID(walletID)
	if err != nil {
		return nil, err
	}

	if err := query.Validate(); err != nil {
		return nil, err
	}

	return uc.txRepo.ListByWallet(ctx, id, query.Normalize())
}

// BalanceAudit compares a wallet's cached balance projection against the
// signed sum of its ledger entries.
type BalanceAudit struct {
	WalletID        string
	RecordedBalance decimal.Decimal
	ComputedBalance decimal.Decimal
	Difference      decimal.Decimal
	Consistent      bool
	CheckedAt       time.Time
}

// AuditWallet recomputes a wallet's balance from its transaction history and
// reports any drift from the stored projection.
func (uc *TransactionUseCase) AuditWallet(ctx context.Context, walletID string) (*BalanceAudit, error) {
	id, err := domain.ParseWalletID(walletID)
	if err != nil {
		return nil, err
	}

	wallet, err := uc.walletRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sum, err := uc.txRepo.SumByWallet(ctx, id)
	if err != nil {
		return nil, err
	}

	diff := wallet.Balance.Sub(sum)

	if uc.metrics != nil {
		uc.metrics.AuditsRun.Inc()
		if !diff.IsZero() {
			uc.metrics.AuditInconsistency.Inc()
		}
	}

	if !diff.IsZero() {
		uc.logger.Error().
			Str("wallet_id", id).
			Str("recorded_balance", wallet.Balance.String()).
			Str("computed_balance", sum.String()).
			Msg("wallet balance drift detected")
	}

	return &BalanceAudit{
		WalletID:        id,
		RecordedBalance: wallet.Balance,
		ComputedBalance: sum,
		Difference:      diff,
		Consistent:      diff.IsZero(),
		CheckedAt:       time.Now().UTC(),
	}, nil
}

func (uc *TransactionUseCase) toMoney(amount decimal.Decimal, currency string) (domain.Money, error) {
	cur, err := domain.NewCurrency(currency)
	if err != nil {
		return domain.Money{}, err
	}

	return domain.NewMoney(amount, cur)
}

func (uc *TransactionUseCase) observeAmount(tx *domain.Transaction) {
	uc.metrics.TransactionAmount.
		WithLabelValues(string(tx.Kind), string(tx.Amount.Currency)).
		Observe(tx.Amount.Amount.InexactFloat64())
}

// countError buckets a failed ledger write by error class.
func (uc *TransactionUseCase) countError(err error) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.TransactionErrors.WithLabelValues(errorClass(err)).Inc()
}

func errorClass(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrTransactionRolledBack):
		return "conflict"
	case errors.Is(err, domain.ErrWalletNotFound),
		errors.Is(err, domain.ErrTransactionNotFound):
		return "not_found"
	case errors.Is(err, ErrTransientConflict):
		return "transient"
	default:
		return "internal"
	}
}

func (uc *TransactionUseCase) retry(ctx context.Context, operation func() error) error {
	if uc.retrier == nil {
		return operation()
	}

	return uc.retrier.Retry(ctx, operation)
}

func (uc *TransactionUseCase) invalidate(ctx context.Context, walletID string) {
	if uc.cache == nil {
		return
	}

	if err := uc.cache.Delete(ctx, walletCacheKey(walletID)); err != nil {
		uc.logger.Warn().Err(err).Str("wallet_id", walletID).Msg("wallet cache invalidation failed")
	}
}
