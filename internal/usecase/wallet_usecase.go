package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/leos/gowallet/internal/domain"
	"github.com/leos/gowallet/internal/infrastructure/metrics"
)

// WalletUseCase handles wallet creation and lookup.
type WalletUseCase struct {
	walletRepo WalletRepository
	cache      Cache
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewWalletUseCase creates a new WalletUseCase. cache and metrics may be nil.
func NewWalletUseCase(walletRepo WalletRepository, cache Cache, m *metrics.Metrics, logger zerolog.Logger) *WalletUseCase {
	return &WalletUseCase{
		walletRepo: walletRepo,
		cache:      cache,
		metrics:    m,
		logger:     logger,
	}
}

// CreateWalletInput represents input for creating a wallet.
type CreateWalletInput struct {
	UserID   string
	Currency string
}

// CreateWallet creates a wallet with a zero balance and no transactions.
func (uc *WalletUseCase) CreateWallet(ctx context.Context, input CreateWalletInput) (*domain.Wallet, error) {
	currency, err := domain.NewCurrency(input.Currency)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	wallet := domain.NewWallet(domain.NewWalletID(), input.UserID, currency, now)

	if err := uc.walletRepo.Create(ctx, wallet); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.WalletsCreated.Inc()
	}

	uc.logger.Info().
		Str("wallet_id", wallet.ID).
		Str("currency", currency.String()).
		Msg("wallet created")

	return wallet, nil
}

// GetWallet resolves a wallet identifier to the current wallet snapshot.
// Malformed IDs fail before any lookup. Snapshots may be served from cache;
// every write path invalidates the cached entry, and command paths always
// re-read the wallet under a row lock.
func (uc *WalletUseCase) GetWallet(ctx context.Context, id string) (*domain.Wallet, error) {
	walletID, err := domain.ParseWalletID(id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, walletCacheKey(walletID)); err == nil {
			var wallet domain.Wallet
			if err := json.Unmarshal([]byte(cached), &wallet); err == nil {
				if uc.metrics != nil {
					uc.metrics.WalletReads.WithLabelValues("cache").Inc()
				}

				return &wallet, nil
			}
		}
	}

	wallet, err := uc.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.WalletReads.WithLabelValues("database").Inc()
	}

	if uc.cache != nil {
		if data, err := json.Marshal(wallet); err == nil {
			if err := uc.cache.Set(ctx, walletCacheKey(walletID), string(data), WalletCacheTTL); err != nil {
				uc.logger.Warn().Err(err).Str("wallet_id", walletID).Msg("wallet cache set failed")
			}
		}
	}

	return wallet, nil
}

// ListWalletsInput represents input for listing wallets.
type ListWalletsInput struct {
	Limit  int
	Offset int
}

// ListWallets lists wallets with pagination.
func (uc *WalletUseCase) ListWallets(ctx context.Context, input ListWalletsInput) ([]*domain.Wallet, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultPageLimit
	}

	if input.Limit > MaxPageLimit {
		input.Limit = MaxPageLimit
	}

	return uc.walletRepo.List(ctx, input.Limit, input.Offset)
}

func walletCacheKey(walletID string) string {
	return "wallet:" + walletID
}
