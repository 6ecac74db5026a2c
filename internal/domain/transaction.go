package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind discriminates the four ledger entry variants.
type TransactionKind string

const (
	KindDeposit            TransactionKind = "deposit"
	KindWithdrawal         TransactionKind = "withdrawal"
	KindRollbackDeposit    TransactionKind = "rollback_deposit"
	KindRollbackWithdrawal TransactionKind = "rollback_withdrawal"
)

// IsValid reports whether k is a known kind.
func (k TransactionKind) IsValid() bool {
	switch k {
	case KindDeposit, KindWithdrawal, KindRollbackDeposit, KindRollbackWithdrawal:
		return true
	}

	return false
}

// IsRollback reports whether k is a compensating kind.
func (k TransactionKind) IsRollback() bool {
	return k == KindRollbackDeposit || k == KindRollbackWithdrawal
}

// RollbackKind returns the compensating kind for k. Rollbacks of rollbacks
// are not supported.
func (k TransactionKind) RollbackKind() (TransactionKind, error) {
	switch k {
	case KindDeposit:
		return KindRollbackDeposit, nil
	case KindWithdrawal:
		return KindRollbackWithdrawal, nil
	default:
		return "", fmt.Errorf("%w: cannot roll back %q", ErrInvalidTransactionType, k)
	}
}

// Transaction is a single immutable ledger entry. Entries are append-only:
// corrections are new rollback entries referencing the original, never edits
// or deletes.
type Transaction struct {
	ID          string
	Kind        TransactionKind
	WalletID    string
	Amount      Money
	Provider    string
	ReferenceID *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewDeposit creates a deposit entry against the wallet.
func NewDeposit(id string, wallet *Wallet, amount Money, provider string, now time.Time) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrMinDepositAmount
	}

	if err := wallet.ValidateCredit(amount); err != nil {
		return nil, err
	}

	return &Transaction{
		ID:        id,
		Kind:      KindDeposit,
		WalletID:  wallet.ID,
		Amount:    amount,
		Provider:  provider,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewWithdrawal creates a withdrawal entry against the wallet. The caller
// must hold the wallet's row lock so the funds check and the insert form one
// atomic unit.
func NewWithdrawal(id string, wallet *Wallet, amount Money, provider string, now time.Time) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrMinWithdrawalAmount
	}

	if err := wallet.ValidateDebit(amount); err != nil {
		return nil, err
	}

	return &Transaction{
		ID:        id,
		Kind:      KindWithdrawal,
		WalletID:  wallet.ID,
		Amount:    amount,
		Provider:  provider,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewRollback creates the compensating entry for original. The original is
// left untouched; the new entry carries the same magnitude with the opposite
// balance effect and references the original by ID.
func NewRollback(id string, original *Transaction, now time.Time) (*Transaction, error) {
	kind, err := original.Kind.RollbackKind()
	if err != nil {
		return nil, err
	}

	ref := original.ID

	return &Transaction{
		ID:          id,
		Kind:        kind,
		WalletID:    original.WalletID,
		Amount:      original.Amount,
		Provider:    original.Provider,
		ReferenceID: &ref,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// BalanceEffect returns the signed contribution of the entry to its
// wallet's balance. The switch is exhaustive over the closed kind set.
func (t *Transaction) BalanceEffect() decimal.Decimal {
	switch t.Kind {
	case KindDeposit, KindRollbackWithdrawal:
		return t.Amount.Amount
	case KindWithdrawal, KindRollbackDeposit:
		return t.Amount.Amount.Neg()
	default:
		return decimal.Zero
	}
}
