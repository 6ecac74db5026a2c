package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet is an account holding a balance in a single currency. The balance
// is a cached projection over the wallet's transactions, updated in the same
// database transaction as each ledger insert. ID, UserID and Currency never
// change for the wallet's lifetime.
type Wallet struct {
	ID        string
	UserID    string
	Currency  Currency
	Balance   decimal.Decimal
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewWalletID generates a new wallet identifier.
func NewWalletID() string {
	return uuid.NewString()
}

// ParseWalletID validates a wallet identifier. Malformed input fails here,
// before any repository lookup.
func ParseWalletID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidWalletID, id)
	}

	return parsed.String(), nil
}

// NewWallet creates a wallet with a zero balance.
func NewWallet(id, userID string, currency Currency, now time.Time) *Wallet {
	return &Wallet{
		ID:        id,
		UserID:    userID,
		Currency:  currency,
		Balance:   decimal.Zero,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// BalanceMoney returns the cached balance as a Money value.
func (w *Wallet) BalanceMoney() Money {
	return Money{Amount: w.Balance, Currency: w.Currency}
}

// ValidateCredit checks that amount can be credited to the wallet.
func (w *Wallet) ValidateCredit(amount Money) error {
	if amount.Currency != w.Currency {
		return fmt.Errorf("%w: wallet holds %s, got %s", ErrCurrencyMismatch, w.Currency, amount.Currency)
	}

	return nil
}

// ValidateDebit checks that amount can be debited without overdrawing.
func (w *Wallet) ValidateDebit(amount Money) error {
	if amount.Currency != w.Currency {
		return fmt.Errorf("%w: wallet holds %s, got %s", ErrCurrencyMismatch, w.Currency, amount.Currency)
	}

	if w.Balance.LessThan(amount.Amount) {
		return ErrInsufficientFunds
	}

	return nil
}

// Apply returns the balance after applying the transaction's signed effect.
// It does not mutate the wallet; callers persist the new balance and bump
// Version inside the same database transaction as the ledger insert.
func (w *Wallet) Apply(t *Transaction) decimal.Decimal {
	return w.Balance.Add(t.BalanceEffect())
}
