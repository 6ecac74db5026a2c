package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/leos/gowallet/internal/domain"
	"github.com/leos/gowallet/internal/usecase"
)

// WalletResponse represents a wallet in API responses.
type WalletResponse struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	Version   int64           `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// WalletFromDomain converts a domain wallet to a response.
func WalletFromDomain(w *domain.Wallet) *WalletResponse {
	return &WalletResponse{
		ID:        w.ID,
		UserID:    w.UserID,
		Currency:  string(w.Currency),
		Balance:   w.Balance,
		Version:   w.Version,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// WalletsFromDomain converts domain wallets to responses.
func WalletsFromDomain(wallets []*domain.Wallet) []*WalletResponse {
	result := make([]*WalletResponse, len(wallets))
	for i, w := range wallets {
		result[i] = WalletFromDomain(w)
	}
	return result
}

// ListWalletsResponse wraps a wallet listing.
type ListWalletsResponse struct {
	Wallets []*WalletResponse `json:"wallets"`
	Total   int64             `json:"total"`
}

// TransactionResponse represents a ledger entry in API responses. Amount is
// the unsigned magnitude; the sign is implied by the kind.
type TransactionResponse struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	WalletID    string          `json:"wallet_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Provider    string          `json:"provider,omitempty"`
	ReferenceID *string         `json:"reference_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID,
		Kind:        string(t.Kind),
		WalletID:    t.WalletID,
		Amount:      t.Amount.Amount,
		Currency:    string(t.Amount.Currency),
		Provider:    t.Provider,
		ReferenceID: t.ReferenceID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ListTransactionsResponse wraps a ledger listing.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int64                  `json:"total"`
}

// TransferResponse maps each wallet id to the leg written against it.
type TransferResponse map[string]*TransactionResponse

// TransferFromDomain converts a transfer result to a response.
func TransferFromDomain(legs map[string]*domain.Transaction) TransferResponse {
	result := make(TransferResponse, len(legs))
	for walletID, t := range legs {
		result[walletID] = TransactionFromDomain(t)
	}
	return result
}

// AuditResponse represents a balance audit in API responses.
type AuditResponse struct {
	WalletID        string          `json:"wallet_id"`
	RecordedBalance decimal.Decimal `json:"recorded_balance"`
	ComputedBalance decimal.Decimal `json:"computed_balance"`
	Difference      decimal.Decimal `json:"difference"`
	Consistent      bool            `json:"consistent"`
	CheckedAt       time.Time       `json:"checked_at"`
}

// AuditFromUseCase converts a balance audit to a response.
func AuditFromUseCase(a *usecase.BalanceAudit) *AuditResponse {
	return &AuditResponse{
		WalletID:        a.WalletID,
		RecordedBalance: a.RecordedBalance,
		ComputedBalance: a.ComputedBalance,
		Difference:      a.Difference,
		Consistent:      a.Consistent,
		CheckedAt:       a.CheckedAt,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
