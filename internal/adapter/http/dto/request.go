package dto

import (
	"github.com/shopspring/decimal"

	"github.com/leos/gowallet/internal/usecase"
)

// CreateWalletRequest represents a request to create a wallet.
type CreateWalletRequest struct {
	UserID   string `json:"user_id"`
	Currency string `json:"currency"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateWalletRequest) ToUseCaseInput() usecase.CreateWalletInput {
	return usecase.CreateWalletInput{
		UserID:   r.UserID,
		Currency: r.Currency,
	}
}

// MoneyOperationRequest represents a deposit or withdrawal against a wallet.
type MoneyOperationRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Provider string          `json:"provider,omitempty"`
}

// ToUseCaseInput converts to use case input for the given wallet.
func (r *MoneyOperationRequest) ToUseCaseInput(walletID string) usecase.DepositInput {
	return usecase.DepositInput{
		WalletID: walletID,
		Currency: r.Currency,
		Amount:   r.Amount,
		Provider: r.Provider,
	}
}

// CreateTransferRequest represents a request to move funds between wallets.
type CreateTransferRequest struct {
	SenderWalletID   string          `json:"sender_wallet_id"`
	ReceiverWalletID string          `json:"receiver_wallet_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Provider         string          `json:"provider,omitempty"`
}
