package domain

import (
	"github.com/shopspring/decimal"
)

// TransferRequest is a validated request to move money between two wallets.
// It is not a stored entity: a transfer decomposes into one withdrawal on
// the sender and one deposit on the receiver, persisted as a pair.
type TransferRequest struct {
	SenderWalletID   string
	ReceiverWalletID string
	Amount           Money
	Provider         string
}

// NewTransferRequest validates the request shape before any wallet is
// touched. Zero or negative amounts and unknown currencies fail here.
func NewTransferRequest(senderWalletID, receiverWalletID string, amount decimal.Decimal, currency, provider string) (*TransferRequest, error) {
	senderID, err := ParseWalletID(senderWalletID)
	if err != nil {
		return nil, err
	}

	receiverID, err := ParseWalletID(receiverWalletID)
	if err != nil {
		return nil, err
	}

	if senderID == receiverID {
		return nil, ErrSameWallet
	}

	cur, err := NewCurrency(currency)
	if err != nil {
		return nil, err
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrMinDepositAmount
	}

	money, err := NewMoney(amount, cur)
	if err != nil {
		return nil, err
	}

	return &TransferRequest{
		SenderWalletID:   senderID,
		ReceiverWalletID: receiverID,
		Amount:           money,
		Provider:         provider,
	}, nil
}
