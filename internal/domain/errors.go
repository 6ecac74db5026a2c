package domain

import "errors"

var (
	// Money errors
	ErrUnsupportedCurrency = errors.New("unsupported currency code")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrCurrencyMismatch    = errors.New("currency mismatch")

	// Wallet errors
	ErrInvalidWalletID = errors.New("invalid wallet id")
	ErrWalletNotFound  = errors.New("wallet not found")

	// Transaction errors
	ErrMinDepositAmount       = errors.New("deposit amount must be positive")
	ErrMinWithdrawalAmount    = errors.New("withdrawal amount must be positive")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrTransactionRolledBack  = errors.New("transaction already rolled back")

	// Transfer errors
	ErrSameWallet = errors.New("cannot transfer to same wallet")
)
