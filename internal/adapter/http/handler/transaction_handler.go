package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leos/gowallet/internal/adapter/http/dto"
	"github.com/leos/gowallet/internal/domain"
	"github.com/leos/gowallet/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	CreateDeposit(ctx context.Context, input usecase.DepositInput) (*domain.Transaction, error)
	CreateWithdrawal(ctx context.Context, input usecase.WithdrawalInput) (*domain.Transaction, error)
	CreateTransfer(ctx context.Context, req *domain.TransferRequest) (map[string]*domain.Transaction, error)
	RollbackTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	ListTransactionsByWallet(ctx context.Context, walletID string, query usecase.ListQuery) ([]*domain.Transaction, error)
}

// TransactionHandler handles ledger-related HTTP requests.
type TransactionHandler struct {
	txUC TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(txUC TransactionService) *TransactionHandler {
	return &TransactionHandler{txUC: txUC}
}

// Deposit credits a wallet.
func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")

	var req dto.MoneyOperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	transaction, err := h.txUC.CreateDeposit(r.Context(), req.ToUseCaseInput(walletID))
	if err != nil {
		writeDomainError(w, "failed to create deposit", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(transaction))
}

// Withdraw debits a wallet.
func (h *TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")

	var req dto.MoneyOperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	transaction, err := h.txUC.CreateWithdrawal(r.Context(), req.ToUseCaseInput(walletID))
	if err != nil {
		writeDomainError(w, "failed to create withdrawal", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(transaction))
}

// Transfer moves funds between two wallets atomically.
func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	transfer, err := domain.NewTransferRequest(
		req.SenderWalletID, req.ReceiverWalletID, req.Amount, req.Currency, req.Provider)
	if err != nil {
		writeDomainError(w, "invalid transfer request", err)
		return
	}

	legs, err := h.txUC.CreateTransfer(r.Context(), transfer)
	if err != nil {
		writeDomainError(w, "failed to create transfer", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromDomain(legs))
}

// Rollback reverses a deposit or withdrawal with a compensating entry.
func (h *TransactionHandler) Rollback(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	transaction, err := h.txUC.RollbackTransaction(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to roll back transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(transaction))
}

// Get retrieves a ledger entry by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	transaction, err := h.txUC.GetTransaction(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(transaction))
}

// ListByWallet lists a wallet's ledger entries with filtering and ordering.
func (h *TransactionHandler) ListByWallet(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")
	if walletID == "" {
		writeError(w, http.StatusBadRequest, "missing wallet ID", "")
		return
	}

	query, err := parseListQuery(r)
	if err != nil {
		writeDomainError(w, "invalid list query", err)
		return
	}

	transactions, err := h.txUC.ListTransactionsByWallet(r.Context(), walletID, query)
	if err != nil {
		writeDomainError(w, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(transactions),
		Total:        int64(len(transactions)),
	})
}
