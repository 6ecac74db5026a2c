package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/leos/gowallet/internal/domain"
	"github.com/leos/gowallet/internal/usecase"
)

func TestMapDomainError(t *testing.T) {
	testCases := []struct {
		err      error
		expected int
	}{
		{domain.ErrWalletNotFound, http.StatusNotFound},
		{domain.ErrTransactionNotFound, http.StatusNotFound},
		{domain.ErrInsufficientFunds, http.StatusConflict},
		{domain.ErrTransactionRolledBack, http.StatusConflict},
		{domain.ErrInvalidAmount, http.StatusBadRequest},
		{domain.ErrMinDepositAmount, http.StatusBadRequest},
		{domain.ErrMinWithdrawalAmount, http.StatusBadRequest},
		{domain.ErrUnsupportedCurrency, http.StatusBadRequest},
		{domain.ErrCurrencyMismatch, http.StatusBadRequest},
		{domain.ErrInvalidWalletID, http.StatusBadRequest},
		{domain.ErrInvalidTransactionType, http.StatusBadRequest},
		{domain.ErrSameWallet, http.StatusBadRequest},
		{usecase.ErrInvalidFilter, http.StatusBadRequest},
		{usecase.ErrTransientConflict, http.StatusServiceUnavailable},
		{errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		if got := mapDomainError(tc.err); got != tc.expected {
			t.Fatalf("mapDomainError(%v) = %d, expected %d", tc.err, got, tc.expected)
		}
	}
}

func TestMapDomainErrorUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("creating withdrawal: %w", domain.ErrInsufficientFunds)
	if got := mapDomainError(wrapped); got != http.StatusConflict {
		t.Fatalf("expected 409 for wrapped error, got %d", got)
	}
}
