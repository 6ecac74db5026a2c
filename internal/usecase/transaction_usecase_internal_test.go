package usecase

import (
	"errors"
	"fmt"
	"testing"

	"github.com/leos/gowallet/internal/domain"
)

func TestErrorClass(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{domain.ErrInsufficientFunds, "conflict"},
		{domain.ErrTransactionRolledBack, "conflict"},
		{domain.ErrWalletNotFound, "not_found"},
		{domain.ErrTransactionNotFound, "not_found"},
		{ErrTransientConflict, "transient"},
		{fmt.Errorf("wrapped: %w", ErrTransientConflict), "transient"},
		{errors.New("boom"), "internal"},
	}

	for _, tc := range cases {
		if got := errorClass(tc.err); got != tc.want {
			t.Errorf("errorClass(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
