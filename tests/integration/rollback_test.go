package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/leos/gowallet/internal/adapter/http/dto"
	"github.com/leos/gowallet/internal/domain"
	"github.com/leos/gowallet/internal/usecase"
)

func TestRollbackDeposit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	wallet := env.DB.CreateTestWallet(ctx, "user-rb", "USD")

	deposit, err := env.TxUC.CreateDeposit(ctx, usecase.DepositInput{
		WalletID: wallet.ID,
		Currency: "USD",
		Amount:   decimal.NewFromInt(50),
		Provider: "stripe",
	})
	if err != nil {
		t.Fatalf("failed to create deposit: %v", err)
	}

	t.Run("rollback restores previous balance", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/"+deposit.ID+"/rollback", nil)
		w := httptest.NewRecorder()

		env.Router.ServeHTTP(w, r)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var got dto.TransactionResponse
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}

		if got.Kind != string(domain.KindRollbackDeposit) {
			t.Fatalf("expected rollback_deposit entry, got %s", got.Kind)
		}

		if got.ReferenceID == nil || *got.ReferenceID != deposit.ID {
			t.Fatalf("expected reference to %s, got %+v", deposit.ID, got.ReferenceID)
		}

		updated, err := env.WalletUC.GetWallet(ctx, wallet.ID)
		if err != nil {
			t.Fatalf("failed to read wallet: %v", err)
		}

		if !updated.Balance.IsZero() {
			t.Fatalf("expected zero balance after rollback, got %s", updated.Balance)
		}
	})

	t.Run("second rollback conflicts", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/"+deposit.ID+"/rollback", nil)
		w := httptest.NewRecorder()

		env.Router.ServeHTTP(w, r)

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestRollbackWithdrawal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	wallet := env.DB.CreateTestWalletWithBalance(ctx, "user-rbw", "USD", decimal.NewFromInt(100))

	withdrawal, err := env.TxUC.CreateWithdrawal(ctx, usecase.WithdrawalInput{
		WalletID: wallet.ID,
		Currency: "USD",
		Amount:   decimal.NewFromInt(40),
	})
	if err != nil {
		t.Fatalf("failed to create withdrawal: %v", err)
	}

	rollback, err := env.TxUC.RollbackWithdrawal(ctx, withdrawal.ID)
	if err != nil {
		t.Fatalf("failed to roll back withdrawal: %v", err)
	}

	if rollback.Kind != domain.KindRollbackWithdrawal {
		t.Fatalf("expected rollback_withdrawal entry, got %s", rollback.Kind)
	}

	updated, err := env.WalletUC.GetWallet(ctx, wallet.ID)
	if err != nil {
		t.Fatalf("failed to read wallet: %v", err)
	}

	if !updated.Balance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected balance restored to 100, got %s", updated.Balance)
	}
}

func TestRollbackDepositAfterSpendConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	wallet := env.DB.CreateTestWallet(ctx, "user-rbs", "USD")

	deposit, err := env.TxUC.CreateDeposit(ctx, usecase.DepositInput{
		WalletID: wallet.ID,
		Currency: "USD",
		Amount:   decimal.NewFromInt(50),
	})
	if err != nil {
		t.Fatalf("failed to create deposit: %v", err)
	}

	// Spend most of the deposit so reversing it would overdraw the wallet.
	if _, err := env.TxUC.CreateWithdrawal(ctx, usecase.WithdrawalInput{
		WalletID: wallet.ID,
		Currency: "USD",
		Amount:   decimal.NewFromInt(40),
	}); err != nil {
		t.Fatalf("failed to create withdrawal: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/"+deposit.ID+"/rollback", nil)
	w := httptest.NewRecorder()

	env.Router.ServeHTTP(w, r)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRollbackOfRollbackRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	wallet := env.DB.CreateTestWallet(ctx, "user-rbr", "USD")

	deposit, err := env.TxUC.CreateDeposit(ctx, usecase.DepositInput{
		WalletID: wallet.ID,
		Currency: "USD",
		Amount:   decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("failed to create deposit: %v", err)
	}

	rollback, err := env.TxUC.RollbackDeposit(ctx, deposit.ID)
	if err != nil {
		t.Fatalf("failed to roll back deposit: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/"+rollback.ID+"/rollback", nil)
	w := httptest.NewRecorder()

	env.Router.ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRollbackMissingTransaction(t *testing.T) {
	env := newTestEnv(t)

	r := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/01ARZ3NDEKTSV4RRFFQ69G5FAV/rollback", nil)
	w := httptest.NewRecorder()

	env.Router.ServeHTTP(w, r)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}
