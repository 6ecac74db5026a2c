package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/leos/gowallet/internal/adapter/http/dto"
	"github.com/leos/gowallet/internal/domain"
	"github.com/leos/gowallet/internal/usecase"
)

type walletServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateWalletInput) (*domain.Wallet, error)
	getFn    func(ctx context.Context, id string) (*domain.Wallet, error)
	listFn   func(ctx context.Context, input usecase.ListWalletsInput) ([]*domain.Wallet, error)
}

func (s *walletServiceStub) CreateWallet(ctx context.Context, input usecase.CreateWalletInput) (*domain.Wallet, error) {
	return s.createFn(ctx, input)
}

func (s *walletServiceStub) GetWallet(ctx context.Context, id string) (*domain.Wallet, error) {
	return s.getFn(ctx, id)
}

func (s *walletServiceStub) ListWallets(ctx context.Context, input usecase.ListWalletsInput) ([]*domain.Wallet, error) {
	return s.listFn(ctx, input)
}

type auditServiceStub struct {
	auditFn func(ctx context.Context, walletID string) (*usecase.BalanceAudit, error)
}

func (s *auditServiceStub) AuditWallet(ctx context.Context, walletID string) (*usecase.BalanceAudit, error) {
	return s.auditFn(ctx, walletID)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestWalletHandler_Create_Success(t *testing.T) {
	wallet := &domain.Wallet{
		ID:       "w-1",
		UserID:   "user-1",
		Currency: domain.Currency("EUR"),
		Balance:  decimal.Zero,
	}

	var captured usecase.CreateWalletInput
	h := NewWalletHandler(&walletServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateWalletInput) (*domain.Wallet, error) {
			captured = input
			return wallet, nil
		},
	}, nil)

	body, _ := json.Marshal(dto.CreateWalletRequest{UserID: "user-1", Currency: "EUR"})
	req := httptest.NewRequest(http.MethodPost, "/wallets", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.UserID != "user-1" || captured.Currency != "EUR" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.WalletResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "w-1" || !resp.Balance.IsZero() {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestWalletHandler_Create_InvalidJSON(t *testing.T) {
	h := NewWalletHandler(&walletServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateWalletInput) (*domain.Wallet, error) {
			t.Fatal("CreateWallet should not be called for invalid payload")
			return nil, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/wallets", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestWalletHandler_Create_UnsupportedCurrency(t *testing.T) {
	h := NewWalletHandler(&walletServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateWalletInput) (*domain.Wallet, error) {
			return nil, domain.ErrUnsupportedCurrency
		},
	}, nil)

	body, _ := json.Marshal(dto.CreateWalletRequest{UserID: "user-1", Currency: "XYZ"})
	req := httptest.NewRequest(http.MethodPost, "/wallets", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestWalletHandler_Get_NotFound(t *testing.T) {
	h := NewWalletHandler(&walletServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Wallet, error) {
			return nil, domain.ErrWalletNotFound
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/wallets/w-404", nil)
	req = withURLParam(req, "id", "w-404")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestWalletHandler_Get_Success(t *testing.T) {
	h := NewWalletHandler(&walletServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Wallet, error) {
			return &domain.Wallet{ID: id, Currency: domain.Currency("USD")}, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/wallets/w-1", nil)
	req = withURLParam(req, "id", "w-1")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.WalletResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "w-1" || resp.Currency != "USD" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestWalletHandler_List_PassesPagination(t *testing.T) {
	var captured usecase.ListWalletsInput
	h := NewWalletHandler(&walletServiceStub{
		listFn: func(ctx context.Context, input usecase.ListWalletsInput) ([]*domain.Wallet, error) {
			captured = input
			return []*domain.Wallet{{ID: "w-1"}}, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/wallets?limit=5&offset=10", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if captured.Limit != 5 || captured.Offset != 10 {
		t.Fatalf("expected pagination to be forwarded, got %+v", captured)
	}
}

func TestWalletHandler_Audit(t *testing.T) {
	h := NewWalletHandler(&walletServiceStub{}, &auditServiceStub{
		auditFn: func(ctx context.Context, walletID string) (*usecase.BalanceAudit, error) {
			return &usecase.BalanceAudit{
				WalletID:        walletID,
				RecordedBalance: decimal.RequireFromString("10"),
				ComputedBalance: decimal.RequireFromString("10"),
				Difference:      decimal.Zero,
				Consistent:      true,
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/wallets/w-1/audit", nil)
	req = withURLParam(req, "id", "w-1")
	rec := httptest.NewRecorder()

	h.Audit(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.AuditResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Consistent || resp.WalletID != "w-1" {
		t.Fatalf("unexpected audit response: %+v", resp)
	}
}

func TestWalletHandler_Audit_ServiceError(t *testing.T) {
	h := NewWalletHandler(&walletServiceStub{}, &auditServiceStub{
		auditFn: func(ctx context.Context, walletID string) (*usecase.BalanceAudit, error) {
			return nil, errors.New("db error")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/wallets/w-1/audit", nil)
	req = withURLParam(req, "id", "w-1")
	rec := httptest.NewRecorder()

	h.Audit(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
