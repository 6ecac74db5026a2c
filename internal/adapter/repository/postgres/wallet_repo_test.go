package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leos/gowallet/internal/domain"
)

func newTestWallet() *domain.Wallet {
	now := time.Now().UTC().Truncate(time.Microsecond)

	return &domain.Wallet{
		ID:        "7b8a1cb4-24c4-4d52-8f2e-2c0a640d2b17",
		UserID:    "user-1",
		Currency:  domain.Currency("EUR"),
		Balance:   decimal.RequireFromString("10.50"),
		Version:   3,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func walletRow(w *domain.Wallet) *pgxmock.Rows {
	columns := []string{"id", "user_id", "currency", "balance", "version", "created_at", "updated_at"}

	return pgxmock.NewRows(columns).AddRow(
		w.ID, w.UserID, string(w.Currency), decimalToNumeric(w.Balance),
		w.Version, timeToPgTimestamptz(w.CreatedAt), timeToPgTimestamptz(w.UpdatedAt),
	)
}

func beginTx(t *testing.T, mock pgxmock.PgxPoolIface) *Tx {
	t.Helper()

	pgxTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	return &Tx{tx: pgxTx}
}

func TestWalletRepositoryCreate(t *testing.T) {
	mock := newMockPool(t)
	repo := NewWalletRepository(mock)
	w := newTestWallet()

	mock.ExpectExec("INSERT INTO wallets").
		WithArgs(w.ID, w.UserID, string(w.Currency), decimalToNumeric(w.Balance),
			w.Version, timeToPgTimestamptz(w.CreatedAt), timeToPgTimestamptz(w.UpdatedAt)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), w)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepositoryGetByID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewWalletRepository(mock)
	w := newTestWallet()

	mock.ExpectQuery("SELECT .+ FROM wallets WHERE id").
		WithArgs(w.ID).
		WillReturnRows(walletRow(w))

	result, err := repo.GetByID(context.Background(), w.ID)
	require.NoError(t, err)
	assert.Equal(t, w.ID, result.ID)
	assert.Equal(t, w.Currency, result.Currency)
	assert.True(t, result.Balance.Equal(w.Balance))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepositoryGetByIDNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewWalletRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM wallets WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
}

func TestWalletRepositoryGetByIDForUpdate(t *testing.T) {
	mock := newMockPool(t)
	repo := NewWalletRepository(mock)
	w := newTestWallet()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM wallets WHERE id .+ FOR UPDATE").
		WithArgs(w.ID).
		WillReturnRows(walletRow(w))

	tx := beginTx(t, mock)

	result, err := repo.GetByIDForUpdate(context.Background(), tx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, w.ID, result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepositoryGetByIDsForUpdate(t *testing.T) {
	mock := newMockPool(t)
	repo := NewWalletRepository(mock)
	w := newTestWallet()

	ids := []string{w.ID, "9d3f0a62-51be-4f7a-9e34-0f5d7a7f11aa"}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM wallets WHERE id = ANY.+ ORDER BY id FOR UPDATE").
		WithArgs(ids).
		WillReturnRows(walletRow(w))

	tx := beginTx(t, mock)

	wallets, err := repo.GetByIDsForUpdate(context.Background(), tx, ids)
	require.NoError(t, err)
	require.Len(t, wallets, 1)
	assert.Equal(t, w.ID, wallets[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepositoryUpdateBalance(t *testing.T) {
	mock := newMockPool(t)
	repo := NewWalletRepository(mock)
	w := newTestWallet()

	balance := decimal.RequireFromString("25.00")
	updatedAt := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE wallets SET balance").
		WithArgs(w.ID, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx := beginTx(t, mock)

	err := repo.UpdateBalance(context.Background(), tx, w.ID, balance, updatedAt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepositoryUpdateBalanceNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewWalletRepository(mock)
	w := newTestWallet()

	updatedAt := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE wallets SET balance").
		WithArgs(w.ID, decimalToNumeric(decimal.Zero), timeToPgTimestamptz(updatedAt)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx := beginTx(t, mock)

	err := repo.UpdateBalance(context.Background(), tx, w.ID, decimal.Zero, updatedAt)
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepositoryList(t *testing.T) {
	mock := newMockPool(t)
	repo := NewWalletRepository(mock)
	w := newTestWallet()

	mock.ExpectQuery("SELECT .+ FROM wallets ORDER BY created_at DESC").
		WithArgs(20, 0).
		WillReturnRows(walletRow(w))

	wallets, err := repo.List(context.Background(), 20, 0)
	require.NoError(t, err)
	require.Len(t, wallets, 1)
	assert.Equal(t, w.UserID, wallets[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
