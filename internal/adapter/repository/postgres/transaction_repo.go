package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/leos/gowallet/internal/domain"
	"github.com/leos/gowallet/internal/usecase"
)

const transactionColumns = "id, kind, wallet_id, amount, currency, provider, reference_id, created_at, updated_at"

// TransactionRepository implements usecase.TransactionRepository over the
// append-only transactions table. Entries are only ever inserted, never
// updated or deleted.
type TransactionRepository struct {
	pool Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create inserts a ledger entry within a database transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, transaction *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := pgxTx.Exec(ctx, query,
		transaction.ID,
		string(transaction.Kind),
		transaction.WalletID,
		decimalToNumeric(transaction.Amount.Amount),
		string(transaction.Amount.Currency),
		transaction.Provider,
		transaction.ReferenceID,
		timeToPgTimestamptz(transaction.CreatedAt),
		timeToPgTimestamptz(transaction.UpdatedAt),
	)

	return err
}

// GetByID retrieves a ledger entry by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	return scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// HasRollback reports whether a compensating entry already references the
// given original entry. Runs inside the caller's transaction so the check
// is covered by the wallet row lock.
func (r *TransactionRepository) HasRollback(ctx context.Context, tx usecase.Transaction, originalID string) (bool, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT EXISTS(SELECT 1 FROM transactions WHERE reference_id = $1)`

	var exists bool
	if err := pgxTx.QueryRow(ctx, query, originalID).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// ListByWallet fetches a wallet's ledger entries with filtering, ordering
// and pagination. The query is validated and normalized by the caller;
// field and operator names are mapped through whitelists here, never
// interpolated from input.
func (r *TransactionRepository) ListByWallet(ctx context.Context, walletID string, query usecase.ListQuery) ([]*domain.Transaction, error) {
	conditions := []string{"wallet_id = $1"}
	args := []any{walletID}
	argIdx := 2

	for _, f := range query.Filters {
		column, err := filterColumn(f.Field)
		if err != nil {
			return nil, err
		}

		switch f.Op {
		case usecase.FilterOpBetween:
			conditions = append(conditions, fmt.Sprintf("%s BETWEEN $%d AND $%d", column, argIdx, argIdx+1))
			args = append(args, f.Values[0], f.Values[1])
			argIdx += 2
		case usecase.FilterOpLike:
			conditions = append(conditions, fmt.Sprintf("%s::text LIKE $%d", column, argIdx))
			args = append(args, f.Values[0])
			argIdx++
		default:
			op, err := filterOperator(f.Op)
			if err != nil {
				return nil, err
			}

			conditions = append(conditions, fmt.Sprintf("%s %s $%d", column, op, argIdx))
			args = append(args, f.Values[0])
			argIdx++
		}
	}

	orderBy, err := orderClause(query.Order)
	if err != nil {
		return nil, err
	}

	sql := fmt.Sprintf(`SELECT %s FROM transactions WHERE %s %s LIMIT $%d OFFSET $%d`,
		transactionColumns, strings.Join(conditions, " AND "), orderBy, argIdx, argIdx+1)
	args = append(args, query.Limit, query.Offset)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0, query.Limit)

	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}

		transactions = append(transactions, transaction)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return transactions, nil
}

// SumByWallet computes the wallet's balance from its ledger entries.
// Deposits and withdrawal rollbacks count positive, withdrawals and
// deposit rollbacks negative.
func (r *TransactionRepository) SumByWallet(ctx context.Context, walletID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(
			CASE WHEN kind IN ('deposit', 'rollback_withdrawal') THEN amount ELSE -amount END
		), 0)
		FROM transactions WHERE wallet_id = $1`

	var sum pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, walletID).Scan(&sum); err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

func filterColumn(field usecase.FilterField) (string, error) {
	switch field {
	case usecase.FilterFieldAmount:
		return "amount", nil
	case usecase.FilterFieldCreatedAt:
		return "created_at", nil
	case usecase.FilterFieldUpdatedAt:
		return "updated_at", nil
	default:
		return "", fmt.Errorf("%w: unknown field %q", usecase.ErrInvalidFilter, field)
	}
}

func filterOperator(op usecase.FilterOp) (string, error) {
	switch op {
	case usecase.FilterOpGT:
		return ">", nil
	case usecase.FilterOpGTE:
		return ">=", nil
	case usecase.FilterOpLT:
		return "<", nil
	case usecase.FilterOpLTE:
		return "<=", nil
	case usecase.FilterOpEQ:
		return "=", nil
	default:
		return "", fmt.Errorf("%w: unknown operator %q", usecase.ErrInvalidFilter, op)
	}
}

func orderClause(order []usecase.Order) (string, error) {
	if len(order) == 0 {
		return "ORDER BY created_at DESC", nil
	}

	terms := make([]string, 0, len(order))

	for _, o := range order {
		column, err := filterColumn(o.Field)
		if err != nil {
			return "", err
		}

		direction := "ASC"
		if o.Desc {
			direction = "DESC"
		}

		terms = append(terms, column+" "+direction)
	}

	return "ORDER BY " + strings.Join(terms, ", "), nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		transaction domain.Transaction
		kind        string
		amount      pgtype.Numeric
		currency    string
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)

	err := row.Scan(
		&transaction.ID,
		&kind,
		&transaction.WalletID,
		&amount,
		&currency,
		&transaction.Provider,
		&transaction.ReferenceID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	transaction.Kind = domain.TransactionKind(kind)
	transaction.Amount = domain.Money{
		Amount:   numericToDecimal(amount),
		Currency: domain.Currency(currency),
	}
	transaction.CreatedAt = createdAt.Time
	transaction.UpdatedAt = updatedAt.Time

	return &transaction, nil
}
