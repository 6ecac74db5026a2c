package usecase

import (
	"errors"
	"fmt"
)

// ErrInvalidFilter is returned when a list query uses an unknown field,
// operator, or a wrong number of filter values.
var ErrInvalidFilter = errors.New("invalid transaction filter")

// FilterField enumerates the transaction fields open to filtering and ordering.
type FilterField string

const (
	FilterFieldAmount    FilterField = "amount"
	FilterFieldCreatedAt FilterField = "created_at"
	FilterFieldUpdatedAt FilterField = "updated_at"
)

// FilterOp enumerates the supported filter operators.
type FilterOp string

const (
	FilterOpGT      FilterOp = "gt"
	FilterOpGTE     FilterOp = "gte"
	FilterOpLT      FilterOp = "lt"
	FilterOpLTE     FilterOp = "lte"
	FilterOpEQ      FilterOp = "eq"
	FilterOpLike    FilterOp = "like"
	FilterOpBetween FilterOp = "between"
)

// Filter is a single field predicate. Between takes two values, every other
// operator exactly one.
type Filter struct {
	Field  FilterField
	Op     FilterOp
	Values []string
}

// Validate checks field, operator and value arity.
func (f Filter) Validate() error {
	switch f.Field {
	case FilterFieldAmount, FilterFieldCreatedAt, FilterFieldUpdatedAt:
	default:
		return fmt.Errorf("%w: unknown field %q", ErrInvalidFilter, f.Field)
	}

	switch f.Op {
	case FilterOpBetween:
		if len(f.Values) != 2 {
			return fmt.Errorf("%w: between requires two values", ErrInvalidFilter)
		}
	case FilterOpGT, FilterOpGTE, FilterOpLT, FilterOpLTE, FilterOpEQ, FilterOpLike:
		if len(f.Values) != 1 {
			return fmt.Errorf("%w: %s requires one value", ErrInvalidFilter, f.Op)
		}
	default:
		return fmt.Errorf("%w: unknown operator %q", ErrInvalidFilter, f.Op)
	}

	return nil
}

// Order is a single ordering term.
type Order struct {
	Field FilterField
	Desc  bool
}

// ListQuery carries filtering, ordering and pagination for ledger listings.
type ListQuery struct {
	Filters []Filter
	Order   []Order
	Limit   int
	Offset  int
}

// Validate checks all filters and order fields.
func (q ListQuery) Validate() error {
	for _, f := range q.Filters {
		if err := f.Validate(); err != nil {
			return err
		}
	}

	for _, o := range q.Order {
		switch o.Field {
		case FilterFieldAmount, FilterFieldCreatedAt, FilterFieldUpdatedAt:
		default:
			return fmt.Errorf("%w: unknown order field %q", ErrInvalidFilter, o.Field)
		}
	}

	return nil
}

// Normalize clamps pagination to sane bounds.
func (q ListQuery) Normalize() ListQuery {
	if q.Limit <= 0 {
		q.Limit = DefaultPageLimit
	}

	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}

	if q.Offset < 0 {
		q.Offset = 0
	}

	return q
}
