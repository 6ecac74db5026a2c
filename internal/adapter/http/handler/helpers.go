package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/leos/gowallet/internal/adapter/http/dto"
	"github.com/leos/gowallet/internal/domain"
	"github.com/leos/gowallet/internal/usecase"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps a domain error to a status and writes it.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	writeError(w, mapDomainError(err), message, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes: validation 400,
// not found 404, conflicts 409, exhausted retries 503, everything else 500.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, usecase.ErrTransientConflict):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrWalletNotFound),
		errors.Is(err, domain.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrTransactionRolledBack):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrMinDepositAmount),
		errors.Is(err, domain.ErrMinWithdrawalAmount),
		errors.Is(err, domain.ErrUnsupportedCurrency),
		errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrInvalidWalletID),
		errors.Is(err, domain.ErrInvalidTransactionType),
		errors.Is(err, domain.ErrSameWallet),
		errors.Is(err, usecase.ErrInvalidFilter):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseListQuery builds a ledger listing query from URL parameters.
// Filters use repeated `filter=field:op:value` params, with between taking
// two comma-separated values; ordering uses `order=field` or
// `order=field:desc`.
func parseListQuery(r *http.Request) (usecase.ListQuery, error) {
	query := usecase.ListQuery{
		Limit:  parseIntQuery(r, "limit", 0),
		Offset: parseIntQuery(r, "offset", 0),
	}

	for _, raw := range r.URL.Query()["filter"] {
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) != 3 {
			return usecase.ListQuery{}, fmt.Errorf("%w: malformed filter %q", usecase.ErrInvalidFilter, raw)
		}

		query.Filters = append(query.Filters, usecase.Filter{
			Field:  usecase.FilterField(parts[0]),
			Op:     usecase.FilterOp(parts[1]),
			Values: strings.Split(parts[2], ","),
		})
	}

	for _, raw := range r.URL.Query()["order"] {
		field, direction, _ := strings.Cut(raw, ":")
		query.Order = append(query.Order, usecase.Order{
			Field: usecase.FilterField(field),
			Desc:  direction == "desc",
		})
	}

	return query, nil
}
