package models

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lib/pq"
)

// ErrNotFound covers both "does not exist" and "not owned by the caller".
// Ownership misses are deliberately indistinguishable from absence so that
// probing for other users' IDs leaks nothing.
var ErrNotFound = errors.New("resource not found")

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// DuplicateKeyError maps Postgres unique violations to a user-facing 400.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

// LimitExceededError is returned when a credit-card mutation would push
// current_balance above the card's limit. State conflict, not bad input.
type LimitExceededError struct {
	CardID string
}

func (e *LimitExceededError) Error() string {
	return "operation would exceed the credit card limit"
}

// NegativeBalanceError is returned when a credit-card mutation would push
// current_balance below zero.
type NegativeBalanceError struct {
	CardID string
}

func (e *NegativeBalanceError) Error() string {
	return "operation would make the credit card balance negative"
}

// ConflictError reports an operation rejected by the entity's current state,
// e.g. paying a completed installment plan or deleting an account that still
// has transactions.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// TranslatePQError converts driver-level constraint errors into domain errors.
func TranslatePQError(err error, field string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return &DuplicateKeyError{Field: field}
	}
	return err
}

// StatusFor resolves a domain error to the HTTP status the handlers answer with.
func StatusFor(err error) int {
	var (
		validationErr *ValidationError
		duplicateErr  *DuplicateKeyError
		limitErr      *LimitExceededError
		negativeErr   *NegativeBalanceError
		conflictErr   *ConflictError
	)
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &validationErr), errors.As(err, &duplicateErr):
		return http.StatusBadRequest
	case errors.As(err, &limitErr), errors.As(err, &negativeErr), errors.As(err, &conflictErr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage hides internal details on 500s while keeping domain errors verbatim.
func PublicMessage(err error) string {
	if StatusFor(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
