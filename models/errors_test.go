package models

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: ErrNotFound, want: http.StatusNotFound},
		{name: "wrapped not found", err: fmt.Errorf("loading account: %w", ErrNotFound), want: http.StatusNotFound},
		{name: "validation", err: NewValidationError("name", "name is required"), want: http.StatusBadRequest},
		{name: "duplicate key", err: &DuplicateKeyError{Field: "email"}, want: http.StatusBadRequest},
		{name: "limit exceeded", err: &LimitExceededError{CardID: "c1"}, want: http.StatusConflict},
		{name: "negative balance", err: &NegativeBalanceError{CardID: "c1"}, want: http.StatusConflict},
		{name: "state conflict", err: &ConflictError{Message: "plan is not active"}, want: http.StatusConflict},
		{name: "unknown", err: errors.New("connection refused"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "internal server error", PublicMessage(errors.New("pq: password authentication failed")),
		"driver errors never leak")
	assert.Equal(t, "resource not found", PublicMessage(ErrNotFound))
	assert.Equal(t, "email already exists", PublicMessage(&DuplicateKeyError{Field: "email"}))
	assert.Equal(t, "plan is not active", PublicMessage(&ConflictError{Message: "plan is not active"}))
}

func TestTranslatePQError(t *testing.T) {
	uniqueViolation := &pq.Error{Code: "23505"}
	err := TranslatePQError(uniqueViolation, "email")

	var duplicateErr *DuplicateKeyError
	require.ErrorAs(t, err, &duplicateErr)
	assert.Equal(t, "email", duplicateErr.Field)

	other := &pq.Error{Code: "23503"}
	assert.Equal(t, error(other), TranslatePQError(other, "email"), "non-unique violations pass through")

	plain := errors.New("broken pipe")
	assert.Equal(t, plain, TranslatePQError(plain, "email"))
}

func TestValidationErrorMessage(t *testing.T) {
	err := NewValidationError("amount", "amount must be greater than zero")
	assert.Contains(t, err.Error(), "amount: amount must be greater than zero")
	assert.Contains(t, err.Error(), "validation failed")
}
