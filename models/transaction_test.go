package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func validCreateRequest() CreateTransactionRequest {
	return CreateTransactionRequest{
		Description: "Mercado",
		Amount:      decimal.NewFromFloat(45.90),
		Type:        TypeExpense,
		Category:    "Alimentação",
		Date:        time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		AccountID:   strPtr("a1"),
	}
}

func TestCreateTransactionRequestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*CreateTransactionRequest)
		wantField string
	}{
		{name: "valid", mutate: func(r *CreateTransactionRequest) {}},
		{name: "missing description", mutate: func(r *CreateTransactionRequest) { r.Description = "" }, wantField: "description"},
		{name: "zero amount", mutate: func(r *CreateTransactionRequest) { r.Amount = decimal.Zero }, wantField: "amount"},
		{name: "negative amount", mutate: func(r *CreateTransactionRequest) { r.Amount = decimal.NewFromInt(-5) }, wantField: "amount"},
		{name: "bad type", mutate: func(r *CreateTransactionRequest) { r.Type = "transfer" }, wantField: "type"},
		{name: "bad nature", mutate: func(r *CreateTransactionRequest) { r.Nature = "monthly" }, wantField: "nature"},
		{name: "missing category", mutate: func(r *CreateTransactionRequest) { r.Category = "" }, wantField: "category"},
		{name: "bad status", mutate: func(r *CreateTransactionRequest) { r.Status = "scheduled" }, wantField: "status"},
		{name: "zero date", mutate: func(r *CreateTransactionRequest) { r.Date = time.Time{} }, wantField: "date"},
		{name: "no account or card", mutate: func(r *CreateTransactionRequest) { r.AccountID = nil }, wantField: "account_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Fields, tt.wantField)
		})
	}
}

func TestCreateTransactionRequestCardOnly(t *testing.T) {
	req := validCreateRequest()
	req.AccountID = nil
	req.CreditCardID = strPtr("c1")
	assert.NoError(t, req.Validate())
}

func TestCreateTransactionRequestCollectsAllFields(t *testing.T) {
	req := CreateTransactionRequest{}
	err := req.Validate()

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	for _, field := range []string{"description", "amount", "type", "category", "date", "account_id"} {
		assert.Contains(t, validationErr.Fields, field)
	}
}

func TestUpdateTransactionRequestValidate(t *testing.T) {
	zero := decimal.Zero
	empty := ""
	bad := "transfer"

	assert.NoError(t, (&UpdateTransactionRequest{}).Validate(), "empty patch is a no-op")
	assert.NoError(t, (&UpdateTransactionRequest{Description: strPtr("Luz")}).Validate())

	var validationErr *ValidationError
	require.ErrorAs(t, (&UpdateTransactionRequest{Amount: &zero}).Validate(), &validationErr)
	require.ErrorAs(t, (&UpdateTransactionRequest{Description: &empty}).Validate(), &validationErr)
	require.ErrorAs(t, (&UpdateTransactionRequest{Type: &bad}).Validate(), &validationErr)
	require.ErrorAs(t, (&UpdateTransactionRequest{Status: &empty}).Validate(), &validationErr)
}

func TestTransactionFilterNormalize(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{name: "defaults", page: 0, limit: 0, wantPage: 1, wantLimit: 20},
		{name: "negative page", page: -3, limit: 10, wantPage: 1, wantLimit: 10},
		{name: "limit capped", page: 2, limit: 500, wantPage: 2, wantLimit: 100},
		{name: "kept as is", page: 3, limit: 50, wantPage: 3, wantLimit: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := TransactionFilter{Page: tt.page, Limit: tt.limit}
			f.Normalize()
			assert.Equal(t, tt.wantPage, f.Page)
			assert.Equal(t, tt.wantLimit, f.Limit)
		})
	}
}
