package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallmentAmount(t *testing.T) {
	tests := []struct {
		name         string
		total        string
		installments int
		want         string
	}{
		{name: "even split", total: "1200.00", installments: 12, want: "100"},
		{name: "rounds to cents", total: "1000.00", installments: 3, want: "333.33"},
		{name: "two installments", total: "99.99", installments: 2, want: "50"},
		{name: "zero installments", total: "100.00", installments: 0, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := decimal.NewFromString(tt.total)
			require.NoError(t, err)
			plan := Installment{TotalAmount: total, Installments: tt.installments}

			want, err := decimal.NewFromString(tt.want)
			require.NoError(t, err)
			got := plan.InstallmentAmount()
			assert.True(t, got.Equal(want), "got %s, want %s", got, want)
		})
	}
}

func TestCreateRecurringExpenseRequestValidate(t *testing.T) {
	valid := CreateRecurringExpenseRequest{
		Description: "Aluguel",
		Amount:      decimal.NewFromInt(1800),
		Category:    "Moradia",
		AccountID:   "a1",
		DayOfMonth:  5,
	}
	assert.NoError(t, valid.Validate())

	var validationErr *ValidationError

	req := valid
	req.Amount = decimal.Zero
	require.ErrorAs(t, req.Validate(), &validationErr)
	assert.Contains(t, validationErr.Fields, "amount")

	req = valid
	req.AccountID = ""
	require.ErrorAs(t, req.Validate(), &validationErr)
	assert.Contains(t, validationErr.Fields, "account_id")

	req = valid
	req.DayOfMonth = 0
	require.ErrorAs(t, req.Validate(), &validationErr)
	assert.Contains(t, validationErr.Fields, "day_of_month")

	req = valid
	req.DayOfMonth = 32
	require.ErrorAs(t, req.Validate(), &validationErr)
	assert.Contains(t, validationErr.Fields, "day_of_month")
}

func TestCreateInstallmentRequestValidate(t *testing.T) {
	valid := CreateInstallmentRequest{
		Description:  "Notebook",
		TotalAmount:  decimal.NewFromInt(4800),
		Installments: 12,
		StartDate:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		PaymentDay:   10,
		Category:     "Compras",
	}
	assert.NoError(t, valid.Validate())

	var validationErr *ValidationError

	req := valid
	req.Installments = 1
	require.ErrorAs(t, req.Validate(), &validationErr)
	assert.Contains(t, validationErr.Fields, "installments")

	req = valid
	req.TotalAmount = decimal.NewFromInt(-10)
	require.ErrorAs(t, req.Validate(), &validationErr)
	assert.Contains(t, validationErr.Fields, "total_amount")

	req = valid
	req.StartDate = time.Time{}
	require.ErrorAs(t, req.Validate(), &validationErr)
	assert.Contains(t, validationErr.Fields, "start_date")

	req = valid
	req.PaymentDay = 0
	require.ErrorAs(t, req.Validate(), &validationErr)
	assert.Contains(t, validationErr.Fields, "payment_day")
}
