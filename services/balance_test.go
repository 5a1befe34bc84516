package services

import (
	"testing"

	"financas-api/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNextBalance(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		amount    string
		operation string
		want      string
		wantErr   bool
	}{
		{name: "add", current: "100.00", amount: "30.50", operation: models.OpAdd, want: "130.50"},
		{name: "subtract", current: "100.00", amount: "30.50", operation: models.OpSubtract, want: "69.50"},
		{name: "subtract below zero allowed for accounts", current: "10.00", amount: "25.00", operation: models.OpSubtract, want: "-15.00"},
		{name: "unknown operation", current: "10.00", amount: "1.00", operation: "multiply", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextBalance(dec(tt.current), dec(tt.amount), tt.operation)
			if tt.wantErr {
				var validationErr *models.ValidationError
				require.ErrorAs(t, err, &validationErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestCheckCardBalance(t *testing.T) {
	limit := dec("500.00")

	assert.NoError(t, CheckCardBalance(dec("0"), limit, "card-1"))
	assert.NoError(t, CheckCardBalance(dec("499.99"), limit, "card-1"))
	assert.NoError(t, CheckCardBalance(dec("500.00"), limit, "card-1"), "exactly at the limit is still valid")

	var limitErr *models.LimitExceededError
	err := CheckCardBalance(dec("500.01"), limit, "card-1")
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, "card-1", limitErr.CardID)

	var negativeErr *models.NegativeBalanceError
	err = CheckCardBalance(dec("-0.01"), limit, "card-1")
	require.ErrorAs(t, err, &negativeErr)
}

func TestAccountEffect(t *testing.T) {
	amount := dec("42.75")

	assert.True(t, AccountEffect(models.TypeIncome, amount).Equal(dec("42.75")))
	assert.True(t, AccountEffect(models.TypeExpense, amount).Equal(dec("-42.75")))
}

func TestAccountEffectRoundTrip(t *testing.T) {
	// Applying an effect and then its negation restores the balance exactly.
	balance := dec("100.00")
	effect := AccountEffect(models.TypeExpense, dec("30.00"))

	after := balance.Add(effect)
	assert.True(t, after.Equal(dec("70.00")))

	restored := after.Add(effect.Neg())
	assert.True(t, restored.Equal(balance))
}

func TestCardEffect(t *testing.T) {
	amount := dec("42.75")

	assert.True(t, CardEffect(models.TypeExpense, amount).Equal(dec("42.75")))
	assert.True(t, CardEffect(models.TypeIncome, amount).IsZero(), "income does not touch card balances")
}
