package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAccountRequestValidate(t *testing.T) {
	valid := CreateAccountRequest{Name: "Conta Corrente", Type: AccountChecking}
	assert.NoError(t, valid.Validate())

	for _, accType := range []string{AccountChecking, AccountSavings, AccountInvestment, AccountCredit} {
		req := CreateAccountRequest{Name: "Conta", Type: accType}
		assert.NoError(t, req.Validate(), accType)
	}

	var validationErr *ValidationError

	req := CreateAccountRequest{Type: AccountChecking}
	require.ErrorAs(t, req.Validate(), &validationErr)
	assert.Contains(t, validationErr.Fields, "name")

	req = CreateAccountRequest{Name: "Conta", Type: "wallet"}
	require.ErrorAs(t, req.Validate(), &validationErr)
	assert.Contains(t, validationErr.Fields, "type")
}

func TestUpdateAccountRequestValidate(t *testing.T) {
	assert.NoError(t, (&UpdateAccountRequest{}).Validate())
	assert.NoError(t, (&UpdateAccountRequest{Name: "Nova", Type: AccountSavings}).Validate())
	assert.Error(t, (&UpdateAccountRequest{Type: "wallet"}).Validate())
}

func TestBalanceRequestValidate(t *testing.T) {
	assert.NoError(t, (&BalanceRequest{Amount: decimal.NewFromInt(10), Operation: OpAdd}).Validate())
	assert.NoError(t, (&BalanceRequest{Amount: decimal.NewFromFloat(0.01), Operation: OpSubtract}).Validate())

	var validationErr *ValidationError

	err := (&BalanceRequest{Amount: decimal.Zero, Operation: OpAdd}).Validate()
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "amount")

	err = (&BalanceRequest{Amount: decimal.NewFromInt(-1), Operation: OpAdd}).Validate()
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "amount")

	err = (&BalanceRequest{Amount: decimal.NewFromInt(1), Operation: "reset"}).Validate()
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "operation")
}

func TestCreateCreditCardRequestValidate(t *testing.T) {
	valid := CreateCreditCardRequest{
		Name:       "Cartão Principal",
		Bank:       "Nubank",
		Limit:      decimal.NewFromInt(5000),
		ClosingDay: 28,
		DueDay:     5,
	}
	assert.NoError(t, valid.Validate())

	var validationErr *ValidationError

	req := valid
	req.Limit = decimal.NewFromInt(-1)
	require.ErrorAs(t, req.Validate(), &validationErr)
	assert.Contains(t, validationErr.Fields, "limit")

	req = valid
	req.ClosingDay = 0
	require.ErrorAs(t, req.Validate(), &validationErr)
	assert.Contains(t, validationErr.Fields, "closing_day")

	req = valid
	req.DueDay = 32
	require.ErrorAs(t, req.Validate(), &validationErr)
	assert.Contains(t, validationErr.Fields, "due_day")
}

func TestUpdateCreditCardRequestValidate(t *testing.T) {
	assert.NoError(t, (&UpdateCreditCardRequest{}).Validate())

	day := 15
	limit := decimal.NewFromInt(8000)
	assert.NoError(t, (&UpdateCreditCardRequest{Limit: &limit, ClosingDay: &day}).Validate())

	negative := decimal.NewFromInt(-100)
	assert.Error(t, (&UpdateCreditCardRequest{Limit: &negative}).Validate())

	badDay := 0
	assert.Error(t, (&UpdateCreditCardRequest{DueDay: &badDay}).Validate())
}
