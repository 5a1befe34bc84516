package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account types accepted by the API.
const (
	AccountChecking   = "checking"
	AccountSavings    = "savings"
	AccountInvestment = "investment"
	AccountCredit     = "credit"
)

// Account is a bank account owned by exactly one user. Balance has no sign
// constraint: checking accounts may go negative.
type Account struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	Bank      string          `json:"bank,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CreateAccountRequest struct {
	Name    string          `json:"name" binding:"required"`
	Type    string          `json:"type" binding:"required"`
	Balance decimal.Decimal `json:"balance"`
	Bank    string          `json:"bank"`
}

type UpdateAccountRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Bank string `json:"bank"`
}

// BalanceRequest drives the manual balance endpoints for accounts and cards.
type BalanceRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Operation string          `json:"operation" binding:"required"`
}

func validAccountType(t string) bool {
	switch t {
	case AccountChecking, AccountSavings, AccountInvestment, AccountCredit:
		return true
	}
	return false
}

func (r *CreateAccountRequest) Validate() error {
	fields := map[string]string{}
	if r.Name == "" {
		fields["name"] = "name is required"
	}
	if !validAccountType(r.Type) {
		fields["type"] = "type must be one of checking, savings, investment, credit"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (r *UpdateAccountRequest) Validate() error {
	if r.Type != "" && !validAccountType(r.Type) {
		return NewValidationError("type", "type must be one of checking, savings, investment, credit")
	}
	return nil
}

func (r *BalanceRequest) Validate() error {
	fields := map[string]string{}
	if r.Amount.IsNegative() || r.Amount.IsZero() {
		fields["amount"] = "amount must be greater than zero"
	}
	if r.Operation != OpAdd && r.Operation != OpSubtract {
		fields["operation"] = "operation must be add or subtract"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Balance operations.
const (
	OpAdd      = "add"
	OpSubtract = "subtract"
)
