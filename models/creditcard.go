package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditCard invariant: 0 <= CurrentBalance <= Limit, enforced on every write.
type CreditCard struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Name           string          `json:"name"`
	Bank           string          `json:"bank"`
	Limit          decimal.Decimal `json:"limit"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	ClosingDay     int             `json:"closing_day"`
	DueDay         int             `json:"due_day"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type CreateCreditCardRequest struct {
	Name       string          `json:"name" binding:"required"`
	Bank       string          `json:"bank" binding:"required"`
	Limit      decimal.Decimal `json:"limit" binding:"required"`
	ClosingDay int             `json:"closing_day" binding:"required"`
	DueDay     int             `json:"due_day" binding:"required"`
}

type UpdateCreditCardRequest struct {
	Name       string           `json:"name"`
	Bank       string           `json:"bank"`
	Limit      *decimal.Decimal `json:"limit"`
	ClosingDay *int             `json:"closing_day"`
	DueDay     *int             `json:"due_day"`
}

func validBillingDay(d int) bool { return d >= 1 && d <= 31 }

func (r *CreateCreditCardRequest) Validate() error {
	fields := map[string]string{}
	if r.Name == "" {
		fields["name"] = "name is required"
	}
	if r.Bank == "" {
		fields["bank"] = "bank is required"
	}
	if r.Limit.IsNegative() {
		fields["limit"] = "limit must be zero or greater"
	}
	if !validBillingDay(r.ClosingDay) {
		fields["closing_day"] = "closing_day must be between 1 and 31"
	}
	if !validBillingDay(r.DueDay) {
		fields["due_day"] = "due_day must be between 1 and 31"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (r *UpdateCreditCardRequest) Validate() error {
	fields := map[string]string{}
	if r.Limit != nil && r.Limit.IsNegative() {
		fields["limit"] = "limit must be zero or greater"
	}
	if r.ClosingDay != nil && !validBillingDay(*r.ClosingDay) {
		fields["closing_day"] = "closing_day must be between 1 and 31"
	}
	if r.DueDay != nil && !validBillingDay(*r.DueDay) {
		fields["due_day"] = "due_day must be between 1 and 31"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
