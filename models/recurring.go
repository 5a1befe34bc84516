package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Installment plan statuses.
const (
	PlanActive    = "active"
	PlanCompleted = "completed"
	PlanCancelled = "cancelled"
)

// RecurringExpense is a monthly template that materializes into pending
// expense transactions, at most once per calendar month.
type RecurringExpense struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	AccountID     string          `json:"account_id"`
	DayOfMonth    int             `json:"day_of_month"`
	Active        bool            `json:"active"`
	LastGenerated *time.Time      `json:"last_generated,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Installment is a multi-month payment plan. Each payment emits one
// transaction carrying the plan id and a current/total counter.
type Installment struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Description  string          `json:"description"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Installments int             `json:"installments"`
	CurrentPaid  int             `json:"current_paid"`
	StartDate    time.Time       `json:"start_date"`
	PaymentDay   int             `json:"payment_day"`
	Category     string          `json:"category"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// InstallmentAmount is the per-period charge, rounded to cents.
func (i *Installment) InstallmentAmount() decimal.Decimal {
	if i.Installments <= 0 {
		return decimal.Zero
	}
	return i.TotalAmount.Div(decimal.NewFromInt(int64(i.Installments))).Round(2)
}

type CreateRecurringExpenseRequest struct {
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	AccountID   string          `json:"account_id" binding:"required"`
	DayOfMonth  int             `json:"day_of_month" binding:"required"`
}

type UpdateRecurringExpenseRequest struct {
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Category    *string          `json:"category"`
	AccountID   *string          `json:"account_id"`
	DayOfMonth  *int             `json:"day_of_month"`
	Active      *bool            `json:"active"`
}

type CreateInstallmentRequest struct {
	Description  string          `json:"description" binding:"required"`
	TotalAmount  decimal.Decimal `json:"total_amount" binding:"required"`
	Installments int             `json:"installments" binding:"required"`
	StartDate    time.Time       `json:"start_date" binding:"required"`
	PaymentDay   int             `json:"payment_day" binding:"required"`
	Category     string          `json:"category" binding:"required"`
}

// PayInstallmentRequest names where the emitted transaction should land.
type PayInstallmentRequest struct {
	AccountID    *string `json:"account_id"`
	CreditCardID *string `json:"credit_card_id"`
}

func (r *CreateRecurringExpenseRequest) Validate() error {
	fields := map[string]string{}
	if r.Description == "" {
		fields["description"] = "description is required"
	}
	if !r.Amount.IsPositive() {
		fields["amount"] = "amount must be greater than zero"
	}
	if r.Category == "" {
		fields["category"] = "category is required"
	}
	if r.AccountID == "" {
		fields["account_id"] = "account_id is required"
	}
	if r.DayOfMonth < 1 || r.DayOfMonth > 31 {
		fields["day_of_month"] = "day_of_month must be between 1 and 31"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (r *UpdateRecurringExpenseRequest) Validate() error {
	fields := map[string]string{}
	if r.Description != nil && *r.Description == "" {
		fields["description"] = "description cannot be empty"
	}
	if r.Amount != nil && !r.Amount.IsPositive() {
		fields["amount"] = "amount must be greater than zero"
	}
	if r.Category != nil && *r.Category == "" {
		fields["category"] = "category cannot be empty"
	}
	if r.DayOfMonth != nil && (*r.DayOfMonth < 1 || *r.DayOfMonth > 31) {
		fields["day_of_month"] = "day_of_month must be between 1 and 31"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (r *CreateInstallmentRequest) Validate() error {
	fields := map[string]string{}
	if r.Description == "" {
		fields["description"] = "description is required"
	}
	if !r.TotalAmount.IsPositive() {
		fields["total_amount"] = "total_amount must be greater than zero"
	}
	if r.Installments < 2 {
		fields["installments"] = "installments must be at least 2"
	}
	if r.StartDate.IsZero() {
		fields["start_date"] = "start_date is required"
	}
	if r.PaymentDay < 1 || r.PaymentDay > 31 {
		fields["payment_day"] = "payment_day must be between 1 and 31"
	}
	if r.Category == "" {
		fields["category"] = "category is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
