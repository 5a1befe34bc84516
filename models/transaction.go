package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types, natures and statuses.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"

	NatureFixed    = "fixed"
	NatureVariable = "variable"

	StatusPaid    = "paid"
	StatusPending = "pending"
)

// InstallmentInfo links a transaction to its installment plan.
type InstallmentInfo struct {
	PlanID  string `json:"plan_id"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
}

// AISuggestion stores the category the AI proposed for this transaction,
// kept separate from the category the user actually chose.
type AISuggestion struct {
	Category    string          `json:"category"`
	Explanation string          `json:"explanation,omitempty"`
	Confidence  decimal.Decimal `json:"confidence"`
}

// Transaction amounts are always stored positive; direction comes from Type.
// Status `paid` means the amount is reflected in the linked account or card
// balance, `pending` means it is not.
type Transaction struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	Description  string           `json:"description"`
	Amount       decimal.Decimal  `json:"amount"`
	Type         string           `json:"type"`
	Nature       string           `json:"nature"`
	Category     string           `json:"category"`
	Status       string           `json:"status"`
	Date         time.Time        `json:"date"`
	AccountID    *string          `json:"account_id,omitempty"`
	CreditCardID *string          `json:"credit_card_id,omitempty"`
	GroupID      *string          `json:"group_id,omitempty"`
	PaidBy       string           `json:"paid_by,omitempty"`
	AISuggestion *AISuggestion    `json:"ai_suggestion,omitempty"`
	Installment  *InstallmentInfo `json:"installment,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

type CreateTransactionRequest struct {
	Description  string          `json:"description" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Type         string          `json:"type" binding:"required"`
	Nature       string          `json:"nature"`
	Category     string          `json:"category" binding:"required"`
	Status       string          `json:"status"`
	Date         time.Time       `json:"date" binding:"required"`
	AccountID    *string         `json:"account_id"`
	CreditCardID *string         `json:"credit_card_id"`
	GroupID      *string         `json:"group_id"`
	PaidBy       string          `json:"paid_by"`
	AISuggestion *AISuggestion   `json:"ai_suggestion"`
}

// UpdateTransactionRequest uses pointers so "absent" and "zero" stay distinct.
type UpdateTransactionRequest struct {
	Description  *string          `json:"description"`
	Amount       *decimal.Decimal `json:"amount"`
	Type         *string          `json:"type"`
	Nature       *string          `json:"nature"`
	Category     *string          `json:"category"`
	Status       *string          `json:"status"`
	Date         *time.Time       `json:"date"`
	AccountID    *string          `json:"account_id"`
	CreditCardID *string          `json:"credit_card_id"`
	PaidBy       *string          `json:"paid_by"`
}

// TransactionFilter mirrors the /transactions query string.
type TransactionFilter struct {
	Type         string
	Category     string
	Status       string
	AccountID    string
	CreditCardID string
	GroupID      string
	StartDate    *time.Time
	EndDate      *time.Time
	Page         int
	Limit        int
}

func validTransactionType(t string) bool { return t == TypeIncome || t == TypeExpense }
func validNature(n string) bool          { return n == NatureFixed || n == NatureVariable }
func validStatus(s string) bool          { return s == StatusPaid || s == StatusPending }

func (r *CreateTransactionRequest) Validate() error {
	fields := map[string]string{}
	if r.Description == "" {
		fields["description"] = "description is required"
	}
	if !r.Amount.IsPositive() {
		fields["amount"] = "amount must be greater than zero"
	}
	if !validTransactionType(r.Type) {
		fields["type"] = "type must be income or expense"
	}
	if r.Nature != "" && !validNature(r.Nature) {
		fields["nature"] = "nature must be fixed or variable"
	}
	if r.Category == "" {
		fields["category"] = "category is required"
	}
	if r.Status != "" && !validStatus(r.Status) {
		fields["status"] = "status must be paid or pending"
	}
	if r.Date.IsZero() {
		fields["date"] = "date is required"
	}
	if r.AccountID == nil && r.CreditCardID == nil {
		fields["account_id"] = "an account_id or credit_card_id is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (r *UpdateTransactionRequest) Validate() error {
	fields := map[string]string{}
	if r.Description != nil && *r.Description == "" {
		fields["description"] = "description cannot be empty"
	}
	if r.Amount != nil && !r.Amount.IsPositive() {
		fields["amount"] = "amount must be greater than zero"
	}
	if r.Type != nil && !validTransactionType(*r.Type) {
		fields["type"] = "type must be income or expense"
	}
	if r.Nature != nil && *r.Nature != "" && !validNature(*r.Nature) {
		fields["nature"] = "nature must be fixed or variable"
	}
	if r.Category != nil && *r.Category == "" {
		fields["category"] = "category cannot be empty"
	}
	if r.Status != nil && !validStatus(*r.Status) {
		fields["status"] = "status must be paid or pending"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Normalize applies the filter defaults and caps used by the list endpoint.
func (f *TransactionFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
}
