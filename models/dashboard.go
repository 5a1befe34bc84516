package models

import "github.com/shopspring/decimal"

// CategoryTotal is one row of the per-category breakdown.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// MonthSummary is one point of the trailing trend, labelled "YYYY-MM".
type MonthSummary struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

type CategoriesBreakdown struct {
	Expenses []CategoryTotal `json:"expenses"`
	Income   []CategoryTotal `json:"income"`
}

// DashboardSummary is the payload of GET /transactions/summary/dashboard.
// TotalBalance is the sum of the owner's account balances; the month's net
// is MonthlyBalance. The two are distinct quantities on purpose.
type DashboardSummary struct {
	MonthlyIncome       decimal.Decimal     `json:"monthly_income"`
	MonthlyExpenses     decimal.Decimal     `json:"monthly_expenses"`
	MonthlyBalance      decimal.Decimal     `json:"monthly_balance"`
	TotalBalance        decimal.Decimal     `json:"total_balance"`
	CategoriesBreakdown CategoriesBreakdown `json:"categories_breakdown"`
	MonthlyTrend        []MonthSummary      `json:"monthly_trend"`
}
