package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"financas-api/models"

	"github.com/shopspring/decimal"
)

// Trailing months covered by the dashboard trend, current month included.
const trendMonths = 6

type DashboardService struct {
	db *sql.DB
}

func NewDashboardService(db *sql.DB) *DashboardService {
	return &DashboardService{db: db}
}

// MonthWindow returns the first and last instant of t's calendar month.
func MonthWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// Summarize computes the dashboard payload from the paid transactions of the
// trailing trend window. Pure function; callers fetch the rows.
func Summarize(transactions []models.Transaction, totalBalance decimal.Decimal, now time.Time) *models.DashboardSummary {
	monthStart, monthEnd := MonthWindow(now)

	summary := &models.DashboardSummary{
		MonthlyIncome:   decimal.Zero,
		MonthlyExpenses: decimal.Zero,
		TotalBalance:    totalBalance,
		CategoriesBreakdown: models.CategoriesBreakdown{
			Expenses: []models.CategoryTotal{},
			Income:   []models.CategoryTotal{},
		},
	}

	expenseCategories := map[string]*models.CategoryTotal{}
	incomeCategories := map[string]*models.CategoryTotal{}

	// Step whole months from the first of the month; AddDate on a raw
	// month-end date overflows (Mar 31 minus one month lands on Mar 3).
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	trend := make([]models.MonthSummary, trendMonths)
	trendIndex := map[string]int{}
	for i := 0; i < trendMonths; i++ {
		label := firstOfMonth.AddDate(0, i-(trendMonths-1), 0).Format("2006-01")
		trend[i] = models.MonthSummary{
			Month:    label,
			Income:   decimal.Zero,
			Expenses: decimal.Zero,
			Balance:  decimal.Zero,
		}
		trendIndex[label] = i
	}

	for _, t := range transactions {
		if t.Status != models.StatusPaid {
			continue
		}

		inMonth := !t.Date.Before(monthStart) && !t.Date.After(monthEnd)
		if inMonth {
			switch t.Type {
			case models.TypeIncome:
				summary.MonthlyIncome = summary.MonthlyIncome.Add(t.Amount)
				accumulateCategory(incomeCategories, t.Category, t.Amount)
			case models.TypeExpense:
				summary.MonthlyExpenses = summary.MonthlyExpenses.Add(t.Amount)
				accumulateCategory(expenseCategories, t.Category, t.Amount)
			}
		}

		if i, ok := trendIndex[t.Date.Format("2006-01")]; ok {
			switch t.Type {
			case models.TypeIncome:
				trend[i].Income = trend[i].Income.Add(t.Amount)
			case models.TypeExpense:
				trend[i].Expenses = trend[i].Expenses.Add(t.Amount)
			}
		}
	}

	summary.MonthlyBalance = summary.MonthlyIncome.Sub(summary.MonthlyExpenses)
	for i := range trend {
		trend[i].Balance = trend[i].Income.Sub(trend[i].Expenses)
	}
	summary.MonthlyTrend = trend
	summary.CategoriesBreakdown.Expenses = sortedCategories(expenseCategories)
	summary.CategoriesBreakdown.Income = sortedCategories(incomeCategories)

	return summary
}

func accumulateCategory(m map[string]*models.CategoryTotal, category string, amount decimal.Decimal) {
	entry, ok := m[category]
	if !ok {
		entry = &models.CategoryTotal{Category: category, Total: decimal.Zero}
		m[category] = entry
	}
	entry.Total = entry.Total.Add(amount)
	entry.Count++
}

func sortedCategories(m map[string]*models.CategoryTotal) []models.CategoryTotal {
	out := make([]models.CategoryTotal, 0, len(m))
	for _, entry := range m {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Summary builds the dashboard for the caller, or for a group the caller
// belongs to when groupID is non-empty.
func (s *DashboardService) Summary(ctx context.Context, userID, groupID string) (*models.DashboardSummary, error) {
	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	windowStart := firstOfMonth.AddDate(0, -(trendMonths-1), 0)
	_, windowEnd := MonthWindow(now)

	scope := "user_id = $1"
	scopeArg := userID
	if groupID != "" {
		var one int
		err := s.db.QueryRowContext(ctx, `SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2`,
			groupID, userID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		scope = "group_id = $1"
		scopeArg = groupID
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE `+scope+` AND status = 'paid' AND date >= $2 AND date <= $3
	`, scopeArg, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// TotalBalance is always the sum of the caller's own account balances,
	// regardless of group scope.
	var totalBalance decimal.Decimal
	err = s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(balance), 0) FROM accounts WHERE user_id = $1
	`, userID).Scan(&totalBalance)
	if err != nil {
		return nil, err
	}

	return Summarize(transactions, totalBalance, now), nil
}
