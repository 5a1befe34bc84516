package services

import (
	"testing"
	"time"

	"financas-api/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthWindow(t *testing.T) {
	start, end := MonthWindow(time.Date(2026, 2, 14, 15, 30, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Month(2), end.Month())
	assert.Equal(t, 28, end.Day(), "2026 is not a leap year")
	assert.True(t, end.Before(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func paidTx(txType, category, amount string, date time.Time) models.Transaction {
	return models.Transaction{
		Type:     txType,
		Category: category,
		Amount:   dec(amount),
		Status:   models.StatusPaid,
		Date:     date,
	}
}

func TestSummarizeMonthlyTotals(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	transactions := []models.Transaction{
		paidTx(models.TypeIncome, "Salário", "5000.00", time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC)),
		paidTx(models.TypeExpense, "Alimentação", "350.25", time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)),
		paidTx(models.TypeExpense, "Transporte", "120.00", time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC)),
		// previous month, must not enter the monthly totals
		paidTx(models.TypeExpense, "Alimentação", "999.00", time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)),
	}
	// pending rows never count
	pending := paidTx(models.TypeExpense, "Lazer", "80.00", time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC))
	pending.Status = models.StatusPending
	transactions = append(transactions, pending)

	summary := Summarize(transactions, dec("1234.56"), now)

	assert.True(t, summary.MonthlyIncome.Equal(dec("5000.00")))
	assert.True(t, summary.MonthlyExpenses.Equal(dec("470.25")))
	assert.True(t, summary.MonthlyBalance.Equal(dec("4529.75")), "monthly balance is income minus expenses")
	assert.True(t, summary.TotalBalance.Equal(dec("1234.56")), "total balance comes from accounts, not transactions")
}

func TestSummarizeTrendIsZeroFilledAndAscending(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	transactions := []models.Transaction{
		paidTx(models.TypeIncome, "Salário", "100.00", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)),
		paidTx(models.TypeExpense, "Moradia", "40.00", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)),
	}

	summary := Summarize(transactions, decimal.Zero, now)

	require.Len(t, summary.MonthlyTrend, 6)
	labels := make([]string, 0, 6)
	for _, m := range summary.MonthlyTrend {
		labels = append(labels, m.Month)
	}
	assert.Equal(t, []string{"2026-03", "2026-04", "2026-05", "2026-06", "2026-07", "2026-08"}, labels)

	// months without activity stay present with zero values
	assert.True(t, summary.MonthlyTrend[0].Income.IsZero())
	assert.True(t, summary.MonthlyTrend[0].Expenses.IsZero())
	assert.True(t, summary.MonthlyTrend[0].Balance.IsZero())

	june := summary.MonthlyTrend[3]
	assert.True(t, june.Expenses.Equal(dec("40.00")))
	assert.True(t, june.Balance.Equal(dec("-40.00")))

	august := summary.MonthlyTrend[5]
	assert.True(t, august.Income.Equal(dec("100.00")))
	assert.True(t, august.Balance.Equal(dec("100.00")))
}

func TestSummarizeTrendOnMonthEndDate(t *testing.T) {
	// March 31: stepping back whole months must not overflow through
	// shorter months (Feb 31 -> Mar 3) and skip or duplicate labels.
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

	transactions := []models.Transaction{
		paidTx(models.TypeExpense, "Moradia", "75.00", time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)),
		paidTx(models.TypeIncome, "Salário", "40.00", time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC)),
	}

	summary := Summarize(transactions, decimal.Zero, now)

	require.Len(t, summary.MonthlyTrend, 6)
	labels := make([]string, 0, 6)
	for _, m := range summary.MonthlyTrend {
		labels = append(labels, m.Month)
	}
	assert.Equal(t, []string{"2025-10", "2025-11", "2025-12", "2026-01", "2026-02", "2026-03"}, labels)

	assert.True(t, summary.MonthlyTrend[1].Income.Equal(dec("40.00")), "november keeps its activity")
	assert.True(t, summary.MonthlyTrend[4].Expenses.Equal(dec("75.00")), "february keeps its activity")
}

func TestSummarizeCategoryBreakdown(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	day := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)

	transactions := []models.Transaction{
		paidTx(models.TypeExpense, "Alimentação", "100.00", day),
		paidTx(models.TypeExpense, "Alimentação", "50.00", day),
		paidTx(models.TypeExpense, "Transporte", "150.00", day),
		paidTx(models.TypeExpense, "Lazer", "30.00", day),
		paidTx(models.TypeIncome, "Salário", "2000.00", day),
	}

	summary := Summarize(transactions, decimal.Zero, now)

	expenses := summary.CategoriesBreakdown.Expenses
	require.Len(t, expenses, 3)

	// sorted by total descending, ties broken by name
	assert.Equal(t, "Alimentação", expenses[0].Category)
	assert.True(t, expenses[0].Total.Equal(dec("150.00")))
	assert.Equal(t, 2, expenses[0].Count)
	assert.Equal(t, "Transporte", expenses[1].Category)
	assert.Equal(t, "Lazer", expenses[2].Category)

	require.Len(t, summary.CategoriesBreakdown.Income, 1)
	assert.Equal(t, "Salário", summary.CategoriesBreakdown.Income[0].Category)

	var expenseSum decimal.Decimal
	for _, c := range expenses {
		expenseSum = expenseSum.Add(c.Total)
	}
	assert.True(t, expenseSum.Equal(summary.MonthlyExpenses), "breakdown totals add up to the monthly figure")
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil, decimal.Zero, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC))

	assert.True(t, summary.MonthlyIncome.IsZero())
	assert.True(t, summary.MonthlyExpenses.IsZero())
	assert.True(t, summary.MonthlyBalance.IsZero())
	assert.NotNil(t, summary.CategoriesBreakdown.Expenses)
	assert.NotNil(t, summary.CategoriesBreakdown.Income)
	assert.Len(t, summary.MonthlyTrend, 6)
}
