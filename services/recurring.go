package services

import (
	"context"
	"database/sql"
	"time"

	"financas-api/models"
	"financas-api/utils"
)

type RecurringService struct {
	db *sql.DB
}

func NewRecurringService(db *sql.DB) *RecurringService {
	return &RecurringService{db: db}
}

// DueDate resolves a template's day-of-month within t's month, clamping
// day 29-31 to the month's last day.
func DueDate(dayOfMonth int, t time.Time) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	if dayOfMonth > lastDay {
		dayOfMonth = lastDay
	}
	return time.Date(t.Year(), t.Month(), dayOfMonth, 0, 0, 0, 0, t.Location())
}

// IsDue reports whether a template should materialize now: its day has
// arrived this month and it has not generated within this month yet.
func IsDue(dayOfMonth int, lastGenerated *time.Time, now time.Time) bool {
	due := DueDate(dayOfMonth, now)
	if now.Before(due) {
		return false
	}
	if lastGenerated == nil {
		return true
	}
	monthStart, _ := MonthWindow(now)
	return lastGenerated.Before(monthStart)
}

// Process materializes every active template due in the current month into a
// pending expense transaction. Idempotent per (template, month): the guard
// runs inside the same database transaction as the insert, so re-running the
// endpoint never duplicates a month's charge.
func (s *RecurringService) Process(ctx context.Context, userID string) (int, error) {
	now := time.Now()
	monthStart, monthEnd := MonthWindow(now)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, amount, category, account_id, day_of_month, last_generated
		FROM recurring_expenses
		WHERE user_id = $1 AND active = TRUE
	`, userID)
	if err != nil {
		return 0, err
	}

	var due []models.RecurringExpense
	for rows.Next() {
		var (
			re        models.RecurringExpense
			accountID sql.NullString
			lastGen   sql.NullTime
		)
		if err := rows.Scan(&re.ID, &re.Description, &re.Amount, &re.Category,
			&accountID, &re.DayOfMonth, &lastGen); err != nil {
			rows.Close()
			return 0, err
		}
		re.AccountID = accountID.String
		if lastGen.Valid {
			re.LastGenerated = &lastGen.Time
		}
		if IsDue(re.DayOfMonth, re.LastGenerated, now) {
			due = append(due, re)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	generated := 0
	for _, re := range due {
		if err := s.materialize(ctx, userID, &re, now, monthStart, monthEnd); err != nil {
			return generated, err
		}
		generated++
	}
	return generated, nil
}

func (s *RecurringService) materialize(ctx context.Context, userID string, re *models.RecurringExpense, now, monthStart, monthEnd time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Month-window existence check doubles as the idempotency key.
	var exists bool
	err = tx.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM transactions
			WHERE recurring_expense_id = $1 AND date >= $2 AND date <= $3
		)
	`, re.ID, monthStart, monthEnd).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return tx.Commit()
	}

	var accountID *string
	if re.AccountID != "" {
		accountID = &re.AccountID
		if err := verifyReferences(tx, userID, accountID, nil, nil); err != nil {
			return err
		}
	}

	_, err = tx.Exec(`
		INSERT INTO transactions
			(user_id, description, amount, type, nature, category, status, date,
			 account_id, recurring_expense_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, userID, re.Description, re.Amount, models.TypeExpense, models.NatureFixed,
		re.Category, models.StatusPending, DueDate(re.DayOfMonth, now), accountID, re.ID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		UPDATE recurring_expenses SET last_generated = $1, updated_at = $1 WHERE id = $2
	`, now, re.ID)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	utils.SafeDebug("recurring expense %s materialized for %s", re.ID, now.Format("2006-01"))
	return nil
}
