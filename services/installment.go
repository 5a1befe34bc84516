package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"financas-api/models"
)

type InstallmentService struct {
	db *sql.DB
}

func NewInstallmentService(db *sql.DB) *InstallmentService {
	return &InstallmentService{db: db}
}

func scanInstallment(row rowScanner) (*models.Installment, error) {
	var i models.Installment
	err := row.Scan(&i.ID, &i.UserID, &i.Description, &i.TotalAmount,
		&i.Installments, &i.CurrentPaid, &i.StartDate, &i.PaymentDay,
		&i.Category, &i.Status, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

const installmentColumns = `
	id, user_id, description, total_amount, installments, current_paid,
	start_date, payment_day, category, status, created_at, updated_at`

func (s *InstallmentService) Create(ctx context.Context, userID string, req *models.CreateInstallmentRequest) (*models.Installment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO installments
			(user_id, description, total_amount, installments, start_date, payment_day, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+installmentColumns,
		userID, req.Description, req.TotalAmount, req.Installments,
		req.StartDate, req.PaymentDay, req.Category)
	return scanInstallment(row)
}

func (s *InstallmentService) Get(ctx context.Context, userID, id string) (*models.Installment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+installmentColumns+` FROM installments
		WHERE id = $1 AND user_id = $2
	`, id, userID)

	plan, err := scanInstallment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	return plan, err
}

func (s *InstallmentService) List(ctx context.Context, userID string) ([]models.Installment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+installmentColumns+` FROM installments
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []models.Installment{}
	for rows.Next() {
		p, err := scanInstallment(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}

// Cancel marks an active plan cancelled. Already-emitted transactions stay.
func (s *InstallmentService) Cancel(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE installments SET status = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4 AND status = $5
	`, models.PlanCancelled, time.Now(), id, userID, models.PlanActive)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := s.Get(ctx, userID, id); err != nil {
			return err
		}
		return &models.ConflictError{Message: "installment plan is not active"}
	}
	return nil
}

// Pay emits the plan's next paid expense transaction against the given
// account or card, links it to the plan with its current/total counter, and
// completes the plan after the last period. One database transaction covers
// the ledger row, the balance effect and the plan counters.
func (s *InstallmentService) Pay(ctx context.Context, userID, id string, req *models.PayInstallmentRequest) (*models.Transaction, error) {
	if req.AccountID == nil && req.CreditCardID == nil {
		return nil, models.NewValidationError("account_id", "an account_id or credit_card_id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		SELECT `+installmentColumns+` FROM installments
		WHERE id = $1 AND user_id = $2
		FOR UPDATE
	`, id, userID)

	plan, err := scanInstallment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if plan.Status != models.PlanActive {
		return nil, &models.ConflictError{Message: "installment plan is not active"}
	}

	if err := verifyReferences(tx, userID, req.AccountID, req.CreditCardID, nil); err != nil {
		return nil, err
	}

	amount := plan.InstallmentAmount()
	current := plan.CurrentPaid + 1

	if err := applyEffects(tx, userID, models.TypeExpense, amount, req.AccountID, req.CreditCardID); err != nil {
		return nil, err
	}

	dueDate := DueDate(plan.PaymentDay, plan.StartDate.AddDate(0, plan.CurrentPaid, 0))

	txRow := tx.QueryRow(`
		INSERT INTO transactions
			(user_id, description, amount, type, nature, category, status, date,
			 account_id, credit_card_id,
			 installment_plan_id, installment_current, installment_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+transactionColumns,
		userID, plan.Description, amount, models.TypeExpense, models.NatureFixed,
		plan.Category, models.StatusPaid, dueDate, req.AccountID, req.CreditCardID,
		plan.ID, current, plan.Installments)

	created, err := scanTransaction(txRow)
	if err != nil {
		return nil, err
	}

	status := models.PlanActive
	if current >= plan.Installments {
		status = models.PlanCompleted
	}
	if _, err := tx.Exec(`
		UPDATE installments SET current_paid = $1, status = $2, updated_at = $3 WHERE id = $4
	`, current, status, time.Now(), plan.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}
