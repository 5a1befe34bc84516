package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"financas-api/models"

	"github.com/shopspring/decimal"
)

// TransactionService owns the transaction lifecycle: every create, update and
// delete runs in a single database transaction together with its account or
// credit-card balance side effect, so the net balance always equals the sum
// of effects of all paid transactions, whatever the interleaving.
type TransactionService struct {
	db *sql.DB
}

func NewTransactionService(db *sql.DB) *TransactionService {
	return &TransactionService{db: db}
}

const transactionColumns = `
	id, user_id, description, amount, type, nature, category, status, date,
	account_id, credit_card_id, group_id, paid_by,
	ai_category, ai_explanation, ai_confidence,
	installment_plan_id, installment_current, installment_total,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var (
		t            models.Transaction
		accountID    sql.NullString
		creditCardID sql.NullString
		groupID      sql.NullString
		paidBy       sql.NullString
		aiCategory   sql.NullString
		aiExplain    sql.NullString
		aiConfidence decimal.NullDecimal
		planID       sql.NullString
		planCurrent  sql.NullInt64
		planTotal    sql.NullInt64
	)

	err := row.Scan(
		&t.ID, &t.UserID, &t.Description, &t.Amount, &t.Type, &t.Nature,
		&t.Category, &t.Status, &t.Date,
		&accountID, &creditCardID, &groupID, &paidBy,
		&aiCategory, &aiExplain, &aiConfidence,
		&planID, &planCurrent, &planTotal,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if accountID.Valid {
		t.AccountID = &accountID.String
	}
	if creditCardID.Valid {
		t.CreditCardID = &creditCardID.String
	}
	if groupID.Valid {
		t.GroupID = &groupID.String
	}
	if paidBy.Valid {
		t.PaidBy = paidBy.String
	}
	if aiCategory.Valid {
		t.AISuggestion = &models.AISuggestion{
			Category:    aiCategory.String,
			Explanation: aiExplain.String,
			Confidence:  aiConfidence.Decimal,
		}
	}
	if planID.Valid {
		t.Installment = &models.InstallmentInfo{
			PlanID:  planID.String,
			Current: int(planCurrent.Int64),
			Total:   int(planTotal.Int64),
		}
	}
	return &t, nil
}

// verifyReferences checks, inside the transaction, that every referenced
// entity belongs to the caller before anything is mutated. A miss is a 404,
// never a 403, so probing leaks nothing.
func verifyReferences(tx *sql.Tx, userID string, accountID, creditCardID, groupID *string) error {
	if accountID != nil {
		var one int
		err := tx.QueryRow(`SELECT 1 FROM accounts WHERE id = $1 AND user_id = $2`, *accountID, userID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNotFound
		}
		if err != nil {
			return err
		}
	}
	if creditCardID != nil {
		var one int
		err := tx.QueryRow(`SELECT 1 FROM credit_cards WHERE id = $1 AND user_id = $2`, *creditCardID, userID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNotFound
		}
		if err != nil {
			return err
		}
	}
	if groupID != nil {
		var one int
		err := tx.QueryRow(`SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2`, *groupID, userID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNotFound
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// applyEffects applies (or, with negated amounts, reverses) a paid
// transaction's balance side effects.
func applyEffects(tx *sql.Tx, userID, txType string, amount decimal.Decimal, accountID, creditCardID *string) error {
	if accountID != nil {
		if err := applyAccountDelta(tx, *accountID, userID, AccountEffect(txType, amount)); err != nil {
			return err
		}
	}
	if creditCardID != nil {
		if err := applyCardDelta(tx, *creditCardID, userID, CardEffect(txType, amount)); err != nil {
			return err
		}
	}
	return nil
}

func (s *TransactionService) Create(ctx context.Context, userID string, req *models.CreateTransactionRequest) (*models.Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.StatusPaid
	}
	nature := req.Nature
	if nature == "" {
		nature = models.NatureVariable
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := verifyReferences(tx, userID, req.AccountID, req.CreditCardID, req.GroupID); err != nil {
		return nil, err
	}

	if status == models.StatusPaid {
		if err := applyEffects(tx, userID, req.Type, req.Amount, req.AccountID, req.CreditCardID); err != nil {
			return nil, err
		}
	}

	var aiCategory, aiExplain interface{}
	var aiConfidence interface{}
	if req.AISuggestion != nil {
		aiCategory = req.AISuggestion.Category
		aiExplain = req.AISuggestion.Explanation
		aiConfidence = req.AISuggestion.Confidence
	}

	row := tx.QueryRow(`
		INSERT INTO transactions
			(user_id, description, amount, type, nature, category, status, date,
			 account_id, credit_card_id, group_id, paid_by,
			 ai_category, ai_explanation, ai_confidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''), $13, $14, $15)
		RETURNING `+transactionColumns,
		userID, req.Description, req.Amount, req.Type, nature, req.Category,
		status, req.Date, req.AccountID, req.CreditCardID, req.GroupID,
		req.PaidBy, aiCategory, aiExplain, aiConfidence,
	)

	created, err := scanTransaction(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *TransactionService) Get(ctx context.Context, userID, id string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE id = $1 AND user_id = $2
	`, id, userID)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Update reverses the stored transaction's balance effect (if it was paid),
// applies the field changes, then reapplies the effect under the new amount,
// type and references (if the result is paid). All of it commits atomically;
// any invariant violation rolls everything back.
func (s *TransactionService) Update(ctx context.Context, userID, id string, req *models.UpdateTransactionRequest) (*models.Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		SELECT `+transactionColumns+` FROM transactions
		WHERE id = $1 AND user_id = $2
		FOR UPDATE
	`, id, userID)

	old, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	updated := *old
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.Amount != nil {
		updated.Amount = *req.Amount
	}
	if req.Type != nil {
		updated.Type = *req.Type
	}
	if req.Nature != nil {
		updated.Nature = *req.Nature
	}
	if req.Category != nil {
		updated.Category = *req.Category
	}
	if req.Status != nil {
		updated.Status = *req.Status
	}
	if req.Date != nil {
		updated.Date = *req.Date
	}
	if req.AccountID != nil {
		updated.AccountID = req.AccountID
	}
	if req.CreditCardID != nil {
		updated.CreditCardID = req.CreditCardID
	}
	if req.PaidBy != nil {
		updated.PaidBy = *req.PaidBy
	}

	if updated.AccountID == nil && updated.CreditCardID == nil {
		return nil, models.NewValidationError("account_id", "an account_id or credit_card_id is required")
	}

	// Validate the new references before touching any balance.
	if err := verifyReferences(tx, userID, updated.AccountID, updated.CreditCardID, nil); err != nil {
		return nil, err
	}

	if old.Status == models.StatusPaid {
		if err := applyEffects(tx, userID, old.Type, old.Amount.Neg(), old.AccountID, old.CreditCardID); err != nil {
			return nil, err
		}
	}
	if updated.Status == models.StatusPaid {
		if err := applyEffects(tx, userID, updated.Type, updated.Amount, updated.AccountID, updated.CreditCardID); err != nil {
			return nil, err
		}
	}

	row = tx.QueryRow(`
		UPDATE transactions SET
			description = $1, amount = $2, type = $3, nature = $4, category = $5,
			status = $6, date = $7, account_id = $8, credit_card_id = $9,
			paid_by = NULLIF($10, ''), updated_at = $11
		WHERE id = $12
		RETURNING `+transactionColumns,
		updated.Description, updated.Amount, updated.Type, updated.Nature,
		updated.Category, updated.Status, updated.Date, updated.AccountID,
		updated.CreditCardID, updated.PaidBy, time.Now(), id,
	)

	result, err := scanTransaction(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		SELECT `+transactionColumns+` FROM transactions
		WHERE id = $1 AND user_id = $2
		FOR UPDATE
	`, id, userID)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	if err != nil {
		return err
	}

	if t.Status == models.StatusPaid {
		if err := applyEffects(tx, userID, t.Type, t.Amount.Neg(), t.AccountID, t.CreditCardID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`DELETE FROM transactions WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}

// List returns a page of transactions matching the filter, newest first.
// With GroupID set the caller must be a member; the page then spans every
// member's group-linked transactions.
func (s *TransactionService) List(ctx context.Context, userID string, filter *models.TransactionFilter) ([]models.Transaction, int, error) {
	filter.Normalize()

	where := "user_id = $1"
	args := []interface{}{userID}

	if filter.GroupID != "" {
		var one int
		err := s.db.QueryRowContext(ctx, `SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2`,
			filter.GroupID, userID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, models.ErrNotFound
		}
		if err != nil {
			return nil, 0, err
		}
		where = "group_id = $1"
		args = []interface{}{filter.GroupID}
	}

	addClause := func(clause string, value interface{}) {
		args = append(args, value)
		where += fmt.Sprintf(" AND "+clause, len(args))
	}

	if filter.Type != "" {
		addClause("type = $%d", filter.Type)
	}
	if filter.Category != "" {
		addClause("category ILIKE '%%' || $%d || '%%'", filter.Category)
	}
	if filter.Status != "" {
		addClause("status = $%d", filter.Status)
	}
	if filter.AccountID != "" {
		addClause("account_id = $%d", filter.AccountID)
	}
	if filter.CreditCardID != "" {
		addClause("credit_card_id = $%d", filter.CreditCardID)
	}
	if filter.StartDate != nil {
		addClause("date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		addClause("date <= $%d", *filter.EndDate)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`
		SELECT %s FROM transactions
		WHERE %s
		ORDER BY date DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, transactionColumns, where, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, total, rows.Err()
}
