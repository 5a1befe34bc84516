package services

import (
	"database/sql"
	"errors"
	"time"

	"financas-api/models"

	"github.com/shopspring/decimal"
)

// NextBalance applies a signed delta to a balance for the manual balance
// endpoints. Accounts have no range constraint.
func NextBalance(current, amount decimal.Decimal, operation string) (decimal.Decimal, error) {
	switch operation {
	case models.OpAdd:
		return current.Add(amount), nil
	case models.OpSubtract:
		return current.Sub(amount), nil
	default:
		return decimal.Zero, models.NewValidationError("operation", "operation must be add or subtract")
	}
}

// CheckCardBalance enforces 0 <= balance <= limit for credit cards.
func CheckCardBalance(next, limit decimal.Decimal, cardID string) error {
	if next.IsNegative() {
		return &models.NegativeBalanceError{CardID: cardID}
	}
	if next.GreaterThan(limit) {
		return &models.LimitExceededError{CardID: cardID}
	}
	return nil
}

// AccountEffect is the signed delta a paid transaction applies to its linked
// account balance: +amount for income, -amount for expense.
func AccountEffect(txType string, amount decimal.Decimal) decimal.Decimal {
	if txType == models.TypeIncome {
		return amount
	}
	return amount.Neg()
}

// CardEffect is the delta a paid transaction applies to its linked card's
// current_balance. Only expenses mutate the card; income against a card
// (refunds) is out of scope of automatic mutation.
func CardEffect(txType string, amount decimal.Decimal) decimal.Decimal {
	if txType == models.TypeExpense {
		return amount
	}
	return decimal.Zero
}

// applyAccountDelta adds delta to the account balance under a row lock.
// Must run inside the transaction that also writes the ledger row, so the
// balance and the transaction record commit or roll back together.
func applyAccountDelta(tx *sql.Tx, accountID, userID string, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}

	var balance decimal.Decimal
	err := tx.QueryRow(`
		SELECT balance FROM accounts
		WHERE id = $1 AND user_id = $2
		FOR UPDATE
	`, accountID, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		UPDATE accounts SET balance = $1, updated_at = $2 WHERE id = $3
	`, balance.Add(delta), time.Now(), accountID)
	return err
}

// applyCardDelta adds delta to the card's current_balance under a row lock,
// rejecting any result outside [0, limit]. Same transactional contract as
// applyAccountDelta.
func applyCardDelta(tx *sql.Tx, cardID, userID string, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}

	var current, limit decimal.Decimal
	err := tx.QueryRow(`
		SELECT current_balance, credit_limit FROM credit_cards
		WHERE id = $1 AND user_id = $2
		FOR UPDATE
	`, cardID, userID).Scan(&current, &limit)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	if err != nil {
		return err
	}

	next := current.Add(delta)
	if err := CheckCardBalance(next, limit, cardID); err != nil {
		return err
	}

	_, err = tx.Exec(`
		UPDATE credit_cards SET current_balance = $1, updated_at = $2 WHERE id = $3
	`, next, time.Now(), cardID)
	return err
}
