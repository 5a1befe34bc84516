package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"financas-api/middleware"
	"financas-api/models"
	"financas-api/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CreditCardHandler struct {
	DB *sql.DB
}

const creditCardColumns = `id, user_id, name, bank, credit_limit, current_balance, closing_day, due_day, created_at, updated_at`

func scanCreditCard(row interface{ Scan(...interface{}) error }) (*models.CreditCard, error) {
	var cc models.CreditCard
	err := row.Scan(&cc.ID, &cc.UserID, &cc.Name, &cc.Bank, &cc.Limit,
		&cc.CurrentBalance, &cc.ClosingDay, &cc.DueDay, &cc.CreatedAt, &cc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &cc, nil
}

func (h *CreditCardHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateCreditCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	row := h.DB.QueryRow(`
		INSERT INTO credit_cards (user_id, name, bank, credit_limit, closing_day, due_day)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+creditCardColumns,
		userID, req.Name, req.Bank, req.Limit, req.ClosingDay, req.DueDay)

	card, err := scanCreditCard(row)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

func (h *CreditCardHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT `+creditCardColumns+` FROM credit_cards
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	defer rows.Close()

	cards := []models.CreditCard{}
	for rows.Next() {
		cc, err := scanCreditCard(rows)
		if err != nil {
			respondError(c, err)
			return
		}
		cards = append(cards, *cc)
	}

	c.JSON(http.StatusOK, gin.H{"credit_cards": cards})
}

func (h *CreditCardHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)

	row := h.DB.QueryRow(`
		SELECT `+creditCardColumns+` FROM credit_cards
		WHERE id = $1 AND user_id = $2
	`, c.Param("id"), userID)

	card, err := scanCreditCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(c, models.ErrNotFound)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *CreditCardHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.UpdateCreditCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	tx, err := h.DB.BeginTx(c.Request.Context(), nil)
	if err != nil {
		respondError(c, err)
		return
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		SELECT `+creditCardColumns+` FROM credit_cards
		WHERE id = $1 AND user_id = $2
		FOR UPDATE
	`, c.Param("id"), userID)

	card, err := scanCreditCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(c, models.ErrNotFound)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Name != "" {
		card.Name = req.Name
	}
	if req.Bank != "" {
		card.Bank = req.Bank
	}
	if req.Limit != nil {
		// Lowering the limit below the carried balance would break the
		// card invariant.
		if req.Limit.LessThan(card.CurrentBalance) {
			respondError(c, &models.LimitExceededError{CardID: card.ID})
			return
		}
		card.Limit = *req.Limit
	}
	if req.ClosingDay != nil {
		card.ClosingDay = *req.ClosingDay
	}
	if req.DueDay != nil {
		card.DueDay = *req.DueDay
	}

	row = tx.QueryRow(`
		UPDATE credit_cards SET
			name = $1, bank = $2, credit_limit = $3, closing_day = $4, due_day = $5, updated_at = $6
		WHERE id = $7
		RETURNING `+creditCardColumns,
		card.Name, card.Bank, card.Limit, card.ClosingDay, card.DueDay, time.Now(), card.ID)

	updated, err := scanCreditCard(row)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := tx.Commit(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete checks ownership before the referential guard, so foreign card
// IDs answer 404 rather than leaking that the card exists.
func (h *CreditCardHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	cardID := c.Param("id")

	var one int
	err := h.DB.QueryRow(`SELECT 1 FROM credit_cards WHERE id = $1 AND user_id = $2`,
		cardID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(c, models.ErrNotFound)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	var referenced bool
	err = h.DB.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM transactions WHERE credit_card_id = $1)
	`, cardID).Scan(&referenced)
	if err != nil {
		respondError(c, err)
		return
	}
	if referenced {
		respondError(c, &models.ConflictError{Message: "credit card still has transactions; delete or move them first"})
		return
	}

	result, err := h.DB.Exec(`DELETE FROM credit_cards WHERE id = $1 AND user_id = $2`, cardID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		respondError(c, models.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Credit card deleted"})
}

// UpdateBalance applies a manual add/subtract to current_balance, holding
// the card invariant 0 <= balance <= limit.
func (h *CreditCardHandler) UpdateBalance(c *gin.Context) {
	userID := middleware.GetUserID(c)
	cardID := c.Param("id")

	var req models.BalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	tx, err := h.DB.BeginTx(c.Request.Context(), nil)
	if err != nil {
		respondError(c, err)
		return
	}
	defer tx.Rollback()

	var current, limit decimal.Decimal
	err = tx.QueryRow(`
		SELECT current_balance, credit_limit FROM credit_cards
		WHERE id = $1 AND user_id = $2
		FOR UPDATE
	`, cardID, userID).Scan(&current, &limit)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(c, models.ErrNotFound)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	next, err := services.NextBalance(current, req.Amount, req.Operation)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := services.CheckCardBalance(next, limit, cardID); err != nil {
		respondError(c, err)
		return
	}

	row := tx.QueryRow(`
		UPDATE credit_cards SET current_balance = $1, updated_at = $2
		WHERE id = $3
		RETURNING `+creditCardColumns,
		next, time.Now(), cardID)

	card, err := scanCreditCard(row)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := tx.Commit(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}
