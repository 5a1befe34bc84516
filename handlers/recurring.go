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
)

type RecurringHandler struct {
	DB        *sql.DB
	Recurring *services.RecurringService
}

const recurringColumns = `id, user_id, description, amount, category, COALESCE(account_id::text, ''), day_of_month, active, last_generated, created_at, updated_at`

func scanRecurring(row interface{ Scan(...interface{}) error }) (*models.RecurringExpense, error) {
	var re models.RecurringExpense
	var lastGen sql.NullTime
	err := row.Scan(&re.ID, &re.UserID, &re.Description, &re.Amount, &re.Category,
		&re.AccountID, &re.DayOfMonth, &re.Active, &lastGen, &re.CreatedAt, &re.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lastGen.Valid {
		re.LastGenerated = &lastGen.Time
	}
	return &re, nil
}

func (h *RecurringHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateRecurringExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	var one int
	err := h.DB.QueryRow(`SELECT 1 FROM accounts WHERE id = $1 AND user_id = $2`,
		req.AccountID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(c, models.ErrNotFound)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	row := h.DB.QueryRow(`
		INSERT INTO recurring_expenses (user_id, description, amount, category, account_id, day_of_month)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+recurringColumns,
		userID, req.Description, req.Amount, req.Category, req.AccountID, req.DayOfMonth)

	expense, err := scanRecurring(row)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

func (h *RecurringHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT `+recurringColumns+` FROM recurring_expenses
		WHERE user_id = $1
		ORDER BY day_of_month, description
	`, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	defer rows.Close()

	expenses := []models.RecurringExpense{}
	for rows.Next() {
		re, err := scanRecurring(rows)
		if err != nil {
			respondError(c, err)
			return
		}
		expenses = append(expenses, *re)
	}

	c.JSON(http.StatusOK, gin.H{"recurring_expenses": expenses})
}

func (h *RecurringHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.UpdateRecurringExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	row := h.DB.QueryRow(`
		SELECT `+recurringColumns+` FROM recurring_expenses
		WHERE id = $1 AND user_id = $2
	`, c.Param("id"), userID)

	expense, err := scanRecurring(row)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(c, models.ErrNotFound)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Description != nil {
		expense.Description = *req.Description
	}
	if req.Amount != nil {
		expense.Amount = *req.Amount
	}
	if req.Category != nil {
		expense.Category = *req.Category
	}
	if req.AccountID != nil {
		var one int
		err := h.DB.QueryRow(`SELECT 1 FROM accounts WHERE id = $1 AND user_id = $2`,
			*req.AccountID, userID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			respondError(c, models.ErrNotFound)
			return
		}
		if err != nil {
			respondError(c, err)
			return
		}
		expense.AccountID = *req.AccountID
	}
	if req.DayOfMonth != nil {
		expense.DayOfMonth = *req.DayOfMonth
	}
	if req.Active != nil {
		expense.Active = *req.Active
	}

	row = h.DB.QueryRow(`
		UPDATE recurring_expenses SET
			description = $1, amount = $2, category = $3, account_id = $4,
			day_of_month = $5, active = $6, updated_at = $7
		WHERE id = $8
		RETURNING `+recurringColumns,
		expense.Description, expense.Amount, expense.Category, expense.AccountID,
		expense.DayOfMonth, expense.Active, time.Now(), expense.ID)

	updated, err := scanRecurring(row)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *RecurringHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)

	result, err := h.DB.Exec(`DELETE FROM recurring_expenses WHERE id = $1 AND user_id = $2`,
		c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		respondError(c, models.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recurring expense deleted"})
}

// Process materializes everything due this month. Safe to call repeatedly.
func (h *RecurringHandler) Process(c *gin.Context) {
	userID := middleware.GetUserID(c)

	generated, err := h.Recurring.Process(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"generated": generated})
}
