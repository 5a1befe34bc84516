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

type AccountHandler struct {
	DB *sql.DB
}

const accountColumns = `id, user_id, name, type, balance, COALESCE(bank, ''), created_at, updated_at`

func scanAccount(row interface{ Scan(...interface{}) error }) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.Balance, &a.Bank,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (h *AccountHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	row := h.DB.QueryRow(`
		INSERT INTO accounts (user_id, name, type, balance, bank)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING `+accountColumns,
		userID, req.Name, req.Type, req.Balance, req.Bank)

	account, err := scanAccount(row)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *AccountHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT `+accountColumns+` FROM accounts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			respondError(c, err)
			return
		}
		accounts = append(accounts, *a)
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

func (h *AccountHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)

	row := h.DB.QueryRow(`
		SELECT `+accountColumns+` FROM accounts
		WHERE id = $1 AND user_id = $2
	`, c.Param("id"), userID)

	account, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(c, models.ErrNotFound)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	row := h.DB.QueryRow(`
		UPDATE accounts SET
			name = COALESCE(NULLIF($1, ''), name),
			type = COALESCE(NULLIF($2, ''), type),
			bank = COALESCE(NULLIF($3, ''), bank),
			updated_at = $4
		WHERE id = $5 AND user_id = $6
		RETURNING `+accountColumns,
		req.Name, req.Type, req.Bank, time.Now(), c.Param("id"), userID)

	account, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(c, models.ErrNotFound)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// Delete refuses to orphan the ledger: accounts still referenced by
// transactions or recurring templates answer 409. Ownership is checked
// first so foreign IDs are indistinguishable from absent ones.
func (h *AccountHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	accountID := c.Param("id")

	var one int
	err := h.DB.QueryRow(`SELECT 1 FROM accounts WHERE id = $1 AND user_id = $2`,
		accountID, userID).Scan(&one)
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
		SELECT EXISTS(SELECT 1 FROM transactions WHERE account_id = $1)
		    OR EXISTS(SELECT 1 FROM recurring_expenses WHERE account_id = $1)
	`, accountID).Scan(&referenced)
	if err != nil {
		respondError(c, err)
		return
	}
	if referenced {
		respondError(c, &models.ConflictError{Message: "account still has transactions or recurring expenses; delete or move them first"})
		return
	}

	result, err := h.DB.Exec(`DELETE FROM accounts WHERE id = $1 AND user_id = $2`, accountID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		respondError(c, models.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}

// UpdateBalance applies a manual add/subtract to the account balance.
func (h *AccountHandler) UpdateBalance(c *gin.Context) {
	userID := middleware.GetUserID(c)
	accountID := c.Param("id")

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

	var balance decimal.Decimal
	err = tx.QueryRow(`
		SELECT balance FROM accounts WHERE id = $1 AND user_id = $2 FOR UPDATE
	`, accountID, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(c, models.ErrNotFound)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	next, err := services.NextBalance(balance, req.Amount, req.Operation)
	if err != nil {
		respondError(c, err)
		return
	}

	row := tx.QueryRow(`
		UPDATE accounts SET balance = $1, updated_at = $2
		WHERE id = $3
		RETURNING `+accountColumns,
		next, time.Now(), accountID)

	account, err := scanAccount(row)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := tx.Commit(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}
