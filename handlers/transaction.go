package handlers

import (
	"net/http"
	"strconv"
	"time"

	"financas-api/middleware"
	"financas-api/models"
	"financas-api/services"

	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	Transactions *services.TransactionService
	Dashboard    *services.DashboardService
	Categorizer  *services.CategorizerService
	WS           *WSHandler
}

func NewTransactionHandler(transactions *services.TransactionService, dashboard *services.DashboardService, categorizer *services.CategorizerService, ws *WSHandler) *TransactionHandler {
	return &TransactionHandler{
		Transactions: transactions,
		Dashboard:    dashboard,
		Categorizer:  categorizer,
		WS:           ws,
	}
}

func (h *TransactionHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := h.Transactions.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.notifyGroup(transaction, "transaction_created", userID)
	c.JSON(http.StatusCreated, transaction)
}

func (h *TransactionHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)

	transaction, err := h.Transactions.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

func (h *TransactionHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := h.Transactions.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.notifyGroup(transaction, "transaction_updated", userID)
	c.JSON(http.StatusOK, transaction)
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id := c.Param("id")

	transaction, err := h.Transactions.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.Transactions.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}

	h.notifyGroup(transaction, "transaction_deleted", userID)
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}

func (h *TransactionHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	filter := models.TransactionFilter{
		Type:         c.Query("type"),
		Category:     c.Query("category"),
		Status:       c.Query("status"),
		AccountID:    c.Query("accountId"),
		CreditCardID: c.Query("creditCardId"),
		GroupID:      c.Query("groupId"),
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	if v := c.Query("startDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			respondError(c, models.NewValidationError("startDate", "must be YYYY-MM-DD"))
			return
		}
		filter.StartDate = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			respondError(c, models.NewValidationError("endDate", "must be YYYY-MM-DD"))
			return
		}
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.EndDate = &end
	}

	transactions, total, err := h.Transactions.List(c.Request.Context(), userID, &filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"total":        total,
		"page":         filter.Page,
		"limit":        filter.Limit,
	})
}

func (h *TransactionHandler) DashboardSummary(c *gin.Context) {
	userID := middleware.GetUserID(c)

	summary, err := h.Dashboard.Summary(c.Request.Context(), userID, c.Query("groupId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

type suggestCategoryRequest struct {
	Description string `json:"description" binding:"required"`
}

func (h *TransactionHandler) SuggestCategory(c *gin.Context) {
	var req suggestCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	suggestion := h.Categorizer.Suggest(c.Request.Context(), req.Description)
	c.JSON(http.StatusOK, suggestion)
}

func (h *TransactionHandler) notifyGroup(t *models.Transaction, event, userID string) {
	if h.WS != nil && t.GroupID != nil {
		h.WS.BroadcastUpdate(*t.GroupID, event, userID)
	}
}
