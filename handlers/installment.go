package handlers

import (
	"net/http"

	"financas-api/middleware"
	"financas-api/models"
	"financas-api/services"

	"github.com/gin-gonic/gin"
)

type InstallmentHandler struct {
	Installments *services.InstallmentService
}

func (h *InstallmentHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.Installments.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *InstallmentHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	plans, err := h.Installments.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"installments": plans})
}

func (h *InstallmentHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)

	plan, err := h.Installments.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *InstallmentHandler) Cancel(c *gin.Context) {
	userID := middleware.GetUserID(c)

	if err := h.Installments.Cancel(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Installment plan cancelled"})
}

// Pay records the next installment as a paid expense transaction.
func (h *InstallmentHandler) Pay(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.PayInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := h.Installments.Pay(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, transaction)
}
