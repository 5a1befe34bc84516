package handlers

import (
	"errors"
	"net/http"

	"financas-api/models"
	"financas-api/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps domain errors to their HTTP status. Validation errors
// carry the per-field breakdown; internals are logged, never returned.
func respondError(c *gin.Context, err error) {
	status := models.StatusFor(err)
	if status == http.StatusInternalServerError {
		utils.SafeError("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(status, gin.H{"error": validationErr.Error(), "fields": validationErr.Fields})
		return
	}
	c.JSON(status, gin.H{"error": models.PublicMessage(err)})
}
