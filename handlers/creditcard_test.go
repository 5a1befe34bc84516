package handlers

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCardRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	handler := &CreditCardHandler{DB: db}
	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set("user_id", testUserID) })
	router.DELETE("/credit-cards/:id", handler.Delete)
	return router, mock
}

// A card belonging to another user answers 404 before any referential
// query runs, so callers cannot tell foreign IDs from absent ones.
func TestCreditCardDeleteForeignIDAnswersNotFound(t *testing.T) {
	router, mock := newCardRouter(t)

	mock.ExpectQuery(`SELECT 1 FROM credit_cards WHERE id = \$1 AND user_id = \$2`).
		WithArgs("c-other", testUserID).
		WillReturnError(sql.ErrNoRows)

	w := doDelete(router, "/credit-cards/c-other")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditCardDeleteStillReferenced(t *testing.T) {
	router, mock := newCardRouter(t)

	mock.ExpectQuery(`SELECT 1 FROM credit_cards WHERE id = \$1 AND user_id = \$2`).
		WithArgs("c1", testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM transactions WHERE credit_card_id = \$1\)`).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	w := doDelete(router, "/credit-cards/c1")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditCardDeleteUnreferenced(t *testing.T) {
	router, mock := newCardRouter(t)

	mock.ExpectQuery(`SELECT 1 FROM credit_cards WHERE id = \$1 AND user_id = \$2`).
		WithArgs("c1", testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`DELETE FROM credit_cards WHERE id = \$1 AND user_id = \$2`).
		WithArgs("c1", testUserID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := doDelete(router, "/credit-cards/c1")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
