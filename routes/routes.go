package routes

import (
	"database/sql"

	"financas-api/handlers"
	"financas-api/services"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{DB: db}

	rg.POST("/auth/register", authHandler.Register)
	rg.POST("/auth/login", authHandler.Login)
	rg.POST("/auth/refresh", authHandler.Refresh)
}

// SetupUserRoutes sets up protected user profile routes.
func SetupUserRoutes(rg *gin.RouterGroup, db *sql.DB) {
	userHandler := &handlers.UserHandler{DB: db}

	rg.GET("/user/profile", userHandler.GetProfile)
	rg.PUT("/user/profile", userHandler.UpdateProfile)
	rg.POST("/user/password", userHandler.ChangePassword)
	rg.POST("/user/2fa/setup", userHandler.SetupTOTP)
	rg.POST("/user/2fa/verify", userHandler.VerifyTOTP)
	rg.POST("/user/2fa/disable", userHandler.DisableTOTP)
	rg.DELETE("/user/account", userHandler.DeleteAccount)
}

// SetupLedgerRoutes sets up accounts, credit cards and transactions.
func SetupLedgerRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	accountHandler := &handlers.AccountHandler{DB: db}
	cardHandler := &handlers.CreditCardHandler{DB: db}
	transactionHandler := handlers.NewTransactionHandler(
		services.NewTransactionService(db),
		services.NewDashboardService(db),
		services.NewCategorizerService(db),
		ws,
	)

	rg.POST("/accounts", accountHandler.Create)
	rg.GET("/accounts", accountHandler.List)
	rg.GET("/accounts/:id", accountHandler.Get)
	rg.PUT("/accounts/:id", accountHandler.Update)
	rg.DELETE("/accounts/:id", accountHandler.Delete)
	rg.PUT("/accounts/:id/balance", accountHandler.UpdateBalance)

	rg.POST("/credit-cards", cardHandler.Create)
	rg.GET("/credit-cards", cardHandler.List)
	rg.GET("/credit-cards/:id", cardHandler.Get)
	rg.PUT("/credit-cards/:id", cardHandler.Update)
	rg.DELETE("/credit-cards/:id", cardHandler.Delete)
	rg.PUT("/credit-cards/:id/balance", cardHandler.UpdateBalance)

	rg.POST("/transactions", transactionHandler.Create)
	rg.GET("/transactions", transactionHandler.List)
	rg.GET("/transactions/summary/dashboard", transactionHandler.DashboardSummary)
	rg.POST("/transactions/suggest-category", transactionHandler.SuggestCategory)
	rg.GET("/transactions/:id", transactionHandler.Get)
	rg.PUT("/transactions/:id", transactionHandler.Update)
	rg.DELETE("/transactions/:id", transactionHandler.Delete)
}

// SetupGroupRoutes sets up group sharing and family member labels.
func SetupGroupRoutes(rg *gin.RouterGroup, db *sql.DB) {
	groupHandler := &handlers.GroupHandler{DB: db}
	familyHandler := &handlers.FamilyMemberHandler{DB: db}

	rg.POST("/groups", groupHandler.Create)
	rg.GET("/groups", groupHandler.List)
	rg.GET("/groups/:id", groupHandler.Get)
	rg.DELETE("/groups/:id", groupHandler.Delete)
	rg.POST("/groups/:id/members", groupHandler.AddMember)
	rg.DELETE("/groups/:id/members/:member_id", groupHandler.RemoveMember)

	rg.POST("/family-members", familyHandler.Create)
	rg.GET("/family-members", familyHandler.List)
	rg.DELETE("/family-members/:id", familyHandler.Delete)
}

// SetupPlanningRoutes sets up recurring expenses and installment plans.
func SetupPlanningRoutes(rg *gin.RouterGroup, db *sql.DB) {
	recurringHandler := &handlers.RecurringHandler{
		DB:        db,
		Recurring: services.NewRecurringService(db),
	}
	installmentHandler := &handlers.InstallmentHandler{
		Installments: services.NewInstallmentService(db),
	}

	rg.POST("/recurring-expenses", recurringHandler.Create)
	rg.GET("/recurring-expenses", recurringHandler.List)
	rg.PUT("/recurring-expenses/:id", recurringHandler.Update)
	rg.DELETE("/recurring-expenses/:id", recurringHandler.Delete)
	rg.POST("/recurring-expenses/process", recurringHandler.Process)

	rg.POST("/installments", installmentHandler.Create)
	rg.GET("/installments", installmentHandler.List)
	rg.GET("/installments/:id", installmentHandler.Get)
	rg.POST("/installments/:id/pay", installmentHandler.Pay)
	rg.POST("/installments/:id/cancel", installmentHandler.Cancel)
}
