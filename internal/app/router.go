// internal/app/router.go
package app

import (
	accountHandler "greenwell-service/internal/handlers/account"
	authHandler "greenwell-service/internal/handlers/auth"
	inventoryHandler "greenwell-service/internal/handlers/inventory"
	ledgerHandler "greenwell-service/internal/handlers/ledger"
	orderHandler "greenwell-service/internal/handlers/order"
	partyHandler "greenwell-service/internal/handlers/party"
	reportHandler "greenwell-service/internal/handlers/report"
	wsHandler "greenwell-service/internal/handlers/websocket"
	"greenwell-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	AuthHandler    *authHandler.AuthHandler
	ProductHandler *inventoryHandler.ProductHandler
	PartyHandler   *partyHandler.PartyHandler
	OrderHandler   *orderHandler.OrderHandler
	LedgerHandler  *ledgerHandler.LedgerHandler
	AccountHandler *accountHandler.AccountHandler
	ReportHandler  *reportHandler.ReportHandler
	WSHandler      *wsHandler.WebSocketHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/login", h.AuthHandler.Login)
	}

	// ==================== Authenticated Auth Routes ====================
	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth())
	{
		authProtected.GET("/user", h.AuthHandler.GetUser)
		authProtected.DELETE("/logout", h.AuthHandler.Logout)
	}

	// Session revocation also accepts a conflict-scoped token so a device
	// blocked by the session cap can free a slot and retry.
	authConflict := api.Group("/auth")
	authConflict.Use(h.AuthMiddleware.AuthOrConflict())
	{
		authConflict.DELETE("/sessions/:session_id", h.AuthHandler.RevokeSession)
	}

	// ==================== Products ====================
	products := api.Group("/products")
	products.Use(h.AuthMiddleware.Auth())
	{
		products.GET("", h.ProductHandler.ListProducts)
		products.GET("/low-stock", h.ProductHandler.LowStock)
		products.GET("/:id", h.ProductHandler.GetProduct)
		products.POST("", h.ProductHandler.CreateProduct)
		products.PUT("/:id", h.ProductHandler.UpdateProduct)
		products.DELETE("/:id", h.ProductHandler.DeleteProduct)
	}

	// ==================== Parties ====================
	parties := api.Group("/parties")
	parties.Use(h.AuthMiddleware.Auth())
	{
		parties.GET("", h.PartyHandler.ListParties)
		parties.GET("/:id", h.PartyHandler.GetParty)
		parties.POST("", h.PartyHandler.CreateParty)
		parties.PUT("/:id", h.PartyHandler.UpdateParty)
		parties.PUT("/:id/activate", h.PartyHandler.ActivateParty)
		parties.PUT("/:id/deactivate", h.PartyHandler.DeactivateParty)

		// Ledger rides under the party it belongs to.
		parties.GET("/:id/ledger", h.LedgerHandler.Statement)
		parties.POST("/:id/ledger", h.LedgerHandler.PostEntry)
	}

	// ==================== Orders ====================
	orders := api.Group("/orders")
	orders.Use(h.AuthMiddleware.Auth())
	{
		orders.GET("", h.OrderHandler.ListOrders)
		orders.GET("/:reference", h.OrderHandler.GetOrder)
		orders.POST("", h.OrderHandler.CreateOrder)
		orders.PUT("/:reference/status", h.OrderHandler.UpdateStatus)
	}

	// ==================== Accounts ====================
	accounts := api.Group("/accounts")
	accounts.Use(h.AuthMiddleware.Auth())
	{
		accounts.GET("", h.AccountHandler.ListAccounts)
		accounts.POST("", h.AccountHandler.CreateAccount)
		accounts.GET("/transactions", h.AccountHandler.RecentTransactions)
		accounts.POST("/:id/transactions", h.AccountHandler.RecordTransaction)
	}

	// ==================== Reports ====================
	reports := api.Group("/reports")
	reports.Use(h.AuthMiddleware.Auth())
	{
		reports.GET("/dashboard", h.ReportHandler.DashboardSummary)
	}
}
