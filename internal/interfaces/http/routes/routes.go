// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/interfaces/http/handlers"
	"github.com/your-org/pos-backend/internal/interfaces/http/middleware"
)

// Handlers bundles every endpoint handler mounted under the API group
type Handlers struct {
	Auth         *handlers.AuthHandler
	POS          *handlers.POSHandler
	Catalog      *handlers.CatalogHandler
	Transactions *handlers.TransactionHandler
}

// SetupRoutes mounts all API routes on rg
func SetupRoutes(rg *gin.RouterGroup, h *Handlers, cfg *config.Config) {
	SetupAuthRoutes(rg, h.Auth, cfg)
	SetupCatalogRoutes(rg, h.Catalog, cfg)
	SetupPOSRoutes(rg, h.POS, cfg)
	SetupTransactionRoutes(rg, h.Transactions, cfg)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, authHandler *handlers.AuthHandler, cfg *config.Config) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/me", authHandler.Me)
		}
	}
}

// SetupCatalogRoutes sets up product and unit lookup routes
func SetupCatalogRoutes(rg *gin.RouterGroup, catalogHandler *handlers.CatalogHandler, cfg *config.Config) {
	products := rg.Group("/products")
	products.Use(middleware.AuthMiddleware(cfg))
	{
		products.GET("/search", catalogHandler.SearchProducts)
		products.GET("/code/:code", catalogHandler.GetProductByCode)
		products.GET("/:id", catalogHandler.GetProduct)
		products.GET("/:id/movements", middleware.ManagerMiddleware(), catalogHandler.GetMovements)
	}

	units := rg.Group("/units")
	units.Use(middleware.AuthMiddleware(cfg))
	{
		units.GET("", catalogHandler.GetUnits)
	}
}

// SetupPOSRoutes sets up till session routes
func SetupPOSRoutes(rg *gin.RouterGroup, posHandler *handlers.POSHandler, cfg *config.Config) {
	posGroup := rg.Group("/pos")
	posGroup.Use(middleware.AuthMiddleware(cfg))
	{
		sessions := posGroup.Group("/sessions")
		{
			sessions.POST("", posHandler.OpenSession)
			sessions.GET("/:id", posHandler.GetSession)
			sessions.DELETE("/:id", posHandler.CloseSession)

			sessions.POST("/:id/items", posHandler.AddItem)
			sessions.POST("/:id/scan", posHandler.ScanItem)
			sessions.DELETE("/:id/items", posHandler.ClearCart)
			sessions.PUT("/:id/items/:productId", posHandler.SetQuantity)
			sessions.DELETE("/:id/items/:productId", posHandler.RemoveItem)
			sessions.PUT("/:id/items/:productId/unit", posHandler.ChangeUnit)
			sessions.PUT("/:id/items/:productId/package", posHandler.SelectPackage)

			sessions.POST("/:id/draft", posHandler.SaveDraft)
			sessions.POST("/:id/checkout", posHandler.Checkout)
		}

		posGroup.POST("/drafts/:id/resume", posHandler.ResumeDraft)
	}
}

// SetupTransactionRoutes sets up finalized transaction routes
func SetupTransactionRoutes(rg *gin.RouterGroup, transactionHandler *handlers.TransactionHandler, cfg *config.Config) {
	transactions := rg.Group("/transactions")
	transactions.Use(middleware.AuthMiddleware(cfg))
	{
		transactions.GET("/export", middleware.ManagerMiddleware(), transactionHandler.ExportTransactions)
		transactions.GET("/:id", transactionHandler.GetTransaction)
		transactions.GET("/:id/receipt", transactionHandler.GetReceipt)
	}
}
