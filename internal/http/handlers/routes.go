package handlers

import (
	"buyerleads/internal/app"
	"buyerleads/internal/http/middleware"

	"github.com/labstack/echo/v4"
)

// SetupRoutes sets up all API routes
func SetupRoutes(api *echo.Group, services *app.Services) {
	// Auth routes (no authentication required)
	authHandler := NewAuthHandler(services.AuthService)
	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.JWTAuth(services.AuthService))

	// User profile routes
	profileAuth := protected.Group("/auth")
	profileAuth.PUT("/profile", authHandler.UpdateProfile)
	profileAuth.PUT("/change-password", authHandler.ChangePassword)

	// Buyer lead routes
	buyerHandler := NewBuyerHandler(services.BuyerService)
	importHandler := NewBuyerImportHandler(services.ImportService)
	exportHandler := NewBuyerExportHandler(services.BuyerService)

	buyers := protected.Group("/buyers")
	buyers.GET("", buyerHandler.List)
	buyers.POST("", buyerHandler.Create)
	buyers.POST("/import", importHandler.Import)
	buyers.GET("/export", exportHandler.Export)
	buyers.GET("/:id", buyerHandler.GetByID)
	buyers.PUT("/:id", buyerHandler.Update)
	buyers.DELETE("/:id", buyerHandler.Delete)
	buyers.GET("/:id/history", buyerHandler.GetHistory)
}
