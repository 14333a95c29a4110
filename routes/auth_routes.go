package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/salescomm/commission_backend/controllers"
	"github.com/salescomm/commission_backend/middleware"
)

// RegisterAuthRoutes sets up authentication routes
func RegisterAuthRoutes(e *echo.Echo, db *mongo.Client, authController *controllers.AuthController) {
	auth := e.Group("/api/auth")

	// Public
	auth.POST("/register", authController.Signup)
	auth.POST("/login", authController.Login)
	auth.POST("/2fa/verify", authController.VerifyTwoFactor)
	auth.POST("/refresh", authController.RefreshToken)
	auth.GET("/validate", authController.ValidateToken)
	auth.POST("/remembered-credentials", authController.GetRememberedCredentials)
	auth.DELETE("/remembered-credentials", authController.RemoveRememberedCredentials)

	// Protected
	protected := e.Group("/api/auth")
	protected.Use(middleware.JWTMiddleware())
	protected.POST("/logout", authController.Logout)
	protected.POST("/change-password", authController.ChangePassword)
	protected.POST("/2fa/enable", authController.EnableTwoFactor)
	protected.POST("/2fa/disable", authController.DisableTwoFactor)
}
