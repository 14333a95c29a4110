package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/salescomm/commission_backend/controllers"
	"github.com/salescomm/commission_backend/middleware"
	"github.com/salescomm/commission_backend/models"
)

// RegisterUserRoutes sets up self-service profile routes
func RegisterUserRoutes(e *echo.Echo, db *mongo.Client) {
	userController := controllers.NewUserController(db)

	r := e.Group("/api/users")
	r.Use(middleware.JWTMiddleware())

	r.GET("/profile", userController.GetProfile)
	r.PUT("/profile", userController.UpdateProfile)
	r.PUT("/fcm-token", userController.UpdateFCMToken)

	// Listing is manager/admin: managers see their executives, admins see all
	listing := e.Group("/api/users")
	listing.Use(middleware.JWTMiddleware())
	listing.Use(middleware.RequireRole(models.RoleManager, models.RoleAdmin))
	listing.GET("", userController.ListUsers)
	listing.GET("/team", userController.GetTeam)
}
