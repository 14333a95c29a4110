package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/salescomm/commission_backend/controllers"
	"github.com/salescomm/commission_backend/middleware"
	"github.com/salescomm/commission_backend/models"
)

// RegisterAdminRoutes sets up admin-only user management routes
func RegisterAdminRoutes(e *echo.Echo, db *mongo.Client) {
	adminController := controllers.NewAdminController(db)

	r := e.Group("/api/admin")
	r.Use(middleware.JWTMiddleware())
	r.Use(middleware.RequireRole(models.RoleAdmin))

	r.POST("/users", adminController.CreateUser)
	r.GET("/users", adminController.GetUsers)
	r.GET("/users/:id", adminController.GetUser)
	r.PUT("/users/:id", adminController.UpdateUser)
	r.DELETE("/users/:id", adminController.DeleteUser)
}
