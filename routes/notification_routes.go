package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/salescomm/commission_backend/controllers"
	"github.com/salescomm/commission_backend/middleware"
)

// RegisterNotificationRoutes sets up in-app notification routes
func RegisterNotificationRoutes(e *echo.Echo, db *mongo.Client) {
	notificationController := controllers.NewNotificationController(db)

	r := e.Group("/api/notifications")
	r.Use(middleware.JWTMiddleware())

	r.GET("", notificationController.GetNotifications)
	r.PUT("/:id/read", notificationController.MarkAsRead)
	r.PUT("/read-all", notificationController.MarkAllAsRead)
}
