package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/salescomm/commission_backend/controllers"
	"github.com/salescomm/commission_backend/middleware"
	"github.com/salescomm/commission_backend/models"
	"github.com/salescomm/commission_backend/websocket"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub) {
	authController := controllers.NewAuthController(db)

	RegisterAuthRoutes(e, db, authController)
	RegisterAdminRoutes(e, db)
	RegisterUserRoutes(e, db)
	RegisterSalesRoutes(e, db)
	RegisterCommissionRoutes(e, db, hub)
	RegisterNotificationRoutes(e, db)

	// WebSocket endpoint for live commission notifications
	ws := e.Group("/api/ws")
	ws.Use(middleware.JWTMiddleware())
	ws.GET("", func(c echo.Context) error {
		userID, err := middleware.ExtractUserID(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Unauthorized",
			})
		}
		objID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Unauthorized",
			})
		}
		return websocket.HandleWebSocket(c, hub, objID)
	})
}
