package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/salescomm/commission_backend/controllers"
	"github.com/salescomm/commission_backend/middleware"
	"github.com/salescomm/commission_backend/models"
	"github.com/salescomm/commission_backend/websocket"
)

// RegisterCommissionRoutes sets up the rate table, calculation and approval
// lifecycle routes
func RegisterCommissionRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub) {
	commissionController := controllers.NewCommissionController(db, hub)

	r := e.Group("/api/commission")
	r.Use(middleware.JWTMiddleware())

	// Records: scope enforced in the controller
	r.GET("/records", commissionController.GetRecords)
	r.GET("/download/:id", commissionController.DownloadStatement)

	// Rate table and the approval workflow: admin and manager
	managed := e.Group("/api/commission")
	managed.Use(middleware.JWTMiddleware())
	managed.Use(middleware.RequireRole(models.RoleAdmin, models.RoleManager))
	managed.GET("/rules", commissionController.GetRules)
	managed.POST("/rules", commissionController.CreateRule)
	managed.PUT("/rules/:id", commissionController.UpdateRule)
	managed.POST("/calculate", commissionController.Calculate)
	managed.POST("/approve/:id", commissionController.Approve)
	managed.POST("/reject/:id", commissionController.Reject)

	// Rule deletion and payout: admin only
	adminOnly := e.Group("/api/commission")
	adminOnly.Use(middleware.JWTMiddleware())
	adminOnly.Use(middleware.RequireRole(models.RoleAdmin))
	adminOnly.DELETE("/rules/:id", commissionController.DeleteRule)
	adminOnly.POST("/pay/:id", commissionController.Pay)
}
