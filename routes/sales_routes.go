package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/salescomm/commission_backend/controllers"
	"github.com/salescomm/commission_backend/middleware"
	"github.com/salescomm/commission_backend/models"
)

// RegisterSalesRoutes sets up sale record routes. Reads are open to all
// roles with scope enforced in the controller; writes are executive-only.
func RegisterSalesRoutes(e *echo.Echo, db *mongo.Client) {
	salesController := controllers.NewSalesController(db)

	r := e.Group("/api/sales")
	r.Use(middleware.JWTMiddleware())

	r.GET("", salesController.GetSales)
	r.GET("/:id", salesController.GetSale)

	write := e.Group("/api/sales")
	write.Use(middleware.JWTMiddleware())
	write.Use(middleware.RequireRole(models.RoleExecutive))
	write.POST("", salesController.CreateSale)
	write.PUT("/:id", salesController.UpdateSale)
	write.DELETE("/:id", salesController.DeleteSale)
}
