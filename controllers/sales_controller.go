package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/salescomm/commission_backend/config"
	"github.com/salescomm/commission_backend/middleware"
	"github.com/salescomm/commission_backend/models"
	"github.com/salescomm/commission_backend/utils"
)

// SalesController handles sale records
type SalesController struct {
	DB     *mongo.Client
	logger *log.Logger
}

// NewSalesController creates a new sales controller
func NewSalesController(db *mongo.Client) *SalesController {
	return &SalesController{
		DB:     db,
		logger: log.New(os.Stdout, "[SALES] ", log.LstdFlags),
	}
}

// CreateSale records a new sale owned by the authenticated executive
func (sc *SalesController) CreateSale(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var req models.SaleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	req.ProductName = utils.SanitizeInput(req.ProductName)
	if req.ProductName == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Product name is required",
		})
	}
	if req.SaleAmount < 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Sale amount cannot be negative",
		})
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	status := req.Status
	if status == "" {
		status = models.SaleStatusSold
	}
	if status != models.SaleStatusSold && status != models.SaleStatusNotSold {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid sale status",
		})
	}

	saleDate := time.Now()
	if req.SaleDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.SaleDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid sale date, expected RFC3339",
			})
		}
		saleDate = parsed
	}

	now := time.Now()
	sale := models.Sale{
		SalesExecutive: ownerID,
		ProductName:    req.ProductName,
		SaleAmount:     req.SaleAmount,
		Quantity:       req.Quantity,
		SaleDate:       saleDate,
		Status:         status,
		ProductImage:   req.ProductImage,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	collection := config.GetCollection(sc.DB, "sales")
	result, err := collection.InsertOne(ctx, sale)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create sale",
		})
	}
	sale.ID = result.InsertedID.(primitive.ObjectID)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Sale recorded successfully",
		Data:    sale,
	})
}

// GetSales lists sales scoped by role: executives see their own, managers see
// their team's, admins see everything. An optional executiveId query narrows
// the result within the caller's scope.
func (sc *SalesController) GetSales(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	requesterID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	filter, err := sc.salesScopeFilter(ctx, claims.Role, requesterID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to resolve access scope",
		})
	}

	if execParam := c.QueryParam("executiveId"); execParam != "" {
		execID, err := primitive.ObjectIDFromHex(execParam)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid executive ID",
			})
		}
		allowed, err := sc.executiveInScope(ctx, claims.Role, requesterID, execID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to resolve access scope",
			})
		}
		if !allowed {
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Access denied for this executive",
			})
		}
		filter = bson.M{"salesExecutive": execID}
	}

	collection := config.GetCollection(sc.DB, "sales")
	opts := options.Find().SetSort(bson.D{{Key: "saleDate", Value: -1}})
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch sales",
		})
	}
	defer cursor.Close(ctx)

	var sales []models.Sale
	if err := cursor.All(ctx, &sales); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode sales",
		})
	}
	if sales == nil {
		sales = []models.Sale{}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Sales retrieved successfully",
		Data:    sales,
	})
}

// GetSale returns a single sale if it falls within the caller's scope
func (sc *SalesController) GetSale(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	saleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid sale ID",
		})
	}

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	requesterID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	collection := config.GetCollection(sc.DB, "sales")
	var sale models.Sale
	err = collection.FindOne(ctx, bson.M{"_id": saleID}).Decode(&sale)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Sale not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch sale",
		})
	}

	allowed, err := sc.executiveInScope(ctx, claims.Role, requesterID, sale.SalesExecutive)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to resolve access scope",
		})
	}
	if !allowed {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Access denied for this sale",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Sale retrieved successfully",
		Data:    sale,
	})
}

// UpdateSale modifies a sale owned by the authenticated executive. The owner
// cannot be changed.
func (sc *SalesController) UpdateSale(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	saleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid sale ID",
		})
	}

	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var req models.SaleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	update := bson.M{"updatedAt": time.Now()}
	if req.ProductName != "" {
		update["productName"] = utils.SanitizeInput(req.ProductName)
	}
	if req.SaleAmount > 0 {
		update["saleAmount"] = req.SaleAmount
	}
	if req.Quantity > 0 {
		update["quantity"] = req.Quantity
	}
	if req.Status != "" {
		if req.Status != models.SaleStatusSold && req.Status != models.SaleStatusNotSold {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid sale status",
			})
		}
		update["status"] = req.Status
	}
	if req.SaleDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.SaleDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid sale date, expected RFC3339",
			})
		}
		update["saleDate"] = parsed
	}
	if req.ProductImage != "" {
		update["productImage"] = req.ProductImage
	}

	collection := config.GetCollection(sc.DB, "sales")

	// Ownership enforced in the filter
	result, err := collection.UpdateOne(ctx,
		bson.M{"_id": saleID, "salesExecutive": ownerID},
		bson.M{"$set": update})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update sale",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Sale not found or not owned by you",
		})
	}

	var updated models.Sale
	if err := collection.FindOne(ctx, bson.M{"_id": saleID}).Decode(&updated); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch updated sale",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Sale updated successfully",
		Data:    updated,
	})
}

// DeleteSale deletes a sale owned by the authenticated executive
func (sc *SalesController) DeleteSale(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	saleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid sale ID",
		})
	}

	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	collection := config.GetCollection(sc.DB, "sales")
	result, err := collection.DeleteOne(ctx, bson.M{"_id": saleID, "salesExecutive": ownerID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete sale",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Sale not found or not owned by you",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Sale deleted successfully",
	})
}

// salesScopeFilter builds the bson filter representing what the role may see
func (sc *SalesController) salesScopeFilter(ctx context.Context, role string, requesterID primitive.ObjectID) (bson.M, error) {
	switch role {
	case models.RoleAdmin:
		return bson.M{}, nil
	case models.RoleManager:
		teamIDs, err := sc.teamExecutiveIDs(ctx, requesterID)
		if err != nil {
			return nil, err
		}
		return bson.M{"salesExecutive": bson.M{"$in": teamIDs}}, nil
	default:
		return bson.M{"salesExecutive": requesterID}, nil
	}
}

// executiveInScope reports whether the role may see data for the executive
func (sc *SalesController) executiveInScope(ctx context.Context, role string, requesterID, executiveID primitive.ObjectID) (bool, error) {
	switch role {
	case models.RoleAdmin:
		return true, nil
	case models.RoleManager:
		collection := config.GetCollection(sc.DB, "users")
		count, err := collection.CountDocuments(ctx, bson.M{"_id": executiveID, "assignedManager": requesterID})
		if err != nil {
			return false, err
		}
		return count > 0, nil
	default:
		return requesterID == executiveID, nil
	}
}

func (sc *SalesController) teamExecutiveIDs(ctx context.Context, managerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	collection := config.GetCollection(sc.DB, "users")
	cursor, err := collection.Find(ctx, bson.M{"assignedManager": managerID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	ids := []primitive.ObjectID{}
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID)
	}
	return ids, cursor.Err()
}
