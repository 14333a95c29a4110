package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/salescomm/commission_backend/config"
	"github.com/salescomm/commission_backend/middleware"
	"github.com/salescomm/commission_backend/models"
	"github.com/salescomm/commission_backend/utils"
)

// AdminController handles admin-only user management
type AdminController struct {
	DB       *mongo.Client
	logger   *log.Logger
	validate *validator.Validate
}

// NewAdminController creates a new admin controller
func NewAdminController(db *mongo.Client) *AdminController {
	return &AdminController{
		DB:       db,
		logger:   log.New(os.Stdout, "[ADMIN] ", log.LstdFlags),
		validate: validator.New(),
	}
}

// CreateUser creates a user of any role with a generated employee ID
func (ad *AdminController) CreateUser(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(ad.DB, "users")

	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	req.Name = utils.SanitizeInput(req.Name)
	req.Email = strings.ToLower(utils.SanitizeInput(req.Email))

	if err := ad.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	count, err := collection.CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check existing users",
		})
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Email already registered",
		})
	}

	var assignedManager *primitive.ObjectID
	if req.AssignedManager != "" {
		managerID, err := primitive.ObjectIDFromHex(req.AssignedManager)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid manager ID",
			})
		}

		var manager models.User
		err = collection.FindOne(ctx, bson.M{"_id": managerID, "role": models.RoleManager}).Decode(&manager)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Assigned manager not found",
			})
		}
		assignedManager = &managerID
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	employeeID, err := utils.GenerateEmployeeID(ad.DB.Database(config.GetDBName()), req.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate employee ID",
		})
	}

	now := time.Now()
	user := models.User{
		Name:            req.Name,
		Email:           req.Email,
		Password:        string(hashedPassword),
		Role:            req.Role,
		EmployeeID:      employeeID,
		AssignedManager: assignedManager,
		AssignedTarget:  req.AssignedTarget,
		Phone:           req.Phone,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	result, err := collection.InsertOne(ctx, user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create user",
		})
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	ad.logger.Printf("User created: %s (%s, %s)", user.Email, user.EmployeeID, user.Role)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "User created successfully",
		Data:    user.Sanitize(),
	})
}

// GetUsers lists users, optionally filtered by role
func (ad *AdminController) GetUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(ad.DB, "users")

	filter := bson.M{}
	if role := c.QueryParam("role"); role != "" {
		if !utils.ValidateRole(role) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid role",
			})
		}
		filter["role"] = role
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch users",
		})
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode users",
		})
	}

	sanitized := make([]models.User, 0, len(users))
	for _, u := range users {
		sanitized = append(sanitized, u.Sanitize())
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Users retrieved successfully",
		Data:    sanitized,
	})
}

// GetUser returns a single user by ID
func (ad *AdminController) GetUser(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	collection := config.GetCollection(ad.DB, "users")
	var user models.User
	err = collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "User not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch user",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User retrieved successfully",
		Data:    user.Sanitize(),
	})
}

// UpdateUser updates user fields: name, phone, role, target, manager, active flag
func (ad *AdminController) UpdateUser(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var req struct {
		Name            *string  `json:"name"`
		Phone           *string  `json:"phone"`
		Role            *string  `json:"role"`
		AssignedTarget  *float64 `json:"assignedTarget"`
		AssignedManager *string  `json:"assignedManager"`
		IsActive        *bool    `json:"isActive"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	collection := config.GetCollection(ad.DB, "users")

	update := bson.M{"updatedAt": time.Now()}
	if req.Name != nil {
		update["name"] = utils.SanitizeInput(*req.Name)
	}
	if req.Phone != nil {
		update["phone"] = utils.SanitizeInput(*req.Phone)
	}
	if req.Role != nil {
		if !utils.ValidateRole(*req.Role) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid role",
			})
		}
		update["role"] = *req.Role
	}
	if req.AssignedTarget != nil {
		if *req.AssignedTarget < 0 {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Assigned target cannot be negative",
			})
		}
		update["assignedTarget"] = *req.AssignedTarget
	}
	if req.AssignedManager != nil {
		if *req.AssignedManager == "" {
			update["assignedManager"] = nil
		} else {
			managerID, err := primitive.ObjectIDFromHex(*req.AssignedManager)
			if err != nil {
				return c.JSON(http.StatusBadRequest, models.Response{
					Status:  http.StatusBadRequest,
					Message: "Invalid manager ID",
				})
			}
			var manager models.User
			err = collection.FindOne(ctx, bson.M{"_id": managerID, "role": models.RoleManager}).Decode(&manager)
			if err != nil {
				return c.JSON(http.StatusBadRequest, models.Response{
					Status:  http.StatusBadRequest,
					Message: "Assigned manager not found",
				})
			}
			update["assignedManager"] = managerID
		}
	}
	if req.IsActive != nil {
		update["isActive"] = *req.IsActive
	}

	result, err := collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": update})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update user",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	var updated models.User
	if err := collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&updated); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch updated user",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User updated successfully",
		Data:    updated.Sanitize(),
	})
}

// DeleteUser removes a user. Admins cannot delete their own account.
func (ad *AdminController) DeleteUser(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	requesterID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	if requesterID == userID.Hex() {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Cannot delete your own account",
		})
	}

	collection := config.GetCollection(ad.DB, "users")
	result, err := collection.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete user",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	// Unassign the deleted user as manager from any executives
	_, err = collection.UpdateMany(ctx,
		bson.M{"assignedManager": userID},
		bson.M{"$unset": bson.M{"assignedManager": ""}})
	if err != nil {
		ad.logger.Printf("Failed to unassign deleted manager %s: %v", userID.Hex(), err)
	}

	ad.logger.Printf("User deleted: %s", userID.Hex())

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User deleted successfully",
	})
}
