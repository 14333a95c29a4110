// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleAdmin     = "admin"
	RoleManager   = "manager"
	RoleExecutive = "executive"
)

// User model
type User struct {
	ID               primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Name             string              `json:"name" bson:"name"`
	Email            string              `json:"email" bson:"email"`
	Password         string              `json:"password,omitempty" bson:"password"`
	Role             string              `json:"role" bson:"role"` // "admin", "manager", "executive"
	EmployeeID       string              `json:"employeeId" bson:"employeeId"`
	AssignedManager  *primitive.ObjectID `json:"assignedManager,omitempty" bson:"assignedManager,omitempty"`
	AssignedTarget   float64             `json:"assignedTarget,omitempty" bson:"assignedTarget,omitempty"`
	Phone            string              `json:"phone,omitempty" bson:"phone,omitempty"`
	ProfilePicture   string              `json:"profilePicture,omitempty" bson:"profilePicture,omitempty"`
	IsActive         bool                `json:"isActive" bson:"isActive"`
	TwoFactorEnabled bool                `json:"twoFactorEnabled,omitempty" bson:"twoFactorEnabled,omitempty"`
	TwoFactorSecret  string              `json:"-" bson:"twoFactorSecret,omitempty"`
	FCMToken         string              `json:"fcmToken,omitempty" bson:"fcmToken,omitempty"`
	LastActivityAt   time.Time           `json:"lastActivityAt,omitempty" bson:"lastActivityAt,omitempty"`
	CreatedAt        time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// Response is the standard API response envelope
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// LoginRequest represents the login payload
type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe,omitempty"`
}

// LoginResponse carries the issued tokens and the sanitized user
type LoginResponse struct {
	User            User   `json:"user"`
	Token           string `json:"token"`
	RefreshToken    string `json:"refreshToken,omitempty"`
	RememberMeToken string `json:"rememberMeToken,omitempty"`
}

// SignupRequest represents the self-registration payload.
// Role defaults to "executive" when omitted.
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role,omitempty"`
}

// CreateUserRequest is the admin user-creation payload
type CreateUserRequest struct {
	Name            string  `json:"name" validate:"required"`
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required,min=6"`
	Role            string  `json:"role" validate:"required,oneof=admin manager executive"`
	Phone           string  `json:"phone,omitempty"`
	AssignedTarget  float64 `json:"assignedTarget,omitempty"`
	AssignedManager string  `json:"assignedManager,omitempty"`
}

// UpdateProfileRequest is the self-service profile update payload
type UpdateProfileRequest struct {
	Name           string `json:"name,omitempty"`
	Phone          string `json:"phone,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// Sanitize strips fields that must never leave the server
func (u User) Sanitize() User {
	u.Password = ""
	u.TwoFactorSecret = ""
	return u
}
