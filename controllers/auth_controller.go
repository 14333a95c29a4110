package controllers

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/salescomm/commission_backend/config"
	"github.com/salescomm/commission_backend/middleware"
	"github.com/salescomm/commission_backend/models"
	"github.com/salescomm/commission_backend/utils"
)

// AuthController contains authentication logic
type AuthController struct {
	DB            *mongo.Client
	logger        *log.Logger
	loginAttempts map[string]struct {
		count       int
		lastAttempt time.Time
	}
	loginAttemptsMu sync.RWMutex
}

// NewAuthController creates a new auth controller
func NewAuthController(db *mongo.Client) *AuthController {
	ac := &AuthController{
		DB:     db,
		logger: log.New(os.Stdout, "[AUTH] ", log.LstdFlags),
		loginAttempts: make(map[string]struct {
			count       int
			lastAttempt time.Time
		}),
	}

	go ac.startLoginAttemptCleanupRoutine()

	return ac
}

// Signup handles self-registration. The role defaults to executive; manager
// and admin accounts are only created through the admin endpoints.
func (ac *AuthController) Signup(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(ac.DB, "users")

	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	req.Name = utils.SanitizeInput(req.Name)
	req.Email = strings.ToLower(utils.SanitizeInput(req.Email))

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Name, email and password are required",
		})
	}

	if !utils.IsValidEmail(req.Email) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	if err := utils.ValidatePassword(req.Password); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	if req.Role == "" {
		req.Role = models.RoleExecutive
	}
	if req.Role != models.RoleExecutive {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Only executive accounts can self-register",
		})
	}

	// Check for existing email
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

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	employeeID, err := utils.GenerateEmployeeID(ac.DB.Database(config.GetDBName()), req.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate employee ID",
		})
	}

	now := time.Now()
	user := models.User{
		Name:       req.Name,
		Email:      req.Email,
		Password:   string(hashedPassword),
		Role:       req.Role,
		EmployeeID: employeeID,
		Phone:      req.Phone,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	result, err := collection.InsertOne(ctx, user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create user",
		})
	}

	user.ID = result.InsertedID.(primitive.ObjectID)
	ac.logger.Printf("New executive registered: %s (%s)", user.Email, user.EmployeeID)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Registration successful",
		Data:    user.Sanitize(),
	})
}

// Login authenticates a user and issues JWT tokens. When the account has
// two-factor enabled, a code is emailed instead and no token is issued until
// VerifyTwoFactor succeeds.
func (ac *AuthController) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(ac.DB, "users")

	var loginReq models.LoginRequest
	if err := c.Bind(&loginReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	loginReq.Email = strings.ToLower(utils.SanitizeInput(loginReq.Email))
	if loginReq.Email == "" || loginReq.Password == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and password are required",
		})
	}

	ac.loginAttemptsMu.RLock()
	attempts, exists := ac.loginAttempts[loginReq.Email]
	ac.loginAttemptsMu.RUnlock()

	if exists && attempts.count >= 5 && time.Since(attempts.lastAttempt) < 30*time.Minute {
		return c.JSON(http.StatusTooManyRequests, models.Response{
			Status:  http.StatusTooManyRequests,
			Message: "Too many failed login attempts. Please try again later.",
		})
	}

	var user models.User
	err := collection.FindOne(ctx, bson.M{"email": loginReq.Email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid credentials",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to find user",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(loginReq.Password)); err != nil {
		ac.recordFailedAttempt(loginReq.Email)
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid credentials",
		})
	}

	ac.loginAttemptsMu.Lock()
	delete(ac.loginAttempts, loginReq.Email)
	ac.loginAttemptsMu.Unlock()

	if !user.IsActive {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Account is deactivated",
		})
	}

	if user.TwoFactorEnabled {
		if err := ac.sendTwoFactorCode(ctx, user); err != nil {
			ac.logger.Printf("Failed to send 2FA code for %s: %v", user.Email, err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to send verification code",
			})
		}
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Verification code sent",
			Data: map[string]interface{}{
				"requiresTwoFactor": true,
				"userId":            user.ID.Hex(),
			},
		})
	}

	return ac.issueTokens(c, ctx, user, loginReq.RememberMe)
}

func (ac *AuthController) issueTokens(c echo.Context, ctx context.Context, user models.User, rememberMe bool) error {
	collection := config.GetCollection(ac.DB, "users")

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	// Update last activity; a failure here must not fail the login
	update := bson.M{"$set": bson.M{"lastActivityAt": time.Now(), "updatedAt": time.Now()}}
	if _, err := collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update); err != nil {
		ac.logger.Printf("Failed to update last activity: %v", err)
	}

	var rememberMeToken string
	if rememberMe {
		redisClient := config.GetRedisClient()
		if redisClient != nil {
			rememberMeToken, err = utils.GenerateRememberMeToken()
			if err == nil {
				credentials := utils.RememberedCredentials{
					Email:     user.Email,
					Role:      user.Role,
					UserID:    user.ID.Hex(),
					ExpiresAt: time.Now().AddDate(0, 1, 0),
				}
				if err := utils.StoreRememberedCredentials(redisClient, rememberMeToken, credentials, 30*24*time.Hour); err != nil {
					ac.logger.Printf("Failed to store remember me credentials: %v", err)
					rememberMeToken = ""
				}
			}
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: models.LoginResponse{
			User:            user.Sanitize(),
			Token:           token,
			RefreshToken:    refreshToken,
			RememberMeToken: rememberMeToken,
		},
	})
}

func (ac *AuthController) sendTwoFactorCode(ctx context.Context, user models.User) error {
	redisClient := config.GetRedisClient()
	if redisClient == nil {
		return fmt.Errorf("redis is not available")
	}

	code, err := generateNumericCode(6)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("2fa:%s", user.ID.Hex())
	if err := redisClient.Set(ctx, key, code, 5*time.Minute).Err(); err != nil {
		return err
	}

	body := fmt.Sprintf("Your verification code is %s. It expires in 5 minutes.", code)
	return utils.SendEmail(user.Email, "Your login verification code", body)
}

// VerifyTwoFactor completes a two-factor login
func (ac *AuthController) VerifyTwoFactor(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req struct {
		UserID string `json:"userId"`
		Code   string `json:"code"`
	}
	if err := c.Bind(&req); err != nil || req.UserID == "" || req.Code == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "User ID and code are required",
		})
	}

	redisClient := config.GetRedisClient()
	if redisClient == nil {
		return c.JSON(http.StatusServiceUnavailable, models.Response{
			Status:  http.StatusServiceUnavailable,
			Message: "Verification is temporarily unavailable",
		})
	}

	key := fmt.Sprintf("2fa:%s", req.UserID)
	stored, err := redisClient.Get(ctx, key).Result()
	if err != nil || stored != req.Code {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid or expired verification code",
		})
	}
	redisClient.Del(ctx, key)

	user, err := utils.GetUserByID(ac.DB, req.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "User not found",
		})
	}

	return ac.issueTokens(c, ctx, *user, false)
}

// EnableTwoFactor turns on email-based two-factor for the current user
func (ac *AuthController) EnableTwoFactor(c echo.Context) error {
	return ac.setTwoFactor(c, true)
}

// DisableTwoFactor turns off two-factor for the current user
func (ac *AuthController) DisableTwoFactor(c echo.Context) error {
	return ac.setTwoFactor(c, false)
}

func (ac *AuthController) setTwoFactor(c echo.Context, enabled bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	user, err := utils.GetUserByID(ac.DB, userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	collection := config.GetCollection(ac.DB, "users")
	update := bson.M{"$set": bson.M{"twoFactorEnabled": enabled, "updatedAt": time.Now()}}
	if _, err := collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update two-factor setting",
		})
	}

	message := "Two-factor authentication disabled"
	if enabled {
		message = "Two-factor authentication enabled"
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: message,
	})
}

// ValidateToken checks the Authorization header token and returns the user
func (ac *AuthController) ValidateToken(c echo.Context) error {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Missing authorization header",
		})
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	result, err := utils.ValidateToken(tokenString, ac.DB)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid or expired token",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Token is valid",
		Data:    result,
	})
}

// RefreshToken exchanges a refresh token for a new token pair
func (ac *AuthController) RefreshToken(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Refresh token is required",
		})
	}

	claims := &middleware.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(req.RefreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(middleware.GetJWTSecret()), nil
	})
	if err != nil || !token.Valid {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid or expired refresh token",
		})
	}

	user, err := utils.GetUserByID(ac.DB, claims.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "User not found",
		})
	}
	if !user.IsActive {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Account is deactivated",
		})
	}

	newToken, newRefreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Token refreshed",
		Data: map[string]interface{}{
			"token":        newToken,
			"refreshToken": newRefreshToken,
		},
	})
}

// Logout blacklists the current token until its natural expiry
func (ac *AuthController) Logout(c echo.Context) error {
	authHeader := c.Request().Header.Get("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Missing token",
		})
	}

	claims := middleware.GetUserFromToken(c)
	expiry := time.Now().Add(7 * 24 * time.Hour)
	if claims != nil && claims.ExpiresAt > 0 {
		expiry = time.Unix(claims.ExpiresAt, 0)
	}
	middleware.BlacklistToken(tokenString, expiry)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged out successfully",
	})
}

// GetRememberedCredentials resolves a remember-me token back to the stored
// identity so the client can pre-fill the login form
func (ac *AuthController) GetRememberedCredentials(c echo.Context) error {
	var req struct {
		RememberMeToken string `json:"rememberMeToken"`
	}
	if err := c.Bind(&req); err != nil || req.RememberMeToken == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Remember me token is required",
		})
	}

	redisClient := config.GetRedisClient()
	if redisClient == nil {
		return c.JSON(http.StatusServiceUnavailable, models.Response{
			Status:  http.StatusServiceUnavailable,
			Message: "Remember me is temporarily unavailable",
		})
	}

	credentials, err := utils.RetrieveRememberedCredentials(redisClient, req.RememberMeToken)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid or expired remember me token",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Credentials retrieved",
		Data: map[string]interface{}{
			"email": credentials.Email,
			"role":  credentials.Role,
		},
	})
}

// RemoveRememberedCredentials deletes a stored remember-me token
func (ac *AuthController) RemoveRememberedCredentials(c echo.Context) error {
	var req struct {
		RememberMeToken string `json:"rememberMeToken"`
	}
	if err := c.Bind(&req); err != nil || req.RememberMeToken == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Remember me token is required",
		})
	}

	redisClient := config.GetRedisClient()
	if redisClient == nil {
		return c.JSON(http.StatusServiceUnavailable, models.Response{
			Status:  http.StatusServiceUnavailable,
			Message: "Remember me is temporarily unavailable",
		})
	}

	if err := utils.RemoveRememberedCredentials(redisClient, req.RememberMeToken); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to remove remembered credentials",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Remembered credentials removed",
	})
}

// ChangePassword updates the current user's password after verifying the old one
func (ac *AuthController) ChangePassword(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.Bind(&req); err != nil || req.CurrentPassword == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Current and new passwords are required",
		})
	}

	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	user, err := utils.GetUserByID(ac.DB, userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Current password is incorrect",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	collection := config.GetCollection(ac.DB, "users")
	update := bson.M{"$set": bson.M{"password": string(hashedPassword), "updatedAt": time.Now()}}
	if _, err := collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update password",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Password changed successfully",
	})
}

func (ac *AuthController) recordFailedAttempt(identifier string) {
	ac.loginAttemptsMu.Lock()
	defer ac.loginAttemptsMu.Unlock()

	attempts, exists := ac.loginAttempts[identifier]
	if !exists {
		ac.loginAttempts[identifier] = struct {
			count       int
			lastAttempt time.Time
		}{count: 1, lastAttempt: time.Now()}
		return
	}
	ac.loginAttempts[identifier] = struct {
		count       int
		lastAttempt time.Time
	}{count: attempts.count + 1, lastAttempt: time.Now()}
}

func (ac *AuthController) startLoginAttemptCleanupRoutine() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		ac.loginAttemptsMu.Lock()
		for identifier, attempts := range ac.loginAttempts {
			if time.Since(attempts.lastAttempt) > 30*time.Minute {
				delete(ac.loginAttempts, identifier)
			}
		}
		ac.loginAttemptsMu.Unlock()
	}
}

func generateNumericCode(length int) (string, error) {
	var sb strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		sb.WriteString(n.String())
	}
	return sb.String(), nil
}
