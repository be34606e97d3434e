package api

import (
	"context"                       // Context for cache invalidation
	"errors"                        // Error inspection
	"gift_registry/internal/auth"   // Auth service
	"gift_registry/internal/cache"  // Redis cache helpers
	"gift_registry/internal/domain" // Domain models
	"net/http"                      // HTTP status codes
	"time"                          // Timestamps
	"unicode"                       // Password character classes

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Structured logging
)

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=255"` // Display name, 3-255 chars
	Email    string `json:"email" binding:"required,email"`            // Well-formed, unique email
	Password string `json:"password" binding:"required"`               // Strength-checked separately
	Notes    string `json:"notes"`                                     // Optional profile notes
	Enable   *bool  `json:"enable"`                                    // Optional profile flag
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"` // Login key
	Password string `json:"password" binding:"required"`    // Plaintext password
}

// UserResponse is the outward projection of a user: every field except the
// password hash, which never leaves the service
type UserResponse struct {
	ID        string        `json:"id"`              // UUID
	Username  string        `json:"username"`        // Display name
	Email     string        `json:"email"`           // Login key
	Role      string        `json:"role"`            // user or admin
	IsActive  bool          `json:"isActive"`        // Active flag
	Notes     string        `json:"notes"`           // Profile notes
	Enable    *bool         `json:"enable"`          // Profile flag
	Gifts     []domain.Gift `json:"gifts,omitempty"` // Owned records, on association reads
	CreatedAt time.Time     `json:"createdAt"`       // Creation timestamp
	UpdatedAt time.Time     `json:"updatedAt"`       // Last update timestamp
}

// toUserResponse maps a user onto its outward projection
func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		Notes:     u.Notes,
		Enable:    u.Enable,
		Gifts:     u.Gifts,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// isStrongPassword checks length 8-50 with at least one uppercase letter, one
// lowercase letter, and one digit or special character
func isStrongPassword(password string) bool {
	if len(password) < 8 || len(password) > 50 {
		return false
	}
	var upper, lower, digitOrSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		default: // Digits and special characters land here
			digitOrSpecial = true
		}
	}
	return upper && lower && digitOrSpecial
}

// authErrorStatus maps service errors onto HTTP status and message. Missing
// users surface as unauthorized, not not-found, so lookups cannot be used to
// enumerate accounts.
func authErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "Email already registered"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusUnauthorized, "User not found"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// RegisterHandler creates a new account and returns it with an access token
func RegisterHandler(svc *auth.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Strength check beyond shape binding
		if !isStrongPassword(req.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be 8-50 characters with uppercase, lowercase, and number/special character"})
			return
		}
		user, token, err := svc.Register(c.Request.Context(), auth.RegisterInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
			Notes:    req.Notes,
			Enable:   req.Enable,
		})
		if err != nil {
			status, msg := authErrorStatus(err)
			c.JSON(status, gin.H{"error": msg})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,
			"email":   user.Email,
		}).Info("User registered")
		// New account invalidates the cached user listing
		_ = cache.Delete(context.Background(), rdb, cache.UserListKey())
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"user":         toUserResponse(user),
				"access_token": token,
			},
		})
	}
}

// LoginHandler verifies credentials and returns the account with a token.
// Unknown email, wrong password and deactivated account are indistinguishable
// to the caller.
func LoginHandler(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user, token, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			status, msg := authErrorStatus(err)
			c.JSON(status, gin.H{"error": msg})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"user":         toUserResponse(user),
				"access_token": token,
			},
		})
	}
}

// ProfileHandler returns the caller's own record
func ProfileHandler(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Set by the token guard
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		user, err := svc.GetProfile(c.Request.Context(), userID.(string))
		if err != nil {
			status, msg := authErrorStatus(err)
			c.JSON(status, gin.H{"error": msg})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": toUserResponse(user)})
	}
}
