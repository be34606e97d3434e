package api

import (
	"context"                      // Context for Redis operations
	"gift_registry/internal/auth"  // Auth service
	"gift_registry/internal/cache" // Redis cache helpers
	"net/http"                     // HTTP status codes
	"time"                         // Cache TTL

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Structured logging
)

// userListCacheTTL bounds staleness of the cached user listing
const userListCacheTTL = 60 * time.Second

// UpdateUserRequest is the partial-update payload. The password field is
// accepted in the body but never applied: password changes require a
// dedicated flow, so the field is silently dropped here.
type UpdateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=255"` // New display name
	Email    *string `json:"email" binding:"omitempty,email"`            // New login key
	Notes    *string `json:"notes"`                                      // New profile notes
	Enable   *bool   `json:"enable"`                                     // New profile flag
	IsActive *bool   `json:"isActive"`                                   // Activate or deactivate
	Password *string `json:"password"`                                   // Ignored by design
}

// ListUsersHandler returns all users with their gift records
func ListUsersHandler(svc *auth.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Use background context for Redis
		var cached []UserResponse
		if found, err := cache.Get(ctx, rdb, cache.UserListKey(), &cached); err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		users, err := svc.ListUsers(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		resp := make([]UserResponse, len(users))
		for i := range users {
			resp[i] = toUserResponse(&users[i])
		}
		_ = cache.Set(ctx, rdb, cache.UserListKey(), resp, userListCacheTTL)
		c.JSON(http.StatusOK, resp)
	}
}

// GetUserHandler returns a single user with gift records. A missing user is
// unauthorized, not not-found.
func GetUserHandler(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := svc.GetUser(c.Request.Context(), c.Param("id"))
		if err != nil {
			status, msg := authErrorStatus(err)
			c.JSON(status, gin.H{"error": msg})
			return
		}
		c.JSON(http.StatusOK, toUserResponse(user))
	}
}

// UpdateUserHandler applies a partial update to a user
func UpdateUserHandler(svc *auth.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateUserRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// req.Password is intentionally not forwarded
		user, err := svc.UpdateUser(c.Request.Context(), c.Param("id"), auth.UpdateInput{
			Username: req.Username,
			Email:    req.Email,
			Notes:    req.Notes,
			Enable:   req.Enable,
			IsActive: req.IsActive,
		})
		if err != nil {
			status, msg := authErrorStatus(err)
			c.JSON(status, gin.H{"error": msg})
			return
		}
		_ = cache.Delete(context.Background(), rdb, cache.UserListKey())
		c.JSON(http.StatusOK, gin.H{"success": true, "data": toUserResponse(user)})
	}
}

// DeleteUserHandler removes a user record
func DeleteUserHandler(svc *auth.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := svc.DeleteUser(c.Request.Context(), id); err != nil {
			status, msg := authErrorStatus(err)
			c.JSON(status, gin.H{"error": msg})
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": id}).Info("User deleted")
		_ = cache.Delete(context.Background(), rdb, cache.UserListKey())
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
	}
}
