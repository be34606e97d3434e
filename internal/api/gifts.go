package api

import (
	"context"                       // Context for Redis operations
	"errors"                        // Error inspection
	"gift_registry/internal/cache"  // Redis cache helpers
	"gift_registry/internal/domain" // Domain models
	"net/http"                      // HTTP status codes
	"time"                          // Cache TTL

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Structured logging
)

// giftListCacheTTL bounds staleness of cached gift listings
const giftListCacheTTL = 60 * time.Second

// GiftStore is the persistence contract the gift handlers need. Implemented
// by the GORM store and its in-memory twin.
type GiftStore interface {
	Create(ctx context.Context, gift *domain.Gift) error
	FindByID(ctx context.Context, id string) (*domain.Gift, error)
	ListAll(ctx context.Context) ([]domain.Gift, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Gift, error)
	ListByOwner(ctx context.Context, userID string) ([]domain.Gift, error)
	Save(ctx context.Context, gift *domain.Gift) error
	Delete(ctx context.Context, gift *domain.Gift) error
}

// CreateGiftRequest is the gift creation payload
type CreateGiftRequest struct {
	URL         string `json:"url" binding:"required,max=500"`   // Link to the gift
	Title       string `json:"title" binding:"required,max=255"` // Gift title
	Description string `json:"description"`                      // Optional description
	Category    string `json:"category" binding:"max=100"`       // Optional category
}

// UpdateGiftRequest is the partial gift update payload
type UpdateGiftRequest struct {
	URL         *string `json:"url" binding:"omitempty,max=500"`   // New link
	Title       *string `json:"title" binding:"omitempty,max=255"` // New title
	Description *string `json:"description"`                       // New description
	Category    *string `json:"category" binding:"omitempty,max=100"` // New category
}

// callerOwns reports whether the request's identity may mutate the gift:
// the owning user, or any admin
func callerOwns(c *gin.Context, gift *domain.Gift) bool {
	if role, _ := c.Get("role"); role == "admin" {
		return true
	}
	userID, exists := c.Get("userID")
	return exists && gift.UserID != nil && *gift.UserID == userID.(string)
}

// invalidateGiftCaches drops the list cache variants a mutated gift can
// appear in. Simple version: unfiltered, its category, and its owner.
func invalidateGiftCaches(rdb *redis.Client, gift *domain.Gift) {
	ctx := context.Background()
	keys := []string{cache.GiftListKey("", "")}
	if gift.Category != "" {
		keys = append(keys, cache.GiftListKey(gift.Category, ""))
	}
	if gift.UserID != nil {
		keys = append(keys, cache.GiftListKey("", *gift.UserID))
	}
	_ = cache.Delete(ctx, rdb, keys...)
}

// CreateGiftHandler records a new gift owned by the caller
func CreateGiftHandler(gifts GiftStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateGiftRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		userID := c.GetString("userID") // Set by the token guard
		gift := &domain.Gift{
			URL:         req.URL,
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			UserID:      &userID,
		}
		if err := gifts.Create(c.Request.Context(), gift); err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,
				"error":   err.Error(),
			}).Error("Gift creation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create gift"})
			return
		}
		invalidateGiftCaches(rdb, gift)
		c.JSON(http.StatusCreated, gift)
	}
}

// ListGiftsHandler returns gift records, optionally filtered by category or
// owning user
func ListGiftsHandler(gifts GiftStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		category := c.Query("category")
		ownerID := c.Query("user_id")
		ctx := context.Background()
		cacheKey := cache.GiftListKey(category, ownerID)
		var cached []domain.Gift
		if found, err := cache.Get(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		var (
			result []domain.Gift
			err    error
		)
		switch {
		case ownerID != "":
			result, err = gifts.ListByOwner(c.Request.Context(), ownerID)
		case category != "":
			result, err = gifts.ListByCategory(c.Request.Context(), category)
		default:
			result, err = gifts.ListAll(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch gifts"})
			return
		}
		_ = cache.Set(ctx, rdb, cacheKey, result, giftListCacheTTL)
		c.JSON(http.StatusOK, result)
	}
}

// GetGiftHandler returns a single gift record
func GetGiftHandler(gifts GiftStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		gift, err := gifts.FindByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrGiftNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Gift not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch gift"})
			return
		}
		c.JSON(http.StatusOK, gift)
	}
}

// UpdateGiftHandler applies a partial update to a gift owned by the caller
func UpdateGiftHandler(gifts GiftStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateGiftRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		gift, err := gifts.FindByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrGiftNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Gift not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch gift"})
			return
		}
		if !callerOwns(c, gift) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this gift"})
			return
		}
		if req.URL != nil {
			gift.URL = *req.URL
		}
		if req.Title != nil {
			gift.Title = *req.Title
		}
		if req.Description != nil {
			gift.Description = *req.Description
		}
		if req.Category != nil {
			gift.Category = *req.Category
		}
		if err := gifts.Save(c.Request.Context(), gift); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update gift"})
			return
		}
		invalidateGiftCaches(rdb, gift)
		c.JSON(http.StatusOK, gift)
	}
}

// DeleteGiftHandler removes a gift owned by the caller
func DeleteGiftHandler(gifts GiftStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		gift, err := gifts.FindByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrGiftNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Gift not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch gift"})
			return
		}
		if !callerOwns(c, gift) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this gift"})
			return
		}
		if err := gifts.Delete(c.Request.Context(), gift); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete gift"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"gift_id": gift.ID,
			"user_id": c.GetString("userID"),
		}).Info("Gift deleted")
		invalidateGiftCaches(rdb, gift)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Gift deleted successfully"})
	}
}
