package main

import (
	"context"                           // Context for the Redis ping
	"gift_registry/internal/api"        // API handlers
	"gift_registry/internal/auth"       // Auth service
	"gift_registry/internal/config"     // Configuration
	"gift_registry/internal/middleware" // Middleware chain
	"gift_registry/internal/ratelimit"  // Fixed-window rate limiter
	"gift_registry/internal/store"      // GORM stores
	"log"                               // Startup logging

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg, err := config.Load() // Fails fast on missing secret or DB settings
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Wire the stores and the auth service
	users := store.NewUsers(db)
	gifts := store.NewGifts(db)
	svc := auth.NewService(users, cfg.JWTSecret, cfg.JWTTTL, cfg.BcryptCost)
	limiter := ratelimit.NewRedisLimiter(redisClient, cfg.RateLimitRequests, cfg.RateLimitWindow)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default()
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Rate limit applies before any auth or business logic
	r.Use(middleware.RateLimitMiddleware(limiter))

	// Public routes: no token required
	r.POST("/auth/register", api.RegisterHandler(svc, redisClient))
	r.POST("/auth/login", api.LoginHandler(svc))

	// Guarded auth routes
	authGroup := r.Group("/auth")
	authGroup.Use(middleware.TokenAuthMiddleware(cfg.JWTSecret))
	authGroup.GET("/profile", api.ProfileHandler(svc))
	authGroup.GET("/users", api.ListUsersHandler(svc, redisClient))
	authGroup.GET("/users/:id", api.GetUserHandler(svc))
	authGroup.PATCH("/users/:id", api.UpdateUserHandler(svc, redisClient))
	authGroup.DELETE("/users/:id", api.DeleteUserHandler(svc, redisClient))

	// Gift routes: reads trust the token, mutations re-check the store so a
	// deactivated account loses write access before its token expires
	giftGroup := r.Group("/gifts")
	giftGroup.Use(middleware.TokenAuthMiddleware(cfg.JWTSecret))
	giftGroup.GET("", api.ListGiftsHandler(gifts, redisClient))
	giftGroup.GET("/:id", api.GetGiftHandler(gifts))
	giftGroup.POST("", middleware.RequireActiveUser(svc), api.CreateGiftHandler(gifts, redisClient))
	giftGroup.PATCH("/:id", middleware.RequireActiveUser(svc), api.UpdateGiftHandler(gifts, redisClient))
	giftGroup.DELETE("/:id", middleware.RequireActiveUser(svc), api.DeleteGiftHandler(gifts, redisClient))

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server
}
