package config

import (
	"errors"  // Error values for missing settings
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // Durations for TTLs and windows

	"github.com/joho/godotenv"   // For loading .env files
	"golang.org/x/crypto/bcrypt" // Default hashing cost
)

// Config holds the application configuration
type Config struct {
	AppPort           string        // Application port
	DBUser            string        // Database user
	DBPassword        string        // Database password
	DBHost            string        // Database host
	DBPort            string        // Database port
	DBName            string        // Database name
	JWTSecret         string        // JWT signing secret, required
	JWTTTL            time.Duration // Token lifetime
	BcryptCost        int           // Password hashing cost factor
	RateLimitRequests int           // Requests allowed per window
	RateLimitWindow   time.Duration // Rate limit window duration
	RedisAddr         string        // Redis server address
	RedisPass         string        // Redis password
	RedisDB           int           // Redis database number
	IsProd            bool          // Is production environment
}

// Load reads configuration from environment variables. There are no embedded
// fallbacks for the signing secret or the database: missing either is a
// startup error, never a silent default.
func Load() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present

	cfg := &Config{
		AppPort:    envOr("APP_PORT", "8080"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     envOr("DB_PORT", "3306"),
		DBName:     os.Getenv("DB_NAME"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		RedisAddr:  envOr("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPass:  os.Getenv("REDIS_PASS"),
		IsProd:     os.Getenv("IS_PROD") == "true",
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.DBUser == "" || cfg.DBHost == "" || cfg.DBName == "" {
		return nil, errors.New("database configuration is incomplete (DB_USER, DB_HOST, DB_NAME)")
	}

	cfg.RedisDB, _ = strconv.Atoi(os.Getenv("REDIS_DB"))

	var err error
	if cfg.JWTTTL, err = durationOr("JWT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = durationOr("RATE_LIMIT_WINDOW", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.RateLimitRequests, err = intOr("RATE_LIMIT_REQUESTS", 10); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = intOr("BCRYPT_COST", bcrypt.DefaultCost); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DSN builds the MySQL Data Source Name from the database settings
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

// envOr returns the named variable or a fallback when unset
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// durationOr parses the named variable as a duration or returns a fallback when unset
func durationOr(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.New(key + " must be a valid duration, for example 60s or 24h")
	}
	return d, nil
}

// intOr parses the named variable as a positive integer or returns a fallback when unset
func intOr(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, errors.New(key + " must be a positive integer")
	}
	return n, nil
}
