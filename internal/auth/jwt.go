package auth

import (
	"gift_registry/internal/domain" // Domain models
	"time"                          // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// Claims embedded in issued tokens. The registered subject carries the user ID;
// email and role are custom claims so the guard can attach them without a
// store lookup.
type Claims struct {
	Email                string `json:"email"` // User email
	Role                 string `json:"role"`  // User role
	jwt.RegisteredClaims        // Standard JWT claims (sub, exp, iat)
}

// GenerateToken signs an HS256 token for the given user, valid for ttl
func GenerateToken(user *domain.User, secret string, ttl time.Duration) (string, error) {
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseToken parses and validates a token string, checking signature and expiry
func ParseToken(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	})
	if err != nil {
		return nil, err // Malformed, expired or bad signature
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}
