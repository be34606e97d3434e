package auth

import "golang.org/x/crypto/bcrypt" // Password hashing

// HashPassword derives a salted bcrypt hash from a plaintext password.
// A cost of zero selects bcrypt's default cost factor.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the stored hash.
// A malformed stored hash yields false, never an error into the caller.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
