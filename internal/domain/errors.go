package domain

import "errors"

// Domain error sentinels shared by the stores and the auth service.
var (
	ErrEmailTaken         = errors.New("email already registered") // Duplicate email at creation
	ErrUserNotFound       = errors.New("user not found")           // No such user record
	ErrGiftNotFound       = errors.New("gift not found")           // No such gift record
	ErrInvalidCredentials = errors.New("invalid credentials")      // Bad password, unknown or inactive account
)
