package auth

import (
	"context"                       // Request-scoped cancellation
	"errors"                        // Error inspection
	"gift_registry/internal/domain" // Domain models
	"time"                          // Token lifetime
)

// UserStore is the persistence contract the auth service needs. The GORM
// implementation lives in internal/store; tests use the in-memory twin.
// Lookup methods return domain.ErrUserNotFound when no record matches, and
// Create/Save return domain.ErrEmailTaken on a unique-email violation.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByIDWithGifts(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Save(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, user *domain.User) error
	ListAll(ctx context.Context) ([]domain.User, error)
}

// Service orchestrates registration, login and user management over the
// credential store, the password hasher and the token issuer.
type Service struct {
	store  UserStore     // Credential store
	secret string        // Token signing secret, read-only after startup
	ttl    time.Duration // Token lifetime
	cost   int           // bcrypt cost factor
}

// NewService builds an auth service
func NewService(store UserStore, secret string, ttl time.Duration, cost int) *Service {
	return &Service{store: store, secret: secret, ttl: ttl, cost: cost}
}

// RegisterInput carries the fields accepted at registration
type RegisterInput struct {
	Username string // Display name
	Email    string // Login key
	Password string // Plaintext, hashed before persistence
	Notes    string // Optional profile notes
	Enable   *bool  // Optional profile flag
}

// UpdateInput carries the patchable user fields. There is deliberately no
// password field: password changes are not supported through this path.
type UpdateInput struct {
	Username *string // New display name
	Email    *string // New login key, still unique
	Notes    *string // New profile notes
	Enable   *bool   // New profile flag
	IsActive *bool   // Activate or deactivate the account
}

// Register creates a new user and issues a token. Returns
// domain.ErrEmailTaken when the email is already registered.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	// Fast-path duplicate check; the store's unique index is the real
	// arbiter under concurrent registrations.
	if _, err := s.store.FindByEmail(ctx, in.Email); err == nil {
		return nil, "", domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", err
	}
	hash, err := HashPassword(in.Password, s.cost)
	if err != nil {
		return nil, "", err
	}
	user := &domain.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		Role:     "user",
		IsActive: true,
		Notes:    in.Notes,
		Enable:   in.Enable,
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, "", err // ErrEmailTaken when a concurrent registration won
	}
	token, err := GenerateToken(user, s.secret, s.ttl)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and issues a token. An unknown email, an
// inactive account and a wrong password all return the same
// domain.ErrInvalidCredentials so callers cannot enumerate accounts.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !user.IsActive || !CheckPassword(password, user.Password) {
		return nil, "", domain.ErrInvalidCredentials
	}
	token, err := GenerateToken(user, s.secret, s.ttl)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ValidateUser resolves an identity to its current store truth. Deleted or
// deactivated users yield ErrUserNotFound, causing downstream rejection.
// Routes not mounted behind this recheck trust the token's claims until
// expiry: that staleness is a documented trade-off, not an oversight.
func (s *Service) ValidateUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// GetProfile returns the caller's own record. A missing user is reported as
// ErrUserNotFound, which the API layer maps to unauthorized.
func (s *Service) GetProfile(ctx context.Context, id string) (*domain.User, error) {
	return s.store.FindByID(ctx, id)
}

// ListUsers returns all users with their gift associations attached
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.store.ListAll(ctx)
}

// GetUser returns a single user with gift associations
func (s *Service) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.store.FindByIDWithGifts(ctx, id)
}

// UpdateUser applies a partial update and persists it. Only the fields
// present in the patch change; the password hash is untouchable here.
func (s *Service) UpdateUser(ctx context.Context, id string, in UpdateInput) (*domain.User, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Notes != nil {
		user.Notes = *in.Notes
	}
	if in.Enable != nil {
		user.Enable = in.Enable
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if err := s.store.Save(ctx, user); err != nil {
		return nil, err // ErrEmailTaken when the new email collides
	}
	return user, nil
}

// DeleteUser removes a user record. Ownership links on the user's gifts are
// nulled by the store's foreign-key contract.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, user)
}
