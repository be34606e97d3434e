package store

import (
	"context"                       // Request-scoped queries
	"errors"                        // Error inspection
	"gift_registry/internal/domain" // Domain models

	"github.com/go-sql-driver/mysql" // MySQL error codes
	"gorm.io/gorm"                   // GORM ORM library
)

// mysqlDuplicateEntry is the server error code for a unique-key violation
const mysqlDuplicateEntry = 1062

// Users is the GORM-backed credential store. The unique index on email is
// the source of truth for registration uniqueness: two concurrent creates
// with the same email resolve at the database, one of them observing
// domain.ErrEmailTaken.
type Users struct {
	db *gorm.DB // Database handle
}

// NewUsers builds a user store over a database handle
func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// FindByEmail returns the user with the given email
func (s *Users) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateUserError(err)
	}
	return &user, nil
}

// FindByID returns the user with the given ID
func (s *Users) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translateUserError(err)
	}
	return &user, nil
}

// FindByIDWithGifts returns the user with the given ID and their gift records
func (s *Users) FindByIDWithGifts(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Preload("Gifts").Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translateUserError(err)
	}
	return &user, nil
}

// Create persists a new user, enforcing email uniqueness at INSERT time
func (s *Users) Create(ctx context.Context, user *domain.User) error {
	return translateUserError(s.db.WithContext(ctx).Create(user).Error)
}

// Save persists changes to an existing user
func (s *Users) Save(ctx context.Context, user *domain.User) error {
	return translateUserError(s.db.WithContext(ctx).Save(user).Error)
}

// Delete removes a user record; gift ownership links are nulled by the
// foreign-key constraint
func (s *Users) Delete(ctx context.Context, user *domain.User) error {
	return translateUserError(s.db.WithContext(ctx).Delete(user).Error)
}

// ListAll returns every user with gift associations preloaded
func (s *Users) ListAll(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := s.db.WithContext(ctx).Preload("Gifts").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// translateUserError maps driver and ORM errors onto domain sentinels
func translateUserError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrUserNotFound
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return domain.ErrEmailTaken
	}
	return err
}
