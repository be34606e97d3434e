package store

import (
	"context"                       // Request-scoped queries
	"errors"                        // Error inspection
	"gift_registry/internal/domain" // Domain models

	"gorm.io/gorm" // GORM ORM library
)

// Gifts is the GORM-backed gift record store
type Gifts struct {
	db *gorm.DB // Database handle
}

// NewGifts builds a gift store over a database handle
func NewGifts(db *gorm.DB) *Gifts {
	return &Gifts{db: db}
}

// Create persists a new gift record
func (s *Gifts) Create(ctx context.Context, gift *domain.Gift) error {
	return s.db.WithContext(ctx).Create(gift).Error
}

// FindByID returns the gift with the given ID
func (s *Gifts) FindByID(ctx context.Context, id string) (*domain.Gift, error) {
	var gift domain.Gift
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&gift).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGiftNotFound
		}
		return nil, err
	}
	return &gift, nil
}

// ListAll returns every gift record
func (s *Gifts) ListAll(ctx context.Context) ([]domain.Gift, error) {
	var gifts []domain.Gift
	if err := s.db.WithContext(ctx).Find(&gifts).Error; err != nil {
		return nil, err
	}
	return gifts, nil
}

// ListByCategory returns gifts in the given category
func (s *Gifts) ListByCategory(ctx context.Context, category string) ([]domain.Gift, error) {
	var gifts []domain.Gift
	if err := s.db.WithContext(ctx).Where("category = ?", category).Find(&gifts).Error; err != nil {
		return nil, err
	}
	return gifts, nil
}

// ListByOwner returns gifts owned by the given user
func (s *Gifts) ListByOwner(ctx context.Context, userID string) ([]domain.Gift, error) {
	var gifts []domain.Gift
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&gifts).Error; err != nil {
		return nil, err
	}
	return gifts, nil
}

// Save persists changes to an existing gift
func (s *Gifts) Save(ctx context.Context, gift *domain.Gift) error {
	return s.db.WithContext(ctx).Save(gift).Error
}

// Delete removes a gift record
func (s *Gifts) Delete(ctx context.Context, gift *domain.Gift) error {
	return s.db.WithContext(ctx).Delete(gift).Error
}
