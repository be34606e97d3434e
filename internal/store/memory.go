package store

import (
	"context"                       // Contract parity with the GORM stores
	"gift_registry/internal/domain" // Domain models
	"sync"                          // Mutex for concurrent callers
	"time"                          // Timestamps

	"github.com/google/uuid" // ID generation outside GORM hooks
)

// MemoryUsers is an in-process credential store honoring the same contract as
// the GORM store, including email uniqueness under concurrent creates. Used by
// tests and database-less development; state does not survive restarts.
type MemoryUsers struct {
	mu    sync.Mutex              // Guards both maps
	users map[string]*domain.User // Keyed by ID
	gifts *MemoryGifts            // Optional association source for reads
}

// NewMemoryUsers builds an empty in-memory user store
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: make(map[string]*domain.User)}
}

// AttachGifts wires a gift store so reads can include gift associations
func (s *MemoryUsers) AttachGifts(gifts *MemoryGifts) {
	s.gifts = gifts
}

// FindByEmail returns the user with the given email
func (s *MemoryUsers) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// FindByID returns the user with the given ID
func (s *MemoryUsers) FindByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return copyUser(u), nil
}

// FindByIDWithGifts returns the user with the given ID and their gift records
func (s *MemoryUsers) FindByIDWithGifts(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Gifts = s.giftsOf(id)
	return user, nil
}

// Create persists a new user, rejecting duplicate emails
func (s *MemoryUsers) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = copyUser(user)
	return nil
}

// Save persists changes to an existing user, still enforcing email uniqueness
func (s *MemoryUsers) Save(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, u := range s.users {
		if id != user.ID && u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	user.UpdatedAt = time.Now()
	s.users[user.ID] = copyUser(user)
	return nil
}

// Delete removes a user record and nulls ownership on their gifts
func (s *MemoryUsers) Delete(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	delete(s.users, user.ID)
	s.mu.Unlock()
	if s.gifts != nil {
		s.gifts.disownAll(user.ID)
	}
	return nil
}

// ListAll returns every user with gift associations attached
func (s *MemoryUsers) ListAll(ctx context.Context) ([]domain.User, error) {
	s.mu.Lock()
	users := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *copyUser(u))
	}
	s.mu.Unlock()
	for i := range users {
		users[i].Gifts = s.giftsOf(users[i].ID)
	}
	return users, nil
}

// giftsOf returns the gifts owned by a user, or an empty slice
func (s *MemoryUsers) giftsOf(userID string) []domain.Gift {
	if s.gifts == nil {
		return []domain.Gift{}
	}
	gifts, _ := s.gifts.ListByOwner(context.Background(), userID)
	return gifts
}

// copyUser returns a defensive copy so callers never share map-backed memory
func copyUser(u *domain.User) *domain.User {
	c := *u
	if u.Enable != nil {
		enable := *u.Enable
		c.Enable = &enable
	}
	c.Gifts = nil
	return &c
}

// MemoryGifts is the in-process twin of the GORM gift store
type MemoryGifts struct {
	mu    sync.Mutex              // Guards the map
	gifts map[string]*domain.Gift // Keyed by ID
}

// NewMemoryGifts builds an empty in-memory gift store
func NewMemoryGifts() *MemoryGifts {
	return &MemoryGifts{gifts: make(map[string]*domain.Gift)}
}

// Create persists a new gift record
func (s *MemoryGifts) Create(ctx context.Context, gift *domain.Gift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gift.ID == "" {
		gift.ID = uuid.NewString()
	}
	now := time.Now()
	gift.CreatedAt = now
	gift.UpdatedAt = now
	s.gifts[gift.ID] = copyGift(gift)
	return nil
}

// FindByID returns the gift with the given ID
func (s *MemoryGifts) FindByID(ctx context.Context, id string) (*domain.Gift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gifts[id]
	if !ok {
		return nil, domain.ErrGiftNotFound
	}
	return copyGift(g), nil
}

// ListAll returns every gift record
func (s *MemoryGifts) ListAll(ctx context.Context) ([]domain.Gift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gifts := make([]domain.Gift, 0, len(s.gifts))
	for _, g := range s.gifts {
		gifts = append(gifts, *copyGift(g))
	}
	return gifts, nil
}

// ListByCategory returns gifts in the given category
func (s *MemoryGifts) ListByCategory(ctx context.Context, category string) ([]domain.Gift, error) {
	return s.filter(func(g *domain.Gift) bool { return g.Category == category })
}

// ListByOwner returns gifts owned by the given user
func (s *MemoryGifts) ListByOwner(ctx context.Context, userID string) ([]domain.Gift, error) {
	return s.filter(func(g *domain.Gift) bool { return g.UserID != nil && *g.UserID == userID })
}

// Save persists changes to an existing gift
func (s *MemoryGifts) Save(ctx context.Context, gift *domain.Gift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	gift.UpdatedAt = time.Now()
	s.gifts[gift.ID] = copyGift(gift)
	return nil
}

// Delete removes a gift record
func (s *MemoryGifts) Delete(ctx context.Context, gift *domain.Gift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.gifts, gift.ID)
	return nil
}

// filter returns gifts matching a predicate
func (s *MemoryGifts) filter(keep func(*domain.Gift) bool) ([]domain.Gift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gifts := make([]domain.Gift, 0)
	for _, g := range s.gifts {
		if keep(g) {
			gifts = append(gifts, *copyGift(g))
		}
	}
	return gifts, nil
}

// disownAll nulls the owner link on every gift owned by the given user
func (s *MemoryGifts) disownAll(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.gifts {
		if g.UserID != nil && *g.UserID == userID {
			g.UserID = nil
		}
	}
}

// copyGift returns a defensive copy so callers never share map-backed memory
func copyGift(g *domain.Gift) *domain.Gift {
	c := *g
	if g.UserID != nil {
		id := *g.UserID
		c.UserID = &id
	}
	return &c
}
