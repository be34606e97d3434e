package domain

import (
	"time" // Timestamps

	"github.com/google/uuid" // UUID generation for primary keys
	"gorm.io/gorm"           // GORM ORM library
)

// Gift Model — a record owned by a user
type Gift struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`    // UUID primary key
	URL         string    `gorm:"size:500;not null" json:"url"`          // Link to the gift
	Title       string    `gorm:"size:255;not null" json:"title"`        // Gift title
	Description string    `gorm:"type:text" json:"description"`          // Optional description
	Category    string    `gorm:"size:100" json:"category"`              // Optional category
	UserID      *string   `gorm:"type:char(36);index" json:"user_id"`    // Owning user, nullable
	CreatedAt   time.Time `json:"createdAt"`                             // Set by the store
	UpdatedAt   time.Time `json:"updatedAt"`                             // Maintained by the store
}

// BeforeCreate assigns a UUID primary key if one is not already set
func (g *Gift) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
