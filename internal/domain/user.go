package domain

import (
	"time" // Timestamps

	"github.com/google/uuid" // UUID generation for primary keys
	"gorm.io/gorm"           // GORM ORM library
)

// User Model — the single identity record. The old standalone "person" profile
// (notes, enable) is folded into this entity instead of living in a second table.
type User struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`        // UUID primary key
	Username  string    `gorm:"size:255;not null" json:"username"`         // Display name, not unique
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"` // Login key, unique
	Password  string    `gorm:"not null" json:"-"`                         // bcrypt hash, never serialized
	Role      string    `gorm:"size:50;default:user" json:"role"`          // Role: user or admin
	IsActive  bool      `gorm:"default:true" json:"isActive"`              // Inactive users cannot log in
	Notes     string    `gorm:"type:text" json:"notes"`                    // Free-form profile notes
	Enable    *bool     `gorm:"default:true" json:"enable"`                // Optional profile flag
	Gifts     []Gift    `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"gifts,omitempty"` // Owned gift records
	CreatedAt time.Time `json:"createdAt"`                                 // Set by the store
	UpdatedAt time.Time `json:"updatedAt"`                                 // Maintained by the store
}

// BeforeCreate assigns a UUID primary key if one is not already set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
