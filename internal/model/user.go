package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a catalog owner. Every product, category, movement and price
// history entry is scoped to exactly one user.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Active       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Profile *Profile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
