package model

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies a user's products. The slug is unique per owner, not
// globally — enforced by a composite unique index so concurrent creates
// cannot race past an application-level check.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uni_categories_owner_slug"`
	Name        string    `gorm:"not null"`
	Slug        string    `gorm:"not null;uniqueIndex:uni_categories_owner_slug"`
	Description *string
	// Color is a hex value used by the UI when rendering the category badge.
	Color     string `gorm:"type:varchar(7);not null;default:'#3b82f6'"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Owner *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Category) TableName() string { return "categories" }
