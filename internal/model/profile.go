package model

import (
	"time"

	"github.com/google/uuid"
)

// Display preference values stored on Profile.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	ViewModeGrid = "grid"
	ViewModeList = "list"
)

// Profile holds per-user display preferences. Created together with the
// user and updated through the profile endpoints — handlers read it into an
// explicit settings object instead of keeping ambient session state.
type Profile struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Theme            string    `gorm:"type:varchar(10);not null;default:'light'"`
	ProductViewMode  string    `gorm:"type:varchar(10);not null;default:'grid'"`
	CategoryViewMode string    `gorm:"type:varchar(10);not null;default:'grid'"`
	UpdatedAt        time.Time
}
