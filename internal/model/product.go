package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the central catalog entity. Stock is a derived figure: it is
// only ever mutated alongside a StockMovement row, inside the same
// transaction, so the ledger always explains the current value.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"index;not null"`
	Description *string
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock       int             `gorm:"not null;default:0"`
	// MinStock triggers a low-stock alert when an OUT movement drops the
	// balance to or below it; 0 disables alerting for the product.
	MinStock  int  `gorm:"not null;default:0"`
	Public    bool `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Owner      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Categories []Category `gorm:"many2many:product_categories"`
}
