package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceHistoryEntry is one immutable snapshot of a product's price.
// Rows are append-only — never updated or deleted — and no two adjacent
// entries for the same product hold equal prices (deduplicated on write,
// inside the product-save transaction).
type PriceHistoryEntry struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	RecordedAt time.Time       `gorm:"not null;index"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (PriceHistoryEntry) TableName() string { return "price_history" }
