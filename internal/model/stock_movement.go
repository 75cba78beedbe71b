package model

import (
	"time"

	"github.com/google/uuid"
)

// Movement directions. Quantity is always positive; the direction carries
// the sign.
const (
	DirectionIn  = "IN"
	DirectionOut = "OUT"
)

// StockMovement is one append-only ledger row. StockBefore/StockAfter are
// captured under the product row lock, so the ledger is self-describing:
// replaying the rows always reproduces the product's stock.
type StockMovement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Direction   string    `gorm:"type:varchar(3);not null"`
	Quantity    int       `gorm:"not null"`
	Reason      string
	StockBefore int `gorm:"not null"`
	StockAfter  int `gorm:"not null"`
	CreatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (StockMovement) TableName() string { return "stock_movements" }
