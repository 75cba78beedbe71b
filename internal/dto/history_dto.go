package dto

import "github.com/shopspring/decimal"

// HistoryFilter bounds the per-product history read. Same date semantics as
// MovementFilter: From inclusive, To inclusive via start-of-next-day bound.
type HistoryFilter struct {
	From  string `form:"from"  validate:"omitempty,datetime=2006-01-02"`
	To    string `form:"to"    validate:"omitempty,datetime=2006-01-02"`
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// PriceHistoryItem is one immutable price snapshot, newest first.
type PriceHistoryItem struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	Price      decimal.Decimal `json:"price"`
	RecordedAt string          `json:"recorded_at"`
}

type PriceHistoryListResponse struct {
	Data  []PriceHistoryItem `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ─── Dashboard ───────────────────────────────────────────────────────────────

// PriceSwing is the product with the largest percentage change between its
// two most recent entries (products with fewer than two entries excluded).
type PriceSwing struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	From        decimal.Decimal `json:"from"`
	To          decimal.Decimal `json:"to"`
	Percent     decimal.Decimal `json:"percent"`
}

// ProductTrendItem classifies one product by its two most recent snapshots
// and carries a bounded series for sparkline rendering.
type ProductTrendItem struct {
	ProductID   string            `json:"product_id"`
	ProductName string            `json:"product_name"`
	Entries     int               `json:"entries"`
	Latest      decimal.Decimal   `json:"latest"`
	Trend       string            `json:"trend"` // up | down | stable
	Sparkline   []decimal.Decimal `json:"sparkline"` // oldest → newest, ≤10 points
}

// PriceDashboardResponse is the cross-product price report for one user.
type PriceDashboardResponse struct {
	TotalEntries    int64              `json:"total_entries"`
	ProductCount    int                `json:"product_count"`
	MeanPerProduct  float64            `json:"mean_per_product"`
	MostChangedID   string             `json:"most_changed_id,omitempty"`
	MostChangedName string             `json:"most_changed_name,omitempty"`
	TopIncrease     *PriceSwing        `json:"top_increase,omitempty"`
	TopDecrease     *PriceSwing        `json:"top_decrease,omitempty"`
	Products        []ProductTrendItem `json:"products"`
}
