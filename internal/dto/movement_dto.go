package dto

// ApplyMovementRequest records one discrete stock change.
type ApplyMovementRequest struct {
	Direction string `json:"direction" validate:"required"`
	Quantity  int    `json:"quantity"  validate:"required,gt=0"`
	Reason    string `json:"reason"    validate:"max=255"`
}

// MovementFilter narrows the ledger read path. From/To are dates
// ("2006-01-02"); From is an inclusive floor at start of day, To is
// inclusive — the query bounds at start of the following day.
type MovementFilter struct {
	ProductID string `form:"product"   validate:"omitempty,uuid"`
	Direction string `form:"direction" validate:"omitempty,oneof=IN OUT"`
	From      string `form:"from"      validate:"omitempty,datetime=2006-01-02"`
	To        string `form:"to"        validate:"omitempty,datetime=2006-01-02"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type MovementResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Direction   string `json:"direction"`
	Quantity    int    `json:"quantity"`
	Reason      string `json:"reason"`
	StockBefore int    `json:"stock_before"`
	StockAfter  int    `json:"stock_after"`
	CreatedAt   string `json:"created_at"`
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// MovementSummaryResponse aggregates quantity by direction over a filtered set.
type MovementSummaryResponse struct {
	TotalIn  int64 `json:"total_in"`
	TotalOut int64 `json:"total_out"`
	Net      int64 `json:"net"`
}
