package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name        string          `json:"name"         validate:"required,min=2,max=255"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"        validate:"min=0"`
	Stock       int             `json:"stock"        validate:"min=0"`
	MinStock    int             `json:"min_stock"    validate:"min=0"`
	Public      bool            `json:"public"`
	CategoryIDs []string        `json:"category_ids" validate:"omitempty,dive,uuid"`
}

// UpdateProductRequest carries optional fields; a present Stock value is a
// direct stock edit and goes through the ledger as an adjustment movement.
type UpdateProductRequest struct {
	Name        *string          `json:"name"         validate:"omitempty,min=2,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"        validate:"omitempty,min=0"`
	MinStock    *int             `json:"min_stock"    validate:"omitempty,min=0"`
	Public      *bool            `json:"public"`
	CategoryIDs *[]string        `json:"category_ids" validate:"omitempty,dive,uuid"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

// ProductFilter mirrors the list-view query string. Status: "public",
// "private" or empty for both.
type ProductFilter struct {
	Query    string `form:"q"`
	Status   string `form:"status"    validate:"omitempty,oneof=public private"`
	Category string `form:"category"`
	MinPrice string `form:"min_price"`
	MaxPrice string `form:"max_price"`
	MinStock *int   `form:"min_stock"`
	MaxStock *int   `form:"max_stock"`
	Sort     string `form:"sort"      validate:"omitempty,oneof=name price stock created_at"`
	Dir      string `form:"dir"       validate:"omitempty,oneof=asc desc"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description *string            `json:"description"`
	Price       decimal.Decimal    `json:"price"`
	Stock       int                `json:"stock"`
	MinStock    int                `json:"min_stock"`
	Public      bool               `json:"public"`
	Categories  []CategoryResponse `json:"categories"`
	CreatedAt   string             `json:"created_at"`
	UpdatedAt   string             `json:"updated_at"`
}

type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// ProductDetailResponse embeds the product's audit trails.
type ProductDetailResponse struct {
	ProductResponse
	PriceHistory []PriceHistoryItem `json:"price_history"`
	Movements    []MovementResponse `json:"movements"`
}

// CatalogProductResponse is the public (unauthenticated) projection — it
// exposes the owner's username but no internal thresholds.
type CatalogProductResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description *string            `json:"description"`
	Price       decimal.Decimal    `json:"price"`
	Stock       int                `json:"stock"`
	Owner       string             `json:"owner"`
	Categories  []CategoryResponse `json:"categories"`
}

type CatalogListResponse struct {
	Data  []CatalogProductResponse `json:"data"`
	Total int64                    `json:"total"`
	Page  int                      `json:"page"`
	Limit int                      `json:"limit"`
}
