package repository

import (
	"context"

	"korecatalog/internal/dto"
	"korecatalog/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PriceHistoryRepository stores the immutable price trail. Entries are only
// inserted — the dedupe decision (skip when the latest entry already carries
// the price) is made by the service inside the product-save transaction,
// under the product row lock.
type PriceHistoryRepository interface {
	Create(ctx context.Context, e *model.PriceHistoryEntry) error
	CreateTx(tx *gorm.DB, e *model.PriceHistoryEntry) error
	// LatestTx reads the newest entry inside the save transaction; returns
	// gorm.ErrRecordNotFound when the product has no history yet.
	LatestTx(tx *gorm.DB, productID uuid.UUID) (*model.PriceHistoryEntry, error)
	ListByProduct(ctx context.Context, userID, productID uuid.UUID, filter dto.HistoryFilter) ([]model.PriceHistoryEntry, int64, error)
	// ListByOwner returns every entry across the user's products, grouped by
	// product and newest first within each — the dashboard working set.
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]model.PriceHistoryEntry, error)
}

type priceHistoryRepo struct{ db *gorm.DB }

func NewPriceHistoryRepository(db *gorm.DB) PriceHistoryRepository {
	return &priceHistoryRepo{db: db}
}

func (r *priceHistoryRepo) Create(ctx context.Context, e *model.PriceHistoryEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *priceHistoryRepo) CreateTx(tx *gorm.DB, e *model.PriceHistoryEntry) error {
	return tx.Create(e).Error
}

func (r *priceHistoryRepo) LatestTx(tx *gorm.DB, productID uuid.UUID) (*model.PriceHistoryEntry, error) {
	var e model.PriceHistoryEntry
	err := tx.
		Where("product_id = ?", productID).
		Order("recorded_at DESC").
		First(&e).Error
	return &e, err
}

func (r *priceHistoryRepo) ListByProduct(ctx context.Context, userID, productID uuid.UUID, filter dto.HistoryFilter) ([]model.PriceHistoryEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.PriceHistoryEntry{}).
		Joins("JOIN products p ON p.id = price_history.product_id").
		Where("p.user_id = ? AND price_history.product_id = ?", userID, productID)
	q = applyDateRange(q, "price_history.recorded_at", filter.From, filter.To)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var entries []model.PriceHistoryEntry
	err := q.Order("price_history.recorded_at DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&entries).Error
	return entries, total, err
}

func (r *priceHistoryRepo) ListByOwner(ctx context.Context, userID uuid.UUID) ([]model.PriceHistoryEntry, error) {
	var entries []model.PriceHistoryEntry
	err := r.db.WithContext(ctx).
		Joins("JOIN products p ON p.id = price_history.product_id").
		Where("p.user_id = ?", userID).
		Order("price_history.product_id, price_history.recorded_at DESC").
		Preload("Product").
		Find(&entries).Error
	return entries, err
}
