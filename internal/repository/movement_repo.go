package repository

import (
	"context"

	"korecatalog/internal/dto"
	"korecatalog/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// exportRowCap bounds the PDF export query; beyond this the report is no
// longer printable anyway and the caller should narrow the date range.
const exportRowCap = 2000

// MovementTotals aggregates quantity by direction over a filtered ledger set.
type MovementTotals struct {
	In  int64
	Out int64
}

// MovementRepository is the append-only ledger store. Rows are only ever
// inserted — always inside the same transaction that updates the product's
// stock — and read back newest first.
type MovementRepository interface {
	CreateTx(tx *gorm.DB, m *model.StockMovement) error
	List(ctx context.Context, userID uuid.UUID, filter dto.MovementFilter) ([]model.StockMovement, int64, error)
	ListForExport(ctx context.Context, userID uuid.UUID, filter dto.MovementFilter) ([]model.StockMovement, error)
	SumByDirection(ctx context.Context, userID uuid.UUID, filter dto.MovementFilter) (MovementTotals, error)
}

type movementRepo struct{ db *gorm.DB }

func NewMovementRepository(db *gorm.DB) MovementRepository {
	return &movementRepo{db: db}
}

func (r *movementRepo) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

// scoped builds the owner-scoped, filtered base query. Owner scoping joins
// through products so a caller can never read another user's ledger.
func (r *movementRepo) scoped(ctx context.Context, userID uuid.UUID, filter dto.MovementFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Joins("JOIN products p ON p.id = stock_movements.product_id").
		Where("p.user_id = ?", userID)

	if filter.ProductID != "" {
		q = q.Where("stock_movements.product_id = ?", filter.ProductID)
	}
	if filter.Direction != "" {
		q = q.Where("stock_movements.direction = ?", filter.Direction)
	}
	return applyDateRange(q, "stock_movements.created_at", filter.From, filter.To)
}

func (r *movementRepo) List(ctx context.Context, userID uuid.UUID, filter dto.MovementFilter) ([]model.StockMovement, int64, error) {
	q := r.scoped(ctx, userID, filter)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var movements []model.StockMovement
	err := q.Order("stock_movements.created_at DESC").
		Limit(filter.Limit).Offset(offset).
		Preload("Product").
		Find(&movements).Error
	return movements, total, err
}

func (r *movementRepo) ListForExport(ctx context.Context, userID uuid.UUID, filter dto.MovementFilter) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.scoped(ctx, userID, filter).
		Order("stock_movements.created_at DESC").
		Limit(exportRowCap).
		Preload("Product").
		Find(&movements).Error
	return movements, err
}

func (r *movementRepo) SumByDirection(ctx context.Context, userID uuid.UUID, filter dto.MovementFilter) (MovementTotals, error) {
	type row struct {
		Direction string
		Total     int64
	}
	var rows []row
	err := r.scoped(ctx, userID, filter).
		Select("stock_movements.direction AS direction, COALESCE(SUM(stock_movements.quantity), 0) AS total").
		Group("stock_movements.direction").
		Scan(&rows).Error
	if err != nil {
		return MovementTotals{}, err
	}

	var totals MovementTotals
	for _, r := range rows {
		switch r.Direction {
		case model.DirectionIn:
			totals.In = r.Total
		case model.DirectionOut:
			totals.Out = r.Total
		}
	}
	return totals, nil
}
