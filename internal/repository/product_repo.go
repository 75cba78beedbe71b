package repository

import (
	"context"
	"fmt"

	"korecatalog/internal/dto"
	"korecatalog/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindOwned(ctx context.Context, userID, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, userID uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error)
	ListPublic(ctx context.Context, ownerUsername string, filter dto.ProductFilter) ([]model.Product, int64, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// Used inside transactions — callers must pass the tx instance.
	// FindOwnedForUpdateTx takes the product row lock that serializes all
	// stock and price mutations for one product.
	FindOwnedForUpdateTx(tx *gorm.DB, userID, id uuid.UUID) (*model.Product, error)
	CreateTx(tx *gorm.DB, p *model.Product) error
	SaveTx(tx *gorm.DB, p *model.Product) error
	UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) error
	ReplaceCategoriesTx(tx *gorm.DB, p *model.Product, cats []model.Category) error

	// ListWithoutHistory feeds the price-history backfill command.
	ListWithoutHistory(ctx context.Context) ([]model.Product, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Categories").
		Preload("Owner").
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productRepo) FindOwned(ctx context.Context, userID, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Categories").
		Where("id = ? AND user_id = ?", id, userID).
		First(&p).Error
	return &p, err
}

// FindOwnedForUpdateTx loads the product under SELECT ... FOR UPDATE. Every
// stock or price mutation must go through this lock so concurrent movements
// and saves serialize per product and the insufficient-stock check cannot race.
func (r *productRepo) FindOwnedForUpdateTx(tx *gorm.DB, userID, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&p).Error
	return &p, err
}

func applyProductFilter(q *gorm.DB, filter dto.ProductFilter) *gorm.DB {
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		q = q.Where("products.name ILIKE ? OR products.description ILIKE ?", like, like)
	}
	if filter.Category != "" {
		q = q.Joins("JOIN product_categories pc ON pc.product_id = products.id").
			Joins("JOIN categories cat ON cat.id = pc.category_id").
			Where("cat.slug = ?", filter.Category)
	}
	if filter.MinPrice != "" {
		q = q.Where("products.price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice != "" {
		q = q.Where("products.price <= ?", filter.MaxPrice)
	}
	if filter.MinStock != nil {
		q = q.Where("products.stock >= ?", *filter.MinStock)
	}
	if filter.MaxStock != nil {
		q = q.Where("products.stock <= ?", *filter.MaxStock)
	}
	return q
}

func productOrder(filter dto.ProductFilter) string {
	sort := filter.Sort
	if sort == "" {
		sort = "created_at"
	}
	dir := "DESC"
	if filter.Dir == "asc" {
		dir = "ASC"
	}
	return fmt.Sprintf("products.%s %s", sort, dir)
}

func (r *productRepo) List(ctx context.Context, userID uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("products.user_id = ?", userID)

	switch filter.Status {
	case "public":
		q = q.Where("products.public = true")
	case "private":
		q = q.Where("products.public = false")
	}
	q = applyProductFilter(q, filter)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var products []model.Product
	err := q.Order(productOrder(filter)).
		Limit(filter.Limit).Offset(offset).
		Preload("Categories").
		Find(&products).Error
	return products, total, err
}

// ListPublic serves the unauthenticated catalog. ownerUsername narrows to a
// single user's public shelf when non-empty.
func (r *productRepo) ListPublic(ctx context.Context, ownerUsername string, filter dto.ProductFilter) ([]model.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("products.public = true")
	if ownerUsername != "" {
		q = q.Joins("JOIN users u ON u.id = products.user_id").
			Where("u.username = ?", ownerUsername)
	}
	q = applyProductFilter(q, filter)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var products []model.Product
	err := q.Order(productOrder(filter)).
		Limit(filter.Limit).Offset(offset).
		Preload("Categories").
		Preload("Owner").
		Find(&products).Error
	return products, total, err
}

// CreateTx inserts the product and its category associations in the caller's
// transaction, so the initial price-history entry can land atomically with it.
func (r *productRepo) CreateTx(tx *gorm.DB, p *model.Product) error {
	return tx.Create(p).Error
}

func (r *productRepo) SaveTx(tx *gorm.DB, p *model.Product) error {
	// Omit the association — category membership changes only through
	// ReplaceCategoriesTx, so a plain save never rewrites the join table.
	return tx.Omit("Categories").Save(p).Error
}

func (r *productRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", delta)).Error
}

func (r *productRepo) ReplaceCategoriesTx(tx *gorm.DB, p *model.Product, cats []model.Category) error {
	return tx.Model(p).Association("Categories").Replace(cats)
}

func (r *productRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) ListWithoutHistory(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM price_history ph WHERE ph.product_id = products.id)").
		Find(&products).Error
	return products, err
}

func (r *productRepo) DB() *gorm.DB { return r.db }
