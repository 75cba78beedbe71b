package repository

import (
	"context"
	"fmt"

	"korecatalog/internal/dto"
	"korecatalog/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryRepository scopes every operation to the owning user. Slug
// uniqueness per owner is enforced by the composite unique index, so a
// conflicting Create fails at the database rather than racing an
// application-level check.
type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) error
	CreateBatch(ctx context.Context, cs []model.Category) error
	FindOwned(ctx context.Context, userID, id uuid.UUID) (*model.Category, error)
	FindBySlug(ctx context.Context, userID uuid.UUID, slug string) (*model.Category, error)
	FindManyOwned(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]model.Category, error)
	List(ctx context.Context, userID uuid.UUID, filter dto.CategoryFilter) ([]model.Category, error)
	Update(ctx context.Context, c *model.Category) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type categoryRepo struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository { return &categoryRepo{db: db} }

func (r *categoryRepo) Create(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// CreateBatch inserts the default category set for a fresh account.
func (r *categoryRepo) CreateBatch(ctx context.Context, cs []model.Category) error {
	if len(cs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&cs).Error
}

func (r *categoryRepo) FindOwned(ctx context.Context, userID, id uuid.UUID) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&c).Error
	return &c, err
}

func (r *categoryRepo) FindBySlug(ctx context.Context, userID uuid.UUID, slug string) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND slug = ?", userID, slug).
		First(&c).Error
	return &c, err
}

func (r *categoryRepo) FindManyOwned(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]model.Category, error) {
	var cs []model.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&cs).Error
	return cs, err
}

func (r *categoryRepo) List(ctx context.Context, userID uuid.UUID, filter dto.CategoryFilter) ([]model.Category, error) {
	sort := filter.Sort
	if sort == "" {
		sort = "name"
	}
	dir := "ASC"
	if filter.Dir == "desc" {
		dir = "DESC"
	}

	var cs []model.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(fmt.Sprintf("%s %s", sort, dir)).
		Find(&cs).Error
	return cs, err
}

func (r *categoryRepo) Update(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *categoryRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Category{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
