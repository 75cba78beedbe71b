package service

import (
	"context"
	"errors"
	"fmt"

	"korecatalog/internal/dto"
	"korecatalog/internal/model"
	"korecatalog/internal/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// duplicateSlugProbeCap bounds the "-copy-N" suffix search when duplicating
// a category that has already been duplicated many times.
const duplicateSlugProbeCap = 50

// CategoryService defines business operations for product categories.
type CategoryService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	List(ctx context.Context, userID uuid.UUID, filter dto.CategoryFilter) ([]dto.CategoryResponse, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*dto.CategoryResponse, error)
	Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Duplicate(ctx context.Context, userID, id uuid.UUID) (*dto.CategoryResponse, error)
	CreateDefaults(ctx context.Context, userID uuid.UUID) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	catSlug := req.Slug
	if catSlug == "" {
		catSlug = slug.Make(req.Name)
	}

	if err := s.ensureSlugFree(ctx, userID, catSlug, uuid.Nil); err != nil {
		return nil, err
	}

	c := &model.Category{
		UserID:      userID,
		Name:        req.Name,
		Slug:        catSlug,
		Description: req.Description,
	}
	if req.Color != "" {
		c.Color = req.Color
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := categoryToResponse(c)
	return &resp, nil
}

func (s *categoryService) List(ctx context.Context, userID uuid.UUID, filter dto.CategoryFilter) ([]dto.CategoryResponse, error) {
	cats, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoryResponse, 0, len(cats))
	for i := range cats {
		result = append(result, categoryToResponse(&cats[i]))
	}
	return result, nil
}

func (s *categoryService) Get(ctx context.Context, userID, id uuid.UUID) (*dto.CategoryResponse, error) {
	c, err := s.repo.FindOwned(ctx, userID, id)
	if err != nil {
		return nil, orNotFound(err)
	}
	resp := categoryToResponse(c)
	return &resp, nil
}

func (s *categoryService) Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := s.repo.FindOwned(ctx, userID, id)
	if err != nil {
		return nil, orNotFound(err)
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Slug != nil && *req.Slug != c.Slug {
		if err := s.ensureSlugFree(ctx, userID, *req.Slug, id); err != nil {
			return nil, err
		}
		c.Slug = *req.Slug
	}
	if req.Description != nil {
		c.Description = req.Description
	}
	if req.Color != nil {
		c.Color = *req.Color
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := categoryToResponse(c)
	return &resp, nil
}

func (s *categoryService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return orNotFound(s.repo.Delete(ctx, userID, id))
}

// Duplicate clones a category under a derived name and slug. The clone gets
// " (Copy)" appended to the name and "-copy" to the slug; further duplicates
// probe "-copy-2", "-copy-3", ... until a free slug is found.
func (s *categoryService) Duplicate(ctx context.Context, userID, id uuid.UUID) (*dto.CategoryResponse, error) {
	src, err := s.repo.FindOwned(ctx, userID, id)
	if err != nil {
		return nil, orNotFound(err)
	}

	newSlug, err := s.freeCopySlug(ctx, userID, src.Slug)
	if err != nil {
		return nil, err
	}

	clone := &model.Category{
		UserID:      userID,
		Name:        src.Name + " (Copy)",
		Slug:        newSlug,
		Description: src.Description,
		Color:       src.Color,
	}
	if err := s.repo.Create(ctx, clone); err != nil {
		return nil, err
	}
	resp := categoryToResponse(clone)
	return &resp, nil
}

// defaultCategories seeds every new account so the product form is never an
// empty dropdown.
var defaultCategories = []struct {
	name  string
	color string
}{
	{"General", "#3b82f6"},
	{"Electronics", "#8b5cf6"},
	{"Clothing", "#ec4899"},
	{"Food & Drink", "#22c55e"},
	{"Other", "#6b7280"},
}

func (s *categoryService) CreateDefaults(ctx context.Context, userID uuid.UUID) error {
	cats := make([]model.Category, 0, len(defaultCategories))
	for _, d := range defaultCategories {
		cats = append(cats, model.Category{
			UserID: userID,
			Name:   d.name,
			Slug:   slug.Make(d.name),
			Color:  d.color,
		})
	}
	return s.repo.CreateBatch(ctx, cats)
}

func (s *categoryService) ensureSlugFree(ctx context.Context, userID uuid.UUID, catSlug string, selfID uuid.UUID) error {
	existing, err := s.repo.FindBySlug(ctx, userID, catSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrSlugTaken
	}
	return nil
}

func (s *categoryService) freeCopySlug(ctx context.Context, userID uuid.UUID, base string) (string, error) {
	candidate := base + "-copy"
	for n := 2; n <= duplicateSlugProbeCap; n++ {
		_, err := s.repo.FindBySlug(ctx, userID, candidate)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s-copy-%d", base, n)
	}
	return "", fmt.Errorf("could not derive a free slug for %q", base)
}

func categoryToResponse(c *model.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Color:       c.Color,
	}
}
