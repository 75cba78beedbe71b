package service

import (
	"context"
	"time"

	"korecatalog/internal/dto"
	"korecatalog/internal/model"
	"korecatalog/internal/repository"
	"korecatalog/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// adjustmentReason marks ledger rows created by a direct stock edit on the
// product form, as opposed to an explicit movement.
const adjustmentReason = "manual adjustment"

type ProductService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, userID uuid.UUID, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type productService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	movements  repository.MovementRepository
	history    PriceHistoryService
	dispatcher *worker.Dispatcher
}

func NewProductService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	movements repository.MovementRepository,
	history PriceHistoryService,
	dispatcher *worker.Dispatcher,
) ProductService {
	return &productService{
		products:   products,
		categories: categories,
		movements:  movements,
		history:    history,
		dispatcher: dispatcher,
	}
}

// Create inserts the product, its opening ledger row (when it starts with
// stock), and its first price-history entry in one transaction.
func (s *productService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	cats, err := s.resolveCategories(ctx, userID, req.CategoryIDs)
	if err != nil {
		return nil, err
	}

	p := &model.Product{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		MinStock:    req.MinStock,
		Public:      req.Public,
		Categories:  cats,
	}

	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if err := s.products.CreateTx(tx, p); err != nil {
			return err
		}
		if p.Stock > 0 {
			opening := &model.StockMovement{
				ProductID:   p.ID,
				Direction:   model.DirectionIn,
				Quantity:    p.Stock,
				Reason:      "initial stock",
				StockBefore: 0,
				StockAfter:  p.Stock,
			}
			if err := s.movements.CreateTx(tx, opening); err != nil {
				return err
			}
		}
		return s.history.RecordIfChangedTx(tx, p)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.invalidate(ctx, userID, p.ID)
	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) Get(ctx context.Context, userID, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.products.FindOwned(ctx, userID, id)
	if err != nil {
		return nil, orNotFound(err)
	}
	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) List(ctx context.Context, userID uuid.UUID, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	products, total, err := s.products.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, productToResponse(&products[i]))
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &dto.ProductListResponse{
		Data:       items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// Update merges the request into the product under the row lock. A direct
// stock edit does not bypass the ledger: the delta is recorded as a manual
// adjustment movement in the same transaction. A price change appends a
// history entry the same way.
func (s *productService) Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var cats []model.Category
	if req.CategoryIDs != nil {
		resolved, err := s.resolveCategories(ctx, userID, *req.CategoryIDs)
		if err != nil {
			return nil, err
		}
		cats = resolved
	}

	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		p, err := s.products.FindOwnedForUpdateTx(tx, userID, id)
		if err != nil {
			return orNotFound(err)
		}

		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Description != nil {
			p.Description = req.Description
		}
		if req.Price != nil {
			p.Price = *req.Price
		}
		if req.MinStock != nil {
			p.MinStock = *req.MinStock
		}
		if req.Public != nil {
			p.Public = *req.Public
		}

		if req.Stock != nil && *req.Stock != p.Stock {
			delta := *req.Stock - p.Stock
			adjustment := &model.StockMovement{
				ProductID:   p.ID,
				Direction:   model.DirectionIn,
				Quantity:    delta,
				Reason:      adjustmentReason,
				StockBefore: p.Stock,
				StockAfter:  *req.Stock,
			}
			if delta < 0 {
				adjustment.Direction = model.DirectionOut
				adjustment.Quantity = -delta
			}
			if err := s.movements.CreateTx(tx, adjustment); err != nil {
				return err
			}
			p.Stock = *req.Stock
		}

		if err := s.products.SaveTx(tx, p); err != nil {
			return err
		}
		if req.CategoryIDs != nil {
			if err := s.products.ReplaceCategoriesTx(tx, p, cats); err != nil {
				return err
			}
		}
		return s.history.RecordIfChangedTx(tx, p)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.invalidate(ctx, userID, id)

	// Reload for the response — the locked read carries no associations.
	p, err := s.products.FindOwned(ctx, userID, id)
	if err != nil {
		return nil, orNotFound(err)
	}
	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.products.Delete(ctx, userID, id); err != nil {
		return orNotFound(err)
	}
	s.invalidate(ctx, userID, id)
	return nil
}

// resolveCategories maps request IDs to owned category rows. Any ID that is
// unknown or belongs to another user fails the whole request.
func (s *productService) resolveCategories(ctx context.Context, userID uuid.UUID, ids []string) ([]model.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	parsed := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, ErrCategoryNotFound
		}
		parsed = append(parsed, id)
	}

	cats, err := s.categories.FindManyOwned(ctx, userID, parsed)
	if err != nil {
		return nil, err
	}
	if len(cats) != len(parsed) {
		return nil, ErrCategoryNotFound
	}
	return cats, nil
}

func (s *productService) invalidate(ctx context.Context, userID, productID uuid.UUID) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.EnqueueCacheInvalidation(ctx, worker.CachePayload{
		UserID:    userID.String(),
		ProductID: productID.String(),
	}); err != nil {
		log.Warn().Err(err).Str("product_id", productID.String()).Msg("cache invalidation enqueue failed")
	}
}

func productToResponse(p *model.Product) dto.ProductResponse {
	cats := make([]dto.CategoryResponse, 0, len(p.Categories))
	for i := range p.Categories {
		cats = append(cats, categoryToResponse(&p.Categories[i]))
	}
	return dto.ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		Public:      p.Public,
		Categories:  cats,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
