package service

import (
	"context"
	"fmt"
	"time"

	"korecatalog/internal/dto"
	"korecatalog/internal/infra"
	"korecatalog/internal/model"
	"korecatalog/internal/repository"
	"korecatalog/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// LedgerService owns the stock-movement ledger. Every stock change goes
// through ApplyMovement: the movement row and the product's stock column are
// written in one transaction under the product row lock, so the ledger always
// explains the balance and an overdraw can never slip through a race.
type LedgerService interface {
	ApplyMovement(ctx context.Context, userID, productID uuid.UUID, req dto.ApplyMovementRequest) (*dto.MovementResponse, error)
	ListMovements(ctx context.Context, userID uuid.UUID, filter dto.MovementFilter) (*dto.MovementListResponse, error)
	Summary(ctx context.Context, userID uuid.UUID, filter dto.MovementFilter) (*dto.MovementSummaryResponse, error)
	ExportPDF(ctx context.Context, userID uuid.UUID, filter dto.MovementFilter) ([]byte, error)
}

type ledgerService struct {
	products   repository.ProductRepository
	movements  repository.MovementRepository
	dispatcher *worker.Dispatcher
}

func NewLedgerService(
	products repository.ProductRepository,
	movements repository.MovementRepository,
	dispatcher *worker.Dispatcher,
) LedgerService {
	return &ledgerService{products: products, movements: movements, dispatcher: dispatcher}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *ledgerService) ApplyMovement(ctx context.Context, userID, productID uuid.UUID, req dto.ApplyMovementRequest) (*dto.MovementResponse, error) {
	if req.Direction != model.DirectionIn && req.Direction != model.DirectionOut {
		return nil, ErrInvalidDirection
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", req.Quantity)
	}

	var movement model.StockMovement
	var product *model.Product

	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		p, err := s.products.FindOwnedForUpdateTx(tx, userID, productID)
		if err != nil {
			return orNotFound(err)
		}

		delta := req.Quantity
		if req.Direction == model.DirectionOut {
			if req.Quantity > p.Stock {
				return &InsufficientStockError{Requested: req.Quantity, Available: p.Stock}
			}
			delta = -req.Quantity
		}

		movement = model.StockMovement{
			ProductID:   p.ID,
			Direction:   req.Direction,
			Quantity:    req.Quantity,
			Reason:      req.Reason,
			StockBefore: p.Stock,
			StockAfter:  p.Stock + delta,
		}
		if err := s.movements.CreateTx(tx, &movement); err != nil {
			return err
		}
		if err := s.products.UpdateStockTx(tx, p.ID, delta); err != nil {
			return err
		}

		p.Stock = movement.StockAfter
		product = p
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.afterMovement(ctx, userID, product)

	resp := movementToResponse(&movement)
	resp.ProductName = product.Name
	return &resp, nil
}

// afterMovement runs the post-commit side effects: cache invalidation and,
// when the balance crossed the alert floor, a low-stock email job. Both are
// best effort — a Redis hiccup must not fail a committed movement.
func (s *ledgerService) afterMovement(ctx context.Context, userID uuid.UUID, p *model.Product) {
	if s.dispatcher == nil {
		return
	}

	if err := s.dispatcher.EnqueueCacheInvalidation(ctx, worker.CachePayload{
		UserID:    userID.String(),
		ProductID: p.ID.String(),
	}); err != nil {
		log.Warn().Err(err).Str("product_id", p.ID.String()).Msg("cache invalidation enqueue failed")
	}

	if p.MinStock > 0 && p.Stock <= p.MinStock {
		if err := s.dispatcher.EnqueueLowStock(ctx, worker.LowStockPayload{
			UserID:      userID.String(),
			ProductID:   p.ID.String(),
			ProductName: p.Name,
			Stock:       p.Stock,
			MinStock:    p.MinStock,
		}); err != nil {
			log.Warn().Err(err).Str("product_id", p.ID.String()).Msg("low-stock alert enqueue failed")
		}
	}
}

func (s *ledgerService) ListMovements(ctx context.Context, userID uuid.UUID, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}

	movements, total, err := s.movements.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		items = append(items, movementToResponse(&movements[i]))
	}
	return &dto.MovementListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *ledgerService) Summary(ctx context.Context, userID uuid.UUID, filter dto.MovementFilter) (*dto.MovementSummaryResponse, error) {
	totals, err := s.movements.SumByDirection(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return &dto.MovementSummaryResponse{
		TotalIn:  totals.In,
		TotalOut: totals.Out,
		Net:      totals.In - totals.Out,
	}, nil
}

// ExportPDF renders the filtered ledger as a printable report.
func (s *ledgerService) ExportPDF(ctx context.Context, userID uuid.UUID, filter dto.MovementFilter) ([]byte, error) {
	movements, err := s.movements.ListForExport(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	totals, err := s.movements.SumByDirection(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	period := "all time"
	switch {
	case filter.From != "" && filter.To != "":
		period = filter.From + " to " + filter.To
	case filter.From != "":
		period = "from " + filter.From
	case filter.To != "":
		period = "until " + filter.To
	}

	return infra.GenerateLedgerPDF(movements, totals.In, totals.Out, period)
}

func movementToResponse(m *model.StockMovement) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:          m.ID.String(),
		ProductID:   m.ProductID.String(),
		Direction:   m.Direction,
		Quantity:    m.Quantity,
		Reason:      m.Reason,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		CreatedAt:   m.CreatedAt.UTC().Format(time.RFC3339),
	}
	if m.Product != nil {
		resp.ProductName = m.Product.Name
	}
	return resp
}
