package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"korecatalog/internal/dto"
	"korecatalog/internal/infra"
	"korecatalog/internal/model"
	"korecatalog/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// sparklineCap bounds the per-product series the dashboard carries; the
// client renders it as a small inline chart and more points add nothing.
const sparklineCap = 10

// PriceHistoryService owns the immutable price trail. RecordIfChangedTx is
// called by the product service inside the same transaction that saves the
// product, so a price change and its history entry commit or roll back
// together.
type PriceHistoryService interface {
	RecordIfChangedTx(tx *gorm.DB, p *model.Product) error
	ListByProduct(ctx context.Context, userID, productID uuid.UUID, filter dto.HistoryFilter) (*dto.PriceHistoryListResponse, error)
	Dashboard(ctx context.Context, userID uuid.UUID) (*dto.PriceDashboardResponse, error)
	Backfill(ctx context.Context) (int, error)
}

type priceHistoryService struct {
	history  repository.PriceHistoryRepository
	products repository.ProductRepository
	rdb      *redis.Client
	cacheTTL time.Duration
}

func NewPriceHistoryService(
	history repository.PriceHistoryRepository,
	products repository.ProductRepository,
	rdb *redis.Client,
	cacheTTL time.Duration,
) PriceHistoryService {
	return &priceHistoryService{history: history, products: products, rdb: rdb, cacheTTL: cacheTTL}
}

// RecordIfChangedTx appends a snapshot of p.Price unless the latest entry
// already carries the exact same value. First-ever saves always record, so
// every product's trail starts at its initial price.
func (s *priceHistoryService) RecordIfChangedTx(tx *gorm.DB, p *model.Product) error {
	latest, err := s.history.LatestTx(tx, p.ID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no trail yet — record the initial price
	case err != nil:
		return err
	case latest.Price.Equal(p.Price):
		return nil
	}

	entry := &model.PriceHistoryEntry{
		ProductID:  p.ID,
		Price:      p.Price,
		RecordedAt: time.Now().UTC(),
	}
	return s.history.CreateTx(tx, entry)
}

func (s *priceHistoryService) ListByProduct(ctx context.Context, userID, productID uuid.UUID, filter dto.HistoryFilter) (*dto.PriceHistoryListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}

	// Distinguish "not yours / doesn't exist" from "no history yet".
	if _, err := s.products.FindOwned(ctx, userID, productID); err != nil {
		return nil, orNotFound(err)
	}

	entries, total, err := s.history.ListByProduct(ctx, userID, productID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.PriceHistoryItem, 0, len(entries))
	for i := range entries {
		items = append(items, historyToItem(&entries[i]))
	}
	return &dto.PriceHistoryListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// Dashboard aggregates the user's whole price trail into one report. The
// result is cached in Redis; any catalog write invalidates it via the cache
// worker, so the TTL is only a backstop.
func (s *priceHistoryService) Dashboard(ctx context.Context, userID uuid.UUID) (*dto.PriceDashboardResponse, error) {
	cacheKey := infra.DashboardCacheKey(userID.String())
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.PriceDashboardResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
		}
	}

	entries, err := s.history.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := buildDashboard(entries)

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, data, s.cacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("dashboard cache write failed")
			}
		}
	}
	return resp, nil
}

// buildDashboard computes the report from the raw trail. Entries arrive
// grouped by product, newest first within each group.
func buildDashboard(entries []model.PriceHistoryEntry) *dto.PriceDashboardResponse {
	resp := &dto.PriceDashboardResponse{
		TotalEntries: int64(len(entries)),
		Products:     []dto.ProductTrendItem{},
	}

	// Regroup per product preserving newest-first order.
	type group struct {
		id      uuid.UUID
		name    string
		entries []model.PriceHistoryEntry
	}
	var groups []*group
	index := map[uuid.UUID]*group{}
	for i := range entries {
		e := &entries[i]
		g, ok := index[e.ProductID]
		if !ok {
			g = &group{id: e.ProductID}
			if e.Product != nil {
				g.name = e.Product.Name
			}
			index[e.ProductID] = g
			groups = append(groups, g)
		}
		g.entries = append(g.entries, *e)
	}

	resp.ProductCount = len(groups)
	if len(groups) > 0 {
		resp.MeanPerProduct = float64(len(entries)) / float64(len(groups))
	}

	hundred := decimal.NewFromInt(100)
	var mostChanged *group

	for _, g := range groups {
		if mostChanged == nil || len(g.entries) > len(mostChanged.entries) {
			mostChanged = g
		}

		item := dto.ProductTrendItem{
			ProductID:   g.id.String(),
			ProductName: g.name,
			Entries:     len(g.entries),
			Latest:      g.entries[0].Price,
			Trend:       "stable",
		}

		// Sparkline: the most recent points, oldest → newest.
		n := len(g.entries)
		if n > sparklineCap {
			n = sparklineCap
		}
		item.Sparkline = make([]decimal.Decimal, n)
		for i := 0; i < n; i++ {
			item.Sparkline[n-1-i] = g.entries[i].Price
		}

		if len(g.entries) >= 2 {
			newest, previous := g.entries[0].Price, g.entries[1].Price
			switch {
			case newest.GreaterThan(previous):
				item.Trend = "up"
			case newest.LessThan(previous):
				item.Trend = "down"
			}

			// Swings: products whose previous price was zero are skipped —
			// a percentage from zero is undefined.
			if !previous.IsZero() {
				percent := newest.Sub(previous).Abs().Div(previous).Mul(hundred).Round(2)
				swing := &dto.PriceSwing{
					ProductID:   g.id.String(),
					ProductName: g.name,
					From:        previous,
					To:          newest,
					Percent:     percent,
				}
				if newest.GreaterThan(previous) {
					if resp.TopIncrease == nil || percent.GreaterThan(resp.TopIncrease.Percent) {
						resp.TopIncrease = swing
					}
				} else if newest.LessThan(previous) {
					if resp.TopDecrease == nil || percent.GreaterThan(resp.TopDecrease.Percent) {
						resp.TopDecrease = swing
					}
				}
			}
		}

		resp.Products = append(resp.Products, item)
	}

	if mostChanged != nil {
		resp.MostChangedID = mostChanged.id.String()
		resp.MostChangedName = mostChanged.name
	}
	return resp
}

// Backfill writes an initial history entry for every product that has none.
// Run once when enabling price tracking over an existing catalog.
func (s *priceHistoryService) Backfill(ctx context.Context) (int, error) {
	products, err := s.products.ListWithoutHistory(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range products {
		p := &products[i]
		entry := &model.PriceHistoryEntry{
			ProductID:  p.ID,
			Price:      p.Price,
			RecordedAt: time.Now().UTC(),
		}
		if err := s.history.Create(ctx, entry); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func historyToItem(e *model.PriceHistoryEntry) dto.PriceHistoryItem {
	return dto.PriceHistoryItem{
		ID:         e.ID.String(),
		ProductID:  e.ProductID.String(),
		Price:      e.Price,
		RecordedAt: e.RecordedAt.UTC().Format(time.RFC3339),
	}
}
