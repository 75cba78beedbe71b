package service

// In-memory repository stubs. Services open no real transaction against
// these (DB() returns nil, so runTx calls the closure directly), which keeps
// the business-rule tests free of any database.

import (
	"context"
	"time"

	"korecatalog/internal/dto"
	"korecatalog/internal/model"
	"korecatalog/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── ProductRepository stub ───────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

func (r *stubProductRepo) add(p *model.Product) *model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	r.products[p.ID] = p
	return p
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.add(p)
	return nil
}

func (r *stubProductRepo) CreateTx(_ *gorm.DB, p *model.Product) error {
	r.add(p)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindOwned(_ context.Context, userID, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok || p.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindOwnedForUpdateTx(_ *gorm.DB, userID, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok || p.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) List(_ context.Context, userID uuid.UUID, _ dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) ListPublic(_ context.Context, _ string, _ dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.Public {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) SaveTx(_ *gorm.DB, p *model.Product) error {
	clone := *p
	r.products[p.ID] = &clone
	return nil
}

func (r *stubProductRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock += delta
	return nil
}

func (r *stubProductRepo) ReplaceCategoriesTx(_ *gorm.DB, p *model.Product, cats []model.Category) error {
	stored, ok := r.products[p.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Categories = cats
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	p, ok := r.products[id]
	if !ok || p.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) ListWithoutHistory(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

// ── MovementRepository stub ──────────────────────────────────────────────────

type stubMovementRepo struct {
	rows []model.StockMovement
}

var _ repository.MovementRepository = (*stubMovementRepo)(nil)

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.rows = append(r.rows, *m)
	return nil
}

func (r *stubMovementRepo) filtered(filter dto.MovementFilter) []model.StockMovement {
	var out []model.StockMovement
	for _, m := range r.rows {
		if filter.ProductID != "" && m.ProductID.String() != filter.ProductID {
			continue
		}
		if filter.Direction != "" && m.Direction != filter.Direction {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (r *stubMovementRepo) List(_ context.Context, _ uuid.UUID, filter dto.MovementFilter) ([]model.StockMovement, int64, error) {
	out := r.filtered(filter)
	return out, int64(len(out)), nil
}

func (r *stubMovementRepo) ListForExport(_ context.Context, _ uuid.UUID, filter dto.MovementFilter) ([]model.StockMovement, error) {
	return r.filtered(filter), nil
}

func (r *stubMovementRepo) SumByDirection(_ context.Context, _ uuid.UUID, filter dto.MovementFilter) (repository.MovementTotals, error) {
	var totals repository.MovementTotals
	for _, m := range r.filtered(filter) {
		switch m.Direction {
		case model.DirectionIn:
			totals.In += int64(m.Quantity)
		case model.DirectionOut:
			totals.Out += int64(m.Quantity)
		}
	}
	return totals, nil
}

// ── PriceHistoryRepository stub ──────────────────────────────────────────────

type stubHistoryRepo struct {
	entries []model.PriceHistoryEntry
}

var _ repository.PriceHistoryRepository = (*stubHistoryRepo)(nil)

func (r *stubHistoryRepo) append(e *model.PriceHistoryEntry) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.entries = append(r.entries, *e)
}

func (r *stubHistoryRepo) Create(_ context.Context, e *model.PriceHistoryEntry) error {
	r.append(e)
	return nil
}

func (r *stubHistoryRepo) CreateTx(_ *gorm.DB, e *model.PriceHistoryEntry) error {
	r.append(e)
	return nil
}

func (r *stubHistoryRepo) LatestTx(_ *gorm.DB, productID uuid.UUID) (*model.PriceHistoryEntry, error) {
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].ProductID == productID {
			clone := r.entries[i]
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubHistoryRepo) ListByProduct(_ context.Context, _ uuid.UUID, productID uuid.UUID, _ dto.HistoryFilter) ([]model.PriceHistoryEntry, int64, error) {
	var out []model.PriceHistoryEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].ProductID == productID {
			out = append(out, r.entries[i])
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubHistoryRepo) ListByOwner(_ context.Context, _ uuid.UUID) ([]model.PriceHistoryEntry, error) {
	// Group by product in first-seen order, newest first within each group.
	var order []uuid.UUID
	grouped := make(map[uuid.UUID][]model.PriceHistoryEntry)
	for _, e := range r.entries {
		if _, ok := grouped[e.ProductID]; !ok {
			order = append(order, e.ProductID)
		}
		grouped[e.ProductID] = append([]model.PriceHistoryEntry{e}, grouped[e.ProductID]...)
	}
	var out []model.PriceHistoryEntry
	for _, id := range order {
		out = append(out, grouped[id]...)
	}
	return out, nil
}

func (r *stubHistoryRepo) countFor(productID uuid.UUID) int {
	n := 0
	for _, e := range r.entries {
		if e.ProductID == productID {
			n++
		}
	}
	return n
}

// ── CategoryRepository stub ──────────────────────────────────────────────────

type stubCategoryRepo struct {
	categories map[uuid.UUID]*model.Category
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{categories: make(map[uuid.UUID]*model.Category)}
}

var _ repository.CategoryRepository = (*stubCategoryRepo)(nil)

func (r *stubCategoryRepo) Create(_ context.Context, c *model.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Color == "" {
		c.Color = "#3b82f6"
	}
	clone := *c
	r.categories[c.ID] = &clone
	return nil
}

func (r *stubCategoryRepo) CreateBatch(ctx context.Context, cs []model.Category) error {
	for i := range cs {
		if err := r.Create(ctx, &cs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *stubCategoryRepo) FindOwned(_ context.Context, userID, id uuid.UUID) (*model.Category, error) {
	c, ok := r.categories[id]
	if !ok || c.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCategoryRepo) FindBySlug(_ context.Context, userID uuid.UUID, slug string) (*model.Category, error) {
	for _, c := range r.categories {
		if c.UserID == userID && c.Slug == slug {
			clone := *c
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCategoryRepo) FindManyOwned(_ context.Context, userID uuid.UUID, ids []uuid.UUID) ([]model.Category, error) {
	var out []model.Category
	for _, id := range ids {
		if c, ok := r.categories[id]; ok && c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCategoryRepo) List(_ context.Context, userID uuid.UUID, _ dto.CategoryFilter) ([]model.Category, error) {
	var out []model.Category
	for _, c := range r.categories {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *model.Category) error {
	clone := *c
	r.categories[c.ID] = &clone
	return nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	c, ok := r.categories[id]
	if !ok || c.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(r.categories, id)
	return nil
}

// ── UserRepository stub ──────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Profile != nil {
		u.Profile.UserID = u.ID
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) GetProfile(_ context.Context, userID uuid.UUID) (*model.Profile, error) {
	u, ok := r.users[userID]
	if !ok || u.Profile == nil {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *u.Profile
	return &clone, nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, p *model.Profile) error {
	for _, u := range r.users {
		if u.ID == p.UserID {
			clone := *p
			u.Profile = &clone
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}
