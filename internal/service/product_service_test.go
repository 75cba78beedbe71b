package service

import (
	"context"
	"testing"

	"korecatalog/internal/dto"
	"korecatalog/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productFixture struct {
	svc        ProductService
	products   *stubProductRepo
	categories *stubCategoryRepo
	movements  *stubMovementRepo
	history    *stubHistoryRepo
	userID     uuid.UUID
}

func newProductFixture() *productFixture {
	products := newStubProductRepo()
	categories := newStubCategoryRepo()
	movements := &stubMovementRepo{}
	history := &stubHistoryRepo{}
	historySvc := NewPriceHistoryService(history, products, nil, 0)
	return &productFixture{
		svc:        NewProductService(products, categories, movements, historySvc, nil),
		products:   products,
		categories: categories,
		movements:  movements,
		history:    history,
		userID:     uuid.New(),
	}
}

func TestCreateRecordsOpeningMovementAndInitialPrice(t *testing.T) {
	f := newProductFixture()

	resp, err := f.svc.Create(context.Background(), f.userID, dto.CreateProductRequest{
		Name:  "Widget",
		Price: dec("19.90"),
		Stock: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, resp.Stock)

	require.Len(t, f.movements.rows, 1)
	opening := f.movements.rows[0]
	assert.Equal(t, model.DirectionIn, opening.Direction)
	assert.Equal(t, 7, opening.Quantity)
	assert.Equal(t, "initial stock", opening.Reason)
	assert.Equal(t, 0, opening.StockBefore)
	assert.Equal(t, 7, opening.StockAfter)

	require.Len(t, f.history.entries, 1)
	assert.True(t, f.history.entries[0].Price.Equal(dec("19.90")))
}

func TestCreateWithoutStockHasNoOpeningMovement(t *testing.T) {
	f := newProductFixture()

	_, err := f.svc.Create(context.Background(), f.userID, dto.CreateProductRequest{
		Name:  "Widget",
		Price: dec("5"),
	})
	require.NoError(t, err)
	assert.Empty(t, f.movements.rows)
	assert.Len(t, f.history.entries, 1)
}

func TestUpdateStockEditBecomesAdjustmentMovement(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.userID, dto.CreateProductRequest{
		Name: "Widget", Price: dec("10"), Stock: 7,
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	newStock := 4
	resp, err := f.svc.Update(ctx, f.userID, id, dto.UpdateProductRequest{Stock: &newStock})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Stock)

	require.Len(t, f.movements.rows, 2) // opening + adjustment
	adj := f.movements.rows[1]
	assert.Equal(t, model.DirectionOut, adj.Direction)
	assert.Equal(t, 3, adj.Quantity)
	assert.Equal(t, "manual adjustment", adj.Reason)
	assert.Equal(t, 7, adj.StockBefore)
	assert.Equal(t, 4, adj.StockAfter)
}

func TestUpdateUnchangedStockAppendsNothing(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.userID, dto.CreateProductRequest{
		Name: "Widget", Price: dec("10"), Stock: 7,
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	same := 7
	_, err = f.svc.Update(ctx, f.userID, id, dto.UpdateProductRequest{Stock: &same})
	require.NoError(t, err)
	assert.Len(t, f.movements.rows, 1, "only the opening movement")
}

func TestUpdatePriceChangeAppendsHistory(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.userID, dto.CreateProductRequest{
		Name: "Widget", Price: dec("10"),
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	newPrice := dec("12.50")
	_, err = f.svc.Update(ctx, f.userID, id, dto.UpdateProductRequest{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 2, f.history.countFor(id))

	// Saving other fields without touching the price appends nothing.
	name := "Widget v2"
	_, err = f.svc.Update(ctx, f.userID, id, dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, 2, f.history.countFor(id))
}

func TestCreateWithUnknownCategory(t *testing.T) {
	f := newProductFixture()

	_, err := f.svc.Create(context.Background(), f.userID, dto.CreateProductRequest{
		Name:        "Widget",
		Price:       dec("10"),
		CategoryIDs: []string{uuid.NewString()},
	})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCreateWithForeignCategory(t *testing.T) {
	f := newProductFixture()
	other := &model.Category{UserID: uuid.New(), Name: "Theirs", Slug: "theirs"}
	require.NoError(t, f.categories.Create(context.Background(), other))

	_, err := f.svc.Create(context.Background(), f.userID, dto.CreateProductRequest{
		Name:        "Widget",
		Price:       dec("10"),
		CategoryIDs: []string{other.ID.String()},
	})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestDeleteUnknownProduct(t *testing.T) {
	f := newProductFixture()
	err := f.svc.Delete(context.Background(), f.userID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
