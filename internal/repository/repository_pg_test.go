package repository

// Integration tests against a disposable Postgres container. Skipped in
// -short mode so the unit suite stays docker-free.

import (
	"context"
	"testing"
	"time"

	"korecatalog/internal/dto"
	"korecatalog/internal/infra"
	"korecatalog/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(
		ctx,
		"postgres:16",
		tcpostgres.WithDatabase("korecatalog_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{
		Username:     username,
		PasswordHash: "x",
		Active:       true,
		Profile:      &model.Profile{Theme: model.ThemeLight, ProductViewMode: model.ViewModeGrid, CategoryViewMode: model.ViewModeGrid},
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func TestPostgresRepositories(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test — requires docker")
	}

	db := setupPostgres(t)
	ctx := context.Background()

	users := NewUserRepository(db)
	categories := NewCategoryRepository(db)
	products := NewProductRepository(db)
	movements := NewMovementRepository(db)
	history := NewPriceHistoryRepository(db)

	owner := seedUser(t, db, "owner")
	rival := seedUser(t, db, "rival")

	t.Run("profile rides along with the user", func(t *testing.T) {
		profile, err := users.GetProfile(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ThemeLight, profile.Theme)
	})

	t.Run("category slug unique per owner only", func(t *testing.T) {
		require.NoError(t, categories.Create(ctx, &model.Category{UserID: owner.ID, Name: "Books", Slug: "books"}))
		err := categories.Create(ctx, &model.Category{UserID: owner.ID, Name: "Books 2", Slug: "books"})
		assert.Error(t, err, "composite unique index rejects the duplicate")
		assert.NoError(t, categories.Create(ctx, &model.Category{UserID: rival.ID, Name: "Books", Slug: "books"}))
	})

	product := &model.Product{
		UserID: owner.ID,
		Name:   "Widget",
		Price:  decimal.RequireFromString("19.90"),
		Stock:  0,
		Public: true,
	}
	require.NoError(t, products.Create(ctx, product))

	t.Run("stock check constraint rejects negative balance", func(t *testing.T) {
		err := db.Transaction(func(tx *gorm.DB) error {
			return products.UpdateStockTx(tx, product.ID, -5)
		})
		assert.Error(t, err)

		fresh, err := products.FindOwned(ctx, owner.ID, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, fresh.Stock)
	})

	t.Run("movement insert and stock update in one transaction", func(t *testing.T) {
		err := db.Transaction(func(tx *gorm.DB) error {
			p, err := products.FindOwnedForUpdateTx(tx, owner.ID, product.ID)
			if err != nil {
				return err
			}
			m := &model.StockMovement{
				ProductID: p.ID, Direction: model.DirectionIn, Quantity: 8,
				StockBefore: p.Stock, StockAfter: p.Stock + 8,
			}
			if err := movements.CreateTx(tx, m); err != nil {
				return err
			}
			return products.UpdateStockTx(tx, p.ID, 8)
		})
		require.NoError(t, err)

		fresh, err := products.FindOwned(ctx, owner.ID, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 8, fresh.Stock)
	})

	t.Run("owner scoping on the ledger", func(t *testing.T) {
		rows, total, err := movements.List(ctx, owner.ID, dto.MovementFilter{Page: 1, Limit: 50})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, rows, 1)
		assert.Equal(t, "Widget", rows[0].Product.Name)

		_, total, err = movements.List(ctx, rival.ID, dto.MovementFilter{Page: 1, Limit: 50})
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("date range bounds are day-inclusive", func(t *testing.T) {
		today := time.Now().UTC().Format("2006-01-02")
		rows, total, err := movements.List(ctx, owner.ID, dto.MovementFilter{
			From: today, To: today, Page: 1, Limit: 50,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, rows, 1)

		_, total, err = movements.List(ctx, owner.ID, dto.MovementFilter{
			To: time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02"), Page: 1, Limit: 50,
		})
		require.NoError(t, err)
		assert.Zero(t, total, "a to-bound of yesterday excludes today's rows")
	})

	t.Run("price history latest wins by recorded_at", func(t *testing.T) {
		older := &model.PriceHistoryEntry{ProductID: product.ID, Price: decimal.RequireFromString("15.00"), RecordedAt: time.Now().UTC().Add(-time.Hour)}
		newer := &model.PriceHistoryEntry{ProductID: product.ID, Price: decimal.RequireFromString("19.90"), RecordedAt: time.Now().UTC()}
		require.NoError(t, history.Create(ctx, older))
		require.NoError(t, history.Create(ctx, newer))

		err := db.Transaction(func(tx *gorm.DB) error {
			latest, err := history.LatestTx(tx, product.ID)
			if err != nil {
				return err
			}
			assert.True(t, latest.Price.Equal(decimal.RequireFromString("19.90")))
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("ListWithoutHistory skips backfilled products", func(t *testing.T) {
		bare := &model.Product{UserID: owner.ID, Name: "Bare", Price: decimal.RequireFromString("1.00")}
		require.NoError(t, products.Create(ctx, bare))

		missing, err := products.ListWithoutHistory(ctx)
		require.NoError(t, err)
		require.Len(t, missing, 1)
		assert.Equal(t, bare.ID, missing[0].ID)
	})

	t.Run("public catalog hides private products", func(t *testing.T) {
		private := &model.Product{UserID: owner.ID, Name: "Secret", Price: decimal.RequireFromString("9.99"), Public: false}
		require.NoError(t, products.Create(ctx, private))

		rows, _, err := products.ListPublic(ctx, "", dto.ProductFilter{Page: 1, Limit: 50})
		require.NoError(t, err)
		for _, p := range rows {
			assert.NotEqual(t, "Secret", p.Name)
		}
	})

	t.Run("delete is owner scoped", func(t *testing.T) {
		err := products.Delete(ctx, rival.ID, product.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		require.NoError(t, products.Delete(ctx, owner.ID, product.ID))
	})
}
