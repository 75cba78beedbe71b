package infra

import (
	"fmt"

	"korecatalog/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (CHECK constraints, composite covering indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates the schema. Also used by integration tests
// against a disposable container database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Profile{},
		&model.Category{},
		&model.Product{},
		&model.PriceHistoryEntry{},
		&model.StockMovement{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements that AutoMigrate cannot
// fully handle on its own. Each statement uses IF NOT EXISTS semantics so
// re-running on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Stock can never go negative — mirror of the ledger invariant. The
		// application checks under a row lock; this is the storage-level backstop.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_products_stock_nonnegative') THEN
		    ALTER TABLE products ADD CONSTRAINT chk_products_stock_nonnegative CHECK (stock >= 0);
		  END IF;
		END $$`,
		// Movement quantities are strictly positive; direction carries the sign.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_stock_movements_quantity_positive') THEN
		    ALTER TABLE stock_movements ADD CONSTRAINT chk_stock_movements_quantity_positive CHECK (quantity > 0);
		  END IF;
		END $$`,
		// Covering index for the newest-first per-product history reads.
		`CREATE INDEX IF NOT EXISTS idx_price_history_product_recorded
		    ON price_history (product_id, recorded_at DESC)`,
		// Covering index for ledger listing and date-range filters.
		`CREATE INDEX IF NOT EXISTS idx_stock_movements_product_created
		    ON stock_movements (product_id, created_at DESC)`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
