package infra

import (
	"fmt"

	"wiremon/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for every table, then applies idempotent SQL patches for the few things
// AutoMigrate cannot express.
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

// RunMigrations creates or updates the schema. Also used by integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.ProductionRecord{},
		&model.StageConfig{},
		&model.StageInventory{},
		&model.InventoryTransaction{},
		&model.MaterialMovement{},
		&model.ProductionOrder{},
		&model.OrderStageProgress{},
		&model.BatchTracking{},
		&model.BatchJourneyEvent{},
		&model.BatchHoldEvent{},
		&model.QualityInspection{},
		&model.DispatchRecord{},
		&model.User{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that GORM cannot fully handle on its
// own. Each statement is guarded so re-running on a patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Composite index for the ledger replay and date-window scans.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_production_records_date_stage') THEN
		    CREATE INDEX idx_production_records_date_stage
		        ON production_records (date, stage);
		  END IF;
		END $$`,
		// Partial index for the active-order counters.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_production_orders_active') THEN
		    CREATE INDEX idx_production_orders_active
		        ON production_orders (status)
		        WHERE status IN ('PENDING', 'IN_PROGRESS');
		  END IF;
		END $$`,
		// One progress row per (order, stage).
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_order_stage_progress_unique') THEN
		    CREATE UNIQUE INDEX idx_order_stage_progress_unique
		        ON order_stage_progress (order_id, stage);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
