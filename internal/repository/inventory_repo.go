package repository

import (
	"context"

	"wiremon/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryRepository covers per-stage stocks, their immutable transaction
// trail and cross-stage material movements.
type InventoryRepository interface {
	ListStocks(ctx context.Context) ([]model.StageInventory, error)
	FindStock(ctx context.Context, stage model.Stage) (*model.StageInventory, error)
	SeedStocks(ctx context.Context, defaults []model.StageInventory) error

	ListTransactions(ctx context.Context, stage model.Stage, limit int) ([]model.InventoryTransaction, error)
	ListMovements(ctx context.Context, limit int) ([]model.MaterialMovement, error)

	// Tx variants are used inside transactions — callers pass the tx instance.
	FindStockTx(tx *gorm.DB, stage model.Stage) (*model.StageInventory, error)
	CreateStockTx(tx *gorm.DB, inv *model.StageInventory) error
	SetStockTx(tx *gorm.DB, stage model.Stage, stock decimal.Decimal) error
	CreateTransactionTx(tx *gorm.DB, t *model.InventoryTransaction) error
	CreateMovementTx(tx *gorm.DB, m *model.MaterialMovement) error
	ResetAllStocksTx(tx *gorm.DB) error

	UpdateStock(ctx context.Context, inv *model.StageInventory) error

	DB() *gorm.DB
}

type inventoryRepo struct{ db *gorm.DB }

func NewInventoryRepository(db *gorm.DB) InventoryRepository { return &inventoryRepo{db: db} }

func (r *inventoryRepo) ListStocks(ctx context.Context) ([]model.StageInventory, error) {
	var stocks []model.StageInventory
	err := r.db.WithContext(ctx).Find(&stocks).Error
	return stocks, err
}

func (r *inventoryRepo) FindStock(ctx context.Context, stage model.Stage) (*model.StageInventory, error) {
	var inv model.StageInventory
	err := r.db.WithContext(ctx).Where("stage = ?", stage).First(&inv).Error
	return &inv, err
}

func (r *inventoryRepo) SeedStocks(ctx context.Context, defaults []model.StageInventory) error {
	if len(defaults) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "stage"}}, DoNothing: true}).
		Create(&defaults).Error
}

func (r *inventoryRepo) ListTransactions(ctx context.Context, stage model.Stage, limit int) ([]model.InventoryTransaction, error) {
	var txns []model.InventoryTransaction
	q := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if stage != "" {
		q = q.Where("stage = ?", stage)
	}
	err := q.Find(&txns).Error
	return txns, err
}

func (r *inventoryRepo) ListMovements(ctx context.Context, limit int) ([]model.MaterialMovement, error) {
	var movements []model.MaterialMovement
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&movements).Error
	return movements, err
}

func (r *inventoryRepo) FindStockTx(tx *gorm.DB, stage model.Stage) (*model.StageInventory, error) {
	var inv model.StageInventory
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("stage = ?", stage).First(&inv).Error
	return &inv, err
}

func (r *inventoryRepo) CreateStockTx(tx *gorm.DB, inv *model.StageInventory) error {
	return tx.Create(inv).Error
}

func (r *inventoryRepo) SetStockTx(tx *gorm.DB, stage model.Stage, stock decimal.Decimal) error {
	return tx.Model(&model.StageInventory{}).Where("stage = ?", stage).
		Update("current_stock", stock).Error
}

func (r *inventoryRepo) CreateTransactionTx(tx *gorm.DB, t *model.InventoryTransaction) error {
	return tx.Create(t).Error
}

func (r *inventoryRepo) CreateMovementTx(tx *gorm.DB, m *model.MaterialMovement) error {
	return tx.Create(m).Error
}

func (r *inventoryRepo) ResetAllStocksTx(tx *gorm.DB) error {
	return tx.Model(&model.StageInventory{}).Where("1 = 1").
		Update("current_stock", decimal.Zero).Error
}

func (r *inventoryRepo) UpdateStock(ctx context.Context, inv *model.StageInventory) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *inventoryRepo) DB() *gorm.DB { return r.db }
