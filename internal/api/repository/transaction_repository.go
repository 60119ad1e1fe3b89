package repository

import (
	"context"

	"equity-portfolio-tracker/internal/entity"

	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*entity.Transaction, error)
	FindByStockID(ctx context.Context, stockID uint) ([]entity.Transaction, error)
	BulkInsert(ctx context.Context, txs []entity.Transaction) error
	SaveAdjusted(ctx context.Context, txs []entity.Transaction) error
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *transactionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Transaction{}, id).Error
}

func (r *transactionRepository) FindByID(ctx context.Context, id uint) (*entity.Transaction, error) {
	var tx entity.Transaction
	if err := r.db.WithContext(ctx).First(&tx, id).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

// FindByStockID returns the stock's transactions ordered by date, ties broken
// by insertion order.
func (r *transactionRepository) FindByStockID(ctx context.Context, stockID uint) ([]entity.Transaction, error) {
	var txs []entity.Transaction
	err := r.db.WithContext(ctx).
		Where("stock_id = ?", stockID).
		Order("date, id").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *transactionRepository) BulkInsert(ctx context.Context, txs []entity.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(txs, 200).Error
}

// SaveAdjusted rewrites the adjusted quantity/price columns after a
// re-adjustment pass. Original values are never touched.
func (r *transactionRepository) SaveAdjusted(ctx context.Context, txs []entity.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		for _, tx := range txs {
			err := db.Model(&entity.Transaction{}).
				Where("id = ?", tx.ID).
				Updates(map[string]interface{}{
					"quantity": tx.Quantity,
					"price":    tx.Price,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
