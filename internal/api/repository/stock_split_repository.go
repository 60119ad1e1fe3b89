package repository

import (
	"context"

	"equity-portfolio-tracker/internal/entity"

	"gorm.io/gorm"
)

type StockSplitRepository interface {
	Create(ctx context.Context, split *entity.StockSplit) error
	Update(ctx context.Context, split *entity.StockSplit) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*entity.StockSplit, error)
	FindByStockID(ctx context.Context, stockID uint) ([]entity.StockSplit, error)
	BulkInsert(ctx context.Context, splits []entity.StockSplit) error
}

type stockSplitRepository struct {
	db *gorm.DB
}

func NewStockSplitRepository(db *gorm.DB) StockSplitRepository {
	return &stockSplitRepository{db: db}
}

func (r *stockSplitRepository) Create(ctx context.Context, split *entity.StockSplit) error {
	return r.db.WithContext(ctx).Create(split).Error
}

func (r *stockSplitRepository) Update(ctx context.Context, split *entity.StockSplit) error {
	return r.db.WithContext(ctx).Save(split).Error
}

func (r *stockSplitRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.StockSplit{}, id).Error
}

func (r *stockSplitRepository) FindByID(ctx context.Context, id uint) (*entity.StockSplit, error) {
	var split entity.StockSplit
	if err := r.db.WithContext(ctx).First(&split, id).Error; err != nil {
		return nil, err
	}
	return &split, nil
}

func (r *stockSplitRepository) FindByStockID(ctx context.Context, stockID uint) ([]entity.StockSplit, error) {
	var splits []entity.StockSplit
	err := r.db.WithContext(ctx).
		Where("stock_id = ?", stockID).
		Order("date").
		Find(&splits).Error
	if err != nil {
		return nil, err
	}
	return splits, nil
}

func (r *stockSplitRepository) BulkInsert(ctx context.Context, splits []entity.StockSplit) error {
	if len(splits) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(splits, 200).Error
}
