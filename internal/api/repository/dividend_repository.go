package repository

import (
	"context"

	"equity-portfolio-tracker/internal/entity"

	"gorm.io/gorm"
)

type DividendEventRepository interface {
	Create(ctx context.Context, event *entity.DividendEvent) error
	Delete(ctx context.Context, id uint) error
	FindByStockID(ctx context.Context, stockID uint) ([]entity.DividendEvent, error)
}

type dividendEventRepository struct {
	db *gorm.DB
}

func NewDividendEventRepository(db *gorm.DB) DividendEventRepository {
	return &dividendEventRepository{db: db}
}

func (r *dividendEventRepository) Create(ctx context.Context, event *entity.DividendEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *dividendEventRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.DividendEvent{}, id).Error
}

func (r *dividendEventRepository) FindByStockID(ctx context.Context, stockID uint) ([]entity.DividendEvent, error) {
	var events []entity.DividendEvent
	err := r.db.WithContext(ctx).
		Where("stock_id = ?", stockID).
		Order("date, id").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
