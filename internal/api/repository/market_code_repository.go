package repository

import (
	"context"

	"equity-portfolio-tracker/internal/entity"

	"gorm.io/gorm"
)

type MarketCodeRepository interface {
	FindAll(ctx context.Context) ([]entity.MarketCode, error)
	FindSuffix(ctx context.Context, marketOrIndex string) (string, error)
}

type marketCodeRepository struct {
	db *gorm.DB
}

func NewMarketCodeRepository(db *gorm.DB) MarketCodeRepository {
	return &marketCodeRepository{db: db}
}

func (r *marketCodeRepository) FindAll(ctx context.Context) ([]entity.MarketCode, error) {
	var codes []entity.MarketCode
	if err := r.db.WithContext(ctx).Order("market_or_index").Find(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *marketCodeRepository) FindSuffix(ctx context.Context, marketOrIndex string) (string, error) {
	var code entity.MarketCode
	err := r.db.WithContext(ctx).Where("market_or_index = ?", marketOrIndex).First(&code).Error
	if err != nil {
		return "", err
	}
	return code.MarketSuffix, nil
}
