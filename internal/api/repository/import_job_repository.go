package repository

import (
	"context"
	"time"

	"equity-portfolio-tracker/internal/entity"

	"gorm.io/gorm"
)

type ImportJobRepository interface {
	Create(ctx context.Context, job *entity.ImportJob) error
	MarkCompleted(ctx context.Context, id uint) error
	MarkFailed(ctx context.Context, id uint, cause string) error
}

type importJobRepository struct {
	db *gorm.DB
}

func NewImportJobRepository(db *gorm.DB) ImportJobRepository {
	return &importJobRepository{db: db}
}

func (r *importJobRepository) Create(ctx context.Context, job *entity.ImportJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *importJobRepository) MarkCompleted(ctx context.Context, id uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&entity.ImportJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       entity.ImportJobStatusCompleted,
			"completed_at": now,
		}).Error
}

func (r *importJobRepository) MarkFailed(ctx context.Context, id uint, cause string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&entity.ImportJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       entity.ImportJobStatusFailed,
			"error":        cause,
			"completed_at": now,
		}).Error
}
