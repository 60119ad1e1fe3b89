package entity

import (
	"time"

	"gorm.io/datatypes"
)

type ImportJobStatus string

const (
	ImportJobStatusPending   ImportJobStatus = "PENDING"
	ImportJobStatusCompleted ImportJobStatus = "COMPLETED"
	ImportJobStatusFailed    ImportJobStatus = "FAILED"
)

// ImportJob records one bulk import of transactions and splits for a stock.
// Payload holds the submitted rows as JSON so a failed import can be replayed.
type ImportJob struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	StockID     uint            `gorm:"index;not null" json:"stock_id"`
	Status      ImportJobStatus `gorm:"not null;default:PENDING" json:"status"`
	Payload     datatypes.JSON  `json:"payload"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

func (ImportJob) TableName() string {
	return "import_jobs"
}
