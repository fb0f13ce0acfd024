package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ScrapeStatusSuccess = "success"
	ScrapeStatusFailure = "failure"
)

// ScrapeLog is one row per scrape run. Rows are only ever appended.
type ScrapeLog struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	RunAt        time.Time `gorm:"not null;index" json:"run_at"`
	Status       string    `gorm:"type:varchar(20);not null" json:"status"`
	RecordsAdded int       `gorm:"not null;default:0" json:"records_added"`
	ErrorMessage *string   `gorm:"type:text" json:"error_message,omitempty"`
}

func (ScrapeLog) TableName() string {
	return "scrape_logs"
}

func (l *ScrapeLog) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
