package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SyncTypeMasterSheet  = "MASTER_SHEET"
	SyncTypeHRSheetChile = "HR_SHEET_CHILE"
	SyncTypeHRSheetPeru  = "HR_SHEET_PERU"
)

const (
	SyncStatusRunning = "RUNNING"
	SyncStatusSuccess = "SUCCESS"
	SyncStatusError   = "ERROR"
)

// SyncLog records one invocation of a per-source sync routine. It is created
// RUNNING and updated exactly once to SUCCESS or ERROR.
type SyncLog struct {
	gorm.Model
	ID               uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SyncType         string          `gorm:"type:varchar(50);not null" json:"sync_type"`
	Status           string          `gorm:"type:varchar(20);not null" json:"status"`
	RecordsProcessed int             `json:"records_processed"`
	RecordsCreated   int             `json:"records_created"`
	RecordsUpdated   int             `json:"records_updated"`
	StartedAt        time.Time       `gorm:"index" json:"started_at"`
	CompletedAt      *time.Time      `json:"completed_at"`
	Errors           json.RawMessage `gorm:"type:jsonb" json:"errors,omitempty"`
}

func (s *SyncLog) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
