package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Change types classify which collaborator field transitioned.
const (
	ChangeTypeStatus     = "STATUS_CHANGE"
	ChangeTypeService    = "SERVICE_CHANGE"
	ChangeTypeCostCenter = "COST_CENTER_CHANGE"
	ChangeTypeClient     = "CLIENT_CHANGE"
	ChangeTypeTarifa     = "TARIFA_CHANGE"
	ChangeTypeOther      = "OTHER"
)

// ChangeLog is an append-only audit entry. Rows are never updated or deleted.
type ChangeLog struct {
	gorm.Model
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CollaboratorID uuid.UUID `gorm:"type:uuid;not null;index" json:"collaborator_id"`
	Field          string    `gorm:"type:varchar(100)" json:"field"`
	OldValue       string    `gorm:"type:text" json:"old_value"`
	NewValue       string    `gorm:"type:text" json:"new_value"`
	ChangeType     string    `gorm:"type:varchar(50)" json:"change_type"`
	Source         string    `gorm:"type:varchar(50)" json:"source"`
}

func (c *ChangeLog) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
