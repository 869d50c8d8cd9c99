package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CostCenter struct {
	gorm.Model
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Code          string         `gorm:"type:varchar(100);not null;uniqueIndex" json:"code"`
	Name          string         `gorm:"type:varchar(255)" json:"name"`
	Collaborators []Collaborator `gorm:"foreignKey:CostCenterID" json:"collaborators,omitempty"`
}

func (c *CostCenter) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
