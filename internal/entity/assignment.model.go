package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ServiceAssignment is one interval of a collaborator's service history.
// The composite unique index makes replays of the same sheet row no-ops.
type ServiceAssignment struct {
	gorm.Model
	ID             uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CollaboratorID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_assignment_collab_service_fecha" json:"collaborator_id"`
	ServiceID      uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_assignment_collab_service_fecha" json:"service_id"`
	Service        *Service         `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	CostCenterID   *uuid.UUID       `gorm:"type:uuid" json:"cost_center_id"`
	CostCenter     *CostCenter      `gorm:"foreignKey:CostCenterID" json:"cost_center,omitempty"`
	ClientID       *uuid.UUID       `gorm:"type:uuid" json:"client_id"`
	Client         *Client          `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Tarifa         *decimal.Decimal `gorm:"type:numeric" json:"tarifa"`
	Cargo          string           `gorm:"type:varchar(255)" json:"cargo"`
	Coordinator    string           `gorm:"type:varchar(255)" json:"coordinator"`
	FechaCambio    time.Time        `gorm:"not null;uniqueIndex:idx_assignment_collab_service_fecha" json:"fecha_cambio"`
	FechaFin       *time.Time       `json:"fecha_fin"`
}

func (a *ServiceAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
