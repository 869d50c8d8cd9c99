package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Collaborator statuses as classified from the master sheet "estado" column.
const (
	StatusActive           = "ACTIVE"
	StatusActivePeru       = "ACTIVE_PERU"
	StatusCostCenterChange = "COST_CENTER_CHANGE"
	StatusTerminated       = "TERMINATED"
	StatusOther            = "OTHER"
)

type Collaborator struct {
	gorm.Model
	ID                   uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	RutDni               string              `gorm:"type:varchar(20);not null;uniqueIndex" json:"rut_dni"`
	Nombre               string              `gorm:"type:varchar(255);not null" json:"nombre"`
	Estado               string              `gorm:"type:varchar(50);not null;default:OTHER" json:"estado"`
	FechaIngresoOficial  *time.Time          `json:"fecha_ingreso_oficial"`
	FechaIngresoSermaluc *time.Time          `json:"fecha_ingreso_sermaluc"`
	FechaFiniquito       *time.Time          `json:"fecha_finiquito"`
	FechaFinalizacion    *time.Time          `json:"fecha_finalizacion"`
	Tarifa               *decimal.Decimal    `gorm:"type:numeric" json:"tarifa"`
	Cargo                string              `gorm:"type:varchar(255)" json:"cargo"`
	Coordinator          string              `gorm:"type:varchar(255)" json:"coordinator"`
	CostCenterID         *uuid.UUID          `gorm:"type:uuid" json:"cost_center_id"`
	CostCenter           *CostCenter         `gorm:"foreignKey:CostCenterID" json:"cost_center,omitempty"`
	ServiceID            *uuid.UUID          `gorm:"type:uuid" json:"service_id"`
	Service              *Service            `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	ClientID             *uuid.UUID          `gorm:"type:uuid" json:"client_id"`
	Client               *Client             `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	ServiceAssignments   []ServiceAssignment `gorm:"foreignKey:CollaboratorID" json:"service_assignments,omitempty"`
	ChangeLogs           []ChangeLog         `gorm:"foreignKey:CollaboratorID" json:"change_logs,omitempty"`
}

func (c *Collaborator) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
