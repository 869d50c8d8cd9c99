package sync

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/siribarren/sermaluc-gestion-servicios/internal/entity"
)

// recordAssignment appends a service-assignment history row for the given
// effective date. It is a no-op when the collaborator is unknown, the date
// does not parse, or an assignment for the exact (collaborator, service,
// fecha_cambio) triple already exists, so replaying a sheet row never
// duplicates history.
func (e *Engine) recordAssignment(rutDni string, service *entity.Service, costCenter *entity.CostCenter, client *entity.Client, tarifa *decimal.Decimal, cargo, coordinator, fechaCambioRaw string) error {
	var collaborator entity.Collaborator
	if err := e.db.Where("rut_dni = ?", rutDni).First(&collaborator).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up collaborator %q: %w", rutDni, err)
	}

	fechaCambio := ParseDate(fechaCambioRaw)
	if fechaCambio == nil {
		return nil
	}

	var existing entity.ServiceAssignment
	err := e.db.Where(
		"collaborator_id = ? AND service_id = ? AND fecha_cambio = ?",
		collaborator.ID, service.ID, *fechaCambio,
	).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up service assignment: %w", err)
	}

	assignment := entity.ServiceAssignment{
		CollaboratorID: collaborator.ID,
		ServiceID:      service.ID,
		CostCenterID:   costCenterIDOf(costCenter),
		ClientID:       clientIDOf(client),
		Tarifa:         tarifa,
		Cargo:          cargo,
		Coordinator:    coordinator,
		FechaCambio:    *fechaCambio,
	}
	if err := e.db.Create(&assignment).Error; err != nil {
		return fmt.Errorf("failed to create service assignment: %w", err)
	}
	return nil
}
