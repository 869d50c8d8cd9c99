package sync

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/siribarren/sermaluc-gestion-servicios/internal/entity"
)

const sourceMasterSheet = "master_sheet"

// DetectChanges compares the stored collaborator against the freshly
// normalized row and returns one audit entry per field that differs. It never
// mutates state; the caller persists the batch and applies the update.
func DetectChanges(existing *entity.Collaborator, estado string, tarifa *decimal.Decimal, costCenter *entity.CostCenter, service *entity.Service, client *entity.Client) []entity.ChangeLog {
	var changes []entity.ChangeLog

	if existing.Estado != estado {
		changes = append(changes, entity.ChangeLog{
			CollaboratorID: existing.ID,
			Field:          "estado",
			OldValue:       existing.Estado,
			NewValue:       estado,
			ChangeType:     entity.ChangeTypeStatus,
			Source:         sourceMasterSheet,
		})
	}

	serviceID := serviceIDOf(service)
	if !uuidPtrEqual(existing.ServiceID, serviceID) {
		changes = append(changes, entity.ChangeLog{
			CollaboratorID: existing.ID,
			Field:          "service",
			OldValue:       uuidString(existing.ServiceID),
			NewValue:       uuidString(serviceID),
			ChangeType:     entity.ChangeTypeService,
			Source:         sourceMasterSheet,
		})
	}

	costCenterID := costCenterIDOf(costCenter)
	if !uuidPtrEqual(existing.CostCenterID, costCenterID) {
		changes = append(changes, entity.ChangeLog{
			CollaboratorID: existing.ID,
			Field:          "cost_center",
			OldValue:       uuidString(existing.CostCenterID),
			NewValue:       uuidString(costCenterID),
			ChangeType:     entity.ChangeTypeCostCenter,
			Source:         sourceMasterSheet,
		})
	}

	clientID := clientIDOf(client)
	if !uuidPtrEqual(existing.ClientID, clientID) {
		changes = append(changes, entity.ChangeLog{
			CollaboratorID: existing.ID,
			Field:          "client",
			OldValue:       uuidString(existing.ClientID),
			NewValue:       uuidString(clientID),
			ChangeType:     entity.ChangeTypeClient,
			Source:         sourceMasterSheet,
		})
	}

	if !decimalPtrEqual(existing.Tarifa, tarifa) {
		changes = append(changes, entity.ChangeLog{
			CollaboratorID: existing.ID,
			Field:          "tarifa",
			OldValue:       decimalString(existing.Tarifa),
			NewValue:       decimalString(tarifa),
			ChangeType:     entity.ChangeTypeTarifa,
			Source:         sourceMasterSheet,
		})
	}

	return changes
}

func serviceIDOf(service *entity.Service) *uuid.UUID {
	if service == nil {
		return nil
	}
	return &service.ID
}

func costCenterIDOf(costCenter *entity.CostCenter) *uuid.UUID {
	if costCenter == nil {
		return nil
	}
	return &costCenter.ID
}

func clientIDOf(client *entity.Client) *uuid.UUID {
	if client == nil {
		return nil
	}
	return &client.ID
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func uuidString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

// Tarifa values are compared numerically so "1500" and "1500.00" do not
// produce a spurious TARIFA_CHANGE entry.
func decimalPtrEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func decimalString(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
