package utils

import (
	"github.com/siribarren/sermaluc-gestion-servicios/internal/entity"
)

func CollaboratorToDocument(collaborator *entity.Collaborator) map[string]interface{} {
	document := map[string]interface{}{
		"id":      collaborator.ID.String(),
		"type":    "collaborator",
		"rut_dni": collaborator.RutDni,
		"nombre":  collaborator.Nombre,
		"estado":  collaborator.Estado,
		"cargo":   collaborator.Cargo,
	}
	if collaborator.ServiceID != nil {
		document["service_id"] = collaborator.ServiceID.String()
	}
	if collaborator.Service != nil {
		document["service_name"] = collaborator.Service.Name
	}
	if collaborator.Client != nil {
		document["client_name"] = collaborator.Client.Name
	}
	return document
}

func ServiceToDocument(service *entity.Service) map[string]interface{} {
	return map[string]interface{}{
		"id":   service.ID.String(),
		"type": "service",
		"name": service.Name,
	}
}
