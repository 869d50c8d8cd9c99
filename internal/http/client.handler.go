package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/siribarren/sermaluc-gestion-servicios/internal/appcontext"
)

func GetClients(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rows []struct {
			ID                uuid.UUID
			Name              string
			CollaboratorCount int64
		}
		err := ctx.DB.Table("clients").
			Select("clients.id, clients.name, COUNT(collaborators.id) as collaborator_count").
			Joins("LEFT JOIN collaborators ON collaborators.client_id = clients.id AND collaborators.deleted_at IS NULL").
			Where("clients.deleted_at IS NULL").
			Group("clients.id, clients.name").
			Order("clients.name ASC").
			Scan(&rows).Error
		if err != nil {
			ctx.Logger.Error("Failed to fetch clients", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch clients"})
			return
		}

		var response []map[string]interface{}
		for _, row := range rows {
			response = append(response, map[string]interface{}{
				"id":                 row.ID,
				"name":               row.Name,
				"collaborator_count": row.CollaboratorCount,
			})
		}

		c.JSON(http.StatusOK, gin.H{"clients": response})
	}
}
