package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/siribarren/sermaluc-gestion-servicios/internal/appcontext"
)

func GetServices(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rows []struct {
			ID                uuid.UUID
			Name              string
			CollaboratorCount int64
		}
		err := ctx.DB.Table("services").
			Select("services.id, services.name, COUNT(collaborators.id) as collaborator_count").
			Joins("LEFT JOIN collaborators ON collaborators.service_id = services.id AND collaborators.deleted_at IS NULL").
			Where("services.deleted_at IS NULL").
			Group("services.id, services.name").
			Order("services.name ASC").
			Scan(&rows).Error
		if err != nil {
			ctx.Logger.Error("Failed to fetch services", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch services"})
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

		c.JSON(http.StatusOK, gin.H{"services": response})
	}
}
