package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/siribarren/sermaluc-gestion-servicios/internal/appcontext"
	"github.com/siribarren/sermaluc-gestion-servicios/internal/entity"
)

func GetDashboardStatistics(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		currentMonthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		pastMonthStart := currentMonthStart.AddDate(0, -1, 0)

		var totalCollaboratorCount int64
		ctx.DB.Model(&entity.Collaborator{}).Count(&totalCollaboratorCount)

		var activeCollaboratorCount int64
		ctx.DB.Model(&entity.Collaborator{}).
			Where("estado IN ?", []string{entity.StatusActive, entity.StatusActivePeru}).
			Count(&activeCollaboratorCount)

		var terminatedCollaboratorCount int64
		ctx.DB.Model(&entity.Collaborator{}).
			Where("estado = ?", entity.StatusTerminated).
			Count(&terminatedCollaboratorCount)

		var totalServiceCount int64
		ctx.DB.Model(&entity.Service{}).Count(&totalServiceCount)

		var totalClientCount int64
		ctx.DB.Model(&entity.Client{}).Count(&totalClientCount)

		var estadoDistributionRaw []struct {
			Estado string
			Count  int64
		}
		ctx.DB.Model(&entity.Collaborator{}).
			Select("estado, COUNT(*) as count").
			Group("estado").
			Scan(&estadoDistributionRaw)

		estadoDistribution := map[string]int64{}
		for _, item := range estadoDistributionRaw {
			estadoDistribution[item.Estado] = item.Count
		}

		var currentMonthSyncCount int64
		ctx.DB.Model(&entity.SyncLog{}).
			Where("started_at >= ?", currentMonthStart).
			Count(&currentMonthSyncCount)

		var pastMonthSyncCount int64
		ctx.DB.Model(&entity.SyncLog{}).
			Where("started_at >= ? AND started_at < ?", pastMonthStart, currentMonthStart).
			Count(&pastMonthSyncCount)

		var failedSyncCount int64
		ctx.DB.Model(&entity.SyncLog{}).
			Where("status = ? AND started_at >= ?", entity.SyncStatusError, currentMonthStart).
			Count(&failedSyncCount)

		var changeCountsRaw []struct {
			ChangeType string
			Count      int64
		}
		ctx.DB.Model(&entity.ChangeLog{}).
			Select("change_type, COUNT(*) as count").
			Where("created_at >= ?", currentMonthStart).
			Group("change_type").
			Scan(&changeCountsRaw)

		currentMonthChangeCounts := map[string]int64{}
		for _, item := range changeCountsRaw {
			currentMonthChangeCounts[item.ChangeType] = item.Count
		}

		response := gin.H{
			"totalCollaboratorCount":      totalCollaboratorCount,
			"activeCollaboratorCount":     activeCollaboratorCount,
			"terminatedCollaboratorCount": terminatedCollaboratorCount,
			"totalServiceCount":           totalServiceCount,
			"totalClientCount":            totalClientCount,
			"estadoDistribution":          estadoDistribution,
			"currentMonthSyncCount":       currentMonthSyncCount,
			"pastMonthSyncCount":          pastMonthSyncCount,
			"failedSyncCount":             failedSyncCount,
			"currentMonthChangeCounts":    currentMonthChangeCounts,
		}

		c.JSON(http.StatusOK, response)
	}
}
