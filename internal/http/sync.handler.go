package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/siribarren/sermaluc-gestion-servicios/internal/appcontext"
	"github.com/siribarren/sermaluc-gestion-servicios/internal/sync"
)

func TriggerCollaboratorSync(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ctx.Sync.SyncMasterSheet(c.Request.Context()); err != nil {
			if errors.Is(err, sync.ErrSheetsNotConfigured) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google Sheets client is not configured"})
				return
			}
			ctx.Logger.Error("Master sheet sync failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Master sheet sync failed"})
			return
		}

		// HR sub-run failures are recorded on their own sync logs and do not
		// fail the trigger; outcomes are visible via /sync/health.
		if err := ctx.Sync.SyncHRSheets(c.Request.Context()); err != nil {
			ctx.Logger.Error("HR sheets sync failed", zap.Error(err))
		}

		c.JSON(http.StatusOK, gin.H{"message": "Sync completed successfully"})
	}
}

func GetSyncHealth(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		syncs, err := ctx.Sync.RecentSyncs()
		if err != nil {
			ctx.Logger.Error("Failed to get recent syncs from database", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get recent syncs from database"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"syncs": syncs})
	}
}
