package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/siribarren/sermaluc-gestion-servicios/internal/appcontext"
	"github.com/siribarren/sermaluc-gestion-servicios/internal/entity"
)

func GetCollaborators(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := ctx.DB.Model(&entity.Collaborator{}).
			Preload("Service").
			Preload("CostCenter").
			Preload("Client").
			Preload("ServiceAssignments", func(db *gorm.DB) *gorm.DB {
				return db.Order("fecha_cambio DESC")
			}).
			Preload("ServiceAssignments.Service")

		if estado := c.Query("estado"); estado != "" {
			query = query.Where("estado = ?", estado)
		}
		if serviceID := c.Query("serviceId"); serviceID != "" {
			query = query.Where("service_id = ?", serviceID)
		}
		if search := c.Query("search"); search != "" {
			pattern := "%" + strings.ToLower(search) + "%"
			query = query.Where("LOWER(nombre) LIKE ? OR LOWER(rut_dni) LIKE ?", pattern, pattern)
		}

		var collaborators []entity.Collaborator
		if err := query.Order("nombre ASC").Find(&collaborators).Error; err != nil {
			ctx.Logger.Error("Failed to fetch collaborators", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch collaborators"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"collaborators": collaborators})
	}
}

func GetCollaboratorByID(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		var collaborator entity.Collaborator
		err := collaboratorDetailQuery(ctx.DB).Where("id = ?", c.Param("id")).First(&collaborator).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Collaborator not found"})
				return
			}
			ctx.Logger.Error("Failed to fetch collaborator", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch collaborator"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"collaborator": collaborator})
	}
}

func GetCollaboratorByRut(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		var collaborator entity.Collaborator
		err := collaboratorDetailQuery(ctx.DB).Where("rut_dni = ?", c.Param("rutDni")).First(&collaborator).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Collaborator not found"})
				return
			}
			ctx.Logger.Error("Failed to fetch collaborator", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch collaborator"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"collaborator": collaborator})
	}
}

func collaboratorDetailQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&entity.Collaborator{}).
		Preload("Service").
		Preload("CostCenter").
		Preload("Client").
		Preload("ServiceAssignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("fecha_cambio DESC")
		}).
		Preload("ServiceAssignments.Service").
		Preload("ServiceAssignments.CostCenter").
		Preload("ServiceAssignments.Client").
		Preload("ChangeLogs", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		})
}
