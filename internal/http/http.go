package http

import (
	"github.com/gin-gonic/gin"

	"github.com/siribarren/sermaluc-gestion-servicios/internal/appcontext"
	"github.com/siribarren/sermaluc-gestion-servicios/internal/http/middleware"
)

type APIService struct {
	engine  *gin.Engine
	context *appcontext.Context
}

func NewHTTPService(ctx *appcontext.Context) *APIService {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORSMiddleware())

	service := &APIService{
		engine:  engine,
		context: ctx,
	}
	service.setupRoutes()
	return service
}

func (h *APIService) Engine() *gin.Engine {
	return h.engine
}

func (h *APIService) setupRoutes() {
	v1 := h.engine.Group("/api/v1")
	h.setupCollaboratorRoutes(v1)
	h.setupServiceRoutes(v1)
	h.setupClientRoutes(v1)
	h.setupSyncRoutes(v1)
	h.setupSearchRoutes(v1)
	h.setupAnalyticsRoutes(v1)
}

func (h *APIService) setupCollaboratorRoutes(group *gin.RouterGroup) {
	collaborators := group.Group("/collaborators")

	collaborators.GET("/", GetCollaborators(h.context))
	collaborators.GET("/:id", GetCollaboratorByID(h.context))
	collaborators.GET("/rut/:rutDni", GetCollaboratorByRut(h.context))
}

func (h *APIService) setupServiceRoutes(group *gin.RouterGroup) {
	services := group.Group("/services")

	services.GET("/", GetServices(h.context))
}

func (h *APIService) setupClientRoutes(group *gin.RouterGroup) {
	clients := group.Group("/clients")

	clients.GET("/", GetClients(h.context))
}

func (h *APIService) setupSyncRoutes(group *gin.RouterGroup) {
	syncGroup := group.Group("/sync")

	syncGroup.POST("/collaborators", TriggerCollaboratorSync(h.context))
	syncGroup.GET("/health", GetSyncHealth(h.context))
}

func (h *APIService) setupSearchRoutes(group *gin.RouterGroup) {
	group.GET("/search", SearchRoster(h.context))
}

func (h *APIService) setupAnalyticsRoutes(group *gin.RouterGroup) {
	analytics := group.Group("/analytics")

	analytics.GET("/dashboard", GetDashboardStatistics(h.context))
}
