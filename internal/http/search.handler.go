package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"

	"github.com/siribarren/sermaluc-gestion-servicios/internal/appcontext"
)

func SearchRoster(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("q")
		if query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing search query"})
			return
		}

		if ctx.MeilisearchClient == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Search is not configured"})
			return
		}

		var typeFilter string
		var actualQuery string

		switch {
		case strings.HasPrefix(query, "col:"):
			typeFilter = "type = collaborator"
			actualQuery = strings.TrimPrefix(query, "col:")
		case strings.HasPrefix(query, "svc:"):
			typeFilter = "type = service"
			actualQuery = strings.TrimPrefix(query, "svc:")
		default:
			typeFilter = "type IN [collaborator, service]"
			actualQuery = query
		}

		searchParams := &meilisearch.SearchRequest{
			Query:  actualQuery,
			Filter: typeFilter,
		}

		searchResult, err := ctx.MeilisearchClient.Index("roster").Search(actualQuery, searchParams)
		if err != nil {
			ctx.Logger.Error("Failed to perform search", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to perform search"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"results": searchResult.Hits})
	}
}
