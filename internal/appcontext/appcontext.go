package appcontext

import (
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/siribarren/sermaluc-gestion-servicios/internal/sync"
)

type Context struct {
	DB     *gorm.DB
	Logger *zap.Logger

	MeilisearchClient *meilisearch.Client
	Sync              *sync.Engine
}
