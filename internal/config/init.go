package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/siribarren/sermaluc-gestion-servicios/internal/appcontext"
	"github.com/siribarren/sermaluc-gestion-servicios/internal/entity"
	"github.com/siribarren/sermaluc-gestion-servicios/internal/sheets"
	"github.com/siribarren/sermaluc-gestion-servicios/internal/sync"
)

// Spreadsheet coordinates of the production sheets; overridable via env.
const (
	defaultMasterSheetID = "1TA-fkVC7T7dlBa9VWIPOIeSEOosDk_Cd1-VFKERByng"
	defaultMasterRange   = "Sheet1!A2:O"
	defaultHRSheetID     = "1UhHy65woxg5h9TLOvKY3qWqU77npKuQQKP8in5PaPb8"
	defaultHRChileRange  = "Chile!A2:C"
	defaultHRPeruRange   = "Peru!A2:C"
)

func InitContext() (*appcontext.Context, error) {
	if err := godotenv.Load(); err != nil {
		zap.L().Warn("No .env file found, using environment variables")
	}

	logger, err := InitLogger()
	if err != nil {
		return nil, err
	}

	db, err := InitDB()
	if err != nil {
		return nil, err
	}

	meilisearchClient, err := InitMeilisearch(logger)
	if err != nil {
		return nil, err
	}

	var source sync.RowSource
	if sheetSource := InitSheetsSource(logger); sheetSource != nil {
		source = sheetSource
	}

	sheetConfig := sync.SheetConfig{
		MasterSpreadsheetID: envOrDefault("MASTER_SHEET_ID", defaultMasterSheetID),
		MasterRange:         envOrDefault("MASTER_SHEET_RANGE", defaultMasterRange),
		HRSpreadsheetID:     envOrDefault("HR_SHEET_ID", defaultHRSheetID),
		HRChileRange:        envOrDefault("HR_SHEET_CHILE_RANGE", defaultHRChileRange),
		HRPeruRange:         envOrDefault("HR_SHEET_PERU_RANGE", defaultHRPeruRange),
	}

	ctx := &appcontext.Context{
		DB:     db,
		Logger: logger,

		MeilisearchClient: meilisearchClient,
		Sync:              sync.NewEngine(db, logger, source, meilisearchClient, sheetConfig),
	}

	return ctx, nil
}

func InitDB() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	err = db.AutoMigrate(
		&entity.CostCenter{},
		&entity.Service{},
		&entity.Client{},
		&entity.Collaborator{},
		&entity.ServiceAssignment{},
		&entity.ChangeLog{},
		&entity.SyncLog{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func InitLogger() (*zap.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// InitSheetsSource returns nil when the service account key is not
// configured; the sync engine reports a distinct error in that case instead
// of silently doing nothing.
func InitSheetsSource(logger *zap.Logger) *sheets.Source {
	keyFilePath := os.Getenv("GOOGLE_SERVICE_ACCOUNT_KEY")
	if keyFilePath == "" {
		logger.Warn("GOOGLE_SERVICE_ACCOUNT_KEY not set, sheet sync will not work")
		return nil
	}

	source, err := sheets.NewSource(context.Background(), keyFilePath)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client, sheet sync will not work", zap.Error(err))
		return nil
	}
	return source
}

func InitMeilisearch(logger *zap.Logger) (*meilisearch.Client, error) {
	host := os.Getenv("MEILISEARCH_HOST")
	if host == "" {
		logger.Warn("MEILISEARCH_HOST not set, search will not work")
		return nil, nil
	}

	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: os.Getenv("MEILISEARCH_API_KEY"),
	})

	_, err := client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        "roster",
		PrimaryKey: "id",
	})
	if err != nil {
		// If the error is because the index already exists, that's fine
		if !strings.Contains(err.Error(), "already exists") {
			return nil, fmt.Errorf("failed to create index: %w", err)
		}
	}

	task, err := client.Index("roster").UpdateFilterableAttributes(&[]string{
		"type",
		"estado",
		"service_id",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update filterable attributes: %w", err)
	}
	_, err = client.WaitForTask(task.TaskUID)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for filterable attributes update: %w", err)
	}

	task, err = client.Index("roster").UpdateSearchableAttributes(&[]string{
		"nombre",
		"rut_dni",
		"name",
		"cargo",
		"service_name",
		"client_name",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update searchable attributes: %w", err)
	}
	_, err = client.WaitForTask(task.TaskUID)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for searchable attributes update: %w", err)
	}

	return client, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
