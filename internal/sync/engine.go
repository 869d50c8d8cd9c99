package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/siribarren/sermaluc-gestion-servicios/internal/entity"
	"github.com/siribarren/sermaluc-gestion-servicios/internal/services"
	"github.com/siribarren/sermaluc-gestion-servicios/internal/utils"
)

// ErrSheetsNotConfigured is returned before any SyncLog is opened when the
// engine was built without a spreadsheet source.
var ErrSheetsNotConfigured = errors.New("google sheets client is not configured")

// SheetConfig locates the source ranges inside the two spreadsheets.
type SheetConfig struct {
	MasterSpreadsheetID string
	MasterRange         string
	HRSpreadsheetID     string
	HRChileRange        string
	HRPeruRange         string
}

// Engine drives the sheet-to-database reconciliation runs. All dependencies
// are passed in at construction; there is no lazily initialized client state.
type Engine struct {
	db     *gorm.DB
	logger *zap.Logger
	source RowSource
	search *meilisearch.Client
	config SheetConfig
}

func NewEngine(db *gorm.DB, logger *zap.Logger, source RowSource, search *meilisearch.Client, config SheetConfig) *Engine {
	return &Engine{
		db:     db,
		logger: logger,
		source: source,
		search: search,
		config: config,
	}
}

// SyncMasterSheet runs one full reconciliation pass over the master sheet.
// A mid-run fault is recorded on the open SyncLog and re-raised; rows already
// committed stay committed.
func (e *Engine) SyncMasterSheet(ctx context.Context) error {
	if e.source == nil {
		return ErrSheetsNotConfigured
	}

	e.logger.Info("Starting master sheet sync")
	syncLog := entity.SyncLog{
		SyncType:  entity.SyncTypeMasterSheet,
		Status:    entity.SyncStatusRunning,
		StartedAt: time.Now(),
	}
	if err := e.db.Create(&syncLog).Error; err != nil {
		return fmt.Errorf("failed to open sync log: %w", err)
	}

	processed, created, updated := 0, 0, 0
	runErr := func() error {
		rows, err := e.source.FetchRows(ctx, e.config.MasterSpreadsheetID, e.config.MasterRange)
		if err != nil {
			return fmt.Errorf("failed to fetch master sheet rows: %w", err)
		}

		for _, cells := range rows {
			row := newMasterRow(cells)
			if row.RutDni == "" {
				continue
			}

			rutDni := strings.TrimSpace(row.RutDni)
			nombre := strings.TrimSpace(row.Nombre)
			if rutDni == "" || nombre == "" {
				continue
			}

			estado := NormalizeStatus(row.Estado)
			tarifa := ParseRate(row.Tarifa)
			cargo := strings.TrimSpace(row.Cargo)
			coordinator := strings.TrimSpace(row.Coordinador)

			var costCenter *entity.CostCenter
			if code := strings.TrimSpace(row.CentroCosto); code != "" {
				resolved, err := e.upsertCostCenter(code)
				if err != nil {
					return err
				}
				costCenter = resolved
			}
			var service *entity.Service
			if name := strings.TrimSpace(row.NombreServicio); name != "" {
				resolved, err := e.upsertService(name)
				if err != nil {
					return err
				}
				service = resolved
			}
			var client *entity.Client
			if name := strings.TrimSpace(row.Cliente); name != "" {
				resolved, err := e.upsertClient(name)
				if err != nil {
					return err
				}
				client = resolved
			}

			var existing entity.Collaborator
			lookupErr := e.db.Where("rut_dni = ?", rutDni).First(&existing).Error
			switch {
			case lookupErr == nil:
				changes := DetectChanges(&existing, estado, tarifa, costCenter, service, client)
				if len(changes) > 0 {
					if err := e.db.Create(&changes).Error; err != nil {
						return fmt.Errorf("failed to persist change log entries: %w", err)
					}
				}

				existing.Nombre = nombre
				existing.Estado = estado
				existing.FechaIngresoSermaluc = ParseDate(row.FechaIngresoSermaluc)
				existing.FechaFiniquito = ParseDate(row.FechaFiniquito)
				existing.FechaFinalizacion = ParseDate(row.FechaFinalizacionSS)
				existing.Tarifa = tarifa
				existing.Cargo = cargo
				existing.Coordinator = coordinator
				existing.CostCenterID = costCenterIDOf(costCenter)
				existing.ServiceID = serviceIDOf(service)
				existing.ClientID = clientIDOf(client)
				if err := e.db.Save(&existing).Error; err != nil {
					return fmt.Errorf("failed to update collaborator %q: %w", rutDni, err)
				}
				updated++
			case errors.Is(lookupErr, gorm.ErrRecordNotFound):
				collaborator := entity.Collaborator{
					RutDni:               rutDni,
					Nombre:               nombre,
					Estado:               estado,
					FechaIngresoSermaluc: ParseDate(row.FechaIngresoSermaluc),
					FechaFiniquito:       ParseDate(row.FechaFiniquito),
					FechaFinalizacion:    ParseDate(row.FechaFinalizacionSS),
					Tarifa:               tarifa,
					Cargo:                cargo,
					Coordinator:          coordinator,
					CostCenterID:         costCenterIDOf(costCenter),
					ServiceID:            serviceIDOf(service),
					ClientID:             clientIDOf(client),
				}
				if err := e.db.Create(&collaborator).Error; err != nil {
					return fmt.Errorf("failed to create collaborator %q: %w", rutDni, err)
				}
				created++
			default:
				return fmt.Errorf("failed to look up collaborator %q: %w", rutDni, lookupErr)
			}

			if strings.TrimSpace(row.FechaCambioSS) != "" && service != nil {
				if err := e.recordAssignment(rutDni, service, costCenter, client, tarifa, cargo, coordinator, row.FechaCambioSS); err != nil {
					return err
				}
			}

			processed++
		}
		return nil
	}()
	if runErr != nil {
		e.failSync(&syncLog, processed, created, updated, runErr)
		return runErr
	}

	now := time.Now()
	syncLog.Status = entity.SyncStatusSuccess
	syncLog.RecordsProcessed = processed
	syncLog.RecordsCreated = created
	syncLog.RecordsUpdated = updated
	syncLog.CompletedAt = &now
	if err := e.db.Save(&syncLog).Error; err != nil {
		return fmt.Errorf("failed to close sync log: %w", err)
	}

	e.logger.Info("Master sheet sync completed",
		zap.Int("processed", processed),
		zap.Int("created", created),
		zap.Int("updated", updated),
	)

	e.reindexRoster()
	return nil
}

// SyncHRSheets runs the Chile and Peru sub-syncs sequentially. Unlike the
// master routine, a sub-run fault is recorded on its own SyncLog and not
// re-raised, so the second sub-run still executes after the first one fails.
func (e *Engine) SyncHRSheets(ctx context.Context) error {
	if e.source == nil {
		return ErrSheetsNotConfigured
	}

	e.logger.Info("Starting HR sheets sync")
	e.syncHRSheet(ctx, e.config.HRChileRange, entity.SyncTypeHRSheetChile)
	e.syncHRSheet(ctx, e.config.HRPeruRange, entity.SyncTypeHRSheetPeru)
	return nil
}

func (e *Engine) syncHRSheet(ctx context.Context, readRange, syncType string) {
	syncLog := entity.SyncLog{
		SyncType:  syncType,
		Status:    entity.SyncStatusRunning,
		StartedAt: time.Now(),
	}
	if err := e.db.Create(&syncLog).Error; err != nil {
		e.logger.Error("Failed to open sync log", zap.String("sync_type", syncType), zap.Error(err))
		return
	}

	processed, updated := 0, 0
	runErr := func() error {
		rows, err := e.source.FetchRows(ctx, e.config.HRSpreadsheetID, readRange)
		if err != nil {
			return fmt.Errorf("failed to fetch %s rows: %w", strings.ToLower(syncType), err)
		}

		for _, cells := range rows {
			row := newHRRow(cells)
			if row.RutDni == "" {
				continue
			}
			rutDni := strings.TrimSpace(row.RutDni)

			var collaborator entity.Collaborator
			lookupErr := e.db.Where("rut_dni = ?", rutDni).First(&collaborator).Error
			if lookupErr != nil && !errors.Is(lookupErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to look up collaborator %q: %w", rutDni, lookupErr)
			}

			if lookupErr == nil {
				parsed := ParseDate(row.FechaIngresoOficial)
				if parsed != nil && !timePtrEqual(collaborator.FechaIngresoOficial, parsed) {
					oldValue := ""
					if collaborator.FechaIngresoOficial != nil {
						oldValue = collaborator.FechaIngresoOficial.UTC().Format(time.RFC3339)
					}
					if err := e.db.Model(&collaborator).Update("fecha_ingreso_oficial", parsed).Error; err != nil {
						return fmt.Errorf("failed to update collaborator %q: %w", rutDni, err)
					}

					change := entity.ChangeLog{
						CollaboratorID: collaborator.ID,
						Field:          "fecha_ingreso_oficial",
						OldValue:       oldValue,
						NewValue:       parsed.UTC().Format(time.RFC3339),
						ChangeType:     entity.ChangeTypeOther,
						Source:         strings.ToLower(syncType),
					}
					if err := e.db.Create(&change).Error; err != nil {
						return fmt.Errorf("failed to persist change log entry: %w", err)
					}
					updated++
				}
			}
			processed++
		}
		return nil
	}()
	if runErr != nil {
		e.failSync(&syncLog, processed, 0, updated, runErr)
		return
	}

	now := time.Now()
	syncLog.Status = entity.SyncStatusSuccess
	syncLog.RecordsProcessed = processed
	syncLog.RecordsUpdated = updated
	syncLog.CompletedAt = &now
	if err := e.db.Save(&syncLog).Error; err != nil {
		e.logger.Error("Failed to close sync log", zap.String("sync_type", syncType), zap.Error(err))
		return
	}

	e.logger.Info("HR sheet sync completed",
		zap.String("sync_type", syncType),
		zap.Int("processed", processed),
		zap.Int("updated", updated),
	)
}

// RecentSyncs returns the ten most recently started sync runs, newest first.
func (e *Engine) RecentSyncs() ([]entity.SyncLog, error) {
	var syncs []entity.SyncLog
	if err := e.db.Order("started_at DESC").Limit(10).Find(&syncs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recent syncs: %w", err)
	}
	return syncs, nil
}

func (e *Engine) failSync(syncLog *entity.SyncLog, processed, created, updated int, cause error) {
	e.logger.Error("Sync failed", zap.String("sync_type", syncLog.SyncType), zap.Error(cause))

	payload, err := json.Marshal(map[string]string{
		"message": cause.Error(),
		"detail":  fmt.Sprintf("%+v", cause),
	})
	if err != nil {
		payload = []byte(`{"message":"failed to serialize sync error"}`)
	}

	now := time.Now()
	syncLog.Status = entity.SyncStatusError
	syncLog.RecordsProcessed = processed
	syncLog.RecordsCreated = created
	syncLog.RecordsUpdated = updated
	syncLog.Errors = payload
	syncLog.CompletedAt = &now
	if err := e.db.Save(syncLog).Error; err != nil {
		e.logger.Error("Failed to record sync failure", zap.Error(err))
	}

	if err := services.SendSyncFailureEmail(syncLog.SyncType, cause.Error()); err != nil {
		e.logger.Warn("Failed to send sync failure alert", zap.Error(err))
	}
}

// reindexRoster refreshes the search index after a successful master sync.
// The database state is already committed, so indexing failures are not fatal.
func (e *Engine) reindexRoster() {
	if e.search == nil {
		return
	}

	var collaborators []entity.Collaborator
	if err := e.db.Preload("Service").Preload("Client").Find(&collaborators).Error; err != nil {
		e.logger.Error("Failed to load collaborators for indexing", zap.Error(err))
		return
	}
	var roster []entity.Service
	if err := e.db.Find(&roster).Error; err != nil {
		e.logger.Error("Failed to load services for indexing", zap.Error(err))
		return
	}

	var documentsToIndex []map[string]interface{}
	for i := range collaborators {
		documentsToIndex = append(documentsToIndex, utils.CollaboratorToDocument(&collaborators[i]))
	}
	for i := range roster {
		documentsToIndex = append(documentsToIndex, utils.ServiceToDocument(&roster[i]))
	}
	if len(documentsToIndex) == 0 {
		return
	}

	if _, err := e.search.Index("roster").AddDocuments(documentsToIndex, "id"); err != nil {
		e.logger.Error("Failed to index roster documents", zap.Error(err))
	}
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
