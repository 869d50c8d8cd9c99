package sync

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/siribarren/sermaluc-gestion-servicios/internal/entity"
)

var testSheetConfig = SheetConfig{
	MasterSpreadsheetID: "master-sheet",
	MasterRange:         "Sheet1!A2:O",
	HRSpreadsheetID:     "hr-sheet",
	HRChileRange:        "Chile!A2:C",
	HRPeruRange:         "Peru!A2:C",
}

type fakeSource struct {
	rows map[string][][]string
	errs map[string]error
}

func (f *fakeSource) FetchRows(_ context.Context, _ string, readRange string) ([][]string, error) {
	if err := f.errs[readRange]; err != nil {
		return nil, err
	}
	return f.rows[readRange], nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&entity.CostCenter{},
		&entity.Service{},
		&entity.Client{},
		&entity.Collaborator{},
		&entity.ServiceAssignment{},
		&entity.ChangeLog{},
		&entity.SyncLog{},
	))
	return db
}

func newTestEngine(t *testing.T, db *gorm.DB, source RowSource) *Engine {
	t.Helper()
	return NewEngine(db, zap.NewNop(), source, nil, testSheetConfig)
}

func masterScenarioRow() []string {
	return []string{"12345678-9", "Jane Doe", "ACTIVO", "2024-01-15", "2023-01-01", "", "", "CC01", "Cleaning", "Acme", "1500", "Supervisor", "Bob"}
}

func lastSyncLog(t *testing.T, db *gorm.DB, syncType string) entity.SyncLog {
	t.Helper()
	var syncLog entity.SyncLog
	require.NoError(t, db.Where("sync_type = ?", syncType).Order("started_at DESC").First(&syncLog).Error)
	return syncLog
}

func TestSyncMasterSheetCreatesRoster(t *testing.T) {
	db := newTestDB(t)
	source := &fakeSource{rows: map[string][][]string{
		testSheetConfig.MasterRange: {masterScenarioRow()},
	}}
	engine := newTestEngine(t, db, source)

	require.NoError(t, engine.SyncMasterSheet(context.Background()))

	var collaborator entity.Collaborator
	require.NoError(t, db.Where("rut_dni = ?", "12345678-9").First(&collaborator).Error)
	assert.Equal(t, "Jane Doe", collaborator.Nombre)
	assert.Equal(t, entity.StatusActive, collaborator.Estado)
	require.NotNil(t, collaborator.Tarifa)
	assert.True(t, collaborator.Tarifa.Equal(decimalFromString(t, "1500")))
	assert.Equal(t, "Supervisor", collaborator.Cargo)
	assert.Equal(t, "Bob", collaborator.Coordinator)
	require.NotNil(t, collaborator.FechaIngresoSermaluc)
	assert.Equal(t, time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC), collaborator.FechaIngresoSermaluc.UTC())

	var costCenter entity.CostCenter
	require.NoError(t, db.Where("code = ?", "CC01").First(&costCenter).Error)
	assert.Equal(t, "CC01", costCenter.Name)

	var service entity.Service
	require.NoError(t, db.Where("name = ?", "Cleaning").First(&service).Error)
	var client entity.Client
	require.NoError(t, db.Where("name = ?", "Acme").First(&client).Error)

	require.NotNil(t, collaborator.ServiceID)
	assert.Equal(t, service.ID, *collaborator.ServiceID)
	require.NotNil(t, collaborator.CostCenterID)
	assert.Equal(t, costCenter.ID, *collaborator.CostCenterID)
	require.NotNil(t, collaborator.ClientID)
	assert.Equal(t, client.ID, *collaborator.ClientID)

	var assignments []entity.ServiceAssignment
	require.NoError(t, db.Find(&assignments).Error)
	require.Len(t, assignments, 1)
	assert.Equal(t, collaborator.ID, assignments[0].CollaboratorID)
	assert.Equal(t, service.ID, assignments[0].ServiceID)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), assignments[0].FechaCambio.UTC())

	syncLog := lastSyncLog(t, db, entity.SyncTypeMasterSheet)
	assert.Equal(t, entity.SyncStatusSuccess, syncLog.Status)
	assert.Equal(t, 1, syncLog.RecordsProcessed)
	assert.Equal(t, 1, syncLog.RecordsCreated)
	assert.Equal(t, 0, syncLog.RecordsUpdated)
	assert.NotNil(t, syncLog.CompletedAt)
}

func TestSyncMasterSheetIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	source := &fakeSource{rows: map[string][][]string{
		testSheetConfig.MasterRange: {masterScenarioRow()},
	}}
	engine := newTestEngine(t, db, source)

	require.NoError(t, engine.SyncMasterSheet(context.Background()))
	require.NoError(t, engine.SyncMasterSheet(context.Background()))

	var changeLogCount int64
	require.NoError(t, db.Model(&entity.ChangeLog{}).Count(&changeLogCount).Error)
	assert.Zero(t, changeLogCount, "an unchanged source must not produce change log entries")

	var assignmentCount int64
	require.NoError(t, db.Model(&entity.ServiceAssignment{}).Count(&assignmentCount).Error)
	assert.EqualValues(t, 1, assignmentCount, "replaying the same row must not duplicate history")

	var collaboratorCount int64
	require.NoError(t, db.Model(&entity.Collaborator{}).Count(&collaboratorCount).Error)
	assert.EqualValues(t, 1, collaboratorCount)

	syncLog := lastSyncLog(t, db, entity.SyncTypeMasterSheet)
	assert.Equal(t, entity.SyncStatusSuccess, syncLog.Status)
	assert.Equal(t, 1, syncLog.RecordsProcessed)
	assert.Equal(t, 0, syncLog.RecordsCreated)
	assert.Equal(t, 1, syncLog.RecordsUpdated)
}

func TestSyncMasterSheetSkipsInvalidRows(t *testing.T) {
	db := newTestDB(t)
	source := &fakeSource{rows: map[string][][]string{
		testSheetConfig.MasterRange: {
			{},                              // fully empty row
			{"", "No Rut", "ACTIVO"},        // empty natural key
			{"11111111-1", "", "ACTIVO"},     // missing name
			{"   ", "Spaces Only", "ACTIVO"}, // key blank after trim
		},
	}}
	engine := newTestEngine(t, db, source)

	require.NoError(t, engine.SyncMasterSheet(context.Background()))

	var collaboratorCount int64
	require.NoError(t, db.Model(&entity.Collaborator{}).Count(&collaboratorCount).Error)
	assert.Zero(t, collaboratorCount)

	syncLog := lastSyncLog(t, db, entity.SyncTypeMasterSheet)
	assert.Equal(t, entity.SyncStatusSuccess, syncLog.Status)
	assert.Equal(t, 0, syncLog.RecordsProcessed)
	assert.Equal(t, 0, syncLog.RecordsCreated)
	assert.Equal(t, 0, syncLog.RecordsUpdated)
}

func TestSyncMasterSheetLogsStatusChange(t *testing.T) {
	db := newTestDB(t)
	source := &fakeSource{rows: map[string][][]string{
		testSheetConfig.MasterRange: {masterScenarioRow()},
	}}
	engine := newTestEngine(t, db, source)
	require.NoError(t, engine.SyncMasterSheet(context.Background()))

	terminated := masterScenarioRow()
	terminated[2] = "FINIQUITADO"
	source.rows[testSheetConfig.MasterRange] = [][]string{terminated}
	require.NoError(t, engine.SyncMasterSheet(context.Background()))

	var changes []entity.ChangeLog
	require.NoError(t, db.Find(&changes).Error)
	require.Len(t, changes, 1)
	assert.Equal(t, "estado", changes[0].Field)
	assert.Equal(t, entity.ChangeTypeStatus, changes[0].ChangeType)
	assert.Equal(t, "ACTIVE", changes[0].OldValue)
	assert.Equal(t, "TERMINATED", changes[0].NewValue)
	assert.Equal(t, "master_sheet", changes[0].Source)

	var collaborator entity.Collaborator
	require.NoError(t, db.Where("rut_dni = ?", "12345678-9").First(&collaborator).Error)
	assert.Equal(t, entity.StatusTerminated, collaborator.Estado)
}

func TestSyncMasterSheetCountsBalance(t *testing.T) {
	db := newTestDB(t)
	rowTwo := []string{"22222222-2", "John Roe", "ACTIVO", "", "", "", "", "CC01", "Cleaning", "Acme", "1200", "Operator", "Bob"}
	source := &fakeSource{rows: map[string][][]string{
		testSheetConfig.MasterRange: {masterScenarioRow(), rowTwo},
	}}
	engine := newTestEngine(t, db, source)

	require.NoError(t, engine.SyncMasterSheet(context.Background()))
	first := lastSyncLog(t, db, entity.SyncTypeMasterSheet)
	assert.Equal(t, first.RecordsProcessed, first.RecordsCreated+first.RecordsUpdated)
	assert.Equal(t, 2, first.RecordsCreated)

	require.NoError(t, engine.SyncMasterSheet(context.Background()))
	second := lastSyncLog(t, db, entity.SyncTypeMasterSheet)
	assert.Equal(t, second.RecordsProcessed, second.RecordsCreated+second.RecordsUpdated)
	assert.Equal(t, 2, second.RecordsUpdated)
	assert.Equal(t, 0, second.RecordsCreated)
}

func TestSyncMasterSheetFaultMarksErrorAndPropagates(t *testing.T) {
	db := newTestDB(t)
	source := &fakeSource{errs: map[string]error{
		testSheetConfig.MasterRange: errors.New("spreadsheet unavailable"),
	}}
	engine := newTestEngine(t, db, source)

	err := engine.SyncMasterSheet(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spreadsheet unavailable")

	syncLog := lastSyncLog(t, db, entity.SyncTypeMasterSheet)
	assert.Equal(t, entity.SyncStatusError, syncLog.Status)
	assert.NotNil(t, syncLog.CompletedAt)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(syncLog.Errors, &payload))
	assert.Contains(t, payload["message"], "spreadsheet unavailable")
}

func TestSyncMasterSheetNotConfigured(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(t, db, nil)

	err := engine.SyncMasterSheet(context.Background())
	require.ErrorIs(t, err, ErrSheetsNotConfigured)

	var syncLogCount int64
	require.NoError(t, db.Model(&entity.SyncLog{}).Count(&syncLogCount).Error)
	assert.Zero(t, syncLogCount, "no sync log may be opened when the source is missing")

	require.ErrorIs(t, engine.SyncHRSheets(context.Background()), ErrSheetsNotConfigured)
}

func TestSyncHRSheetUpdatesOfficialHireDate(t *testing.T) {
	db := newTestDB(t)
	source := &fakeSource{rows: map[string][][]string{
		testSheetConfig.MasterRange:  {masterScenarioRow()},
		testSheetConfig.HRChileRange: {{"12345678-9", "45678"}},
	}}
	engine := newTestEngine(t, db, source)
	require.NoError(t, engine.SyncMasterSheet(context.Background()))

	require.NoError(t, engine.SyncHRSheets(context.Background()))

	expected := sheetEpoch.AddDate(0, 0, 45678)
	var collaborator entity.Collaborator
	require.NoError(t, db.Where("rut_dni = ?", "12345678-9").First(&collaborator).Error)
	require.NotNil(t, collaborator.FechaIngresoOficial)
	assert.True(t, collaborator.FechaIngresoOficial.Equal(expected))

	var changes []entity.ChangeLog
	require.NoError(t, db.Where("field = ?", "fecha_ingreso_oficial").Find(&changes).Error)
	require.Len(t, changes, 1)
	assert.Equal(t, entity.ChangeTypeOther, changes[0].ChangeType)
	assert.Equal(t, "hr_sheet_chile", changes[0].Source)
	assert.Equal(t, "", changes[0].OldValue)
	assert.Equal(t, expected.UTC().Format(time.RFC3339), changes[0].NewValue)

	chileLog := lastSyncLog(t, db, entity.SyncTypeHRSheetChile)
	assert.Equal(t, entity.SyncStatusSuccess, chileLog.Status)
	assert.Equal(t, 1, chileLog.RecordsProcessed)
	assert.Equal(t, 1, chileLog.RecordsUpdated)

	peruLog := lastSyncLog(t, db, entity.SyncTypeHRSheetPeru)
	assert.Equal(t, entity.SyncStatusSuccess, peruLog.Status)
	assert.Equal(t, 0, peruLog.RecordsProcessed)

	// Replaying the same HR row must not append another audit entry.
	require.NoError(t, engine.SyncHRSheets(context.Background()))
	var changeCount int64
	require.NoError(t, db.Model(&entity.ChangeLog{}).Where("field = ?", "fecha_ingreso_oficial").Count(&changeCount).Error)
	assert.EqualValues(t, 1, changeCount)
	secondChileLog := lastSyncLog(t, db, entity.SyncTypeHRSheetChile)
	assert.Equal(t, 1, secondChileLog.RecordsProcessed)
	assert.Equal(t, 0, secondChileLog.RecordsUpdated)
}

func TestSyncHRSheetCountsUnknownCollaborators(t *testing.T) {
	db := newTestDB(t)
	source := &fakeSource{rows: map[string][][]string{
		testSheetConfig.HRChileRange: {{"99999999-9", "45678"}},
	}}
	engine := newTestEngine(t, db, source)

	require.NoError(t, engine.SyncHRSheets(context.Background()))

	// Unknown ruts still count as processed; only updates bump the counter.
	chileLog := lastSyncLog(t, db, entity.SyncTypeHRSheetChile)
	assert.Equal(t, entity.SyncStatusSuccess, chileLog.Status)
	assert.Equal(t, 1, chileLog.RecordsProcessed)
	assert.Equal(t, 0, chileLog.RecordsUpdated)
}

func TestSyncHRSheetsChileFaultDoesNotStopPeru(t *testing.T) {
	db := newTestDB(t)
	source := &fakeSource{
		rows: map[string][][]string{
			testSheetConfig.HRPeruRange: {{"12345678-9", "2024-02-01"}},
		},
		errs: map[string]error{
			testSheetConfig.HRChileRange: errors.New("range not found"),
		},
	}
	engine := newTestEngine(t, db, source)
	require.NoError(t, db.Create(&entity.Collaborator{RutDni: "12345678-9", Nombre: "Jane Doe", Estado: entity.StatusActivePeru}).Error)

	// The Chile fault is recorded on its own sync log; the Peru sub-run and
	// the caller are unaffected. Whether this asymmetry with the master path
	// is intentional is debatable, but it is the contract.
	require.NoError(t, engine.SyncHRSheets(context.Background()))

	chileLog := lastSyncLog(t, db, entity.SyncTypeHRSheetChile)
	assert.Equal(t, entity.SyncStatusError, chileLog.Status)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(chileLog.Errors, &payload))
	assert.Contains(t, payload["message"], "range not found")

	peruLog := lastSyncLog(t, db, entity.SyncTypeHRSheetPeru)
	assert.Equal(t, entity.SyncStatusSuccess, peruLog.Status)
	assert.Equal(t, 1, peruLog.RecordsProcessed)
	assert.Equal(t, 1, peruLog.RecordsUpdated)
}

func TestRecentSyncsReturnsNewestFirstCapped(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(t, db, &fakeSource{})

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		syncLog := entity.SyncLog{
			SyncType:  entity.SyncTypeMasterSheet,
			Status:    entity.SyncStatusSuccess,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&syncLog).Error)
	}

	syncs, err := engine.RecentSyncs()
	require.NoError(t, err)
	require.Len(t, syncs, 10)
	for i := 1; i < len(syncs); i++ {
		assert.False(t, syncs[i].StartedAt.After(syncs[i-1].StartedAt))
	}
}
