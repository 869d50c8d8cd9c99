package sync

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/siribarren/sermaluc-gestion-servicios/internal/entity"
)

// Dimension upserts are create-or-fetch: an existing row is returned as-is,
// never overwritten. A concurrent run may win the insert; the conflict clause
// plus re-fetch makes either outcome converge on the surviving row.

func (e *Engine) upsertCostCenter(code string) (*entity.CostCenter, error) {
	var costCenter entity.CostCenter
	err := e.db.Where("code = ?", code).First(&costCenter).Error
	if err == nil {
		return &costCenter, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up cost center %q: %w", code, err)
	}

	costCenter = entity.CostCenter{Code: code, Name: code}
	if err := e.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoNothing: true,
	}).Create(&costCenter).Error; err != nil {
		return nil, fmt.Errorf("failed to create cost center %q: %w", code, err)
	}
	if err := e.db.Where("code = ?", code).First(&costCenter).Error; err != nil {
		return nil, fmt.Errorf("failed to re-fetch cost center %q: %w", code, err)
	}
	return &costCenter, nil
}

func (e *Engine) upsertService(name string) (*entity.Service, error) {
	var service entity.Service
	err := e.db.Where("name = ?", name).First(&service).Error
	if err == nil {
		return &service, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up service %q: %w", name, err)
	}

	service = entity.Service{Name: name}
	if err := e.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&service).Error; err != nil {
		return nil, fmt.Errorf("failed to create service %q: %w", name, err)
	}
	if err := e.db.Where("name = ?", name).First(&service).Error; err != nil {
		return nil, fmt.Errorf("failed to re-fetch service %q: %w", name, err)
	}
	return &service, nil
}

func (e *Engine) upsertClient(name string) (*entity.Client, error) {
	var client entity.Client
	err := e.db.Where("name = ?", name).First(&client).Error
	if err == nil {
		return &client, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up client %q: %w", name, err)
	}

	client = entity.Client{Name: name}
	if err := e.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&client).Error; err != nil {
		return nil, fmt.Errorf("failed to create client %q: %w", name, err)
	}
	if err := e.db.Where("name = ?", name).First(&client).Error; err != nil {
		return nil, fmt.Errorf("failed to re-fetch client %q: %w", name, err)
	}
	return &client, nil
}
