// Package zonetemplate provides persistence for zone templates and their records.
package zonetemplate

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrTemplateNotFound is returned when no template matches the id.
	ErrTemplateNotFound = errors.New("zone template not found")
	// ErrTemplateNameEmpty is returned when creating a template without a name.
	ErrTemplateNameEmpty = errors.New("zone template name cannot be empty")
	// ErrTemplateExists is returned when the owner already has a template with that name.
	ErrTemplateExists = errors.New("zone template with this name already exists")
	// ErrRecordNotFound is returned when no template record matches the id.
	ErrRecordNotFound = errors.New("zone template record not found")
)

const whereTemplateID = "zone_templ_id = ?"

// List returns the templates owned by ownerID, or all templates when all is true.
func List(db *gorm.DB, ownerID uint64, all bool) ([]models.ZoneTemplate, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var templates []models.ZoneTemplate

	query := db.Preload("Owner").Order("name")
	if !all {
		query = query.Where("owner_id = ?", ownerID)
	}

	if err := query.Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("failed to list zone templates: %w", err)
	}

	return templates, nil
}

// GetDetails returns the template without its records.
func GetDetails(db *gorm.DB, id uint64) (*models.ZoneTemplate, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var templ models.ZoneTemplate
	if err := db.First(&templ, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}

		return nil, fmt.Errorf("failed to get zone template %d: %w", id, err)
	}

	return &templ, nil
}

// IsOwner reports whether userID owns the template. An unknown template has no owner.
func IsOwner(db *gorm.DB, id, userID uint64) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	var count int64

	err := db.Model(&models.ZoneTemplate{}).
		Where("id = ? AND owner_id = ?", id, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check zone template owner: %w", err)
	}

	return count > 0, nil
}

// Create stores a new, empty template.
func Create(db *gorm.DB, name, description string, ownerID uint64) (*models.ZoneTemplate, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTemplateNameEmpty
	}

	var count int64
	if err := db.Model(&models.ZoneTemplate{}).
		Where("name = ? AND owner_id = ?", name, ownerID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check zone template name: %w", err)
	}

	if count > 0 {
		return nil, ErrTemplateExists
	}

	templ := &models.ZoneTemplate{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
	}

	if err := db.Create(templ).Error; err != nil {
		return nil, fmt.Errorf("failed to create zone template: %w", err)
	}

	return templ, nil
}

// Delete removes a template together with its records.
// Zones created from it keep their records but lose the reference.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(whereTemplateID, id).Delete(&models.ZoneTemplateRecord{}).Error; err != nil {
			return fmt.Errorf("failed to delete zone template records: %w", err)
		}

		if err := tx.Model(&models.Zone{}).Where(whereTemplateID, id).
			Update("zone_templ_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach zones from template: %w", err)
		}

		result := tx.Delete(&models.ZoneTemplate{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete zone template: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			return ErrTemplateNotFound
		}

		return nil
	})
}

// Records returns the records of a template ordered by type and name.
func Records(db *gorm.DB, id uint64) ([]models.ZoneTemplateRecord, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var records []models.ZoneTemplateRecord

	err := db.Where(whereTemplateID, id).Order("type, name, id").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list zone template records: %w", err)
	}

	return records, nil
}

// AddRecord stores rec under its template. The template must exist.
func AddRecord(db *gorm.DB, rec *models.ZoneTemplateRecord) error {
	if db == nil {
		return ErrDBNil
	}

	if _, err := GetDetails(db, rec.ZoneTemplateID); err != nil {
		return err
	}

	rec.ID = 0
	if err := db.Create(rec).Error; err != nil {
		return fmt.Errorf("failed to add zone template record: %w", err)
	}

	return nil
}

// GetRecord returns a single template record.
func GetRecord(db *gorm.DB, recordID uint64) (*models.ZoneTemplateRecord, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var rec models.ZoneTemplateRecord
	if err := db.First(&rec, recordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}

		return nil, fmt.Errorf("failed to get zone template record %d: %w", recordID, err)
	}

	return &rec, nil
}

// DeleteRecord removes a template record.
func DeleteRecord(db *gorm.DB, recordID uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.ZoneTemplateRecord{}, recordID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete zone template record: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}
