// Package zone keeps the local registry of zones and their owners.
package zone

import (
	"errors"
	"fmt"

	"github.com/miekg/dns"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrZoneNotFound is returned when no zone matches the id or name.
	ErrZoneNotFound = errors.New("zone not found")
	// ErrZoneExists is returned when registering a zone name twice.
	ErrZoneExists = errors.New("zone already registered")
	// ErrInvalidZoneName is returned for names that are not valid domain names.
	ErrInvalidZoneName = errors.New("invalid zone name")
)

// GetByID returns the zone with the given numeric id.
func GetByID(db *gorm.DB, id uint64) (*models.Zone, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var z models.Zone
	if err := db.First(&z, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrZoneNotFound
		}

		return nil, fmt.Errorf("failed to get zone %d: %w", id, err)
	}

	return &z, nil
}

// GetNameByID resolves a zone id to its canonical name.
func GetNameByID(db *gorm.DB, id uint64) (string, error) {
	z, err := GetByID(db, id)
	if err != nil {
		return "", err
	}

	return z.Name, nil
}

// GetByName returns the zone registered under name. The trailing dot is optional.
func GetByName(db *gorm.DB, name string) (*models.Zone, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var z models.Zone
	if err := db.Where("name = ?", dns.Fqdn(name)).First(&z).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrZoneNotFound
		}

		return nil, fmt.Errorf("failed to get zone %s: %w", name, err)
	}

	return &z, nil
}

// IsOwner reports whether userID is one of the zone's owners.
func IsOwner(db *gorm.DB, zoneID, userID uint64) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	var count int64

	err := db.Model(&models.ZoneOwner{}).
		Where("zone_id = ? AND user_id = ?", zoneID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check zone owner: %w", err)
	}

	return count > 0, nil
}

// Create registers a zone and makes ownerID its first owner.
func Create(db *gorm.DB, name string, templateID *uint64, ownerID uint64) (*models.Zone, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	name = dns.CanonicalName(name)
	if _, ok := dns.IsDomainName(name); !ok || name == "." {
		return nil, fmt.Errorf("%w: %q", ErrInvalidZoneName, name)
	}

	z := &models.Zone{
		Name:           name,
		ZoneTemplateID: templateID,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Zone{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check zone name: %w", err)
		}

		if count > 0 {
			return ErrZoneExists
		}

		if err := tx.Create(z).Error; err != nil {
			return fmt.Errorf("failed to create zone: %w", err)
		}

		if err := tx.Create(&models.ZoneOwner{ZoneID: z.ID, UserID: ownerID}).Error; err != nil {
			return fmt.Errorf("failed to add zone owner: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return z, nil
}

// AddOwner grants userID ownership of the zone. Adding an existing owner is a no-op.
func AddOwner(db *gorm.DB, zoneID, userID uint64) error {
	if db == nil {
		return ErrDBNil
	}

	if _, err := GetByID(db, zoneID); err != nil {
		return err
	}

	err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ZoneOwner{ZoneID: zoneID, UserID: userID}).Error
	if err != nil {
		return fmt.Errorf("failed to add zone owner: %w", err)
	}

	return nil
}

// ListByOwner returns the zones owned by userID, or every zone when all is true.
func ListByOwner(db *gorm.DB, userID uint64, all bool) ([]models.Zone, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var zones []models.Zone

	query := db.Model(&models.Zone{}).Order("zones.name")
	if !all {
		query = query.Joins("JOIN zone_owners ON zone_owners.zone_id = zones.id").
			Where("zone_owners.user_id = ?", userID)
	}

	if err := query.Find(&zones).Error; err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}

	return zones, nil
}
