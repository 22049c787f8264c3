package models

import "time"

// Zone registers a PowerDNS zone under a numeric id so ownership can be tracked locally.
type Zone struct {
	ID uint64 `gorm:"primaryKey"`
	// Name is the canonical zone name with trailing dot.
	Name string `gorm:"size:255;not null;uniqueIndex"`
	// ZoneTemplateID is the template the zone was created from, if any.
	ZoneTemplateID *uint64 `gorm:"column:zone_templ_id"`
	Owners         []ZoneOwner
	CreatedAt      time.Time
}

// TableName overrides GORM's default pluralized table naming.
func (Zone) TableName() string {
	return "zones"
}

// ZoneOwner grants a user ownership of a zone. A zone may have several owners.
type ZoneOwner struct {
	ZoneID uint64 `gorm:"primaryKey"`
	UserID uint64 `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default pluralized table naming.
func (ZoneOwner) TableName() string {
	return "zone_owners"
}
