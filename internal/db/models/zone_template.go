package models

import "time"

// ZoneTemplate is a named, reusable set of records applied when a zone is created.
type ZoneTemplate struct {
	ID          uint64 `gorm:"primaryKey"`
	Name        string `gorm:"size:128;not null;uniqueIndex:idx_templ_owner_name"`
	Description string `gorm:"size:1024"`
	// OwnerID is the user that may change the template and its records.
	OwnerID   uint64 `gorm:"not null;uniqueIndex:idx_templ_owner_name"`
	Owner     User   `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Records   []ZoneTemplateRecord
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default pluralized table naming.
func (ZoneTemplate) TableName() string {
	return "zone_templ"
}

// ZoneTemplateRecord is one record of a zone template.
// Name and Content may carry placeholders such as [ZONE] or [SERIAL].
type ZoneTemplateRecord struct {
	ID             uint64 `gorm:"primaryKey"`
	ZoneTemplateID uint64 `gorm:"column:zone_templ_id;not null;index"`
	Name           string `gorm:"size:255;not null"`
	Type           string `gorm:"size:10;not null"`
	Content        string `gorm:"size:2048;not null"`
	TTL            uint32 `gorm:"column:ttl;not null"`
	Prio           uint16 `gorm:"not null;default:0"`
	CreatedAt      time.Time
}

// TableName overrides GORM's default pluralized table naming.
func (ZoneTemplateRecord) TableName() string {
	return "zone_templ_records"
}
