package models

import "time"

// Role is a named collection of permissions assigned to users.
type Role struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"unique;size:100;not null"`
	Description string `gorm:"size:255"`
	// IsSystem marks roles created by the seeder; they cannot be deleted.
	IsSystem  bool `gorm:"default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default pluralized table naming.
func (Role) TableName() string {
	return "roles"
}
