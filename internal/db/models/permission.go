package models

// Permission is a single access right in resource.action form, e.g. "template.edit".
type Permission struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"unique;size:100;not null"`
	Description string `gorm:"size:255"`
}

// TableName overrides GORM's default pluralized table naming.
func (Permission) TableName() string {
	return "permissions"
}
