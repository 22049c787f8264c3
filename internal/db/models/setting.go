// Package models contains database model definitions.
package models

// Setting is a named value blob, usually JSON encoded.
type Setting struct {
	ID    uint64 `gorm:"primaryKey"`
	Name  string `gorm:"unique;size:100;not null"`
	Value []byte
}
