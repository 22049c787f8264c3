package zonetemplate

import "errors"

var (
	// ErrOutOfRange is returned for a numeric TTL or priority that does not fit its field.
	ErrOutOfRange = errors.New("value out of range")
	// ErrUnknownType is returned for record types outside the supported list.
	ErrUnknownType = errors.New("unknown record type")
	// ErrInvalidName is returned when the record name is not a domain name after expansion.
	ErrInvalidName = errors.New("invalid record name")
	// ErrInvalidContent is returned when the content does not fit the record type.
	ErrInvalidContent = errors.New("invalid record content")
	// ErrRecordTemplateMismatch is returned when a record does not belong to the given template.
	ErrRecordTemplateMismatch = errors.New("record does not belong to zone template")
)
