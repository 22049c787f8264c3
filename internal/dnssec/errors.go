package dnssec

import "errors"

var (
	// ErrKeyNotFound is returned when the zone has no key with the requested id.
	ErrKeyNotFound = errors.New("zone key not found")
	// ErrStoreNil is returned when the service has no key store.
	ErrStoreNil = errors.New("dnssec key store is nil")
	// ErrEmptyZone is returned for an empty zone name.
	ErrEmptyZone = errors.New("zone name is empty")
)
