// Package dnssec exposes the DNSSEC zone keys of a PowerDNS zone and
// guards their activation state.
//
// Keys are never created or destroyed here. A key can only be flipped
// between active and inactive, and every flip first re-reads the current
// state so that a repeated request does not toggle the key back.
package dnssec
