// Package main provides the entry point of GoPowerDNS-Templates.
// The web service lets users maintain zone templates, create PowerDNS zones
// from them and switch the DNSSEC keys of their zones on and off. Data lives
// in a gorm database (mysql, postgres or sqlite); zones, records and keys are
// written to PowerDNS through its HTTP API.
package main
