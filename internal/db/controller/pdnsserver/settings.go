// Package pdnsserver persists the PowerDNS API connection settings.
package pdnsserver

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/config"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/controller/setting"
)

const (
	// SettingKeyPDNSServer is the key used to store PDNS server settings in the database.
	SettingKeyPDNSServer = "pdns_server"
)

// Settings represents PowerDNS server configuration.
type Settings struct {
	APIServerURL string `form:"api_server_url" json:"apiServerUrl" validate:"required,url"`
	APIKey       string `form:"api_key"        json:"apiKey"       validate:"required,min=8"`
	VHost        string `form:"vhost"          json:"vhost"        validate:"required"`
}

// Load loads the PDNS server settings from the database.
func (p *Settings) Load(db *gorm.DB) error {
	s, err := setting.Get(db, SettingKeyPDNSServer)
	if err != nil {
		return err
	}

	return json.Unmarshal(s.Value, p)
}

// Save saves the PDNS server settings to the database.
func (p *Settings) Save(db *gorm.DB) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	_, err = setting.Set(db, SettingKeyPDNSServer, data)

	return err
}

// SeedFromConfig stores the connection from the config file unless settings already exist
// or the config section is empty.
func SeedFromConfig(db *gorm.DB, cfg config.PDNS) error {
	if cfg.APIServerURL == "" {
		return nil
	}

	exists, err := setting.Exists(db, SettingKeyPDNSServer)
	if err != nil || exists {
		return err
	}

	s := &Settings{
		APIServerURL: cfg.APIServerURL,
		APIKey:       cfg.APIKey,
		VHost:        cfg.VHost,
	}

	return s.Save(db)
}
