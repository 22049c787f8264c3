// Package powerdns holds the process wide PowerDNS API client.
package powerdns

import (
	"context"
	"net/http"
	"time"

	"github.com/joeig/go-powerdns/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/controller/pdnsserver"
)

const (
	// DefaultTimeout bounds a single API round trip.
	DefaultTimeout = 30 * time.Second
)

type engine struct {
	*powerdns.Client

	// the library keeps these private; cryptokey updates need them
	httpClient *http.Client
	apiKey     string
}

// Engine represents the PowerDNS client engine.
var Engine engine

// Test lists the zones of the configured server to verify the connection.
func (e engine) Test(ctx context.Context) error {
	if e.Client == nil {
		return ErrClientNotInitialized
	}

	zones, err := e.Zones.List(ctx)
	if err != nil {
		return err
	}

	log.Info().Int("zone_count", len(zones)).Msg("PowerDNS API connection test successful")

	return nil
}

// Open initializes the PowerDNS client using settings from the database.
func Open(db *gorm.DB) error {
	settings := &pdnsserver.Settings{}
	if err := settings.Load(db); err != nil {
		return err
	}

	if settings.APIServerURL == "" {
		return ErrNoServerSettings
	}

	Engine.Init(settings.APIServerURL, settings.VHost, settings.APIKey, &http.Client{Timeout: DefaultTimeout})

	log.Info().Str("url", settings.APIServerURL).Str("vhost", settings.VHost).Msg("PowerDNS client initialized")

	return nil
}

// Init points the engine at a PowerDNS server.
func (e *engine) Init(baseURL, vhost, apiKey string, httpClient *http.Client) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	e.httpClient = httpClient
	e.apiKey = apiKey
	e.Client = powerdns.New(baseURL, vhost, powerdns.WithAPIKey(apiKey), powerdns.WithHTTPClient(httpClient))
}
