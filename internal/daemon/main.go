// Package daemon wires the database, the session store, PowerDNS and the web service.
package daemon

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/config"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/dsn"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/powerdns"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/session"
)

// ErrConfigNil is returned by New without a configuration.
var ErrConfigNil = errors.New("config is nil")

// sessionTable holds the login sessions in mysql and postgres.
const sessionTable = "sessions"

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the web service and blocks until it stops.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// sessionStorage picks the fiber storage matching the database engine.
// sqlite keeps sessions in process memory and returns nil.
func sessionStorage(cfg *config.Config) fiber.Storage {
	switch cfg.DB.GormEngine {
	case config.DBEngineSQLite:
		return nil
	case config.DBEnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         sessionTable,
		})
	default:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         sessionTable,
		})
	}
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	database, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}

	if err = seed(cfg, database); err != nil {
		return nil, err
	}

	if storage := sessionStorage(cfg); storage != nil {
		session.Init(storage, cfg.Webserver.Session.ExpiryTime)
	} else {
		session.InitMemory(cfg.Webserver.Session.ExpiryTime)
	}

	// the web ui stays usable without PowerDNS; settings can be fixed there
	if err = powerdns.Open(database); err != nil {
		log.Warn().Err(err).Msg("PowerDNS client not initialized")
	}

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, database),
	}, nil
}
