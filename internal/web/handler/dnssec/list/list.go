// Package dnsseclist provides the page listing the DNSSEC keys of a zone.
package dnsseclist

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/auth"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/config"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/controller/zone"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/dnssec"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/powerdns"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/navigation"
)

const (
	// Path is the path to the DNSSEC page of a zone.
	Path = handler.RootPath + "dnssec"

	// TemplateName is the name of the DNSSEC list template.
	TemplateName = "dnssec/list"
)

// Service is the DNSSEC key list handler service.
type Service struct {
	db          *gorm.DB
	authService *auth.Service
	keys        *dnssec.Service
}

// Handler is the DNSSEC key list handler.
var Handler = Service{}

// Init initializes the handler with keys served by PowerDNS.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	s.InitWithStore(app, cfg, db, authService, powerdns.CryptokeyStore{})
}

// InitWithStore initializes the handler with the given key store.
func (s *Service) InitWithStore(
	app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, store dnssec.KeyStore,
) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.authService = authService
	s.keys = dnssec.NewService(store)

	app.Get(Path, auth.RequirePermission(authService, auth.PermDNSSECView), s.Get)
}

// Get lists the keys of the zone given by id.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext("DNSSEC", navigation.SectionDNSSEC, "list", handler.RootPath)
	page := handler.NewPage().Set("Navigation", nav)

	zoneID, ok := handler.QueryID(c, "id")
	if !ok {
		return page.Error(handler.ErrInvalidInput).Render(c, fiber.StatusBadRequest, TemplateName)
	}

	zoneName, err := zone.GetNameByID(s.db, zoneID)
	if err != nil {
		if errors.Is(err, zone.ErrZoneNotFound) {
			return page.Error(handler.ErrZoneNotFound).Render(c, fiber.StatusNotFound, TemplateName)
		}

		log.Error().Err(err).Uint64("zone_id", zoneID).Msg("failed to resolve zone name")

		return page.Error(handler.ErrBackend).Render(c, fiber.StatusInternalServerError, TemplateName)
	}

	owner, err := handler.OwnsZone(c, s.db, s.authService, zoneID)
	if err != nil {
		log.Error().Err(err).Uint64("zone_id", zoneID).Msg("failed to check zone owner")
		return page.Error(handler.ErrBackend).Render(c, fiber.StatusInternalServerError, TemplateName)
	}

	if !owner {
		return page.Error(handler.ErrPermViewZone).Render(c, fiber.StatusForbidden, TemplateName)
	}

	nav.PageTitle = "DNSSEC " + zoneName
	nav.Current(nav.PageTitle)

	ctx, cancel := context.WithTimeout(c.Context(), powerdns.DefaultTimeout)
	defer cancel()

	keys, err := s.keys.Keys(ctx, zoneName)
	if err != nil {
		if errors.Is(err, powerdns.ErrClientNotInitialized) {
			log.Error().Msg(powerdns.ErrMsgClientNotInitialized)
			return page.Error(handler.ErrPowerDNSNotReady).Render(c, fiber.StatusInternalServerError, TemplateName)
		}

		log.Error().Err(err).Str("zone", zoneName).Msg("failed to list zone keys")

		return page.Error(handler.ErrBackend).Render(c, fiber.StatusInternalServerError, TemplateName)
	}

	return page.Set("Domain", zoneName).
		Set("ZoneID", zoneID).
		Set("Keys", keys).
		Success(c.Query("success")).
		Render(c, fiber.StatusOK, TemplateName)
}
