// Package dnsseckey provides the page activating or deactivating a DNSSEC zone key.
package dnsseckey

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/auth"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/config"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/controller/zone"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/dnssec"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/powerdns"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler"
	dnsseclist "github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler/dnssec/list"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/navigation"
)

const (
	// Path is the path to the zone key page.
	Path = dnsseclist.Path + "/key/edit"

	// TemplateName is the name of the zone key template.
	TemplateName = "dnssec/key"

	// TitleActivate is the page title for an inactive key.
	TitleActivate = "Activate zone key"
	// TitleDeactivate is the page title for an active key.
	TitleDeactivate = "Deactivate zone key"
)

// Service is the zone key handler service.
type Service struct {
	db          *gorm.DB
	authService *auth.Service
	keys        *dnssec.Service
}

// Handler is the zone key handler.
var Handler = Service{}

// Init initializes the zone key handler with keys served by PowerDNS.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	s.InitWithStore(app, cfg, db, authService, powerdns.CryptokeyStore{})
}

// InitWithStore initializes the zone key handler with the given key store.
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

	app.Get(Path, auth.RequirePermission(authService, auth.PermDNSSECView), s.Handle)
}

// Handle shows the key and toggles it once confirm=1 is given.
func (s *Service) Handle(c *fiber.Ctx) error {
	page := handler.NewPage()
	nav := navigation.NewContext("DNSSEC", navigation.SectionDNSSEC, "key", handler.RootPath)
	page.Set("Navigation", nav)

	zoneID, okZone := handler.QueryID(c, "id")
	keyID, okKey := handler.QueryID(c, "key_id")

	owner := false
	if okZone {
		var err error
		if owner, err = handler.OwnsZone(c, s.db, s.authService, zoneID); err != nil {
			log.Error().Err(err).Uint64("zone_id", zoneID).Msg("failed to check zone owner")
			return page.Error(handler.ErrBackend).Render(c, fiber.StatusInternalServerError, TemplateName)
		}
	}

	if !okZone {
		return page.Error(handler.ErrInvalidInput).Render(c, fiber.StatusBadRequest, TemplateName)
	}

	zoneName, err := zone.GetNameByID(s.db, zoneID)
	if err != nil {
		if errors.Is(err, zone.ErrZoneNotFound) {
			return page.Error(handler.ErrInvalidInput).Render(c, fiber.StatusNotFound, TemplateName)
		}

		log.Error().Err(err).Uint64("zone_id", zoneID).Msg("failed to resolve zone name")

		return page.Error(handler.ErrBackend).Render(c, fiber.StatusInternalServerError, TemplateName)
	}

	backURL := dnsseclist.Path + "?id=" + strconv.FormatUint(zoneID, 10)
	page.Set("Domain", zoneName).Set("ZoneID", zoneID).Set("BackURL", backURL)
	nav.Link("DNSSEC "+zoneName, backURL)

	if !okKey {
		return page.Error(handler.ErrInvalidInput).Render(c, fiber.StatusBadRequest, TemplateName)
	}

	ctx, cancel := context.WithTimeout(c.Context(), powerdns.DefaultTimeout)
	defer cancel()

	exists, err := s.keys.KeyExists(ctx, zoneName, keyID)
	if err != nil {
		return s.backendError(c, page, err, zoneName)
	}

	if !exists {
		return page.Error(handler.ErrInvalidInput).Render(c, fiber.StatusNotFound, TemplateName)
	}

	key, err := s.keys.Key(ctx, zoneName, keyID)
	if err != nil {
		return s.backendError(c, page, err, zoneName)
	}

	title := TitleActivate
	if key.Active {
		title = TitleDeactivate
	}

	nav.PageTitle = title
	nav.Current(title)
	page.Set("Title", title)

	if handler.Confirmed(c) {
		if !owner {
			return page.Error(handler.ErrPermEditZoneKey).Render(c, fiber.StatusForbidden, TemplateName)
		}

		return s.toggle(ctx, c, page, zoneName, key)
	}

	if !owner {
		return page.Error(handler.ErrPermEditZoneKey).Render(c, fiber.StatusForbidden, TemplateName)
	}

	return page.Set("Key", key).Render(c, fiber.StatusOK, TemplateName)
}

func (s *Service) toggle(ctx context.Context, c *fiber.Ctx, page *handler.Page, zoneName string, key *dnssec.Key) error {
	var (
		err     error
		message string
	)

	if key.Active {
		err = s.keys.Deactivate(ctx, zoneName, key.ID)
		message = handler.SucZoneKeyDeactivated
	} else {
		err = s.keys.Activate(ctx, zoneName, key.ID)
		message = handler.SucZoneKeyActivated
	}

	if err != nil {
		return s.backendError(c, page, err, zoneName)
	}

	return page.Set("Done", true).Success(message).Render(c, fiber.StatusOK, TemplateName)
}

func (s *Service) backendError(c *fiber.Ctx, page *handler.Page, err error, zoneName string) error {
	if errors.Is(err, powerdns.ErrClientNotInitialized) {
		log.Error().Msg(powerdns.ErrMsgClientNotInitialized)
		return page.Error(handler.ErrPowerDNSNotReady).Render(c, fiber.StatusInternalServerError, TemplateName)
	}

	if errors.Is(err, dnssec.ErrKeyNotFound) {
		return page.Error(handler.ErrInvalidInput).Render(c, fiber.StatusNotFound, TemplateName)
	}

	log.Error().Err(err).Str("zone", zoneName).Msg("zone key request failed")

	return page.Error(handler.ErrBackend).Render(c, fiber.StatusInternalServerError, TemplateName)
}
