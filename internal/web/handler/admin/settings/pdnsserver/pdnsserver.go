// Package pdnsserver provides the admin page for the PowerDNS API connection.
package pdnsserver

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/auth"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/config"
	controller "github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/controller/pdnsserver"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/controller/setting"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/powerdns"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/navigation"
)

const (
	// Path is the path to the pdns-server settings page.
	Path = handler.RootPath + "admin/settings/pdns-server"

	// TemplateName is the name of the powerdns setting template.
	TemplateName = "admin/settings/pdns-server"

	// SucSettingsSaved is shown after saving.
	SucSettingsSaved = "Settings saved successfully"
)

// Service is the pdns-server settings handler service.
type Service struct {
	db        *gorm.DB
	validator *validator.Validate
	reconnect func(db *gorm.DB)
}

// Handler is the pdns-server settings handler.
var Handler = Service{}

// Init initializes the pdns-server settings handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.validator = validator.New()
	s.reconnect = reconnect

	app.Get(Path,
		auth.RequirePermission(authService, auth.PermAdminPDNSServer),
		s.Get,
	)
	app.Post(Path,
		auth.RequirePermission(authService, auth.PermAdminPDNSServer),
		s.Post,
	)
}

func newPage() *handler.Page {
	nav := navigation.NewContext("PowerDNS Server Settings", navigation.SectionSettings, "pdns-server", handler.RootPath).
		Current("PowerDNS Server")

	return handler.NewPage().Set("Navigation", nav)
}

// Get handles the pdns-server settings page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	settings := &controller.Settings{}
	page := newPage().Set("Settings", settings)

	if err := settings.Load(s.db); err != nil {
		if !errors.Is(err, setting.ErrSettingNotFound) {
			log.Error().Err(err).Msg("failed to load PDNS server settings")
			return page.Error(handler.ErrBackend).Render(c, fiber.StatusInternalServerError, TemplateName)
		}

		log.Debug().Msg("PDNS server settings not found, rendering empty form")
	}

	return page.Render(c, fiber.StatusOK, TemplateName)
}

// Post validates and stores the settings, then reconnects the PowerDNS client.
func (s *Service) Post(c *fiber.Ctx) error {
	settings := &controller.Settings{}
	page := newPage().Set("Settings", settings)

	if err := c.BodyParser(settings); err != nil {
		log.Error().Err(err).Msg("failed to parse PDNS server settings form")
		return page.Error(handler.ErrInvalidInput).Render(c, fiber.StatusBadRequest, TemplateName)
	}

	if err := s.validator.Struct(settings); err != nil {
		var validationErrors validator.ValidationErrors
		errors.As(err, &validationErrors)

		for _, ve := range validationErrors {
			page.Error("Field '" + ve.Field() + "' failed validation tag '" + ve.Tag() + "'")
		}

		log.Debug().Err(err).Msg("validation failed for PDNS server settings")

		return page.Render(c, fiber.StatusBadRequest, TemplateName)
	}

	if err := settings.Save(s.db); err != nil {
		log.Error().Err(err).Msg("failed to save PDNS server settings")
		return page.Error(handler.ErrBackend).Render(c, fiber.StatusInternalServerError, TemplateName)
	}

	log.Info().
		Str("api_server_url", settings.APIServerURL).
		Str("vhost", settings.VHost).
		Msg("PDNS server settings saved")

	go s.reconnect(s.db)

	return page.Success(SucSettingsSaved).Render(c, fiber.StatusOK, TemplateName)
}

// reconnect re-initializes the PowerDNS client and tests the connection.
func reconnect(db *gorm.DB) {
	if err := powerdns.Open(db); err != nil {
		log.Error().Err(err).Msg("failed to initialize PowerDNS engine after settings update")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), powerdns.DefaultTimeout)
	defer cancel()

	if err := powerdns.Engine.Test(ctx); err != nil {
		log.Error().Err(err).Msg("failed to connect to PowerDNS API with new settings")
	}
}
