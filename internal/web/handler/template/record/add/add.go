// Package recordadd provides the page adding a record to a zone template.
package recordadd

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/auth"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/config"
	templatedb "github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/controller/zonetemplate"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler"
	templatehandler "github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler/template"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/navigation"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/zonetemplate"
)

const (
	// Path is the path to the add record page.
	Path = templatehandler.Path + "/record/add"

	// TemplateName is the name of the add record template.
	TemplateName = "template/record/add"

	// PageTitle is the title of the add record page.
	PageTitle = "Add record to zone template"
)

// Service is the add template record handler service.
type Service struct {
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
	validator   *zonetemplate.Validator
}

// Handler is the add template record handler.
var Handler = Service{}

// Init initializes the add template record handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.authService = authService
	s.validator = zonetemplate.NewValidator()

	// the page itself reports missing permissions
	app.Get(Path, auth.RequirePermission(authService, auth.PermTemplateView), s.Handle)
	app.Post(Path, auth.RequirePermission(authService, auth.PermTemplateView), s.Handle)
}

// Handle shows the add record form and, on commit, adds the record.
func (s *Service) Handle(c *fiber.Ctx) error {
	nav := navigation.NewContext(PageTitle, navigation.SectionTemplates, "record-add", handler.RootPath).
		Link("Zone templates", templatehandler.Path).
		Current(PageTitle)

	page := handler.NewPage().Set("Navigation", nav)

	templID, ok := handler.QueryID(c, "id")
	if !ok {
		return page.Error(handler.ErrInvalidInput).Render(c, fiber.StatusBadRequest, TemplateName)
	}

	form := zonetemplate.RecordForm{}

	if c.Method() == fiber.MethodPost {
		if err := c.BodyParser(&form); err != nil {
			log.Warn().Err(err).Msg("failed to parse add record form")
			return page.Error(handler.ErrInvalidInput).Render(c, fiber.StatusBadRequest, TemplateName)
		}
	}

	if err := form.ApplyDefaults(s.cfg.DNS.TTL); err != nil {
		log.Debug().Err(err).Msg("rejected add record form")
		return page.Error(handler.ErrInvalidInput).Render(c, fiber.StatusBadRequest, TemplateName)
	}

	templ, err := templatedb.GetDetails(s.db, templID)
	if err != nil {
		if errors.Is(err, templatedb.ErrTemplateNotFound) {
			return page.Error(handler.ErrTemplateNotFound).Render(c, fiber.StatusNotFound, TemplateName)
		}

		log.Error().Err(err).Uint64("zone_templ_id", templID).Msg("failed to load zone template")

		return page.Error(handler.ErrBackend).Render(c, fiber.StatusInternalServerError, TemplateName)
	}

	access, err := zonetemplate.CheckAccess(s.db, s.authService, auth.CurrentUserID(c), templID)
	if err != nil {
		log.Error().Err(err).Uint64("zone_templ_id", templID).Msg("failed to check zone template access")
		return page.Error(handler.ErrBackend).Render(c, fiber.StatusInternalServerError, TemplateName)
	}

	if !access.Allowed() {
		return page.Error(handler.ErrPermAddRecord, handler.ErrInvalidInput).
			Render(c, fiber.StatusForbidden, TemplateName)
	}

	status := fiber.StatusOK

	if form.Commit != "" {
		status = s.commit(page, &form, templID)
	}

	return page.Set("Template", templ).
		Set("Form", form).
		Set("Types", zonetemplate.TypeOptions(form.Type, "")).
		Set("Hints", zonetemplate.Hints()).
		Render(c, status, TemplateName)
}

// commit adds the record and returns the status of the page.
func (s *Service) commit(page *handler.Page, form *zonetemplate.RecordForm, templID uint64) int {
	if err := s.validator.Form(form); err != nil {
		return s.rejected(page, err)
	}

	rec := form.Record(templID)

	if err := zonetemplate.AddRecord(s.db, s.validator, &rec); err != nil {
		switch {
		case errors.Is(err, zonetemplate.ErrUnknownType),
			errors.Is(err, zonetemplate.ErrInvalidName),
			errors.Is(err, zonetemplate.ErrInvalidContent):
			return s.rejected(page, err)
		case errors.Is(err, templatedb.ErrTemplateNotFound):
			page.Error(handler.ErrTemplateNotFound)
			return fiber.StatusNotFound
		default:
			log.Error().Err(err).Uint64("zone_templ_id", templID).Msg("failed to add zone template record")
			page.Error(handler.ErrBackend)

			return fiber.StatusInternalServerError
		}
	}

	page.Success(handler.SucRecordAdded)
	form.Reset()

	return fiber.StatusOK
}

func (s *Service) rejected(page *handler.Page, err error) int {
	log.Debug().Err(err).Msg("zone template record rejected")
	page.Error(handler.ErrInvalidInput, err.Error())

	return fiber.StatusBadRequest
}
