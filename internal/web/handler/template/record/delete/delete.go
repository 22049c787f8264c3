// Package recorddelete provides the page deleting a record from a zone template.
package recorddelete

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
	// Path is the path to the delete record page.
	Path = templatehandler.Path + "/record/delete"

	// TemplateName is the name of the delete record template.
	TemplateName = "template/record/delete"

	// PageTitle is the title of the delete record page.
	PageTitle = "Delete zone template record"
)

// Service is the delete template record handler service.
type Service struct {
	db          *gorm.DB
	authService *auth.Service
}

// Handler is the delete template record handler.
var Handler = Service{}

// Init initializes the delete template record handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.authService = authService

	app.Get(Path, auth.RequirePermission(authService, auth.PermTemplateView), s.Handle)
}

// Handle asks for confirmation and deletes the record once confirm=1 is given.
func (s *Service) Handle(c *fiber.Ctx) error {
	nav := navigation.NewContext(PageTitle, navigation.SectionTemplates, "record-delete", handler.RootPath).
		Link("Zone templates", templatehandler.Path).
		Current(PageTitle)

	page := handler.NewPage().Set("Navigation", nav)

	recordID, okRecord := handler.QueryID(c, "id")
	templID, okTempl := handler.QueryID(c, "zone_templ_id")

	if !okRecord || !okTempl {
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
		return page.Error(handler.ErrPermDelRecord).Render(c, fiber.StatusForbidden, TemplateName)
	}

	record, err := templatedb.GetRecord(s.db, recordID)
	if err != nil {
		if errors.Is(err, templatedb.ErrRecordNotFound) {
			return page.Error(handler.ErrRecordNotFound).Render(c, fiber.StatusNotFound, TemplateName)
		}

		log.Error().Err(err).Uint64("record_id", recordID).Msg("failed to load zone template record")

		return page.Error(handler.ErrBackend).Render(c, fiber.StatusInternalServerError, TemplateName)
	}

	if record.ZoneTemplateID != templID {
		log.Warn().Uint64("record_id", recordID).Uint64("zone_templ_id", templID).
			Msg("record does not belong to zone template")

		return page.Error(handler.ErrInvalidInput).Render(c, fiber.StatusBadRequest, TemplateName)
	}

	page.Set("Template", templ).Set("Record", record)

	if !handler.Confirmed(c) {
		return page.Render(c, fiber.StatusOK, TemplateName)
	}

	if err := zonetemplate.DeleteRecord(s.db, templID, recordID); err != nil {
		log.Error().Err(err).Uint64("record_id", recordID).Msg("failed to delete zone template record")
		return page.Error(handler.ErrBackend).Render(c, fiber.StatusInternalServerError, TemplateName)
	}

	return page.Set("Deleted", true).Success(handler.SucRecordDel).Render(c, fiber.StatusOK, TemplateName)
}
