// Package template provides the zone template pages: list, create, show and delete.
package template

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/auth"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/config"
	templatedb "github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/controller/zonetemplate"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/navigation"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/zonetemplate"
)

const (
	// Path is the template list.
	Path = handler.RootPath + "template"
	// AddPath creates a template.
	AddPath = Path + "/add"
	// EditPath shows a template with its records.
	EditPath = Path + "/edit"
	// DeletePath deletes a template.
	DeletePath = Path + "/delete"

	listTemplate   = "template/list"
	addTemplate    = "template/add"
	editTemplate   = "template/edit"
	deleteTemplate = "template/delete"
)

// Form is the create template input.
type Form struct {
	Name        string `form:"name"        validate:"required,max=255"`
	Description string `form:"description" validate:"max=1024"`
}

// Service is the zone template handler service.
type Service struct {
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
	validator   *validator.Validate
}

// Handler is the zone template handler.
var Handler = Service{}

// Init initializes the zone template handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.authService = authService
	s.validator = validator.New()

	app.Get(Path, auth.RequirePermission(authService, auth.PermTemplateView), s.List)
	app.Get(EditPath, auth.RequirePermission(authService, auth.PermTemplateView), s.Edit)
	app.Get(AddPath, auth.RequirePermission(authService, auth.PermTemplateEdit), s.AddForm)
	app.Post(AddPath, auth.RequirePermission(authService, auth.PermTemplateEdit), s.Add)
	app.Get(DeletePath, auth.RequirePermission(authService, auth.PermTemplateEdit), s.Delete)
}

func listNav(title, page string) *navigation.Context {
	nav := navigation.NewContext(title, navigation.SectionTemplates, page, handler.RootPath)
	if page == "list" {
		return nav.Current(title)
	}

	return nav.Link("Zone templates", Path).Current(title)
}

// List shows the templates of the user, or all templates for admins.
func (s *Service) List(c *fiber.Ctx) error {
	page := handler.NewPage().Set("Navigation", listNav("Zone templates", "list"))

	userID := auth.CurrentUserID(c)
	all := auth.HasPermissionInContext(c, s.authService, auth.PermAdminTemplates)

	templates, err := templatedb.List(s.db, userID, all)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", userID).Msg("failed to list zone templates")
		return page.Error(handler.ErrBackend).Render(c, fiber.StatusInternalServerError, listTemplate)
	}

	return page.Set("Templates", templates).
		Success(c.Query("success")).
		Render(c, fiber.StatusOK, listTemplate)
}

// Edit shows one template with its records.
func (s *Service) Edit(c *fiber.Ctx) error {
	page := handler.NewPage().Set("Navigation", listNav("Zone template", "edit")).Success(c.Query("success"))

	id, ok := handler.QueryID(c, "id")
	if !ok {
		return page.Error(handler.ErrInvalidInput).Render(c, fiber.StatusBadRequest, editTemplate)
	}

	templ, err := templatedb.GetDetails(s.db, id)
	if err != nil {
		return s.renderLookupError(c, page, err, editTemplate)
	}

	access, err := zonetemplate.CheckAccess(s.db, s.authService, auth.CurrentUserID(c), id)
	if err != nil {
		log.Error().Err(err).Uint64("zone_templ_id", id).Msg("failed to check zone template access")
		return page.Error(handler.ErrBackend).Render(c, fiber.StatusInternalServerError, editTemplate)
	}

	if !access.Owner && !access.Admin {
		return page.Error(handler.ErrPermEditTemplate).Render(c, fiber.StatusForbidden, editTemplate)
	}

	records, err := templatedb.Records(s.db, id)
	if err != nil {
		log.Error().Err(err).Uint64("zone_templ_id", id).Msg("failed to list zone template records")
		return page.Error(handler.ErrBackend).Render(c, fiber.StatusInternalServerError, editTemplate)
	}

	return page.Set("Template", templ).
		Set("Records", records).
		Set("CanEdit", access.Allowed()).
		Render(c, fiber.StatusOK, editTemplate)
}

// AddForm shows the create template form.
func (s *Service) AddForm(c *fiber.Ctx) error {
	return handler.NewPage().
		Set("Navigation", listNav("Add zone template", "add")).
		Set("Form", &Form{}).
		Render(c, fiber.StatusOK, addTemplate)
}

// Add creates a template owned by the current user.
func (s *Service) Add(c *fiber.Ctx) error {
	form := &Form{}
	page := handler.NewPage().Set("Navigation", listNav("Add zone template", "add")).Set("Form", form)

	if err := c.BodyParser(form); err != nil {
		return page.Error(handler.ErrInvalidInput).Render(c, fiber.StatusBadRequest, addTemplate)
	}

	if err := s.validator.Struct(form); err != nil {
		return page.Error(handler.ErrInvalidInput).Render(c, fiber.StatusBadRequest, addTemplate)
	}

	templ, err := templatedb.Create(s.db, form.Name, form.Description, auth.CurrentUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, templatedb.ErrTemplateExists), errors.Is(err, templatedb.ErrTemplateNameEmpty):
			return page.Error(err.Error()).Render(c, fiber.StatusBadRequest, addTemplate)
		default:
			log.Error().Err(err).Str("name", form.Name).Msg("failed to create zone template")
			return page.Error(handler.ErrBackend).Render(c, fiber.StatusInternalServerError, addTemplate)
		}
	}

	log.Info().Uint64("zone_templ_id", templ.ID).Str("name", templ.Name).Msg("zone template created")

	return c.Redirect(EditPath + "?id=" + strconv.FormatUint(templ.ID, 10) +
		"&success=" + url.QueryEscape(handler.SucTemplateAdded))
}

// Delete removes a template after confirmation. Only the owner or an admin may delete.
func (s *Service) Delete(c *fiber.Ctx) error {
	page := handler.NewPage().Set("Navigation", listNav("Delete zone template", "delete"))

	id, ok := handler.QueryID(c, "id")
	if !ok {
		return page.Error(handler.ErrInvalidInput).Render(c, fiber.StatusBadRequest, deleteTemplate)
	}

	templ, err := templatedb.GetDetails(s.db, id)
	if err != nil {
		return s.renderLookupError(c, page, err, deleteTemplate)
	}

	access, err := zonetemplate.CheckAccess(s.db, s.authService, auth.CurrentUserID(c), id)
	if err != nil {
		log.Error().Err(err).Uint64("zone_templ_id", id).Msg("failed to check zone template access")
		return page.Error(handler.ErrBackend).Render(c, fiber.StatusInternalServerError, deleteTemplate)
	}

	if !access.Allowed() {
		return page.Error(handler.ErrPermEditTemplate).Render(c, fiber.StatusForbidden, deleteTemplate)
	}

	page.Set("Template", templ)

	if !handler.Confirmed(c) {
		return page.Render(c, fiber.StatusOK, deleteTemplate)
	}

	if err := templatedb.Delete(s.db, id); err != nil {
		log.Error().Err(err).Uint64("zone_templ_id", id).Msg("failed to delete zone template")
		return page.Error(handler.ErrBackend).Render(c, fiber.StatusInternalServerError, deleteTemplate)
	}

	log.Info().Uint64("zone_templ_id", id).Str("name", templ.Name).Msg("zone template deleted")

	return page.Success(handler.SucTemplateDel).Render(c, fiber.StatusOK, deleteTemplate)
}

func (s *Service) renderLookupError(c *fiber.Ctx, page *handler.Page, err error, name string) error {
	if errors.Is(err, templatedb.ErrTemplateNotFound) {
		return page.Error(handler.ErrTemplateNotFound).Render(c, fiber.StatusNotFound, name)
	}

	log.Error().Err(err).Msg("failed to load zone template")

	return page.Error(handler.ErrBackend).Render(c, fiber.StatusInternalServerError, name)
}
