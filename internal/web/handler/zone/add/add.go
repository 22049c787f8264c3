// Package zoneadd provides the handler for adding new DNS zones from a zone template.
package zoneadd

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	pdnsapi "github.com/joeig/go-powerdns/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/auth"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/config"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/controller/zone"
	templatedb "github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/controller/zonetemplate"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/models"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/powerdns"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler/dashboard"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/navigation"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/zonetemplate"
)

const (
	// Path is the path to the add zone page.
	Path = handler.RootPath + "zone/add"

	// TemplateName is the name of the add zone template.
	TemplateName = "zone/add"

	// PageTitle is the title of the add zone page.
	PageTitle = "Add Zone"

	// ErrZoneExists is shown when the zone is already registered.
	ErrZoneExists = "There is already a zone with this name."
	// ErrPermUseTemplate is shown when the user may not apply the chosen template.
	ErrPermUseTemplate = "You do not have the permission to use this zone template."
)

// SOAEditAPI represents the SOA-EDIT-API setting.
type SOAEditAPI string

const (
	// SOAEditAPIDefault uses the default SOA-EDIT-API setting.
	SOAEditAPIDefault SOAEditAPI = "DEFAULT"

	// SOAEditAPIIncrease increments the serial number.
	SOAEditAPIIncrease SOAEditAPI = "INCREASE"

	// SOAEditAPIEpoch sets the serial to the current epoch timestamp.
	SOAEditAPIEpoch SOAEditAPI = "EPOCH"

	// SOAEditAPIOff disables SOA-EDIT-API.
	SOAEditAPIOff SOAEditAPI = "OFF"
)

// ZoneForm represents the form data for creating a new zone.
type ZoneForm struct {
	Name       string     `form:"name"          validate:"required,fqdn"`
	Kind       string     `form:"kind"          validate:"required,oneof=Native Master Slave"`
	SOAEditAPI SOAEditAPI `form:"soa_edit_api"  validate:"required,oneof=DEFAULT INCREASE EPOCH OFF"`
	Masters    string     `form:"masters"` // comma separated, slave zones only
	TemplateID string     `form:"zone_templ_id"`
}

// Backend creates zones on the DNS server.
type Backend interface {
	Create(ctx context.Context, zone, kind, soaEditAPI string, masters []string) error
	Patch(ctx context.Context, zone string, sets *pdnsapi.RRsets) error
	Delete(ctx context.Context, zone string) error
}

// Service is the add zone handler service.
type Service struct {
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
	backend     Backend
	validator   *validator.Validate
	now         func() time.Time
}

// Handler is the add zone handler.
var Handler = Service{}

// Init initializes the add zone handler against PowerDNS.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	s.InitWithBackend(app, cfg, db, authService, powerdns.ZoneStore{})
}

// InitWithBackend initializes the add zone handler with the given backend.
func (s *Service) InitWithBackend(
	app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, backend Backend,
) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.authService = authService
	s.backend = backend
	s.validator = validator.New()
	s.now = time.Now

	app.Get(Path,
		auth.RequirePermission(authService, auth.PermZoneCreate),
		s.Get,
	)
	app.Post(Path,
		auth.RequirePermission(authService, auth.PermZoneCreate),
		s.Post,
	)
}

func newPage() *handler.Page {
	nav := navigation.NewContext(PageTitle, navigation.SectionZones, "add", handler.RootPath).
		Link("Dashboard", dashboard.Path).
		Current(PageTitle)

	return handler.NewPage().Set("Navigation", nav)
}

// templates returns the templates the current user may apply.
func (s *Service) templates(c *fiber.Ctx) []models.ZoneTemplate {
	all := auth.HasPermissionInContext(c, s.authService, auth.PermAdminTemplates)

	templates, err := templatedb.List(s.db, auth.CurrentUserID(c), all)
	if err != nil {
		log.Error().Err(err).Msg("failed to list zone templates")
		return nil
	}

	return templates
}

// Get handles the add zone page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return newPage().
		Set("Form", &ZoneForm{Kind: powerdns.ZoneKindNative, SOAEditAPI: SOAEditAPIDefault}).
		Set("Templates", s.templates(c)).
		Render(c, fiber.StatusOK, TemplateName)
}

// Post creates the zone, registers it with the current user as owner and
// writes the records of the chosen template.
func (s *Service) Post(c *fiber.Ctx) error {
	form := &ZoneForm{}
	page := newPage().Set("Form", form)

	if err := c.BodyParser(form); err != nil {
		log.Error().Err(err).Msg("failed to parse add zone form")
		return page.Error(handler.ErrInvalidInput).Render(c, fiber.StatusBadRequest, TemplateName)
	}

	page.Set("Templates", s.templates(c))

	form.Name = strings.TrimSuffix(strings.TrimSpace(form.Name), ".")

	if err := s.validator.Struct(form); err != nil {
		var validationErrors validator.ValidationErrors
		errors.As(err, &validationErrors)

		page.Error(handler.ErrInvalidInput)

		for _, ve := range validationErrors {
			page.Error("Field '" + ve.Field() + "' failed validation tag '" + ve.Tag() + "'")
		}

		log.Debug().Err(err).Msg("validation failed for add zone")

		return page.Render(c, fiber.StatusBadRequest, TemplateName)
	}

	userID := auth.CurrentUserID(c)

	templID, records, status, msg := s.templateRecords(form, userID)
	if status != fiber.StatusOK {
		return page.Error(msg).Render(c, status, TemplateName)
	}

	if _, err := zone.GetByName(s.db, form.Name); err == nil {
		return page.Error(ErrZoneExists).Render(c, fiber.StatusBadRequest, TemplateName)
	} else if !errors.Is(err, zone.ErrZoneNotFound) {
		log.Error().Err(err).Str("zone_name", form.Name).Msg("failed to look up zone")
		return page.Error(handler.ErrBackend).Render(c, fiber.StatusInternalServerError, TemplateName)
	}

	ctx, cancel := context.WithTimeout(c.Context(), powerdns.DefaultTimeout)
	defer cancel()

	fqdn := form.Name + "."

	if err := s.backend.Create(ctx, fqdn, form.Kind, string(form.SOAEditAPI), splitMasters(form.Masters)); err != nil {
		return s.backendError(c, page, err, fqdn, "failed to create zone")
	}

	// the local registration only commits once PowerDNS holds the records
	var (
		registered *models.Zone
		patchErr   error
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error

		registered, err = zone.Create(tx, fqdn, templID, userID)
		if err != nil {
			return err
		}

		if len(records) > 0 {
			sets := zonetemplate.BuildRRsets(records, zonetemplate.NewVars(fqdn, s.cfg.DNS, s.now()))
			patchErr = s.backend.Patch(ctx, fqdn, sets)
		}

		return patchErr
	})
	if err != nil {
		s.removeZone(ctx, fqdn)

		if patchErr != nil {
			return s.backendError(c, page, patchErr, fqdn, "failed to write zone template records")
		}

		if errors.Is(err, zone.ErrZoneExists) {
			return page.Error(ErrZoneExists).Render(c, fiber.StatusBadRequest, TemplateName)
		}

		log.Error().Err(err).Str("zone_name", fqdn).Msg("failed to register zone")

		return page.Error(handler.ErrBackend).Render(c, fiber.StatusInternalServerError, TemplateName)
	}

	log.Info().
		Uint64("zone_id", registered.ID).
		Str("zone_name", fqdn).
		Str("zone_kind", form.Kind).
		Int("records", len(records)).
		Msg("zone created")

	return c.Redirect(dashboard.Path + "?success=" + url.QueryEscape(handler.SucZoneAdded))
}

// templateRecords loads the records of the chosen template. A status other
// than 200 comes with the message to show.
func (s *Service) templateRecords(
	form *ZoneForm, userID uint64,
) (*uint64, []models.ZoneTemplateRecord, int, string) {
	if form.TemplateID == "" || form.TemplateID == "none" {
		return nil, nil, fiber.StatusOK, ""
	}

	id, ok := handler.ParseID(form.TemplateID)
	if !ok || form.Kind == powerdns.ZoneKindSlave {
		return nil, nil, fiber.StatusBadRequest, handler.ErrInvalidInput
	}

	if _, err := templatedb.GetDetails(s.db, id); err != nil {
		if errors.Is(err, templatedb.ErrTemplateNotFound) {
			return nil, nil, fiber.StatusNotFound, handler.ErrTemplateNotFound
		}

		log.Error().Err(err).Uint64("zone_templ_id", id).Msg("failed to load zone template")

		return nil, nil, fiber.StatusInternalServerError, handler.ErrBackend
	}

	access, err := zonetemplate.CheckAccess(s.db, s.authService, userID, id)
	if err != nil {
		log.Error().Err(err).Uint64("zone_templ_id", id).Msg("failed to check zone template access")
		return nil, nil, fiber.StatusInternalServerError, handler.ErrBackend
	}

	if !access.Owner && !access.Admin {
		return nil, nil, fiber.StatusForbidden, ErrPermUseTemplate
	}

	records, err := templatedb.Records(s.db, id)
	if err != nil {
		log.Error().Err(err).Uint64("zone_templ_id", id).Msg("failed to list zone template records")
		return nil, nil, fiber.StatusInternalServerError, handler.ErrBackend
	}

	return &id, records, fiber.StatusOK, ""
}

// removeZone drops a zone from PowerDNS after a later step of Post failed.
func (s *Service) removeZone(ctx context.Context, fqdn string) {
	if err := s.backend.Delete(ctx, fqdn); err != nil {
		log.Error().Err(err).Str("zone_name", fqdn).Msg("failed to remove partially created zone")
		return
	}

	log.Warn().Str("zone_name", fqdn).Msg("partially created zone removed")
}

func (s *Service) backendError(c *fiber.Ctx, page *handler.Page, err error, zoneName, msg string) error {
	if errors.Is(err, powerdns.ErrClientNotInitialized) {
		log.Error().Msg(powerdns.ErrMsgClientNotInitialized)
		return page.Error(handler.ErrPowerDNSNotReady).Render(c, fiber.StatusInternalServerError, TemplateName)
	}

	log.Error().Err(err).Str("zone_name", zoneName).Msg(msg)

	return page.Error(handler.ErrBackend, err.Error()).Render(c, fiber.StatusInternalServerError, TemplateName)
}

func splitMasters(s string) []string {
	var masters []string

	for _, m := range strings.Split(s, ",") {
		if m = strings.TrimSpace(m); m != "" {
			masters = append(masters, m)
		}
	}

	return masters
}
