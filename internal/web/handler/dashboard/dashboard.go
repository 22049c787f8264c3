// Package dashboard provides the dashboard listing the zones of the current user.
package dashboard

import (
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/auth"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/config"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/controller/zone"
	templatedb "github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/controller/zonetemplate"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/models"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/navigation"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.RootPath + "dashboard"

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"

	// DefaultPageSize is the default number of items per page.
	DefaultPageSize = 25

	// TabForward represents the forward zones tab.
	TabForward = "forward"

	// TabReverseV4 represents the reverse IPv4 zones tab.
	TabReverseV4 = "reverse-ipv4"

	// TabReverseV6 represents the reverse IPv6 zones tab.
	TabReverseV6 = "reverse-ipv6"

	desc = "desc"
)

// Zone represents a registered zone for template rendering.
type Zone struct {
	ID       uint64
	Name     string
	Template string
}

// QueryParams holds the query and pagination parameters.
type QueryParams struct {
	Page        int
	PageSize    int
	SearchQuery string
	SortOrder   string
}

// TabData represents pagination data for a single tab.
type TabData struct {
	Zones       []Zone
	CurrentPage int
	PageSize    int
	TotalItems  int
	TotalPages  int
	HasPrevPage bool
	HasNextPage bool
	PrevPage    int
	NextPage    int
	SearchQuery string
	SortOrder   string
}

// Data represents the complete dashboard data.
type Data struct {
	ActiveTab    string
	ForwardTab   TabData
	ReverseV4Tab TabData
	ReverseV6Tab TabData
}

// Service is the dashboard handler service.
type Service struct {
	db          *gorm.DB
	authService *auth.Service
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.authService = authService

	app.Get(Path,
		auth.RequirePermission(authService, auth.PermDashboardView),
		s.Get,
	)
}

// Get renders the zones owned by the current user. Template admins see every zone.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext("Dashboard", navigation.SectionDashboard, "dashboard", Path).
		Current("Dashboard")
	page := handler.NewPage().Set("Navigation", nav).Success(c.Query("success"))

	activeTab := c.Query("tab", TabForward)
	if activeTab != TabForward && activeTab != TabReverseV4 && activeTab != TabReverseV6 {
		activeTab = TabForward
	}

	params := QueryParams{
		Page:        c.QueryInt("page", 1),
		PageSize:    c.QueryInt("pageSize", DefaultPageSize),
		SearchQuery: c.Query("search", ""),
		SortOrder:   c.Query("order", "asc"),
	}

	if params.Page < 1 {
		params.Page = 1
	}

	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = DefaultPageSize
	}

	userID := auth.CurrentUserID(c)
	all := auth.HasPermissionInContext(c, s.authService, auth.PermAdminTemplates)

	registered, err := zone.ListByOwner(s.db, userID, all)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", userID).Msg("failed to list zones")
		return page.Error(handler.ErrBackend).Render(c, fiber.StatusInternalServerError, TemplateName)
	}

	templates, err := templatedb.List(s.db, 0, true)
	if err != nil {
		log.Error().Err(err).Msg("failed to list zone templates")
		return page.Error(handler.ErrBackend).Render(c, fiber.StatusInternalServerError, TemplateName)
	}

	forwardZones, reverseV4Zones, reverseV6Zones := categorizeZones(registered, templateNames(templates))

	var zones []Zone

	switch activeTab {
	case TabReverseV4:
		zones = reverseV4Zones
	case TabReverseV6:
		zones = reverseV6Zones
	default:
		zones = forwardZones
	}

	zones = filterZones(zones, params.SearchQuery)
	sortZones(zones, params.SortOrder)

	paginatedZones, totalPages, actualPage := paginateZones(zones, params.Page, params.PageSize)

	params.Page = actualPage
	tabData := buildTabData(paginatedZones, totalPages, &params)
	tabData.TotalItems = len(zones)

	data := Data{ActiveTab: activeTab}

	switch activeTab {
	case TabReverseV4:
		data.ReverseV4Tab = tabData
		data.ForwardTab.TotalItems = len(forwardZones)
		data.ReverseV6Tab.TotalItems = len(reverseV6Zones)
	case TabReverseV6:
		data.ReverseV6Tab = tabData
		data.ForwardTab.TotalItems = len(forwardZones)
		data.ReverseV4Tab.TotalItems = len(reverseV4Zones)
	default:
		data.ForwardTab = tabData
		data.ReverseV4Tab.TotalItems = len(reverseV4Zones)
		data.ReverseV6Tab.TotalItems = len(reverseV6Zones)
	}

	log.Debug().
		Uint64("user_id", userID).
		Bool("all", all).
		Int("zones", len(registered)).
		Str("active_tab", activeTab).
		Int("page", params.Page).
		Str("search", params.SearchQuery).
		Msg("dashboard zones retrieved")

	return page.Set("Data", data).Render(c, fiber.StatusOK, TemplateName)
}

func templateNames(templates []models.ZoneTemplate) map[uint64]string {
	names := make(map[uint64]string, len(templates))
	for _, t := range templates {
		names[t.ID] = t.Name
	}

	return names
}

// categorizeZones splits zones into forward and reverse zones.
func categorizeZones(registered []models.Zone, templates map[uint64]string) (forward, reverseV4, reverseV6 []Zone) {
	forward = make([]Zone, 0)
	reverseV4 = make([]Zone, 0)
	reverseV6 = make([]Zone, 0)

	for _, z := range registered {
		entry := Zone{ID: z.ID, Name: z.Name}
		if z.ZoneTemplateID != nil {
			entry.Template = templates[*z.ZoneTemplateID]
		}

		switch {
		case strings.HasSuffix(entry.Name, ".in-addr.arpa."):
			reverseV4 = append(reverseV4, entry)
		case strings.HasSuffix(entry.Name, ".ip6.arpa."):
			reverseV6 = append(reverseV6, entry)
		default:
			forward = append(forward, entry)
		}
	}

	return forward, reverseV4, reverseV6
}

// filterZones keeps zones whose name contains searchQuery.
func filterZones(zones []Zone, searchQuery string) []Zone {
	if searchQuery == "" {
		return zones
	}

	filtered := make([]Zone, 0)

	for _, z := range zones {
		if strings.Contains(strings.ToLower(z.Name), strings.ToLower(searchQuery)) {
			filtered = append(filtered, z)
		}
	}

	return filtered
}

// sortZones sorts zones by name.
func sortZones(zones []Zone, sortOrder string) {
	sort.Slice(zones, func(i, j int) bool {
		if sortOrder == desc {
			return zones[i].Name > zones[j].Name
		}

		return zones[i].Name < zones[j].Name
	})
}

// paginateZones calculates pagination and returns paginated zones.
func paginateZones(zones []Zone, page, pageSize int) (paginatedZones []Zone, totalPages, actualPage int) {
	totalItems := len(zones)

	totalPages = (totalItems + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	if page > totalPages {
		page = totalPages
	}

	startIdx := (page - 1) * pageSize
	endIdx := min(startIdx+pageSize, totalItems)

	if startIdx < totalItems {
		paginatedZones = zones[startIdx:endIdx]
	} else {
		paginatedZones = []Zone{}
	}

	return paginatedZones, totalPages, page
}

// buildTabData creates TabData with pagination information.
func buildTabData(zones []Zone, totalPages int, params *QueryParams) TabData {
	return TabData{
		Zones:       zones,
		CurrentPage: params.Page,
		PageSize:    params.PageSize,
		TotalItems:  len(zones),
		TotalPages:  totalPages,
		HasPrevPage: params.Page > 1,
		HasNextPage: params.Page < totalPages,
		PrevPage:    params.Page - 1,
		NextPage:    params.Page + 1,
		SearchQuery: params.SearchQuery,
		SortOrder:   params.SortOrder,
	}
}
