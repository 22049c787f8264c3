// Package navigation describes where a page sits in the menu and its breadcrumb trail.
package navigation

// Top menu sections.
const (
	SectionDashboard = "dashboard"
	SectionZones     = "zones"
	SectionTemplates = "templates"
	SectionDNSSEC    = "dnssec"
	SectionSettings  = "settings"
)

// HomeTitle is the title of the first breadcrumb.
const HomeTitle = "Home"

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// Context represents the navigation context for a page.
type Context struct {
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []BreadcrumbItem
	PageTitle     string
}

// NewContext creates a context whose trail starts at homeURL.
func NewContext(pageTitle, section, page, homeURL string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: section,
		ActivePage:    page,
		Breadcrumbs:   []BreadcrumbItem{{Title: HomeTitle, URL: homeURL}},
	}
}

// Link appends a breadcrumb pointing to url.
func (c *Context) Link(title, url string) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{Title: title, URL: url})
	return c
}

// Current appends the breadcrumb of the page itself. It has no link.
func (c *Context) Current(title string) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{Title: title, Active: true})
	return c
}

// IsActive checks if the given section and page match the current context.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}
