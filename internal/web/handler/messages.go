package handler

import (
	"github.com/gofiber/fiber/v2"
)

// Messages shown to the user. Handlers never fail with a raw error; they
// render one of these into the page.
const (
	ErrInvalidInput       = "Invalid or unexpected input given."
	ErrPermAddRecord      = "You do not have the permission to add a record to this zone template."
	ErrPermDelRecord      = "You do not have the permission to delete this record."
	ErrPermEditZoneKey    = "You do not have the permission to change the keys of this zone."
	ErrPermEditTemplate   = "You do not have the permission to edit this zone template."
	ErrPermViewZone       = "You do not have the permission to view this zone."
	ErrTemplateNotFound   = "There is no zone template with this id."
	ErrRecordNotFound     = "There is no record with this id."
	ErrZoneNotFound       = "There is no zone with this id."
	ErrBackend            = "The request could not be completed. Please try again later."
	ErrPowerDNSNotReady   = "PowerDNS client not initialized. Check the PowerDNS server settings."
	SucRecordAdded        = "The record was successfully added."
	SucRecordDel          = "The record has been deleted successfully."
	SucTemplateAdded      = "Zone template has been added successfully."
	SucTemplateDel        = "Zone template has been deleted successfully."
	SucZoneAdded          = "Zone has been added successfully."
	SucZoneKeyActivated   = "Zone key has been successfully activated."
	SucZoneKeyDeactivated = "Zone key has been successfully deactivated."
)

// Page collects the data of a rendered page: messages first, then whatever
// the handler adds.
type Page struct {
	data    fiber.Map
	errors  []string
	success string
}

// NewPage returns an empty Page.
func NewPage() *Page {
	return &Page{data: fiber.Map{}}
}

// Set adds a template value.
func (p *Page) Set(key string, value any) *Page {
	p.data[key] = value
	return p
}

// Error appends an error message.
func (p *Page) Error(msg ...string) *Page {
	p.errors = append(p.errors, msg...)
	return p
}

// Success sets the success message.
func (p *Page) Success(msg string) *Page {
	p.success = msg
	return p
}

// Map returns the data handed to the view.
func (p *Page) Map() fiber.Map {
	p.data["Errors"] = p.errors
	p.data["Success"] = p.success

	return p.data
}

// Render writes the page with status using template name in the base layout.
func (p *Page) Render(c *fiber.Ctx, status int, name string) error {
	return c.Status(status).Render(name, p.Map(), BaseLayout)
}
