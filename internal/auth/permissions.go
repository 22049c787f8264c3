package auth

// Permission constants define the available permissions in the system.
// These are used for role-based access control (RBAC) to restrict access
// to specific resources and actions.
const (
	// PermDashboardView allows viewing the dashboard with the zones a user owns.
	PermDashboardView = "dashboard.view"

	// PermZoneCreate allows creating new DNS zones from a template.
	PermZoneCreate = "zone.create"

	// PermTemplateView allows listing zone templates and their records.
	PermTemplateView = "template.view"
	// PermTemplateEdit allows creating templates and changing the records of owned templates.
	PermTemplateEdit = "template.edit"

	// PermDNSSECView allows viewing and, for owned zones, toggling DNSSEC zone keys.
	PermDNSSECView = "dnssec.view"

	// PermAdminTemplates lets a user act on every template and zone regardless of ownership.
	PermAdminTemplates = "admin.templates"
	// PermAdminPDNSServer allows managing PowerDNS server connection settings.
	PermAdminPDNSServer = "admin.pdns.server"
)

// All returns every permission with a short description, used when seeding.
func All() map[string]string {
	return map[string]string{
		PermDashboardView:   "View the dashboard",
		PermZoneCreate:      "Create zones from templates",
		PermTemplateView:    "List zone templates",
		PermTemplateEdit:    "Create and edit own zone templates",
		PermDNSSECView:      "View and toggle DNSSEC keys of owned zones",
		PermAdminTemplates:  "Manage all templates and zones regardless of owner",
		PermAdminPDNSServer: "Manage PowerDNS server settings",
	}
}
