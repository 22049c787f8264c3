// Package auth provides authentication and authorization functionality for the application.
//
// Users log in against the local database (Argon2id password hashes with an
// optional TOTP second factor) or against an LDAP directory. Every user has
// exactly one role; roles carry permissions.
//
// # Permission Checking
//
// The Service type provides methods for checking user permissions:
//   - HasPermission: Check if user has a specific permission
//   - HasAnyPermission: Check if user has at least one permission from a list
//   - GetUserPermissions: Retrieve all permissions for a user
//
// Ownership of templates and zones is not a permission. It is checked by the
// handlers on top of the permissions, except for users holding
// PermAdminTemplates who pass every ownership check.
//
// # Middleware
//
// Fiber middleware functions are provided for route protection:
//   - RequirePermission: Protect routes requiring a specific permission
//   - RequireAnyPermission: Protect routes requiring any of several permissions
//   - AddPermissionsToLocals: Add user permissions to template context
//
// Example usage:
//
//	authService := auth.NewService(db)
//
//	app.Get("/template/record/add",
//	    auth.RequirePermission(authService, auth.PermTemplateView),
//	    handler,
//	)
package auth
