// Package auth guards the web application behind the login session.
//
// Requests without a valid session cookie are sent to the login page.
// Static assets and the logout page are always reachable. A logged in
// user who opens the login page again lands on the dashboard.
//
// The session user is stored in fiber.Locals under LocalsCurrentUser.
// Permission checks per route are done by auth.RequirePermission, which
// runs after this middleware.
//
// Usage:
//
//	app.Use(authmw.Middleware)
package auth
