package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/models"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/session"
)

// LocalsUsername is the fiber.Locals key of the logged in user name. The
// access log picks it up from there.
const LocalsUsername = "CurrentUsername"

// SessionUser returns the user stored in the session of the request.
func SessionUser(c *fiber.Ctx) (models.User, bool) {
	sessionID := c.Cookies(session.CookieName)
	if sessionID == "" {
		return models.User{}, false
	}

	sessionData := new(session.Data)
	if err := sessionData.Read(sessionID); err != nil {
		return models.User{}, false
	}

	return sessionData.User, sessionData.User.ID > 0
}

// CurrentUserID returns the id of the logged in user or 0.
func CurrentUserID(c *fiber.Ctx) uint64 {
	user, _ := SessionUser(c)

	return user.ID
}

// RequirePermission creates Fiber middleware that requires a specific permission.
func RequirePermission(authService *Service, permission string) fiber.Handler {
	return RequireAnyPermission(authService, permission)
}

// RequireAnyPermission creates Fiber middleware that requires at least one of the given permissions.
func RequireAnyPermission(authService *Service, permissions ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := SessionUser(c)
		if !ok {
			log.Error().Msg("no valid session")
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		hasPermission, err := authService.HasAnyPermission(user.ID, permissions)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", user.ID).Strs("permissions", permissions).
				Msg("Failed to check permissions")

			return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		}

		if !hasPermission {
			log.Warn().Uint64("user_id", user.ID).Strs("permissions", permissions).
				Msg("User lacks required permission")

			return c.Status(fiber.StatusForbidden).SendString("Forbidden: You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// HasPermissionInContext checks if the current user in the Fiber context has a permission.
func HasPermissionInContext(c *fiber.Ctx, authService *Service, permission string) bool {
	user, ok := SessionUser(c)
	if !ok {
		return false
	}

	hasPermission, err := authService.HasPermission(user.ID, permission)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Str("permission", permission).
			Msg("Failed to check permission")

		return false
	}

	return hasPermission
}

// AddPermissionsToLocals is a Fiber middleware that adds user permissions to fiber.Locals.
// This allows templates to access permissions for conditional rendering.
func AddPermissionsToLocals(authService *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := SessionUser(c)
		if !ok {
			return c.Next()
		}

		c.Locals(LocalsUsername, user.Username)

		permissions, err := authService.GetUserPermissions(user.ID)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", user.ID).
				Msg("Failed to get user permissions")

			return c.Next()
		}

		granted := make(map[string]bool, len(permissions))
		for _, p := range permissions {
			granted[p] = true
		}

		c.Locals("permissions", permissions)
		c.Locals("hasPermission", func(perm string) bool {
			return granted[perm]
		})

		return c.Next()
	}
}
