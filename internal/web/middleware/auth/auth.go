package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler/dashboard"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler/login"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler/logout"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/session"
)

// LocalsCurrentUser is the fiber.Locals key of the logged in user.
const LocalsCurrentUser = "CurrentUser"

// Middleware is a Fiber middleware that checks for user authentication.
func Middleware(c *fiber.Ctx) error {
	isLoginPage := IsLoginPage(c)

	originalURL := strings.ToLower(c.OriginalURL())
	if strings.HasPrefix(originalURL, "/static") || IsLogoutPage(c) {
		return c.Next()
	}

	loginCookie := c.Cookies(session.CookieName)

	if loginCookie == "" {
		if isLoginPage {
			return c.Next()
		}

		return c.Redirect(login.Path)
	}

	sessData := new(session.Data)
	if err := sessData.Read(loginCookie); err != nil || sessData.User.ID == 0 {
		// already on the login page, a redirect would loop
		if isLoginPage {
			return c.Next()
		}

		return c.Redirect(login.Path)
	}

	c.Locals(LocalsCurrentUser, sessData.User)

	if isLoginPage {
		return c.Redirect(dashboard.Path)
	}

	return c.Next()
}

// IsLoginPage checks if the current request is for the login page.
func IsLoginPage(c *fiber.Ctx) bool {
	originalURL := strings.ToLower(c.OriginalURL())
	return strings.HasPrefix(originalURL, login.Path)
}

// IsLogoutPage checks if the current request is for the logout page.
func IsLogoutPage(c *fiber.Ctx) bool {
	originalURL := strings.ToLower(c.OriginalURL())
	return strings.HasPrefix(originalURL, logout.Path)
}
