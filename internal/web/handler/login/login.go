package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/auth"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/config"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/models"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler/dashboard"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = "/login"

	// TemplateName is the login view. It is rendered without the base layout.
	TemplateName = "login"

	authTypeLocal = "local"
	authTypeLDAP  = "ldap"
)

// Form is the submitted login form.
type Form struct {
	Username string `form:"username"`
	Password string `form:"password"`
	OTP      string `form:"otp"`
	AuthType string `form:"auth_type"`
}

// Service is the login handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	localAuth *auth.LocalProvider
	ldapAuth  *auth.LDAPProvider
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New("app or db is nil")
	}

	s.db = db
	s.cfg = cfg
	s.localAuth = auth.NewLocalProvider(db)

	if cfg.LDAP.Enabled {
		ldapAuth, err := auth.NewLDAPProvider(cfg.LDAP, db)
		if err != nil {
			log.Error().Err(err).Msg("failed to set up LDAP authentication")
		} else {
			s.ldapAuth = ldapAuth
		}
	}

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

func (s *Service) render(c *fiber.Ctx, err error) error {
	data := fiber.Map{
		"title":        s.cfg.Title,
		"ldap_enabled": s.cfg.LDAP.Enabled,
	}

	if err != nil {
		data["error"] = err.Error()
	}

	return c.Render(TemplateName, data)
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, nil)
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	form := new(Form)

	if err := c.BodyParser(form); err != nil {
		return s.render(c, ErrInvalidFormData)
	}

	authType, err := s.pickAuthType(form.AuthType)
	if err != nil {
		return s.render(c, err)
	}

	user, err := s.authenticate(authType, form.Username, form.Password, form.OTP)
	if err != nil {
		log.Warn().Err(err).Str("username", form.Username).Str("auth_type", authType).Msg("login failed")
		return s.render(c, err)
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")
		return s.render(c, ErrInternalServerError)
	}

	userSession := &session.Data{User: *user}

	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return s.render(c, ErrInternalServerError)
	}

	cookieSettings := &fiber.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	log.Info().Uint64("user_id", user.ID).Str("username", user.Username).Str("auth_type", authType).
		Msg("user logged in")

	return c.Redirect(dashboard.Path)
}

// pickAuthType resolves the requested authentication method. Local accounts
// are used when nothing was requested.
func (s *Service) pickAuthType(requested string) (string, error) {
	switch requested {
	case "", authTypeLocal:
		return authTypeLocal, nil
	case authTypeLDAP:
		if !s.cfg.LDAP.Enabled || s.ldapAuth == nil {
			return "", ErrLDAPAuthDisabled
		}

		return authTypeLDAP, nil
	default:
		return "", ErrInvalidAuthMethod
	}
}

func (s *Service) authenticate(authType, username, password, passcode string) (*models.User, error) {
	var (
		user *models.User
		err  error
	)

	switch authType {
	case authTypeLocal:
		user, err = s.localAuth.Authenticate(username, password, passcode)
	case authTypeLDAP:
		user, err = s.ldapAuth.Authenticate(username, password)
	default:
		return nil, ErrInvalidAuthMethod
	}

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, auth.ErrUserAccountDisabled):
		return nil, ErrAccountDisabled
	case errors.Is(err, auth.ErrInvalidOTP):
		return nil, ErrInvalidOTP
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidPassword):
		return nil, ErrInvalidCredentials
	default:
		log.Error().Err(err).Str("auth_type", authType).Msg("authentication backend failed")
		return nil, ErrInternalServerError
	}
}
