// Package handlertest provides the fixtures shared by the web handler tests:
// a recording view engine, an in-memory database with the built-in roles and
// logged in sessions.
package handlertest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/auth"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/config"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/models"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/session"
)

// View is one recorded render call.
type View struct {
	Name string
	Data fiber.Map
}

// Errors returns the error messages of the view.
func (v View) Errors() []string {
	errs, _ := v.Data["Errors"].([]string)
	return errs
}

// Success returns the success message of the view.
func (v View) Success() string {
	s, _ := v.Data["Success"].(string)
	return s
}

// Views is a fiber view engine that records what handlers render. The
// response body holds the template name followed by the messages.
type Views struct {
	mu      sync.Mutex
	renders []View
}

// Load implements fiber.Views.
func (*Views) Load() error { return nil }

// Render implements fiber.Views.
func (v *Views) Render(w io.Writer, name string, data any, _ ...string) error {
	m, _ := data.(fiber.Map)

	v.mu.Lock()
	v.renders = append(v.renders, View{Name: name, Data: m})
	v.mu.Unlock()

	view := View{Name: name, Data: m}
	parts := append([]string{name}, view.Errors()...)

	if s := view.Success(); s != "" {
		parts = append(parts, s)
	}

	_, err := io.WriteString(w, strings.Join(parts, "\n"))

	return err
}

// Last returns the most recent render. It fails the test when nothing was rendered.
func (v *Views) Last(t *testing.T) View {
	t.Helper()

	v.mu.Lock()
	defer v.mu.Unlock()

	require.NotEmpty(t, v.renders, "nothing was rendered")

	return v.renders[len(v.renders)-1]
}

// Count returns the number of renders.
func (v *Views) Count() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return len(v.renders)
}

// NewApp returns a fiber app using a recording view engine and a fresh
// in-memory session store.
func NewApp() (*fiber.App, *Views) {
	views := &Views{}
	session.InitMemory(time.Hour)

	return fiber.New(fiber.Config{Views: views}), views
}

// NewDB returns a migrated in-memory SQLite database with the built-in roles.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))
	require.NoError(t, auth.SeedRoles(db))

	return db
}

// NewConfig returns a config suitable for handler tests.
func NewConfig() *config.Config {
	return &config.Config{
		DevMode: true,
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Hour},
		},
		DNS: config.DNS{
			TTL:        86400,
			NS1:        "ns1.example.net",
			NS2:        "ns2.example.net",
			Hostmaster: "hostmaster.example.net",
		},
	}
}

// CreateUser adds an active local user with the given built-in role.
func CreateUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()

	r, err := auth.NewService(db).RoleByName(role)
	require.NoError(t, err)

	user, err := auth.NewLocalProvider(db).CreateUser(username, username+"@example.com", "secret-pass", "", r.ID)
	require.NoError(t, err)

	return user
}

// Login stores a session for user and returns the cookie value.
func Login(t *testing.T, user *models.User) string {
	t.Helper()

	id, err := session.GenerateSessionID()
	require.NoError(t, err)
	require.NoError(t, (&session.Data{User: *user}).Write(id, time.Hour))

	return id
}

// Get performs a GET request with the session cookie.
func Get(t *testing.T, app *fiber.App, target, cookie string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	return do(t, app, req, cookie)
}

// PostForm performs a form POST with the session cookie.
func PostForm(t *testing.T, app *fiber.App, target, cookie string, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return do(t, app, req, cookie)
}

func do(t *testing.T, app *fiber.App, req *http.Request, cookie string) *http.Response {
	t.Helper()

	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie})
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}
