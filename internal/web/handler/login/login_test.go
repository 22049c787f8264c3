package login

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pquerna/otp/totp"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/auth"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/config"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler/dashboard"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler/handlertest"
)

func newTestService(t *testing.T, devMode bool) (*Service, *fiber.App, *handlertest.Views, *gorm.DB, *config.Config) {
	t.Helper()

	app, views := handlertest.NewApp()
	db := handlertest.NewDB(t)
	cfg := handlertest.NewConfig()
	cfg.DevMode = devMode

	var s Service
	if err := s.Init(app, cfg, db); err != nil {
		t.Fatalf("failed to init login handler: %v", err)
	}

	return &s, app, views, db, cfg
}

func viewError(t *testing.T, views *handlertest.Views) string {
	t.Helper()

	msg, _ := views.Last(t).Data["error"].(string)

	return msg
}

func TestPickAuthType(t *testing.T) {
	s, _, _, _, cfg := newTestService(t, true)

	for _, requested := range []string{"", "local"} {
		if at, err := s.pickAuthType(requested); err != nil || at != "local" {
			t.Fatalf("expected local for %q, got at=%q err=%v", requested, at, err)
		}
	}

	// LDAP disabled in config
	if _, err := s.pickAuthType("ldap"); !errors.Is(err, ErrLDAPAuthDisabled) {
		t.Fatalf("expected ErrLDAPAuthDisabled, got %v", err)
	}

	// enabled in config but provider missing
	cfg.LDAP.Enabled = true
	if _, err := s.pickAuthType("ldap"); !errors.Is(err, ErrLDAPAuthDisabled) {
		t.Fatalf("expected ErrLDAPAuthDisabled without provider, got %v", err)
	}

	s.ldapAuth = &auth.LDAPProvider{}
	if at, err := s.pickAuthType("ldap"); err != nil || at != "ldap" {
		t.Fatalf("expected ldap, got at=%q err=%v", at, err)
	}

	if _, err := s.pickAuthType("oidc"); !errors.Is(err, ErrInvalidAuthMethod) {
		t.Fatalf("expected ErrInvalidAuthMethod, got %v", err)
	}
}

func TestAuthenticateLocal(t *testing.T) {
	s, _, _, db, _ := newTestService(t, true)
	user := handlertest.CreateUser(t, db, "alice", auth.RoleUser)

	got, err := s.authenticate("local", "alice", "secret-pass", "")
	if err != nil || got == nil || got.ID != user.ID {
		t.Fatalf("expected successful auth for alice, got user=%v err=%v", got, err)
	}

	if _, err = s.authenticate("local", "alice", "wrong", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}

	if _, err = s.authenticate("local", "nobody", "secret-pass", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}

	if _, err = s.authenticate("bogus", "alice", "secret-pass", ""); !errors.Is(err, ErrInvalidAuthMethod) {
		t.Fatalf("expected ErrInvalidAuthMethod, got %v", err)
	}

	if err = db.Model(user).Update("active", false).Error; err != nil {
		t.Fatalf("failed to disable user: %v", err)
	}

	if _, err = s.authenticate("local", "alice", "secret-pass", ""); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestAuthenticateTOTP(t *testing.T) {
	s, _, _, db, _ := newTestService(t, true)
	user := handlertest.CreateUser(t, db, "alice", auth.RoleUser)

	key, err := auth.NewLocalProvider(db).EnableTOTP(user.ID, "GoPowerDNS-Templates")
	if err != nil {
		t.Fatalf("failed to enable TOTP: %v", err)
	}

	for _, passcode := range []string{"", "12345"} {
		if _, err = s.authenticate("local", "alice", "secret-pass", passcode); !errors.Is(err, ErrInvalidOTP) {
			t.Fatalf("expected ErrInvalidOTP for %q, got %v", passcode, err)
		}
	}

	code, err := totp.GenerateCode(key.Secret(), time.Now())
	if err != nil {
		t.Fatalf("failed to generate code: %v", err)
	}

	if _, err = s.authenticate("local", "alice", "secret-pass", code); err != nil {
		t.Fatalf("expected successful auth with passcode, got %v", err)
	}
}

func performPost(t *testing.T, app *fiber.App, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func TestPostSuccessSetsCookieAndRedirects(t *testing.T) {
	_, app, _, db, _ := newTestService(t, false)
	handlertest.CreateUser(t, db, "bob", auth.RoleUser)

	resp := performPost(t, app, url.Values{
		"username":  {"bob"},
		"password":  {"secret-pass"},
		"auth_type": {"local"},
	})

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 Found, got %d", resp.StatusCode)
	}

	if loc := resp.Header.Get("Location"); loc != dashboard.Path {
		t.Fatalf("expected redirect to %s, got %s", dashboard.Path, loc)
	}

	setCookie := resp.Header.Get("Set-Cookie")
	if !strings.Contains(setCookie, "session=") {
		t.Fatalf("expected session cookie, got %q", setCookie)
	}

	if !strings.Contains(strings.ToLower(setCookie), "secure") {
		t.Fatalf("expected Secure flag on cookie when DevMode=false, got %q", setCookie)
	}
}

func TestPostDevModeDisablesSecure(t *testing.T) {
	_, app, _, db, _ := newTestService(t, true)
	handlertest.CreateUser(t, db, "carol", auth.RoleUser)

	resp := performPost(t, app, url.Values{"username": {"carol"}, "password": {"secret-pass"}})

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 Found, got %d", resp.StatusCode)
	}

	if setCookie := resp.Header.Get("Set-Cookie"); strings.Contains(strings.ToLower(setCookie), "secure") {
		t.Fatalf("did not expect Secure flag when DevMode=true, got %q", setCookie)
	}
}

func TestPostRendersErrors(t *testing.T) {
	_, app, views, db, _ := newTestService(t, true)
	handlertest.CreateUser(t, db, "dave", auth.RoleUser)

	tests := []struct {
		name string
		form url.Values
		want error
	}{
		{"wrong password", url.Values{"username": {"dave"}, "password": {"nope"}}, ErrInvalidCredentials},
		{"ldap disabled", url.Values{"username": {"dave"}, "password": {"x"}, "auth_type": {"ldap"}}, ErrLDAPAuthDisabled},
		{"unknown method", url.Values{"username": {"dave"}, "auth_type": {"saml"}}, ErrInvalidAuthMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performPost(t, app, tt.form)

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected 200 OK on render error page, got %d", resp.StatusCode)
			}

			if got := viewError(t, views); got != tt.want.Error() {
				t.Fatalf("expected %q, got %q", tt.want.Error(), got)
			}

			if resp.Header.Get("Set-Cookie") != "" {
				t.Fatalf("no session cookie expected on failure")
			}
		})
	}
}

func TestPostInvalidFormRendersError(t *testing.T) {
	_, app, views, _, _ := newTestService(t, true)

	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK on render error page, got %d", resp.StatusCode)
	}

	if got := viewError(t, views); got != ErrInvalidFormData.Error() {
		t.Fatalf("expected %q, got %q", ErrInvalidFormData.Error(), got)
	}
}
