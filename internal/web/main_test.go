package web

import (
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler/handlertest"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/session"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	session.InitMemory(time.Hour)

	cfg := handlertest.NewConfig()
	cfg.DevMode = false
	cfg.Webserver.MetricsPath = "/metrics"

	return New(cfg, handlertest.NewDB(t))
}

func TestNewPanicsWithoutDependencies(t *testing.T) {
	assert.Panics(t, func() { New(nil, nil) })
	assert.Panics(t, func() { New(handlertest.NewConfig(), nil) })
}

func TestCheckAlive(t *testing.T) {
	s := newTestService(t)

	resp := handlertest.Get(t, s.App, CheckAlivePath, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	s.alive.Store(false)

	resp = handlertest.Get(t, s.App, CheckAlivePath, "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMetricsBypassLogin(t *testing.T) {
	s := newTestService(t)

	resp := handlertest.Get(t, s.App, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestStaticFiles(t *testing.T) {
	s := newTestService(t)

	resp := handlertest.Get(t, s.App, "/static/app.css", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProtectedPagesRedirectToLogin(t *testing.T) {
	s := newTestService(t)

	for _, target := range []string{"/", "/dashboard", "/template", "/dnssec?id=1", "/template/record/add?id=1"} {
		resp := handlertest.Get(t, s.App, target, "")
		assert.Equal(t, http.StatusFound, resp.StatusCode, target)
		assert.Equal(t, "/login", resp.Header.Get("Location"), target)
	}
}

func TestLoginPageRenders(t *testing.T) {
	s := newTestService(t)

	resp := handlertest.Get(t, s.App, "/login", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `name="username"`)
	assert.NotContains(t, string(body), `name="auth_type"`)
}

func TestDashboardRendersInLayout(t *testing.T) {
	s := newTestService(t)

	user := handlertest.CreateUser(t, s.db, "alice", "user")

	resp := handlertest.Get(t, s.App, "/dashboard", handlertest.Login(t, user))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "/static/app.css")
	assert.Contains(t, string(body), "Forward zones")
}
