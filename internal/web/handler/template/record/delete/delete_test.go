package recorddelete

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/auth"
	templatedb "github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/controller/zonetemplate"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/models"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler/handlertest"
)

type fixture struct {
	app    *fiber.App
	views  *handlertest.Views
	db     *gorm.DB
	templ  uint64
	other  uint64
	record uint64
	alice  string
	bob    string
	admin  string
}

func setup(t *testing.T) *fixture {
	t.Helper()

	app, views := handlertest.NewApp()
	db := handlertest.NewDB(t)

	alice := handlertest.CreateUser(t, db, "alice", auth.RoleUser)
	bob := handlertest.CreateUser(t, db, "bob", auth.RoleUser)
	admin := handlertest.CreateUser(t, db, "admin", auth.RoleAdmin)

	templ, err := templatedb.Create(db, "default", "", alice.ID)
	require.NoError(t, err)

	other, err := templatedb.Create(db, "other", "", alice.ID)
	require.NoError(t, err)

	rec := &models.ZoneTemplateRecord{
		ZoneTemplateID: templ.ID, Name: "www.[ZONE]", Type: "A", Content: "192.0.2.1", TTL: 3600,
	}
	require.NoError(t, templatedb.AddRecord(db, rec))

	s := &Service{}
	s.Init(app, handlertest.NewConfig(), db, auth.NewService(db))

	return &fixture{
		app:    app,
		views:  views,
		db:     db,
		templ:  templ.ID,
		other:  other.ID,
		record: rec.ID,
		alice:  handlertest.Login(t, alice),
		bob:    handlertest.Login(t, bob),
		admin:  handlertest.Login(t, admin),
	}
}

func (f *fixture) target(recordID, templID uint64, confirm string) string {
	target := fmt.Sprintf("%s?id=%d&zone_templ_id=%d", Path, recordID, templID)
	if confirm != "" {
		target += "&confirm=" + confirm
	}

	return target
}

func (f *fixture) recordExists(t *testing.T) bool {
	t.Helper()

	_, err := templatedb.GetRecord(f.db, f.record)
	if err != nil {
		require.ErrorIs(t, err, templatedb.ErrRecordNotFound)
		return false
	}

	return true
}

func TestDeleteRecordInvalidInput(t *testing.T) {
	f := setup(t)

	for _, target := range []string{
		Path,
		Path + "?id=1",
		Path + "?zone_templ_id=1",
		Path + "?id=x&zone_templ_id=1",
		Path + "?id=1&zone_templ_id=-1",
	} {
		resp := handlertest.Get(t, f.app, target, f.alice)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, target)
		assert.Equal(t, []string{handler.ErrInvalidInput}, f.views.Last(t).Errors(), target)
	}

	assert.True(t, f.recordExists(t))
}

func TestDeleteRecordConfirmationView(t *testing.T) {
	f := setup(t)

	for _, confirm := range []string{"", "0", "yes"} {
		resp := handlertest.Get(t, f.app, f.target(f.record, f.templ, confirm), f.alice)
		require.Equal(t, http.StatusOK, resp.StatusCode, confirm)

		view := f.views.Last(t)
		assert.Empty(t, view.Errors())
		assert.Empty(t, view.Success())

		rec, ok := view.Data["Record"].(*models.ZoneTemplateRecord)
		require.True(t, ok)
		assert.Equal(t, f.record, rec.ID)

		templ, ok := view.Data["Template"].(*models.ZoneTemplate)
		require.True(t, ok)
		assert.Equal(t, "default", templ.Name)
	}

	assert.True(t, f.recordExists(t))
}

func TestDeleteRecordConfirmed(t *testing.T) {
	f := setup(t)

	resp := handlertest.Get(t, f.app, f.target(f.record, f.templ, "1"), f.alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	view := f.views.Last(t)
	assert.Equal(t, handler.SucRecordDel, view.Success())
	assert.Equal(t, true, view.Data["Deleted"])
	assert.False(t, f.recordExists(t))
}

func TestDeleteRecordNotOwner(t *testing.T) {
	f := setup(t)

	for _, confirm := range []string{"", "1"} {
		resp := handlertest.Get(t, f.app, f.target(f.record, f.templ, confirm), f.bob)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, []string{handler.ErrPermDelRecord}, f.views.Last(t).Errors())
	}

	assert.True(t, f.recordExists(t))
}

func TestDeleteRecordOfOtherTemplate(t *testing.T) {
	f := setup(t)

	resp := handlertest.Get(t, f.app, f.target(f.record, f.other, "1"), f.alice)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{handler.ErrInvalidInput}, f.views.Last(t).Errors())
	assert.True(t, f.recordExists(t))
}

func TestDeleteRecordUnknown(t *testing.T) {
	f := setup(t)

	resp := handlertest.Get(t, f.app, f.target(f.record+50, f.templ, "1"), f.alice)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, []string{handler.ErrRecordNotFound}, f.views.Last(t).Errors())

	resp = handlertest.Get(t, f.app, f.target(f.record, 999, "1"), f.alice)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, []string{handler.ErrTemplateNotFound}, f.views.Last(t).Errors())
}

func TestDeleteRecordAdmin(t *testing.T) {
	f := setup(t)

	resp := handlertest.Get(t, f.app, f.target(f.record, f.templ, "1"), f.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, handler.SucRecordDel, f.views.Last(t).Success())
	assert.False(t, f.recordExists(t))
}
