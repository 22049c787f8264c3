package dashboard

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/auth"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/controller/zone"
	templatedb "github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/controller/zonetemplate"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler/handlertest"
)

func zoneNames(zones []Zone) []string {
	names := make([]string, 0, len(zones))
	for _, z := range zones {
		names = append(names, z.Name)
	}

	return names
}

func TestDashboard(t *testing.T) {
	app, views := handlertest.NewApp()
	db := handlertest.NewDB(t)

	alice := handlertest.CreateUser(t, db, "alice", auth.RoleUser)
	bob := handlertest.CreateUser(t, db, "bob", auth.RoleUser)
	admin := handlertest.CreateUser(t, db, "admin", auth.RoleAdmin)

	templ, err := templatedb.Create(db, "web", "", alice.ID)
	require.NoError(t, err)

	_, err = zone.Create(db, "b.example.org", &templ.ID, alice.ID)
	require.NoError(t, err)
	_, err = zone.Create(db, "a.example.org", nil, alice.ID)
	require.NoError(t, err)
	_, err = zone.Create(db, "2.0.192.in-addr.arpa", nil, alice.ID)
	require.NoError(t, err)
	_, err = zone.Create(db, "bob.example.net", nil, bob.ID)
	require.NoError(t, err)

	s := &Service{}
	s.Init(app, handlertest.NewConfig(), db, auth.NewService(db))

	aliceCookie := handlertest.Login(t, alice)

	t.Run("own forward zones", func(t *testing.T) {
		resp := handlertest.Get(t, app, Path, aliceCookie)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		data, ok := views.Last(t).Data["Data"].(Data)
		require.True(t, ok)
		assert.Equal(t, TabForward, data.ActiveTab)
		assert.Equal(t, []string{"a.example.org.", "b.example.org."}, zoneNames(data.ForwardTab.Zones))
		assert.Equal(t, "web", data.ForwardTab.Zones[1].Template)
		assert.Equal(t, 1, data.ReverseV4Tab.TotalItems)
	})

	t.Run("reverse tab", func(t *testing.T) {
		resp := handlertest.Get(t, app, Path+"?tab=reverse-ipv4", aliceCookie)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		data, ok := views.Last(t).Data["Data"].(Data)
		require.True(t, ok)
		assert.Equal(t, []string{"2.0.192.in-addr.arpa."}, zoneNames(data.ReverseV4Tab.Zones))
	})

	t.Run("search and order", func(t *testing.T) {
		resp := handlertest.Get(t, app, Path+"?search=B.EXAMPLE&order=desc", aliceCookie)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		data, ok := views.Last(t).Data["Data"].(Data)
		require.True(t, ok)
		assert.Equal(t, []string{"b.example.org."}, zoneNames(data.ForwardTab.Zones))
	})

	t.Run("admin sees every zone", func(t *testing.T) {
		resp := handlertest.Get(t, app, Path+"?order=desc", handlertest.Login(t, admin))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		data, ok := views.Last(t).Data["Data"].(Data)
		require.True(t, ok)
		assert.Equal(t,
			[]string{"bob.example.net.", "b.example.org.", "a.example.org."},
			zoneNames(data.ForwardTab.Zones))
	})
}

func TestPaginateZones(t *testing.T) {
	zones := []Zone{{Name: "a."}, {Name: "b."}, {Name: "c."}}

	page, total, actual := paginateZones(zones, 2, 2)
	assert.Equal(t, []Zone{{Name: "c."}}, page)
	assert.Equal(t, 2, total)
	assert.Equal(t, 2, actual)

	page, total, actual = paginateZones(zones, 9, 2)
	assert.Equal(t, []Zone{{Name: "c."}}, page)
	assert.Equal(t, 2, total)
	assert.Equal(t, 2, actual)

	page, total, actual = paginateZones(nil, 1, 25)
	assert.Empty(t, page)
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, actual)
}
