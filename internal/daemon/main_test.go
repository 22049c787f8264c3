package daemon

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/auth"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/config"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/controller/pdnsserver"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(database))

	return database
}

func TestSeed(t *testing.T) {
	database := newTestDB(t)
	cfg := &config.Config{PDNS: config.PDNS{
		APIServerURL: "http://127.0.0.1:8081",
		APIKey:       "changeme-api-key",
		VHost:        "localhost",
	}}

	require.NoError(t, seed(cfg, database))
	// runs on every start
	require.NoError(t, seed(cfg, database))

	var users []models.User
	require.NoError(t, database.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, defaultAdminUser, users[0].Username)
	assert.True(t, users[0].VerifyPassword(defaultAdminPassword))

	ok, err := auth.NewService(database).HasPermission(users[0].ID, auth.PermAdminTemplates)
	require.NoError(t, err)
	assert.True(t, ok)

	settings := &pdnsserver.Settings{}
	require.NoError(t, settings.Load(database))
	assert.Equal(t, cfg.PDNS.APIServerURL, settings.APIServerURL)
}

func TestSeedKeepsExistingUsers(t *testing.T) {
	database := newTestDB(t)
	require.NoError(t, auth.SeedRoles(database))

	role, err := auth.NewService(database).RoleByName(auth.RoleUser)
	require.NoError(t, err)

	_, err = auth.NewLocalProvider(database).CreateUser("bob", "", "secret-pass", "", role.ID)
	require.NoError(t, err)

	require.NoError(t, seed(&config.Config{}, database))

	var count int64
	require.NoError(t, database.Model(&models.User{}).Where("username = ?", defaultAdminUser).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSessionStorageForSQLite(t *testing.T) {
	cfg := &config.Config{DB: config.DB{GormEngine: config.DBEngineSQLite, Name: ":memory:"}}
	assert.Nil(t, sessionStorage(cfg))
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrConfigNil)

	cfg := &config.Config{
		DB: config.DB{GormEngine: config.DBEngineSQLite, Name: ":memory:"},
		Webserver: config.Webserver{
			URL:  "http://localhost",
			Port: 8080,
		},
	}

	d, err := New(cfg)
	require.NoError(t, err)
	require.NotNil(t, d.webService)
}
