package zonetemplate

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database with two users.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))

	require.NoError(t, db.Create(&models.Role{ID: 1, Name: "user"}).Error)
	require.NoError(t, db.Create(&models.User{ID: 1, Username: "alice", RoleID: 1, Active: true}).Error)
	require.NoError(t, db.Create(&models.User{ID: 2, Username: "bob", RoleID: 1, Active: true}).Error)

	return db
}

func TestCreateAndGetDetails(t *testing.T) {
	db := setupTestDB(t)

	templ, err := Create(db, "  default  ", "standard zone", 1)
	require.NoError(t, err)
	assert.Equal(t, "default", templ.Name)

	got, err := GetDetails(db, templ.ID)
	require.NoError(t, err)
	assert.Equal(t, "standard zone", got.Description)
	assert.Equal(t, uint64(1), got.OwnerID)

	_, err = GetDetails(db, 999)
	require.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestCreateRejects(t *testing.T) {
	db := setupTestDB(t)

	_, err := Create(db, " ", "", 1)
	require.ErrorIs(t, err, ErrTemplateNameEmpty)

	_, err = Create(db, "default", "", 1)
	require.NoError(t, err)

	_, err = Create(db, "default", "", 1)
	require.ErrorIs(t, err, ErrTemplateExists)

	// another owner may reuse the name
	_, err = Create(db, "default", "", 2)
	require.NoError(t, err)

	_, err = Create(nil, "x", "", 1)
	require.ErrorIs(t, err, ErrDBNil)
}

func TestIsOwner(t *testing.T) {
	db := setupTestDB(t)

	templ, err := Create(db, "default", "", 1)
	require.NoError(t, err)

	testCases := []struct {
		name   string
		id     uint64
		userID uint64
		want   bool
	}{
		{"owner", templ.ID, 1, true},
		{"other user", templ.ID, 2, false},
		{"unknown template", 999, 1, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := IsOwner(db, tc.id, tc.userID)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestList(t *testing.T) {
	db := setupTestDB(t)

	_, err := Create(db, "b-templ", "", 1)
	require.NoError(t, err)
	_, err = Create(db, "a-templ", "", 1)
	require.NoError(t, err)
	_, err = Create(db, "bobs", "", 2)
	require.NoError(t, err)

	own, err := List(db, 1, false)
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, "a-templ", own[0].Name)
	assert.Equal(t, "alice", own[0].Owner.Username)

	all, err := List(db, 1, true)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRecordLifecycle(t *testing.T) {
	db := setupTestDB(t)

	templ, err := Create(db, "default", "", 1)
	require.NoError(t, err)

	rec := &models.ZoneTemplateRecord{
		ZoneTemplateID: templ.ID,
		Name:           "www.[ZONE]",
		Type:           "A",
		Content:        "192.0.2.10",
		TTL:            3600,
	}
	require.NoError(t, AddRecord(db, rec))
	assert.NotZero(t, rec.ID)

	got, err := GetRecord(db, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "www.[ZONE]", got.Name)
	assert.Equal(t, templ.ID, got.ZoneTemplateID)

	records, err := Records(db, templ.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	require.NoError(t, DeleteRecord(db, rec.ID))
	require.ErrorIs(t, DeleteRecord(db, rec.ID), ErrRecordNotFound)

	_, err = GetRecord(db, rec.ID)
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestAddRecordUnknownTemplate(t *testing.T) {
	db := setupTestDB(t)

	err := AddRecord(db, &models.ZoneTemplateRecord{ZoneTemplateID: 42, Name: "[ZONE]", Type: "A", Content: "192.0.2.1"})
	require.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestDeleteTemplate(t *testing.T) {
	db := setupTestDB(t)

	templ, err := Create(db, "default", "", 1)
	require.NoError(t, err)
	require.NoError(t, AddRecord(db, &models.ZoneTemplateRecord{
		ZoneTemplateID: templ.ID, Name: "[ZONE]", Type: "NS", Content: "[NS1]", TTL: 3600,
	}))

	zone := &models.Zone{Name: "example.com.", ZoneTemplateID: &templ.ID}
	require.NoError(t, db.Create(zone).Error)

	require.NoError(t, Delete(db, templ.ID))

	records, err := Records(db, templ.ID)
	require.NoError(t, err)
	assert.Empty(t, records)

	var reloaded models.Zone
	require.NoError(t, db.First(&reloaded, zone.ID).Error)
	assert.Nil(t, reloaded.ZoneTemplateID)

	require.ErrorIs(t, Delete(db, templ.ID), ErrTemplateNotFound)
}
