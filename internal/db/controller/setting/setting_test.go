package setting

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&models.Setting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Setting{Name: "site_name", Value: []byte("My Site")}).Error)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		settingName   string
		expectedError error
		expectedValue []byte
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			settingName:   "test",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			dbParam:       db,
			settingName:   "",
			expectedError: ErrSettingNameEmpty,
		},
		{
			name:          "setting not found",
			dbParam:       db,
			settingName:   "nonexistent",
			expectedError: ErrSettingNotFound,
		},
		{
			name:          "successful get",
			dbParam:       db,
			settingName:   "site_name",
			expectedValue: []byte("My Site"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			setting, err := Get(tc.dbParam, tc.settingName)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, setting)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.settingName, setting.Name)
			assert.Equal(t, tc.expectedValue, setting.Value)
		})
	}
}

func TestSetCreatesAndUpdates(t *testing.T) {
	db := setupTestDB(t)

	created, err := Set(db, "pdns_server", []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), created.Value)

	updated, err := Set(db, "pdns_server", []byte(`{"a":2}`))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, []byte(`{"a":2}`), updated.Value)

	var count int64
	db.Model(&models.Setting{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSetRejectsBadInput(t *testing.T) {
	_, err := Set(nil, "x", nil)
	require.ErrorIs(t, err, ErrDBNil)

	_, err = Set(setupTestDB(t), "", nil)
	require.ErrorIs(t, err, ErrSettingNameEmpty)
}

func TestExists(t *testing.T) {
	db := setupTestDB(t)

	ok, err := Exists(db, "site_name")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = Set(db, "site_name", []byte("x"))
	require.NoError(t, err)

	ok, err = Exists(db, "site_name")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeleteByName(t *testing.T) {
	db := setupTestDB(t)

	_, err := Set(db, "site_name", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, DeleteByName(db, "site_name"))
	require.ErrorIs(t, DeleteByName(db, "site_name"), ErrSettingNotFound)
	require.ErrorIs(t, DeleteByName(db, ""), ErrSettingNameEmpty)
}
