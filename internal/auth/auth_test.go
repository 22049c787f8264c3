package auth

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database with the built-in roles.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))
	require.NoError(t, SeedRoles(db))

	return db
}

func createUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()

	r, err := NewService(db).RoleByName(role)
	require.NoError(t, err)

	user, err := NewLocalProvider(db).CreateUser(username, username+"@example.com", "secret-pass", "", r.ID)
	require.NoError(t, err)

	return user
}

func TestSeedRolesIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SeedRoles(db))

	var roles, perms, grants int64

	require.NoError(t, db.Model(&models.Role{}).Count(&roles).Error)
	require.NoError(t, db.Model(&models.Permission{}).Count(&perms).Error)
	require.NoError(t, db.Model(&models.RolePermission{}).Count(&grants).Error)

	assert.Equal(t, int64(2), roles)
	assert.Equal(t, int64(len(All())), perms)
	assert.Equal(t, int64(len(All())+len(userPermissions)), grants)
}

func TestHasPermission(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	admin := createUser(t, db, "root", RoleAdmin)
	user := createUser(t, db, "alice", RoleUser)

	testCases := []struct {
		name   string
		userID uint64
		perm   string
		want   bool
	}{
		{"admin has admin.templates", admin.ID, PermAdminTemplates, true},
		{"admin has template.edit", admin.ID, PermTemplateEdit, true},
		{"user has template.edit", user.ID, PermTemplateEdit, true},
		{"user lacks admin.templates", user.ID, PermAdminTemplates, false},
		{"user lacks pdns server", user.ID, PermAdminPDNSServer, false},
		{"unknown user", 999, PermDashboardView, false},
		{"unknown permission", admin.ID, "does.not.exist", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.HasPermission(tc.userID, tc.perm)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestHasAnyPermission(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	user := createUser(t, db, "alice", RoleUser)

	got, err := svc.HasAnyPermission(user.ID, []string{PermAdminPDNSServer, PermDNSSECView})
	require.NoError(t, err)
	assert.True(t, got)

	got, err = svc.HasAnyPermission(user.ID, []string{PermAdminPDNSServer})
	require.NoError(t, err)
	assert.False(t, got)

	got, err = svc.HasAnyPermission(user.ID, nil)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestInactiveUserHasNoPermissions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	user := createUser(t, db, "alice", RoleUser)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("active", false).Error)

	got, err := svc.HasPermission(user.ID, PermDashboardView)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestGetUserPermissions(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "alice", RoleUser)

	perms, err := NewService(db).GetUserPermissions(user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, userPermissions, perms)
}

func TestAssignRoleToUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	user := createUser(t, db, "alice", RoleUser)

	admin, err := svc.RoleByName(RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, svc.AssignRoleToUser(user.ID, admin.ID))

	got, err := svc.HasPermission(user.ID, PermAdminTemplates)
	require.NoError(t, err)
	assert.True(t, got)

	_, err = svc.RoleByName("nope")
	require.ErrorIs(t, err, ErrRoleNotFound)
}
