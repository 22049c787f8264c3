package auth

import (
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/config"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/models"
)

func TestLocalAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	p := NewLocalProvider(db)
	user := createUser(t, db, "alice", RoleUser)

	got, err := p.Authenticate("alice", "secret-pass", "")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = p.Authenticate("alice", "wrong", "")
	require.ErrorIs(t, err, ErrInvalidPassword)

	_, err = p.Authenticate("bob", "secret-pass", "")
	require.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("active", false).Error)

	_, err = p.Authenticate("alice", "secret-pass", "")
	require.ErrorIs(t, err, ErrUserAccountDisabled)
}

func TestLocalAuthenticateTOTP(t *testing.T) {
	db := setupTestDB(t)
	p := NewLocalProvider(db)
	user := createUser(t, db, "alice", RoleUser)

	key, err := p.EnableTOTP(user.ID, "GoPowerDNS-Templates")
	require.NoError(t, err)
	assert.Contains(t, key.URL(), "otpauth://totp/")

	_, err = p.Authenticate("alice", "secret-pass", "")
	require.ErrorIs(t, err, ErrInvalidOTP)

	_, err = p.Authenticate("alice", "secret-pass", "000000x")
	require.ErrorIs(t, err, ErrInvalidOTP)

	code, err := totp.GenerateCode(key.Secret(), time.Now())
	require.NoError(t, err)

	got, err := p.Authenticate("alice", "secret-pass", code)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestCreateUserDuplicate(t *testing.T) {
	db := setupTestDB(t)
	p := NewLocalProvider(db)
	createUser(t, db, "alice", RoleUser)

	_, err := p.CreateUser("alice", "other@example.com", "x", "", 1)
	require.ErrorIs(t, err, ErrUserNameOrEmailExists)

	_, err = p.CreateUser("alice2", "alice@example.com", "x", "", 1)
	require.ErrorIs(t, err, ErrUserNameOrEmailExists)

	u, err := p.GetUserByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, models.AuthSourceLocal, u.AuthSource)

	_, err = p.GetUserByUsername("nobody")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = p.GetUserByID(999)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestNewLDAPProviderDisabled(t *testing.T) {
	db := setupTestDB(t)

	_, err := NewLDAPProvider(configLDAP(false), db)
	require.ErrorIs(t, err, ErrLDAPDisabled)

	p, err := NewLDAPProvider(configLDAP(true), db)
	require.NoError(t, err)
	assert.Equal(t, "uid", p.config.UsernameAttr)
	assert.Equal(t, RoleUser, p.config.DefaultRole)
	assert.Equal(t, defaultLDAPTimeout, p.config.Timeout)

	_, err = p.Authenticate("alice", "")
	require.ErrorIs(t, err, ErrInvalidPassword)
}

func TestLDAPUpsertUser(t *testing.T) {
	db := setupTestDB(t)

	p, err := NewLDAPProvider(configLDAP(true), db)
	require.NoError(t, err)

	u, err := p.upsertUser("carol", "carol@example.com", "Carol C")
	require.NoError(t, err)
	assert.Equal(t, models.AuthSourceLDAP, u.AuthSource)

	ok, err := NewService(db).HasPermission(u.ID, PermTemplateEdit)
	require.NoError(t, err)
	assert.True(t, ok)

	u2, err := p.upsertUser("carol", "carol@new.example.com", "Carol C")
	require.NoError(t, err)
	assert.Equal(t, u.ID, u2.ID)
	assert.Equal(t, "carol@new.example.com", u2.Email)
}

func configLDAP(enabled bool) config.LDAP {
	return config.LDAP{
		Enabled:    enabled,
		Host:       "127.0.0.1",
		Port:       389,
		BaseDN:     "ou=people,dc=example,dc=net",
		UserFilter: "(uid={username})",
	}
}
