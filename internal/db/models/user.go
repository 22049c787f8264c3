package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// AuthSource represents the authentication source for a user account.
type AuthSource string

const (
	// AuthSourceLocal indicates the user authenticates with a local database password.
	AuthSourceLocal AuthSource = "local"
	// AuthSourceLDAP indicates the user authenticates via LDAP or Active Directory.
	AuthSourceLDAP AuthSource = "ldap"
)

// User represents a user account in the system.
type User struct {
	ID       uint64 `gorm:"primaryKey"`
	Active   bool
	Username string `gorm:"unique;size:100;not null"`
	Email    string `gorm:"size:255"`
	// Password is the Argon2id hash, only set for local users.
	Password string `gorm:"size:255" json:"-"`
	Fullname string `gorm:"size:255"`
	RoleID   uint   `gorm:"column:role_id;not null"`
	Role     Role   `gorm:"foreignKey:RoleID;references:ID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE" json:"-"`
	// TOTPSecret enables a second login factor when set.
	TOTPSecret string     `gorm:"column:totp_secret;size:64" json:"-"`
	AuthSource AuthSource `gorm:"type:varchar(20);not null;default:'local'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword reports whether password matches the stored hash.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}
