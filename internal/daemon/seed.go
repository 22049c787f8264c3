package daemon

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/auth"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/config"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/controller/pdnsserver"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/models"
)

// Initial admin account, created on an empty user table.
const (
	defaultAdminUser     = "admin"
	defaultAdminPassword = "changeme"
)

// seed creates roles, the initial admin and the PowerDNS settings.
func seed(cfg *config.Config, db *gorm.DB) error {
	if err := auth.SeedRoles(db); err != nil {
		return err
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}

	if count == 0 {
		role, err := auth.NewService(db).RoleByName(auth.RoleAdmin)
		if err != nil {
			return err
		}

		if _, err = auth.NewLocalProvider(db).
			CreateUser(defaultAdminUser, "", defaultAdminPassword, "Administrator", role.ID); err != nil {
			return err
		}

		log.Warn().Str("username", defaultAdminUser).Msg("created initial admin user, change its password")
	}

	return pdnsserver.SeedFromConfig(db, cfg.PDNS)
}
