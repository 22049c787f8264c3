package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/auth"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/controller/zone"
)

// OwnsZone reports whether the current user owns zoneID. Users with the
// template admin permission own every zone.
func OwnsZone(c *fiber.Ctx, db *gorm.DB, authService *auth.Service, zoneID uint64) (bool, error) {
	userID := auth.CurrentUserID(c)
	if userID == 0 {
		return false, nil
	}

	owner, err := zone.IsOwner(db, zoneID, userID)
	if err != nil || owner {
		return owner, err
	}

	return authService.HasPermission(userID, auth.PermAdminTemplates)
}
