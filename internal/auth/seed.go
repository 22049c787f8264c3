package auth

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/models"
)

// Built-in roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// userPermissions are granted to RoleUser. RoleAdmin gets every permission.
var userPermissions = []string{ //nolint:gochecknoglobals
	PermDashboardView,
	PermZoneCreate,
	PermTemplateView,
	PermTemplateEdit,
	PermDNSSECView,
}

// SeedRoles creates the permissions and the built-in roles. It can run on
// every start; existing rows are kept.
func SeedRoles(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		perms := make(map[string]uint)

		for name, desc := range All() {
			p := models.Permission{Name: name, Description: desc}
			if err := tx.Where(models.Permission{Name: name}).FirstOrCreate(&p).Error; err != nil {
				return fmt.Errorf("failed to seed permission %s: %w", name, err)
			}

			perms[name] = p.ID
		}

		roles := map[string][]string{
			RoleAdmin: keys(perms),
			RoleUser:  userPermissions,
		}

		for name, granted := range roles {
			role := models.Role{Name: name, Description: "built-in " + name + " role", IsSystem: true}
			if err := tx.Where(models.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
				return fmt.Errorf("failed to seed role %s: %w", name, err)
			}

			for _, perm := range granted {
				rp := models.RolePermission{RoleID: role.ID, PermissionID: perms[perm]}
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rp).Error; err != nil {
					return fmt.Errorf("failed to grant %s to %s: %w", perm, name, err)
				}
			}
		}

		return nil
	})
}

func keys(m map[string]uint) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	return out
}
