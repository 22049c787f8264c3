package zonetemplate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/auth"
	templatedb "github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/controller/zonetemplate"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/models"
)

var recordCounter = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "template_records_total",
		Help: "Number of zone template records added or deleted.",
	},
	[]string{"op"},
)

// PermissionChecker answers permission questions for a user.
type PermissionChecker interface {
	HasPermission(userID uint64, permission string) (bool, error)
}

// Access is what a user may do with one template.
type Access struct {
	// CanEdit is the template edit permission.
	CanEdit bool
	// Owner is set when the user owns the template.
	Owner bool
	// Admin is set for users that bypass ownership.
	Admin bool
}

// Allowed reports whether the template may be changed.
func (a Access) Allowed() bool {
	return a.Admin || (a.CanEdit && a.Owner)
}

// CheckAccess collects the permissions of userID on templateID.
func CheckAccess(db *gorm.DB, perms PermissionChecker, userID, templateID uint64) (Access, error) {
	var (
		a   Access
		err error
	)

	if a.Admin, err = perms.HasPermission(userID, auth.PermAdminTemplates); err != nil {
		return a, err
	}

	if a.CanEdit, err = perms.HasPermission(userID, auth.PermTemplateEdit); err != nil {
		return a, err
	}

	if a.Owner, err = templatedb.IsOwner(db, templateID, userID); err != nil {
		return a, err
	}

	return a, nil
}

// AddRecord checks rec and stores it in its template.
func AddRecord(db *gorm.DB, val *Validator, rec *models.ZoneTemplateRecord) error {
	if err := val.Record(rec); err != nil {
		return err
	}

	if err := templatedb.AddRecord(db, rec); err != nil {
		return err
	}

	recordCounter.WithLabelValues("add").Inc()

	log.Info().Uint64("zone_templ_id", rec.ZoneTemplateID).Uint64("record_id", rec.ID).
		Str("name", rec.Name).Str("type", rec.Type).Msg("zone template record added")

	return nil
}

// DeleteRecord removes recordID, provided it belongs to templateID.
func DeleteRecord(db *gorm.DB, templateID, recordID uint64) error {
	rec, err := templatedb.GetRecord(db, recordID)
	if err != nil {
		return err
	}

	if rec.ZoneTemplateID != templateID {
		return ErrRecordTemplateMismatch
	}

	if err := templatedb.DeleteRecord(db, recordID); err != nil {
		return err
	}

	recordCounter.WithLabelValues("delete").Inc()

	log.Info().Uint64("zone_templ_id", templateID).Uint64("record_id", recordID).
		Msg("zone template record deleted")

	return nil
}
