package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/auth"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/controller/zone"
)

func init() { //nolint: gochecknoinits
	zoneCmd.AddCommand(zoneOwnerCmd)
	rootCmd.AddCommand(zoneCmd)
}

var (
	zoneCmd = &cobra.Command{
		Use:   "zone",
		Short: "Manage the local zone registry",
	}

	zoneOwnerCmd = &cobra.Command{
		Use:   "owner <zone> <username>",
		Short: "Add an owner to a zone",
		Args:  cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			_, database, err := setup()
			if err != nil {
				return err
			}

			return addZoneOwner(cmd.OutOrStdout(), database, args[0], args[1])
		},
	}
)

func addZoneOwner(w io.Writer, database *gorm.DB, zoneName, username string) error {
	z, err := zone.GetByName(database, zoneName)
	if err != nil {
		return err
	}

	user, err := auth.NewLocalProvider(database).GetUserByUsername(username)
	if err != nil {
		return err
	}

	if err = zone.AddOwner(database, z.ID, user.ID); err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "%s now owns %s\n", user.Username, z.Name)

	return err
}
