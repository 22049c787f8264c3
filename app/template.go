package app

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	templatedb "github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/controller/zonetemplate"
)

func init() { //nolint: gochecknoinits
	templateCmd.AddCommand(templateListCmd, templateRecordsCmd)
	rootCmd.AddCommand(templateCmd)
}

var (
	templateCmd = &cobra.Command{
		Use:   "template",
		Short: "Inspect zone templates",
	}

	templateListCmd = &cobra.Command{
		Use:   "list",
		Short: "List all zone templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, database, err := setup()
			if err != nil {
				return err
			}

			return listTemplates(cmd.OutOrStdout(), database)
		},
	}

	templateRecordsCmd = &cobra.Command{
		Use:   "records <template-id>",
		Short: "List the records of a zone template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid template id %q: %w", args[0], err)
			}

			_, database, err := setup()
			if err != nil {
				return err
			}

			return listTemplateRecords(cmd.OutOrStdout(), database, id)
		},
	}
)

func listTemplates(w io.Writer, database *gorm.DB) error {
	templates, err := templatedb.List(database, 0, true)
	if err != nil {
		return err
	}

	out := []string{"ID|Name|Owner|Description"}
	for _, t := range templates {
		out = append(out, fmt.Sprintf("%d|%s|%d|%s", t.ID, t.Name, t.OwnerID, t.Description))
	}

	_, err = fmt.Fprintln(w, columnize.SimpleFormat(out))

	return err
}

func listTemplateRecords(w io.Writer, database *gorm.DB, id uint64) error {
	templ, err := templatedb.GetDetails(database, id)
	if err != nil {
		return err
	}

	records, err := templatedb.Records(database, id)
	if err != nil {
		return err
	}

	out := []string{"ID|Name|Type|Content|TTL|Prio"}
	for _, r := range records {
		out = append(out, fmt.Sprintf("%d|%s|%s|%s|%d|%d", r.ID, r.Name, r.Type, r.Content, r.TTL, r.Prio))
	}

	_, err = fmt.Fprintf(w, "%s\n\n%s\n", templ.Name, columnize.SimpleFormat(out))

	return err
}
