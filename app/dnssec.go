package app

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/miekg/dns"
	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/dnssec"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/powerdns"
)

func init() { //nolint: gochecknoinits
	dnssecCmd.AddCommand(dnssecKeysCmd, dnssecActivateCmd, dnssecDeactivateCmd)
	rootCmd.AddCommand(dnssecCmd)
}

var (
	dnssecCmd = &cobra.Command{
		Use:   "dnssec",
		Short: "Inspect and toggle DNSSEC zone keys",
	}

	dnssecKeysCmd = &cobra.Command{
		Use:   "keys <zone>",
		Short: "List the DNSSEC keys of a zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := openKeyService()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), powerdns.DefaultTimeout)
			defer cancel()

			return listKeys(ctx, cmd.OutOrStdout(), keys, dns.Fqdn(args[0]))
		},
	}

	dnssecActivateCmd = &cobra.Command{
		Use:   "activate <zone> <key-id>",
		Short: "Activate a DNSSEC zone key",
		Args:  cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToggle(cmd, args, true)
		},
	}

	dnssecDeactivateCmd = &cobra.Command{
		Use:   "deactivate <zone> <key-id>",
		Short: "Deactivate a DNSSEC zone key",
		Args:  cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToggle(cmd, args, false)
		},
	}
)

// openKeyService connects to the PowerDNS server stored in the settings.
func openKeyService() (*dnssec.Service, error) {
	_, database, err := setup()
	if err != nil {
		return nil, err
	}

	if err = powerdns.Open(database); err != nil {
		return nil, err
	}

	return dnssec.NewService(powerdns.CryptokeyStore{}), nil
}

func runToggle(cmd *cobra.Command, args []string, active bool) error {
	id, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid key id %q: %w", args[1], err)
	}

	keys, err := openKeyService()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), powerdns.DefaultTimeout)
	defer cancel()

	return toggleKey(ctx, cmd.OutOrStdout(), keys, dns.Fqdn(args[0]), id, active)
}

func listKeys(ctx context.Context, w io.Writer, keys *dnssec.Service, zone string) error {
	list, err := keys.Keys(ctx, zone)
	if err != nil {
		return err
	}

	out := []string{"ID|Type|Tag|Algorithm|Bits|Active"}
	for _, k := range list {
		out = append(out, fmt.Sprintf("%d|%s|%d|%s|%d|%s", k.ID, k.Type, k.Tag, k.Algorithm, k.Bits, k.ActiveLabel()))
	}

	_, err = fmt.Fprintln(w, columnize.SimpleFormat(out))

	return err
}

func toggleKey(ctx context.Context, w io.Writer, keys *dnssec.Service, zone string, id uint64, active bool) error {
	exists, err := keys.KeyExists(ctx, zone, id)
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("%w: %d in %s", dnssec.ErrKeyNotFound, id, zone)
	}

	verb := "deactivated"
	if active {
		err = keys.Activate(ctx, zone, id)
		verb = "activated"
	} else {
		err = keys.Deactivate(ctx, zone, id)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "key %d of %s %s\n", id, zone, verb)

	return err
}
