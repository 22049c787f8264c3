// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/config"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "go-powerdns-templates",
	Short: "GoPowerDNS-Templates manages PowerDNS zone templates and DNSSEC keys",
	Long: `GoPowerDNS-Templates is a web-based management tool for PowerDNS
zone templates. Zones are created from templates and their DNSSEC keys
can be switched on and off.`,
	Args:          cobra.OnlyValidArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "directory holding main.toml (default ./etc/)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setup reads the config, starts logging and opens the database.
func setup() (*config.Config, *gorm.DB, error) {
	c, err := config.ReadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	if err = logger.Init(c.Log); err != nil {
		return nil, nil, err
	}

	database, err := db.Open(&c)
	if err != nil {
		return nil, nil, err
	}

	return &c, database, nil
}
