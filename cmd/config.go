package cmd

import (
	"fmt"
	"strings"

	"github.com/khrees2412/stageconnect/internal/config"
	"github.com/khrees2412/stageconnect/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Manage configuration",
	Long:        "View and update configuration settings",
	Annotations: map[string]string{offline: "true"},
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return err
		}
		cfg := config.AppConfig

		p := ui.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), ui.FormatTable)
		p.Title("Configuration")
		p.Field("Config File", config.GetConfigPath())
		p.Field("API URL", cfg.APIURL)
		p.Field("API Base", cfg.APIBase())
		p.Field("Log Level", cfg.LogLevel)
		p.Field("Output", cfg.Output)

		timeout := "none"
		if cfg.RequestTimeout > 0 {
			timeout = cfg.RequestTimeout.String()
		}
		p.Field("Request Timeout", timeout)

		metrics := "✗ Disabled"
		if cfg.MetricsFile != "" {
			metrics = cfg.MetricsFile
		}
		p.Field("Metrics File", metrics)
		return nil
	},
}

var setConfigCmd = &cobra.Command{
	Use:   "set",
	Short: "Update a configuration value",
	Example: `  stageconnect config set --key api_url --value https://stages.example.edu
  stageconnect config set --key output --value json
  stageconnect config set --key request_timeout --value 30s
  stageconnect config set --key metrics_file --value ~/.stageconnect/metrics.prom`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")
		value, _ := cmd.Flags().GetString("value")

		if key == "" {
			return fmt.Errorf("--key is required")
		}
		if !config.IsValidKey(key) {
			return fmt.Errorf("invalid key %q, must be one of: %s", key, strings.Join(config.ValidKeys, ", "))
		}

		if err := config.Initialize(); err != nil {
			return err
		}
		previous, err := config.FileValue(key)
		if err != nil {
			return err
		}
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("error updating config: %w", err)
		}

		// reload so a bad value is reported and rolled back
		if err := config.Initialize(); err != nil {
			if rerr := config.Set(key, previous); rerr != nil {
				return fmt.Errorf("%v (and restoring %s failed: %v)", err, key, rerr)
			}
			return err
		}

		p := ui.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), ui.FormatTable)
		p.Success("Configuration updated: %s", key)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(setConfigCmd)

	setConfigCmd.Flags().String("key", "", "Configuration key")
	setConfigCmd.Flags().String("value", "", "Configuration value")
}
