package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/JOHNINDAKWA/coverly/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  "View and update configuration settings",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		printConfig(cmd.OutOrStdout(), config.GetConfigPath(), a.Config)
		return nil
	},
}

func printConfig(out io.Writer, path string, cfg *config.Config) {
	row := func(label, value string) {
		if value == "" {
			value = mutedStyle.Render("(not set)")
		}
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render(label+":"), value)
	}

	fmt.Fprintln(out, titleStyle.Render("Configuration"))
	row("Config File", path)
	row("Default Template", cfg.DefaultTemplate)
	row("Base Origin", cfg.BaseOrigin)
	row("Output Dir", cfg.OutputDir)
	row("Chrome Path", cfg.ChromePath)
	row("Export Timeout", cfg.ExportTimeout.String())
	row("Log Level", cfg.LogLevel)
	row("Database", cfg.DBPath)
}

var setConfigCmd = &cobra.Command{
	Use:   "set",
	Short: "Update a configuration value",
	Example: `  coverly config set --key default_template --value modern
  coverly config set --key output_dir --value ~/Documents/cv
  coverly config set --key chrome_path --value /usr/bin/chromium
  coverly config set --key export_timeout --value 90s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")
		value, _ := cmd.Flags().GetString("value")

		if key == "" {
			return fmt.Errorf("--key is required, one of: %s", strings.Join(config.Keys, ", "))
		}
		if key == "default_template" {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if !a.Templates.Has(value) {
				return fmt.Errorf("unknown template %q, available: %s", value, strings.Join(a.Templates.IDs(), ", "))
			}
		}

		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("update config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Configuration updated: %s = %s\n", key, config.Get(key))
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
