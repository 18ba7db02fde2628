// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface (CLI) for the Vaultmaster
// application using the Cobra library. It defines the root command,
// subcommands (like rekey, databases, backup), flags, and the main
// entry point for execution.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vaultmaster/vaultmaster/internal/config"
	"github.com/vaultmaster/vaultmaster/internal/db"
	"github.com/vaultmaster/vaultmaster/internal/i18n"
	"github.com/vaultmaster/vaultmaster/internal/logging"
)

var version = "dev" // this will be set by the linker
var cfgFile string
var appCfg config.Config

// main is the entry point of the application.
func main() {
	if err := rootCmd.Execute(); err != nil {
		// The error is already printed by Cobra on failure.
		os.Exit(1)
	}
}

var rootCmd *cobra.Command

func init() {
	rootCmd = newRootCmd()
}

// newRootCmd creates and configures a new root cobra command.
// This function is used to create the main application command as well as
// fresh instances for isolated testing.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vaultmaster",
		Short: "Vaultmaster manages the credentials of encrypted databases.",
		Long: `Vaultmaster keeps a registry of encrypted databases and manages the
composite keys that protect them. A database can be secured by any
combination of a password, a key file, and a hardware challenge-response
key; Vaultmaster assembles, validates, and atomically replaces that
composite key.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var cfgPath *string
			if cfgFile != "" {
				cfgPath = &cfgFile
			}
			cfg, err := config.LoadConfig[config.Config](cmd, config.Defaults(), cfgPath)
			if err != nil {
				return err
			}

			// Explicit flags win over file and environment values.
			if cmd.Flags().Changed("db-type") {
				cfg.Database.Type, _ = cmd.Flags().GetString("db-type")
			}
			if cmd.Flags().Changed("db-dsn") {
				cfg.Database.Dsn, _ = cmd.Flags().GetString("db-dsn")
			}
			if cmd.Flags().Changed("lang") {
				cfg.Language, _ = cmd.Flags().GetString("lang")
			}
			if cmd.Flags().Changed("min-quality") {
				cfg.Security.MinPasswordQuality, _ = cmd.Flags().GetInt("min-quality")
			}
			appCfg = cfg

			logging.SetDebug(os.Getenv("VAULTMASTER_DEBUG") != "")
			i18n.Init(cfg.Language)
			if err := db.InitDB(cfg.Database.Type, cfg.Database.Dsn); err != nil {
				return fmt.Errorf("%s", i18n.T("config.error_init_db", err))
			}
			return nil
		},
	}

	// Add subcommands to the newly created root command.
	cmd.AddCommand(rekeyCmd)
	cmd.AddCommand(databasesCmd)
	cmd.AddCommand(backupCmd)
	cmd.AddCommand(restoreCmd)
	cmd.AddCommand(auditCmd)
	cmd.AddCommand(configCmd)

	// Set version
	cmd.Version = version

	// Define flags
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is the user config dir or ./vaultmaster.yaml)")
	cmd.PersistentFlags().String("db-type", "sqlite", "Metadata store type (e.g., sqlite, postgres, mysql)")
	cmd.PersistentFlags().String("db-dsn", "./vaultmaster.db", "Metadata store connection string (DSN)")
	cmd.PersistentFlags().String("lang", "en", `Interface language ("en")`)
	cmd.PersistentFlags().Int("min-quality", 0, "Minimum password quality score (0-4)")

	return cmd
}

// configCmd writes a default configuration file so the settings are
// discoverable for the user.
var configCmd = &cobra.Command{
	Use:   "config-init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		system, _ := cmd.Flags().GetBool("system")
		if err := config.WriteConfigFile(&appCfg, system); err != nil {
			return err
		}
		path, _ := config.GetConfigPath(system)
		fmt.Println("Wrote configuration to", path)
		return nil
	},
}

func init() {
	configCmd.Flags().Bool("system", false, "Write the system-wide configuration instead of the user one")
}
