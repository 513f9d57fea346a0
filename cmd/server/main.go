// Command server runs the group ledger: the Connect API and its supporting
// maintenance commands.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/groupledger/internal/config"
	"github.com/mmynk/groupledger/pkg/logging"
)

func main() {
	var (
		configPath string
		cfg        = &config.Config{}
	)

	rootCmd := &cobra.Command{
		Use:           "groupledger",
		Short:         "Shared expense ledger server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			*cfg = *loaded
			logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_PATH"),
		"YAML config file path (environment only when empty)")

	rootCmd.AddCommand(
		serveCommand(cfg),
		migrateCommand(cfg),
		tokenCommand(cfg),
		reportCommand(cfg),
	)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
