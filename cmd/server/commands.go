package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmynk/groupledger/internal/auth"
	"github.com/mmynk/groupledger/internal/config"
	"github.com/mmynk/groupledger/internal/service"
	"github.com/mmynk/groupledger/internal/storage/sqlite"
)

// migrateCommand applies database migrations to the latest version.
func migrateCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Migrates the database to the latest version",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sqlite.RunMigrations(cfg.Database.Path); err != nil {
				return err
			}
			slog.Info("Database migrated", "database", cfg.Database.Path)
			return nil
		},
	}
}

// tokenCommand mints a member token signed with the configured secret, for
// local use where no identity provider is running.
func tokenCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generates a JWT for a group member",
		RunE: func(cmd *cobra.Command, args []string) error {
			member, _ := cmd.Flags().GetString("member")
			ttl, _ := cmd.Flags().GetDuration("ttl")
			if ttl <= 0 {
				ttl = cfg.Auth.TokenDuration
			}

			jwtManager, err := auth.NewJWTManager(cfg.Auth.JWTSecret, ttl)
			if err != nil {
				return err
			}
			signed, err := jwtManager.Generate(member)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}

	cmd.Flags().String("member", "", "member identifier as it appears on group rosters")
	cmd.Flags().Duration("ttl", 0, "token TTL (defaults to the configured token duration)")
	_ = cmd.MarkFlagRequired("member")
	return cmd
}

// reportCommand prints a group's balances, settlements and analytics as JSON.
func reportCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "report GROUP_ID",
		Short: "Prints a group's ledger report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := sqlite.New(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			group, err := store.GetGroup(ctx, args[0])
			if err != nil {
				return err
			}
			report, err := service.NewReports(store, service.WithRecentLimit(cfg.Analytics.RecentLimit)).
				ForGroup(ctx, group)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Group  any `json:"group"`
				Report any `json:"report"`
			}{group, report})
		},
	}
}

