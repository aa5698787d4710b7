package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"notes-api/internal/database"
)

func newMigrateCmd(state *cliState) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the sqlite schema",
	}

	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrations(cmd, state, func(m *database.MigrationManager) error {
					if err := m.RunMigrations(); err != nil {
						return err
					}
					return m.ValidateSchema()
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrations(cmd, state, func(m *database.MigrationManager) error {
					return m.RollbackMigration()
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrations(cmd, state, func(m *database.MigrationManager) error {
					info, err := m.GetMigrationStatus()
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "version: %d\ndirty: %t\napplied: %t\n", info.Version, info.Dirty, info.Applied)
					return nil
				})
			},
		},
	)

	return migrateCmd
}

// withMigrations connects without auto-migrating and hands fn the
// migration manager
func withMigrations(cmd *cobra.Command, state *cliState, fn func(*database.MigrationManager) error) error {
	connConfig := state.cfg.Database.ToConnectionConfig(state.logger)
	connConfig.AutoMigrate = false

	cm := database.NewConnectionManager(connConfig)
	if err := cm.Connect(cmd.Context()); err != nil {
		return err
	}
	defer cm.Close()

	return fn(cm.GetMigrationManager())
}
