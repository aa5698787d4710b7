package main

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"notes-api/internal/adapters/storage"
	"notes-api/internal/database"
	"notes-api/internal/migration"
	"notes-api/internal/repositories/sqlite"
)

func newImportCmd(state *cliState) *cobra.Command {
	var skipValidate bool

	importCmd := &cobra.Command{
		Use:   "import <notes.json>",
		Short: "Copy a notes.json collection into the sqlite store",
		Long: `Replace the sqlite collection with the notes stored in a JSON file.
The file is backed up next to itself before it is read.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			files, err := storage.NewLocalFileStorage(filepath.Dir(source))
			if err != nil {
				return err
			}
			defer files.Close()

			cm := database.NewConnectionManager(state.cfg.Database.ToConnectionConfig(state.logger))
			if err := cm.Connect(cmd.Context()); err != nil {
				return err
			}
			defer cm.Close()

			migrator := migration.NewJSONMigrator(files, filepath.Base(source), sqlite.NewNoteStore(cm.GetDB(), state.logger), state.logger)

			result, err := migrator.MigrateFromJSON(cmd.Context())
			if err != nil {
				return err
			}

			for _, warning := range result.Warnings {
				state.logger.Warn(warning)
			}

			if !skipValidate {
				if err := migrator.ValidateMigration(cmd.Context()); err != nil {
					return fmt.Errorf("post-import validation failed: %w", err)
				}
			}

			state.logger.WithFields(logrus.Fields{
				"notes":   result.NotesProcessed,
				"backup":  result.BackupKey,
				"db_path": cm.Path(),
			}).Info("Import finished")
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d notes into %s\n", result.NotesProcessed, cm.Path())
			return nil
		},
	}

	importCmd.Flags().BoolVar(&skipValidate, "skip-validate", false, "Do not compare the stores after importing")
	return importCmd
}
