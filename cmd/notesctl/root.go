package main

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"notes-api/internal/config"
	"notes-api/internal/logging"
)

// cliState is shared by all subcommands of one invocation
type cliState struct {
	verbose bool
	cfg     *config.Config
	logger  *logrus.Logger
	closer  io.Closer
}

func newRootCmd() *cobra.Command {
	state := &cliState{}

	rootCmd := &cobra.Command{
		Use:   "notesctl",
		Short: "Operate the notes store",
		Long: `notesctl manages the storage behind the notes API.
It reads the same environment variables as the server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			level := cfg.Log.Level
			if state.verbose {
				level = "debug"
			}

			state.cfg = cfg
			state.logger, state.closer = logging.Setup(logging.LoggerSetupParams{
				LogFileName:   cfg.Log.File,
				LogLevel:      level,
				LogFormatJSON: cfg.Log.Format == "json",
			})
			if cfg.Log.File == "" {
				state.logger.SetOutput(cmd.ErrOrStderr())
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if state.closer != nil {
				return state.closer.Close()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&state.verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(
		newMigrateCmd(state),
		newImportCmd(state),
		newExportCmd(state),
	)

	return rootCmd
}
