package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"notes-api/pkg/server"
)

func newExportCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the configured note collection as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := server.NewContainer(cmd.Context(), state.cfg, state.logger)
			if err != nil {
				return err
			}
			defer container.Close()

			notes, err := container.Repository().Load(cmd.Context())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(notes)
		},
	}
}
