package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"irgsh/internal/chief"
	"irgsh/internal/config"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "status <PIPELINE_ID>",
		Short:       "Check the status of a pipeline",
		Args:        cobra.ExactArgs(1),
		Annotations: requiresChief(),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipelineID := args[0]
			return ctx.withChief(func(_ string, client chief.Client) error {
				status, err := client.Status(cmd.Context(), pipelineID)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, status)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Checking the status of %s ...\n", pipelineID)
				fmt.Fprintln(out, renderPipelineStatus(status, shouldColorize(out)))
				if ctx.transport() == config.TransportPlaceholder {
					fmt.Fprintln(out, "Chief not queried (transport: placeholder)")
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
