package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"irgsh/internal/chief"
	"irgsh/internal/logging"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "watch <PIPELINE_ID>",
		Short:       "Follow a pipeline until it finishes",
		Args:        cobra.ExactArgs(1),
		Annotations: requiresChief(),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipelineID := args[0]
			return ctx.withChief(func(_ string, client chief.Client) error {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				fmt.Fprintf(out, "Watching pipeline %s ...\n", pipelineID)

				return client.Watch(cmd.Context(), pipelineID, func(status chief.PipelineStatus) error {
					ctx.loggerValue().Debug("pipeline state changed",
						logging.String(logging.FieldPipelineID, status.PipelineID),
						logging.String("state", status.State),
					)
					_, err := fmt.Fprintln(out, renderPipelineStatus(status, colorize))
					return err
				})
			})
		},
	}
}
