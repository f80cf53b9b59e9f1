package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"irgsh/internal/chief"
	"irgsh/internal/history"
)

var errNoRecordedPipeline = errors.New("no pipeline ID given and none recorded in history; pass <PIPELINE_ID>")

func newLogCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "log [PIPELINE_ID]",
		Short:       "Print the build and repository logs of a pipeline",
		Long:        "Print the build and repository logs of a pipeline. Without an ID the most recently submitted pipeline is used.",
		Args:        cobra.MaximumNArgs(1),
		Annotations: requiresChief(),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pipelineID string
			if len(args) == 1 {
				pipelineID = args[0]
			} else {
				latest, err := lastPipelineID(cmd, ctx)
				if err != nil {
					return err
				}
				pipelineID = latest
			}
			return ctx.withChief(func(_ string, client chief.Client) error {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Fetching the logs of %s ...\n", pipelineID)

				status, err := client.Status(cmd.Context(), pipelineID)
				if err != nil {
					return err
				}
				if strings.EqualFold(status.State, chief.StateStarted) {
					fmt.Fprintln(out, "The pipeline is not finished yet")
					return nil
				}

				logs, err := client.Logs(cmd.Context(), pipelineID)
				if errors.Is(err, chief.ErrUnsupported) {
					return fmt.Errorf("logs are unavailable with the %s transport; set [chief] transport = \"http\" in settings.toml", ctx.transport())
				}
				if err != nil {
					return err
				}

				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("Build log", colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, strings.TrimRight(logs.Build, "\n"))
				for _, line := range renderSectionHeader("Repository log", colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, strings.TrimRight(logs.Repo, "\n"))
				return nil
			})
		},
	}
}

// lastPipelineID returns the newest pipeline recorded in submission history.
func lastPipelineID(cmd *cobra.Command, ctx *commandContext) (string, error) {
	var pipelineID string
	err := ctx.withHistory(cmd.Context(), func(store *history.Store) error {
		if store == nil {
			return errNoRecordedPipeline
		}
		entry, err := store.LatestPipeline(cmd.Context())
		if errors.Is(err, history.ErrEmpty) {
			return errNoRecordedPipeline
		}
		if err != nil {
			return err
		}
		pipelineID = entry.PipelineID
		return nil
	})
	return pipelineID, err
}
