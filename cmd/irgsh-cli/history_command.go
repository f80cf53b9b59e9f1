package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"irgsh/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent submissions made from this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(cmd.Context(), func(store *history.Store) error {
				out := cmd.OutOrStdout()
				if store == nil {
					fmt.Fprintln(out, "Submission history is disabled ([history] enabled = false)")
					return nil
				}
				entries, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					if entries == nil {
						entries = []history.Entry{}
					}
					return writeJSON(cmd, entries)
				}
				if len(entries) == 0 {
					fmt.Fprintln(out, "No submissions recorded")
					return nil
				}
				fmt.Fprintln(out, renderHistoryTable(entries))
				if latest, err := store.LatestPipeline(cmd.Context()); err == nil {
					fmt.Fprintf(out, "Last pipeline: %s (irgsh-cli log without an ID uses it)\n", latest.PipelineID)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of submissions to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func renderHistoryTable(entries []history.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		pipeline := e.PipelineID
		if pipeline == "" {
			pipeline = "-"
		}
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.SubmittedAt.Local().Format(time.DateTime),
			pipeline,
			e.PackageURL,
			yesNo(e.Experimental),
			e.Chief,
		})
	}
	return renderTable(
		[]string{"ID", "Submitted", "Pipeline", "Package", "Experimental", "Chief"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
