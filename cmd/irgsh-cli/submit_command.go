package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"irgsh/internal/chief"
	"irgsh/internal/history"
	"irgsh/internal/logging"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var packageURL string
	var sourceURL string
	var packageBranch string
	var sourceBranch string
	var component string
	var experimental bool

	cmd := &cobra.Command{
		Use:         "submit",
		Short:       "Submit a package build to the chief",
		Args:        cobra.NoArgs,
		Annotations: requiresChief(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withChief(func(address string, client chief.Client) error {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Chief:   %s\n", address)
				fmt.Fprintf(out, "Package: %s\n", packageURL)
				if strings.TrimSpace(sourceURL) != "" {
					fmt.Fprintf(out, "Source:  %s\n", sourceURL)
				}

				sub := chief.Submission{
					PackageURL:    packageURL,
					SourceURL:     sourceURL,
					PackageBranch: packageBranch,
					SourceBranch:  sourceBranch,
					Component:     component,
					Experimental:  experimental,
					RequestID:     uuid.NewString(),
				}
				receipt, err := client.Submit(cmd.Context(), sub)
				if err != nil {
					return err
				}

				if receipt.PipelineID != "" {
					fmt.Fprintf(out, "Pipeline: %s\n", receipt.PipelineID)
				} else {
					fmt.Fprintf(out, "Submission %s not sent (transport: %s)\n", sub.RequestID, ctx.transport())
				}

				recordSubmission(cmd, ctx, address, sub, receipt)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&packageURL, "package", "", "Package (debian directory) repository URL")
	cmd.Flags().StringVar(&sourceURL, "source", "", "Upstream source repository URL")
	cmd.Flags().StringVar(&packageBranch, "package-branch", "", "Package repository git branch")
	cmd.Flags().StringVar(&sourceBranch, "source-branch", "", "Source repository git branch")
	cmd.Flags().StringVar(&component, "component", chief.DefaultComponent, "Repository component")
	cmd.Flags().BoolVar(&experimental, "experimental", false, "Mark the build as experimental")
	_ = cmd.MarkFlagRequired("package")
	return cmd
}

// recordSubmission appends the submission to local history. Failures are
// logged and never fail the submit itself.
func recordSubmission(cmd *cobra.Command, ctx *commandContext, address string, sub chief.Submission, receipt chief.Receipt) {
	logger := ctx.loggerValue()
	err := ctx.withHistory(cmd.Context(), func(store *history.Store) error {
		if store == nil {
			return nil
		}
		_, err := store.Record(cmd.Context(), history.Entry{
			RequestID:    sub.RequestID,
			PipelineID:   receipt.PipelineID,
			Chief:        address,
			PackageURL:   sub.PackageURL,
			SourceURL:    sub.SourceURL,
			Experimental: sub.Experimental,
		})
		return err
	})
	if err != nil {
		logger.Warn("submission history not updated",
			logging.String(logging.FieldRequestID, sub.RequestID),
			logging.Error(err),
		)
	}
}
