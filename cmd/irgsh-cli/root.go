package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"irgsh/internal/chief"
	"irgsh/internal/config"
)

const helpHint = "Run 'irgsh-cli --help' for usage."

type rootOption func(*commandContext)

// withHome overrides the home directory provider.
func withHome(home config.HomeProvider) rootOption {
	return func(c *commandContext) { c.home = home }
}

// withHTTPClient overrides the HTTP client used by the chief transport.
func withHTTPClient(client chief.HTTPDoer) rootOption {
	return func(c *commandContext) { c.httpClient = client }
}

func newRootCommand(opts ...rootOption) *cobra.Command {
	var verbose bool

	ctx := newCommandContext(&verbose)
	for _, opt := range opts {
		opt(ctx)
	}

	rootCmd := &cobra.Command{
		Use:           "irgsh-cli",
		Short:         "Command-line client for the irgsh build orchestrator",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// The bare root only prints a hint and must work in any state.
			if !cmd.HasParent() || hasAnnotation(cmd, annotationSkipConfig) {
				return nil
			}
			if _, err := ctx.ensureSettings(); err != nil {
				return err
			}
			if hasAnnotation(cmd, annotationRequiresChief) {
				if _, err := ctx.chiefAddress(); err != nil {
					return err
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) > 0 {
				fmt.Fprintf(out, "Unknown command %q.\n", args[0])
			}
			fmt.Fprintln(out, helpHint)
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")

	rootCmd.AddCommand(newInitCommand(ctx))
	rootCmd.AddCommand(newSubmitCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newWatchCommand(ctx))
	rootCmd.AddCommand(newLogCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
