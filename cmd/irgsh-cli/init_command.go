package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"irgsh/internal/logging"
	"irgsh/internal/preflight"
)

func newInitCommand(ctx *commandContext) *cobra.Command {
	var chiefURL string

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Store the chief address used by every other command",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSkipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(chiefURL) == "" {
				return errors.New("--chief must not be blank")
			}
			store := ctx.configStore()
			dir, err := store.Dir()
			if err != nil {
				return err
			}
			if check := preflight.CheckStateDir(dir); !check.Passed {
				return errors.New("config directory is not writable: " + check.Detail)
			}

			path, err := store.SaveChiefAddress(chiefURL)
			if err != nil {
				return err
			}
			ctx.loggerValue().Debug("chief address stored",
				logging.String("path", path),
				logging.String(logging.FieldChief, chiefURL),
			)

			fmt.Fprintf(cmd.OutOrStdout(), "irgsh-cli is configured to use chief %s\n", chiefURL)
			return nil
		},
	}

	cmd.Flags().StringVar(&chiefURL, "chief", "", "Chief address, e.g. https://irgsh.example.org")
	_ = cmd.MarkFlagRequired("chief")
	return cmd
}
