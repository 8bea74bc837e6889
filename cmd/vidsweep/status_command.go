package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vidsweep/internal/api"
	"vidsweep/internal/content"
	"vidsweep/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check directories, the content store and notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			var store content.Store
			opened, openErr := api.OpenStore(cmd.Context(), cfg)
			if openErr == nil {
				defer opened.Close()
				store = opened
			}

			results := preflight.RunAll(cmd.Context(), cfg, store, openErr)
			if asJSON {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				color := isTerminal(out)
				for _, r := range results {
					kind := statusOK
					if !r.Passed {
						kind = statusError
					}
					fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, color))
				}
			}
			if !preflight.Passed(results) {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print check results as JSON")
	return cmd
}
