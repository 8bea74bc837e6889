package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"vidsweep/internal/api"
	"vidsweep/internal/content"
)

func newCountCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count video attachments and batch pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				count, err := svc.CountVideos(c)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, count)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Videos: %d (%d pages of %d)\n", count.Total, count.Pages, count.BatchSize)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the count as JSON")
	return cmd
}

func newRestoreCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "restore ID",
		Short: "Take a quarantined video out of the trash",
		Long: "Restore a video attachment that a scan moved to the trash. The parent\n" +
			"relation and any removed embeds are not restored.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid attachment id %q", args[0])
			}
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				if err := svc.Restore(c, id); err != nil {
					if errors.Is(err, content.ErrNotFound) {
						return fmt.Errorf("attachment %d not found", id)
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Restored attachment %d\n", id)
				return nil
			})
		},
	}
}
