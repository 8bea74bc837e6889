package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vidsweep/internal/api"
	"vidsweep/internal/scan"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Probe every video and remove broken ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				report, err := svc.FullScan(c)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, report)
				}
				out := cmd.OutOrStdout()
				writeReport(out, report, isTerminal(out))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var (
		index  int
		size   int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Process a single page of videos",
		Long: "Process one page of the video catalogue. Pages are zero-based and use the\n" +
			"persisted batch size unless --size is given. Broken videos are removed\n" +
			"immediately; the page result is not saved as the last report.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if index < 0 {
				return errors.New("--index must not be negative")
			}
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				result, err := svc.Batch(c, index, size)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, result)
				}
				out := cmd.OutOrStdout()
				writeBatch(out, result, isTerminal(out))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&index, "index", 0, "Zero-based page index")
	cmd.Flags().IntVar(&size, "size", 0, "Page size (defaults to the persisted batch size)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the batch result as JSON")
	return cmd
}

func newBatchesCommand(ctx *commandContext) *cobra.Command {
	var (
		size   int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "batches",
		Short: "Walk the catalogue page by page and merge the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				out := cmd.OutOrStdout()
				progress := func(result scan.BatchResult) error {
					if !asJSON {
						fmt.Fprintf(out, "Batch %d: processed %d, broken %d\n", result.Index, result.Processed, len(result.Broken))
					}
					return nil
				}
				report, err := svc.AllBatches(c, size, progress)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, report)
				}
				writeReport(out, report, isTerminal(out))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&size, "size", 0, "Page size (defaults to the persisted batch size)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the merged report as JSON")
	return cmd
}

func newReportCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the last persisted scan report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				report, err := svc.LastReport(c)
				if errors.Is(err, scan.ErrNoReport) {
					fmt.Fprintln(cmd.OutOrStdout(), "No scan has completed yet")
					return nil
				}
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, report)
				}
				out := cmd.OutOrStdout()
				writeReport(out, report, isTerminal(out))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}
