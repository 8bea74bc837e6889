package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"vidsweep/internal/api"
	"vidsweep/internal/settings"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the persisted scan settings",
	}
	settingsCmd.AddCommand(newSettingsShowCommand(ctx))
	settingsCmd.AddCommand(newSettingsSetCommand(ctx))
	settingsCmd.AddCommand(newSettingsResetCommand(ctx))
	return settingsCmd
}

func newSettingsShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective scan settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				current, err := svc.Settings(c)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, current)
				}
				writeSettings(cmd.OutOrStdout(), current)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print settings as JSON")
	return cmd
}

func newSettingsSetCommand(ctx *commandContext) *cobra.Command {
	var (
		batchSize  int
		timeout    int
		codes      []int
		autoScan   bool
		frequency  string
		logEnabled bool
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Persist new scan settings",
		Long: "Persist scan settings. Only flags that are passed change; everything else\n" +
			"keeps its current value. Values outside the accepted ranges are rejected.",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var overrides settings.Overrides
			if flags.Changed("batch-size") {
				overrides.BatchSize = &batchSize
			}
			if flags.Changed("http-timeout") {
				overrides.HTTPTimeoutSeconds = &timeout
			}
			if flags.Changed("error-codes") {
				overrides.BrokenStatusCodes = codes
			}
			if flags.Changed("auto-scan") {
				overrides.AutoScanEnabled = &autoScan
			}
			if flags.Changed("frequency") {
				overrides.Frequency = &frequency
			}
			if flags.Changed("log-enabled") {
				overrides.LoggingEnabled = &logEnabled
			}
			if overrides.IsZero() {
				return fmt.Errorf("no settings given; see `vidsweep settings set --help`")
			}
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				updated, err := svc.UpdateSettings(c, overrides)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "Settings saved")
				writeSettings(out, updated)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, fmt.Sprintf("Videos per batch (%d-%d)", settings.MinBatchSize, settings.MaxBatchSize))
	cmd.Flags().IntVar(&timeout, "http-timeout", 0, fmt.Sprintf("Probe timeout in seconds (%d-%d)", settings.MinHTTPTimeout, settings.MaxHTTPTimeout))
	cmd.Flags().IntSliceVar(&codes, "error-codes", nil, "Status codes treated as broken, comma separated")
	cmd.Flags().BoolVar(&autoScan, "auto-scan", true, "Enable scheduled scans")
	cmd.Flags().StringVar(&frequency, "frequency", "", "Scheduled scan frequency: hourly, twicedaily, daily or weekly")
	cmd.Flags().BoolVar(&logEnabled, "log-enabled", true, "Log per-record scan activity")
	return cmd
}

func newSettingsResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Replace persisted settings with the configuration file values",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				defaults := cfg.ScanDefaults()
				if err := svc.SaveSettings(c, defaults); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "Settings reset")
				writeSettings(out, defaults)
				return nil
			})
		},
	}
}
