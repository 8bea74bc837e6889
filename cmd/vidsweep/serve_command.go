package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"vidsweep/internal/api"
	"vidsweep/internal/httpapi"
	"vidsweep/internal/logging"
	"vidsweep/internal/schedule"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var (
		bind       string
		noSchedule bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and run scheduled scans",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if bind == "" {
				bind = cfg.API.Bind
			}
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				server := httpapi.New(bind, cfg.API.Token, svc, logging.NewComponentLogger(logger, "api"))
				if err := server.Start(c); err != nil {
					return err
				}
				defer server.Stop()
				fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", server.Addr())

				if !noSchedule {
					scheduler := schedule.New(svc, logger)
					scheduler.Start(c)
					defer scheduler.Stop()
				}

				<-c.Done()
				logger.Info("vidsweep shutting down")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "Override the configured API bind address")
	cmd.Flags().BoolVar(&noSchedule, "no-schedule", false, "Serve the API without running scheduled scans")
	return cmd
}
