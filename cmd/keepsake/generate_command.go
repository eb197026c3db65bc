package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"keepsake/internal/assets"
	"keepsake/internal/config"
	"keepsake/internal/generation"
	"keepsake/internal/logging"
	"keepsake/internal/records"
	"keepsake/internal/services/worldlabs"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <record-id>",
		Short: "Submit a record for 3D world generation and wait for the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *records.Store) error {
				record, err := store.GetByID(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("load record: %w", err)
				}
				if record == nil {
					return fmt.Errorf("record %s not found", args[0])
				}

				logger, err := logging.New(logging.Options{
					Level:  cfg.Logging.Level,
					Format: cfg.Logging.Format,
				})
				if err != nil {
					return fmt.Errorf("init logger: %w", err)
				}

				httpClient := &http.Client{
					Timeout: time.Duration(cfg.Gateway.RequestTimeout) * time.Second,
				}
				client := worldlabs.NewClient(cfg.Generation.GatewayURL, httpClient)
				downloader := assets.NewDownloader(nil,
					time.Duration(cfg.Generation.DownloadTimeout)*time.Second)
				generator := generation.NewGenerator(cfg, store, client, downloader, logger)

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Generating world for %s (%s)...\n", record.Name, record.ID)
				if err := generator.Generate(cmd.Context(), record); err != nil {
					return fmt.Errorf("generate: %w", err)
				}
				fmt.Fprintf(out, "Record %s is ready (world %s)\n", record.ID, record.WorldID)
				return nil
			})
		},
	}
}
