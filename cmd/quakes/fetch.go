package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/quake-analytics-service/internal/adapter/usgs"
	"github.com/couchcryptid/quake-analytics-service/internal/config"
	"github.com/couchcryptid/quake-analytics-service/internal/domain"
	"github.com/couchcryptid/quake-analytics-service/internal/observability"
	"github.com/couchcryptid/quake-analytics-service/internal/pipeline"
	"github.com/couchcryptid/quake-analytics-service/internal/render"
)

type fetchOptions struct {
	minMagnitude float64
	limit        int
	asJSON       bool
}

func newFetchCommand() *cobra.Command {
	var opts fetchOptions

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch recent events once and print them.",
		Long: `fetch runs a single refresh. Diagnostics go to stderr; the result goes
to stdout as a summary and table, or as the full snapshot with --json.
A failed fetch is not an error: it prints the diagnostic and an empty table.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			filter := cfg.DefaultFilter()
			if cmd.Flags().Changed("min-magnitude") {
				filter.MinMagnitude = opts.minMagnitude
			}
			if cmd.Flags().Changed("limit") {
				filter.Limit = opts.limit
			}
			if err := filter.Validate(); err != nil {
				return err
			}

			logger := observability.NewCommandLogger(cfg, cmd.ErrOrStderr())
			metrics := observability.NewMetrics()

			client := usgs.NewClient(cfg.CatalogURL, cfg.CatalogTimeout)
			dash := pipeline.New(usgs.NewFetcher(client, logger, metrics), logger, metrics, cfg.HistogramBins)

			snap := dash.Refresh(cmd.Context(), filter)
			return printSnapshot(cmd.OutOrStdout(), cmd.ErrOrStderr(), snap, opts.asJSON)
		},
	}

	cmd.Flags().Float64Var(&opts.minMagnitude, "min-magnitude", 0,
		fmt.Sprintf("minimum magnitude, %g to %g (default from DEFAULT_MIN_MAGNITUDE)", domain.MinMagnitudeFloor, domain.MinMagnitudeCeiling))
	cmd.Flags().IntVar(&opts.limit, "limit", 0,
		fmt.Sprintf("number of events, one of %v (default from DEFAULT_LIMIT)", domain.AllowedLimits()))
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the full snapshot as JSON")

	return cmd
}

func printSnapshot(stdout, stderr io.Writer, snap pipeline.Snapshot, asJSON bool) error {
	for _, d := range snap.Diagnostics {
		fmt.Fprintf(stderr, "%s: %s\n", d.Kind, d.Message)
	}

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	if err := render.Summary(stdout, snap.Summary); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(stdout); err != nil {
		return err
	}
	return render.Table(stdout, snap.Events)
}
