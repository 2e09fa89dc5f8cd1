package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quakes",
		Short: "Recent earthquakes from the USGS catalog, normalized and summarized.",
		Long: `quakes queries the USGS FDSN event service for the most recent
earthquakes above a minimum magnitude, flattens them into an eight-column
event table, and computes the dashboard summary, statistics, histogram,
timeline, and map markers.

Configuration comes from environment variables (CATALOG_URL, CATALOG_TIMEOUT,
DEFAULT_MIN_MAGNITUDE, DEFAULT_LIMIT, HISTOGRAM_BINS, HTTP_ADDR, LOG_LEVEL,
LOG_FORMAT, SHUTDOWN_TIMEOUT).`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newFetchCommand())
	cmd.AddCommand(newValidateCommand())

	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
