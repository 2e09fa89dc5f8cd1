package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/quake-analytics-service/internal/adapter/usgs"
	"github.com/couchcryptid/quake-analytics-service/internal/analytics"
	"github.com/couchcryptid/quake-analytics-service/internal/domain"
)

var errValidationFailed = errors.New("validation failed")

func newValidateCommand() *cobra.Command {
	var required []string

	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check saved catalog responses decode and normalize cleanly.",
		Long: `validate runs saved GeoJSON catalog responses through the same decoding
and normalization as a live fetch, then prints per-column coverage. A file
fails when it would produce a fetch diagnostic, or when a column named by
--require has absent values.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, col := range required {
				if !slices.Contains(domain.ColumnNames(), col) {
					return fmt.Errorf("unknown column %q, want one of %v", col, domain.ColumnNames())
				}
			}

			failed := 0
			for _, path := range args {
				ok, err := validateFile(cmd.OutOrStdout(), path, required)
				if err != nil {
					return err
				}
				if !ok {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d files", errValidationFailed, failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&required, "require", nil, "columns that must be present in every record")

	return cmd
}

// validateFile reports on one file. The error is only for files that cannot
// be read; bad content is reported and returns ok=false.
func validateFile(w io.Writer, path string, required []string) (bool, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	payload, err := usgs.DecodePayload(body)
	if err != nil {
		diag := domain.DiagnosticFor(err)
		fmt.Fprintf(w, "FAIL %s: %s: %s\n", path, diag.Kind, diag.Message)
		return false, nil
	}

	table := domain.Normalize(&payload)
	coverage := analytics.Coverage(table)

	ok := true
	for _, c := range coverage {
		if c.Absent > 0 && slices.Contains(required, c.Column) {
			ok = false
		}
	}

	status := "OK  "
	if !ok {
		status = "FAIL"
	}
	fmt.Fprintf(w, "%s %s: %d records\n", status, path, table.Len())
	for _, c := range coverage {
		fmt.Fprintf(w, "     %-14s %5d present %5d absent\n", c.Column, c.Present, c.Absent)
	}
	return ok, nil
}
