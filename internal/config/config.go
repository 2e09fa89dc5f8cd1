package config

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/couchcryptid/quake-analytics-service/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	CatalogURL     string
	CatalogTimeout time.Duration

	// Filter applied when a request does not specify one.
	DefaultMinMagnitude float64
	DefaultLimit        int

	HistogramBins int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

const (
	defaultCatalogURL = "https://earthquake.usgs.gov/fdsnws/event/1/query"
	maxHistogramBins  = 200
)

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	catalogTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("CATALOG_TIMEOUT", "10s"))
	if err != nil || catalogTimeout <= 0 {
		return nil, errors.New("invalid CATALOG_TIMEOUT")
	}

	catalogURL := sharedcfg.EnvOrDefault("CATALOG_URL", defaultCatalogURL)
	if err := validateURL(catalogURL); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_URL: %w", err)
	}

	minMagnitude, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("DEFAULT_MIN_MAGNITUDE", "2.5"), 64)
	if err != nil || math.IsNaN(minMagnitude) || minMagnitude < domain.MinMagnitudeFloor || minMagnitude > domain.MinMagnitudeCeiling {
		return nil, fmt.Errorf("invalid DEFAULT_MIN_MAGNITUDE: must be between %g and %g", domain.MinMagnitudeFloor, domain.MinMagnitudeCeiling)
	}

	limit, err := strconv.Atoi(sharedcfg.EnvOrDefault("DEFAULT_LIMIT", "100"))
	if err != nil || !slices.Contains(domain.AllowedLimits(), limit) {
		return nil, fmt.Errorf("invalid DEFAULT_LIMIT: must be one of %v", domain.AllowedLimits())
	}

	bins, err := strconv.Atoi(sharedcfg.EnvOrDefault("HISTOGRAM_BINS", "25"))
	if err != nil || bins < 1 || bins > maxHistogramBins {
		return nil, fmt.Errorf("invalid HISTOGRAM_BINS: must be between 1 and %d", maxHistogramBins)
	}

	return &Config{
		CatalogURL:          catalogURL,
		CatalogTimeout:      catalogTimeout,
		DefaultMinMagnitude: minMagnitude,
		DefaultLimit:        limit,
		HistogramBins:       bins,
		HTTPAddr:            sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:            sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:     shutdownTimeout,
	}, nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("scheme must be http or https")
	}
	if u.Host == "" {
		return errors.New("host is required")
	}
	return nil
}

// DefaultFilter returns the filter used when a caller supplies none.
func (c *Config) DefaultFilter() domain.QueryFilter {
	return domain.QueryFilter{MinMagnitude: c.DefaultMinMagnitude, Limit: c.DefaultLimit}
}
