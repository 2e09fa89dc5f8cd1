package domain

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// Bounds of the minimum magnitude slider.
const (
	MinMagnitudeFloor   = 0.0
	MinMagnitudeCeiling = 8.0
)

var (
	ErrInvalidMinMagnitude = errors.New("invalid minimum magnitude")
	ErrInvalidLimit        = errors.New("invalid event limit")
)

// AllowedLimits returns the event counts a query may request.
func AllowedLimits() []int {
	return []int{50, 100, 250, 500}
}

// QueryFilter selects which recent events the catalog returns.
type QueryFilter struct {
	MinMagnitude float64 `json:"min_magnitude"`
	Limit        int     `json:"limit"`
}

// NewQueryFilter builds a validated filter.
func NewQueryFilter(minMagnitude float64, limit int) (QueryFilter, error) {
	f := QueryFilter{MinMagnitude: minMagnitude, Limit: limit}
	if err := f.Validate(); err != nil {
		return QueryFilter{}, err
	}
	return f, nil
}

// Validate checks the magnitude range and the limit against AllowedLimits.
func (f QueryFilter) Validate() error {
	if math.IsNaN(f.MinMagnitude) || f.MinMagnitude < MinMagnitudeFloor || f.MinMagnitude > MinMagnitudeCeiling {
		return fmt.Errorf("%w: %v not in [%g, %g]", ErrInvalidMinMagnitude, f.MinMagnitude, MinMagnitudeFloor, MinMagnitudeCeiling)
	}
	if !slices.Contains(AllowedLimits(), f.Limit) {
		return fmt.Errorf("%w: %d not one of %v", ErrInvalidLimit, f.Limit, AllowedLimits())
	}
	return nil
}
