package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueryFilter(t *testing.T) {
	for _, limit := range AllowedLimits() {
		f, err := NewQueryFilter(2.5, limit)
		require.NoError(t, err)
		assert.Equal(t, QueryFilter{MinMagnitude: 2.5, Limit: limit}, f)
	}

	_, err := NewQueryFilter(MinMagnitudeFloor, 50)
	require.NoError(t, err)
	_, err = NewQueryFilter(MinMagnitudeCeiling, 500)
	require.NoError(t, err)
}

func TestNewQueryFilter_Invalid(t *testing.T) {
	cases := []struct {
		name    string
		mag     float64
		limit   int
		wantErr error
	}{
		{name: "negative magnitude", mag: -0.1, limit: 100, wantErr: ErrInvalidMinMagnitude},
		{name: "magnitude above ceiling", mag: 8.1, limit: 100, wantErr: ErrInvalidMinMagnitude},
		{name: "NaN magnitude", mag: math.NaN(), limit: 100, wantErr: ErrInvalidMinMagnitude},
		{name: "zero limit", mag: 2.5, limit: 0, wantErr: ErrInvalidLimit},
		{name: "unlisted limit", mag: 2.5, limit: 75, wantErr: ErrInvalidLimit},
		{name: "above max limit", mag: 2.5, limit: 20000, wantErr: ErrInvalidLimit},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewQueryFilter(tc.mag, tc.limit)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
