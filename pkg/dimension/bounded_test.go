package dimension_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radiant-maxar/geowave/pkg/dimension"
)

func TestBoundedNormalizeSinglePoint(t *testing.T) {
	type tcase struct {
		min, max float64
		v        float64
	}

	tcases := map[string]tcase{
		"midpoint":  {min: -180, max: 180, v: 45},
		"lowerEdge": {min: -90, max: 90, v: -90},
		"upperEdge": {min: -90, max: 90, v: 90},
	}

	for name, tc := range tcases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			d, err := dimension.NewBounded("x", tc.min, tc.max)
			require.NoError(t, err)

			ranges, err := d.Normalize(tc.v, tc.v)
			require.NoError(t, err)
			require.Len(t, ranges, 1, "a single value must normalize to exactly one bin")
			assert.Equal(t, ranges[0].Min, ranges[0].Max, "a single value's bin must have normMin == normMax")
		})
	}
}

func TestBoundedNormalizeClampsOutOfRange(t *testing.T) {
	d, err := dimension.NewBounded("lat", -90, 90)
	require.NoError(t, err)

	ranges, err := d.Normalize(-120, 120)
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.Equal(t, 0.0, ranges[0].Min)
	assert.Equal(t, 1.0, ranges[0].Max)
}

func TestNewBoundedRejectsInvertedBounds(t *testing.T) {
	_, err := dimension.NewBounded("lat", 90, -90)
	assert.Error(t, err)
}
