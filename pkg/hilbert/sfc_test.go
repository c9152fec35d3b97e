package hilbert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radiant-maxar/geowave/pkg/hilbert"
)

func TestEncodeDecodeRoundTripContainsOriginal(t *testing.T) {
	type tcase struct {
		dims   []hilbert.DimensionSpec
		values []float64
	}

	tcases := map[string]tcase{
		"2d-equal-bits": {
			dims:   []hilbert.DimensionSpec{{Name: "x", Bits: 8}, {Name: "y", Bits: 8}},
			values: []float64{0.31, 0.77},
		},
		"3d-equal-bits": {
			dims: []hilbert.DimensionSpec{
				{Name: "x", Bits: 6}, {Name: "y", Bits: 6}, {Name: "z", Bits: 6},
			},
			values: []float64{0.1, 0.5, 0.9},
		},
		"2d-unequal-bits": {
			dims:   []hilbert.DimensionSpec{{Name: "x", Bits: 10}, {Name: "t", Bits: 4}},
			values: []float64{0.63, 0.2},
		},
	}

	for name, tc := range tcases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			sfc, err := hilbert.NewSFC(tc.dims)
			require.NoError(t, err)

			key, err := sfc.Encode(tc.values)
			require.NoError(t, err)

			ranges, err := sfc.Decode(key)
			require.NoError(t, err)
			require.Len(t, ranges, len(tc.values))

			for i, v := range tc.values {
				assert.GreaterOrEqualf(t, v, ranges[i][0], "dim %d: value below decoded cell min", i)
				assert.LessOrEqualf(t, v, ranges[i][1], "dim %d: value above decoded cell max", i)
			}
		})
	}
}

func TestEncodeOrderingLocality(t *testing.T) {
	coarse, err := hilbert.NewSFC([]hilbert.DimensionSpec{{Name: "x", Bits: 2}, {Name: "y", Bits: 2}})
	require.NoError(t, err)

	coarseKey, err := coarse.Encode([]float64{0.05, 0.05})
	require.NoError(t, err)

	// A box fully containing the encoded point's own cell must produce a
	// decomposition that contains coarseKey within some range.
	decomp, err := coarse.DecomposeRange([]float64{0, 0}, []float64{1, 1}, true, 0)
	require.NoError(t, err)
	require.NotEmpty(t, decomp.Ranges)

	found := false
	for _, r := range decomp.Ranges {
		if string(r.Start) <= string(coarseKey) && string(coarseKey) <= string(r.End) {
			found = true
			break
		}
	}
	assert.True(t, found)
}

func TestDecomposeRangeQueryCompleteness(t *testing.T) {
	dims := []hilbert.DimensionSpec{{Name: "x", Bits: 5}, {Name: "y", Bits: 5}}
	sfc, err := hilbert.NewSFC(dims)
	require.NoError(t, err)

	v := []float64{0.4, 0.6}
	key, err := sfc.Encode(v)
	require.NoError(t, err)

	decomp, err := sfc.DecomposeRange([]float64{0.3, 0.5}, []float64{0.5, 0.7}, false, 0)
	require.NoError(t, err)
	require.NotEmpty(t, decomp.Ranges)

	found := false
	for _, r := range decomp.Ranges {
		if string(r.Start) <= string(key) && string(key) <= string(r.End) {
			found = true
			break
		}
	}
	assert.True(t, found, "encode(v) must fall within some range produced by DecomposeRange for a box containing v")
}

func TestDecomposeRangeCardinalityCap(t *testing.T) {
	dims := []hilbert.DimensionSpec{{Name: "x", Bits: 6}, {Name: "y", Bits: 6}}
	sfc, err := hilbert.NewSFC(dims)
	require.NoError(t, err)

	hilbert.ResetDecompositionCache()
	decomp, err := sfc.DecomposeRange([]float64{0, 0}, []float64{1, 1}, true, 4)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(decomp.Ranges), 4)
}

func TestDecomposeRangeCacheDeterminism(t *testing.T) {
	dims := []hilbert.DimensionSpec{{Name: "x", Bits: 5}, {Name: "y", Bits: 5}}
	sfc, err := hilbert.NewSFC(dims)
	require.NoError(t, err)

	hilbert.ResetDecompositionCache()
	first, err := sfc.DecomposeRange([]float64{0.2, 0.2}, []float64{0.4, 0.6}, false, 10)
	require.NoError(t, err)

	second, err := sfc.DecomposeRange([]float64{0.2, 0.2}, []float64{0.4, 0.6}, false, 10)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBinaryRoundTrip(t *testing.T) {
	dims := []hilbert.DimensionSpec{{Name: "longitude", Bits: 20}, {Name: "latitude", Bits: 20}}
	sfc, err := hilbert.NewSFC(dims)
	require.NoError(t, err)

	restored, err := hilbert.FromBinary(sfc.ToBinary())
	require.NoError(t, err)

	assert.Equal(t, sfc.Dimensions(), restored.Dimensions())
	assert.Equal(t, sfc.Identity(), restored.Identity())
}

func TestFromBinaryRejectsTruncatedInput(t *testing.T) {
	_, err := hilbert.FromBinary([]byte{0x02, 0xFF})
	assert.Error(t, err)
}
