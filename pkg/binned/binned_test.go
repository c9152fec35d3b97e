package binned_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radiant-maxar/geowave/pkg/binned"
	"github.com/radiant-maxar/geowave/pkg/hilbert"
)

func TestSingleInsertionIDWhenPointFitsOneCell(t *testing.T) {
	sfc, err := hilbert.NewSFC([]hilbert.DimensionSpec{{Name: "x", Bits: 4}, {Name: "y", Bits: 4}})
	require.NoError(t, err)

	entry, ok, err := binned.SingleInsertionID(sfc, []byte{0x01}, []float64{0.5, 0.5}, []float64{0.5, 0.5})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte{0x01}, entry.BinLabel)
}

func TestSingleInsertionIDFailsWhenSpanningMultipleCells(t *testing.T) {
	sfc, err := hilbert.NewSFC([]hilbert.DimensionSpec{{Name: "x", Bits: 4}, {Name: "y", Bits: 4}})
	require.NoError(t, err)

	_, ok, err := binned.SingleInsertionID(sfc, []byte{0x01}, []float64{0, 0}, []float64{1, 1})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecomposeForEntryCoversAllTouchedCells(t *testing.T) {
	sfc, err := hilbert.NewSFC([]hilbert.DimensionSpec{{Name: "x", Bits: 3}, {Name: "y", Bits: 3}})
	require.NoError(t, err)

	entries, err := binned.DecomposeForEntry(sfc, []byte{0xAB}, []float64{0, 0}, []float64{0.5, 0.5})
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
	// At 3 bits, 0.5 quantizes to cell 4, so cells 0..4 in each dimension
	// are touched: 5 * 5 = 25 sort keys.
	assert.Len(t, entries, 25)

	for _, e := range entries {
		assert.Equal(t, []byte{0xAB}, e.BinLabel)
		full := e.FullKey()
		assert.Equal(t, byte(0xAB), full[0], "bin byte must sort before SFC bytes in the full key")
	}
}

func TestDecomposeForQueryPreservesBinLabel(t *testing.T) {
	sfc, err := hilbert.NewSFC([]hilbert.DimensionSpec{{Name: "x", Bits: 5}, {Name: "y", Bits: 5}})
	require.NoError(t, err)

	ranges, err := binned.DecomposeForQuery(sfc, []byte{0x07}, []float64{0.2, 0.2}, []float64{0.4, 0.4}, true, 0)
	require.NoError(t, err)
	require.NotEmpty(t, ranges)
	for _, r := range ranges {
		assert.Equal(t, []byte{0x07}, r.BinLabel)
		assert.LessOrEqual(t, string(r.Start), string(r.End))
	}
}
