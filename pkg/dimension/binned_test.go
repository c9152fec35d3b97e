package dimension_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radiant-maxar/geowave/pkg/dimension"
)

func epoch(s string) float64 {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return float64(t.Unix())
}

func TestBinnedNormalizeSameYear(t *testing.T) {
	ref := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	d, err := dimension.NewBinned("t", 4, dimension.ByCalendarUnit(ref, dimension.Year))
	require.NoError(t, err)

	a := epoch("1999-03-03T11:01:01Z")
	b := epoch("1999-03-03T11:01:02Z")

	rangesA, err := d.Normalize(a, a)
	require.NoError(t, err)
	rangesB, err := d.Normalize(b, b)
	require.NoError(t, err)

	require.Len(t, rangesA, 1)
	require.Len(t, rangesB, 1)
	assert.Equal(t, rangesA[0].Label, rangesB[0].Label, "same-year points must share a bin label")
	assert.Len(t, rangesA[0].Label, 4)
}

func TestBinnedNormalizeYearBoundaryDiffers(t *testing.T) {
	ref := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	d, err := dimension.NewBinned("t", 4, dimension.ByCalendarUnit(ref, dimension.Year))
	require.NoError(t, err)

	dec31, err := d.Normalize(epoch("1999-12-31T23:59:59Z"), epoch("1999-12-31T23:59:59Z"))
	require.NoError(t, err)
	jan1, err := d.Normalize(epoch("2000-01-01T00:00:01Z"), epoch("2000-01-01T00:00:01Z"))
	require.NoError(t, err)

	assert.NotEqual(t, dec31[0].Label, jan1[0].Label)
}

func TestBinnedNormalizeRangeSpanningTwoYears(t *testing.T) {
	ref := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	d, err := dimension.NewBinned("t", 4, dimension.ByCalendarUnit(ref, dimension.Year))
	require.NoError(t, err)

	ranges, err := d.Normalize(epoch("1999-12-01T00:00:00Z"), epoch("2000-02-01T00:00:00Z"))
	require.NoError(t, err)
	require.Len(t, ranges, 2, "a range spanning a year boundary must yield one bucket per year")
}
