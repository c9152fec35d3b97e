package dimension

import (
	"fmt"

	"github.com/samber/lo"
)

// Combination is one entry of the Cartesian product of per-dimension bins:
// a concatenated bin-id label plus the normalized [0, 1] sub-range each
// dimension contributes.
type Combination struct {
	Label []byte
	Mins  []float64
	Maxs  []float64
}

// wrapSplitter is implemented by periodic dimensions (*Periodic) that can
// break a query range crossing their wrap point into non-wrapping halves
// before normalization. Dimensions that don't wrap never need it.
type wrapSplitter interface {
	SplitOnWrap(min, max float64) [][2]float64
}

// GetBinnedRangesPerDimension normalizes a query box through each
// dimension independently, without combining them into the Cartesian
// product GetBinnedRanges returns. A periodic dimension whose query
// range crosses its wrap point (min > max, e.g. a longitude box
// straddling the antimeridian) is split into its non-wrapping halves
// first, each normalized separately and both kept.
func GetBinnedRangesPerDimension(dims []Definition, min, max []float64) ([][]BinRange, error) {
	if len(dims) != len(min) || len(dims) != len(max) {
		return nil, fmt.Errorf("dimension count mismatch: %d definitions, %d min values, %d max values",
			len(dims), len(min), len(max))
	}

	perDim := make([][]BinRange, len(dims))
	for i, d := range dims {
		dimMin, dimMax := min[i], max[i]

		if d.Wrap() && dimMin > dimMax {
			if splitter, ok := d.(wrapSplitter); ok {
				var ranges []BinRange
				for _, seg := range splitter.SplitOnWrap(dimMin, dimMax) {
					segRanges, err := d.Normalize(seg[0], seg[1])
					if err != nil {
						return nil, err
					}
					ranges = append(ranges, segRanges...)
				}
				perDim[i] = ranges
				continue
			}
		}

		ranges, err := d.Normalize(dimMin, dimMax)
		if err != nil {
			return nil, err
		}
		perDim[i] = ranges
	}

	return perDim, nil
}

// GetBinnedRanges returns the Cartesian product of every dimension's
// per-bucket bin ranges for a query box.
func GetBinnedRanges(dims []Definition, min, max []float64) ([]Combination, error) {
	perDim, err := GetBinnedRangesPerDimension(dims, min, max)
	if err != nil {
		return nil, err
	}
	return cartesianProduct(perDim), nil
}

// ApplyBins returns the Cartesian product of bins a single data point
// falls into; typically one element, more if the point lies exactly on a
// bucket boundary shared by two labeled buckets.
func ApplyBins(dims []Definition, values []float64) ([]Combination, error) {
	return GetBinnedRanges(dims, values, values)
}

// cartesianProduct folds the per-dimension bin-range lists into the full
// product, one Combination per tuple of bin choices.
func cartesianProduct(perDim [][]BinRange) []Combination {
	acc := []Combination{{}}

	acc = lo.Reduce(perDim, func(acc []Combination, dimRanges []BinRange, _ int) []Combination {
		next := make([]Combination, 0, len(acc)*len(dimRanges))
		for _, c := range acc {
			for _, r := range dimRanges {
				next = append(next, Combination{
					Label: append(append([]byte{}, c.Label...), r.Label...),
					Mins:  append(append([]float64{}, c.Mins...), r.Min),
					Maxs:  append(append([]float64{}, c.Maxs...), r.Max),
				})
			}
		}
		return next
	}, acc)

	return acc
}
