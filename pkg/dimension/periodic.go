package dimension

// Periodic is a bounded dimension that wraps at its edges, e.g. longitude
// wrapping from 180 back to -180. Normalize itself behaves exactly like
// Bounded; GetBinnedRangesPerDimension splits a wrapping query range
// (min > max) into its two non-wrapping halves with SplitOnWrap before
// calling Normalize.
type Periodic struct {
	Bounded
}

// NewPeriodic constructs a periodic dimension over [min, max].
func NewPeriodic(name string, min, max float64) (*Periodic, error) {
	b, err := NewBounded(name, min, max)
	if err != nil {
		return nil, err
	}
	return &Periodic{Bounded: *b}, nil
}

// Wrap reports true: periodic dimensions wrap.
func (d *Periodic) Wrap() bool { return true }

// SplitOnWrap splits a [min, max] query range that crosses the dimension's
// wrap point into one or two non-wrapping sub-ranges. A query that does not
// wrap is returned unchanged as a single-element slice.
func (d *Periodic) SplitOnWrap(min, max float64) [][2]float64 {
	if min <= max {
		return [][2]float64{{min, max}}
	}

	return [][2]float64{
		{min, d.max},
		{d.min, max},
	}
}
