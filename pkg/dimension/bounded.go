package dimension

import "fmt"

// Bounded is a finite, non-periodic numeric axis, e.g. latitude.
//
// Ported from the shape of airmap/sfc's Bounds/Box validation style:
// invalid construction arguments are reported as an error at construction
// time rather than discovered later during encode/decode.
type Bounded struct {
	name     string
	min, max float64
}

// NewBounded constructs a bounded dimension over [min, max].
func NewBounded(name string, min, max float64) (*Bounded, error) {
	if err := validateBounds(name, min, max); err != nil {
		return nil, err
	}
	return &Bounded{name: name, min: min, max: max}, nil
}

// Name returns the dimension's name.
func (d *Bounded) Name() string { return d.name }

// Min returns the dimension's lower bound.
func (d *Bounded) Min() float64 { return d.min }

// Max returns the dimension's upper bound.
func (d *Bounded) Max() float64 { return d.max }

// Wrap reports false: bounded dimensions do not wrap.
func (d *Bounded) Wrap() bool { return false }

// FixedBinIDSize is 0: bounded dimensions never contribute label bytes.
func (d *Bounded) FixedBinIDSize() int { return 0 }

// Normalize clamps [min, max] into the dimension's bounds and maps it
// affinely into [0, 1]. Always returns exactly one BinRange.
func (d *Bounded) Normalize(min, max float64) ([]BinRange, error) {
	if min > max {
		return nil, fmt.Errorf("dimension %q: min (%v) is greater than max (%v)", d.name, min, max)
	}

	lo := clamp(min, d.min, d.max)
	hi := clamp(max, d.min, d.max)
	span := d.max - d.min

	return []BinRange{{
		Label: nil,
		Min:   (lo - d.min) / span,
		Max:   (hi - d.min) / span,
	}}, nil
}
