package hilbert

import (
	"fmt"
	"math/big"
	"sort"
)

// PointBig is the arbitrary-precision counterpart of Point, used by the
// unbounded backend when the padded curve width (nDims*maxBits) is too
// wide for the uint64 kernel.
type PointBig []*big.Int

// Clone returns a deep copy of pt.
func (pt PointBig) Clone() PointBig {
	c := make(PointBig, len(pt))
	for i, v := range pt {
		c[i] = new(big.Int).Set(v)
	}
	return c
}

// BoundsBig is the arbitrary-precision counterpart of Bounds.
type BoundsBig struct {
	Min PointBig
	Max PointBig
}

// Dimensions returns the number of dimensions in the bounding box.
func (b *BoundsBig) Dimensions() int { return len(b.Min) }

// Contains returns true if b completely overlaps all points in other.
func (b *BoundsBig) Contains(other *BoundsBig) (bool, error) {
	if b.Dimensions() != other.Dimensions() {
		return false, fmt.Errorf("dimensions do not match")
	}

	for d := 0; d < b.Dimensions(); d++ {
		if other.Max[d].Cmp(b.Min[d]) < 0 ||
			other.Min[d].Cmp(b.Max[d]) > 0 ||
			other.Min[d].Cmp(b.Min[d]) < 0 ||
			other.Max[d].Cmp(b.Max[d]) > 0 {
			return false, nil
		}
	}

	return true, nil
}

// Intersects returns true if b touches other at any point.
func (b *BoundsBig) Intersects(other *BoundsBig) (bool, error) {
	if b.Dimensions() != other.Dimensions() {
		return false, fmt.Errorf("dimensions do not match")
	}

	for d := 0; d < b.Dimensions(); d++ {
		if b.Max[d].Cmp(other.Min[d]) < 0 || other.Max[d].Cmp(b.Min[d]) < 0 {
			return false, nil
		}
	}

	return true, nil
}

// IntersecterBig is the arbitrary-precision counterpart of Intersecter.
type IntersecterBig interface {
	Contains(bounds *BoundsBig) (bool, error)
	Intersects(bounds *BoundsBig) (bool, error)
}

// RangeBig is the arbitrary-precision counterpart of Range.
type RangeBig struct {
	MinValue *big.Int
	MaxValue *big.Int
}

// RangesBig is a slice of RangeBig, sortable by MinValue.
type RangesBig []RangeBig

func (r RangesBig) Len() int      { return len(r) }
func (r RangesBig) Swap(i, j int) { r[i], r[j] = r[j], r[i] }
func (r RangesBig) Less(i, j int) bool {
	return r[i].MinValue.Cmp(r[j].MinValue) < 0
}

// joinRangesBig is the arbitrary-precision counterpart of joinRanges.
func joinRangesBig(in RangesBig) RangesBig {
	if len(in) == 0 {
		return in
	}

	sort.Sort(in)
	out := in[:1]

	for i := 0; i < len(in); i++ {
		lo := len(out) - 1
		minMinusOne := new(big.Int).Sub(in[i].MinValue, big1)
		if in[i].MinValue.Sign() == 0 || minMinusOne.Cmp(out[lo].MaxValue) <= 0 {
			if in[i].MaxValue.Cmp(out[lo].MaxValue) > 0 {
				out[lo].MaxValue = in[i].MaxValue
			}
		} else {
			out = append(out, in[i])
		}
	}

	return out
}
