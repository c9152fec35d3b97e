package hilbert

import "math/big"

// cellIteratorBig is the arbitrary-precision counterpart of
// cellIterator64.
func cellIteratorBig(nDims, order uint, tier uint, mask []*big.Int) func() bool {
	cell := mask
	tierBit := new(big.Int).Lsh(big1, order-tier-1)
	tierBitMinus1 := new(big.Int).Sub(tierBit, big1)
	notLowMask := new(big.Int).Not(tierBitMinus1)
	first := true

	return func() bool {
		if first {
			first = false
			return true
		}

		dim := 0
		for new(big.Int).And(cell[dim], tierBit).Sign() != 0 {
			cell[dim].Xor(cell[dim], tierBit)
			dim++
			if dim == int(nDims) {
				for i := 0; i < int(nDims); i++ {
					cell[i].And(cell[i], notLowMask)
				}
				return false
			}
		}

		cell[dim].Xor(cell[dim], tierBit)

		return true
	}
}

type decomposeCallBig struct {
	minTier, maxTier uint
	bounds           BoundsBig
	region           IntersecterBig
}

// decomposeRangesBig is the arbitrary-precision counterpart of
// decomposeRanges64, used whenever nDims*order exceeds 62 bits (see
// NewSFC's usePrimitiveRange).
func decomposeRangesBig(nDims, order uint, minTier, maxTier uint, region IntersecterBig) (RangesBig, error) {
	cell := make(PointBig, nDims)
	for i := range cell {
		cell[i] = big.NewInt(0)
	}
	it := cellIteratorBig(nDims, order, 0, cell)

	dc := decomposeCallBig{
		bounds:  BoundsBig{Min: cell.Clone(), Max: cell.Clone()},
		minTier: minTier,
		maxTier: maxTier,
		region:  region,
	}

	result := RangesBig{}

	for it() {
		if err := decomposeRangesRecBig(nDims, order, 0, cell.Clone(), &dc, &result); err != nil {
			return RangesBig{}, err
		}
	}

	return joinRangesBig(result), nil
}

func decomposeRangesRecBig(nDims, order, tier uint, cell PointBig, dc *decomposeCallBig, result *RangesBig) error {
	tierBit := new(big.Int).Lsh(big1, order-tier-1)
	upperBits := new(big.Int).Sub(tierBit, big1)

	for d := 0; d < int(nDims); d++ {
		dc.bounds.Min[d].Set(cell[d])
		dc.bounds.Max[d] = new(big.Int).Or(cell[d], upperBits)
	}

	intersects, err := dc.region.Intersects(&dc.bounds)
	if err != nil {
		return err
	}
	if !intersects {
		return nil
	}

	if tier >= dc.minTier {
		contains, err := dc.region.Contains(&dc.bounds)
		if err != nil {
			return err
		}

		if tier == dc.maxTier || contains {
			value := encodeUniformBig(nDims, order, cell)
			shift := (order - tier - 1) * nDims
			tierValueBits := new(big.Int).Lsh(big1, shift)
			tierValueBits.Sub(tierValueBits, big1)

			notTierValueBits := new(big.Int).Not(tierValueBits)
			minValue := new(big.Int).And(value, notTierValueBits)
			maxValue := new(big.Int).Or(value, tierValueBits)

			*result = append(*result, RangeBig{MinValue: minValue, MaxValue: maxValue})
			return nil
		}
	}

	it := cellIteratorBig(nDims, order, tier+1, cell)
	for it() {
		if err := decomposeRangesRecBig(nDims, order, tier+1, cell, dc, result); err != nil {
			return err
		}
	}

	return nil
}
