// Package hilbert implements the compact Hilbert space-filling curve:
// bijective interleaving of N integer coordinates into a single index,
// its inverse, and approximate query-box decomposition into contiguous
// index ranges. Ported from airmap/sfc's bit-interleaving kernel
// (hilbert.go) and range-decomposition walk (hilbertrange.go), with a
// second arbitrary-precision backend layered on top for dimension
// widths the teacher's uint64 kernel cannot address.
package hilbert

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"math/big"

	"github.com/pkg/errors"

	"github.com/radiant-maxar/geowave/internal/sfcerr"
)

// DimensionSpec names one axis of an SFC and its bits of precision. The
// hilbert package works entirely in normalized [0, 1] space; mapping
// real-world values into that space is the dimension package's job.
type DimensionSpec struct {
	Name string
	Bits uint
}

// ByteRange is one inclusive [Start, End] range of SFC sort-key bytes.
type ByteRange struct {
	Start []byte
	End   []byte
}

// RangeDecomposition is the result of decomposing a query box: a tight,
// disjoint, ascending list of ByteRange values.
type RangeDecomposition struct {
	Ranges []ByteRange
}

// SFC is a compact Hilbert curve over a fixed set of dimensions, each at
// its own bits-of-precision. Dimensions of unequal width are padded to a
// common curve width (see the package-level note below) so the
// bit-interleaving kernel — primitive or unbounded — can always treat
// every axis uniformly.
//
// Unequal per-dimension bit widths are handled by padding every
// dimension up to the widest configured dimension and running the
// uniform-width kernel at that padded width; the resulting index is
// published at the padded width rather than at the literal sum of
// configured bits. This keeps round-trip, ordering, and query
// decomposition exact at each dimension's own configured precision,
// at the cost of a longer key than the minimum possible for mixed
// precisions. All worked scenarios use equal per-dimension precision,
// where this padding is a no-op.
type SFC struct {
	dims        []DimensionSpec
	maxBits     uint
	nominalBits uint // sum of dims[i].Bits, used for EstimatedIdCount's cap
	curveBits   uint // maxBits * len(dims), the padded curve width
	byteLen     int

	usePrimitiveCodec bool
	usePrimitiveRange bool

	identity string
}

// NewSFC constructs a Hilbert curve over dims, coarsest-to-finest order
// unspecified (each dimension stands alone).
func NewSFC(dims []DimensionSpec) (*SFC, error) {
	if len(dims) == 0 {
		return nil, fmt.Errorf("hilbert: at least one dimension is required")
	}

	var maxBits, nominalBits uint
	for _, d := range dims {
		if d.Bits == 0 {
			return nil, fmt.Errorf("hilbert: dimension %q must have positive bits of precision", d.Name)
		}
		if d.Bits > maxBits {
			maxBits = d.Bits
		}
		nominalBits += d.Bits
	}

	nDims := uint(len(dims))
	curveBits := nDims * maxBits
	if curveBits == 0 {
		return nil, fmt.Errorf("hilbert: total precision must be > 0")
	}

	allNarrow := true
	for _, d := range dims {
		if d.Bits > 48 {
			allNarrow = false
			break
		}
	}

	s := &SFC{
		dims:              append([]DimensionSpec{}, dims...),
		maxBits:           maxBits,
		nominalBits:       nominalBits,
		curveBits:         curveBits,
		byteLen:           int((curveBits + 7) / 8),
		usePrimitiveCodec: allNarrow && curveBits <= 64,
		usePrimitiveRange: curveBits <= 62,
	}
	s.identity = computeIdentity(dims)

	return s, nil
}

// Dimensions returns the configured dimension specs, in order.
func (s *SFC) Dimensions() []DimensionSpec { return append([]DimensionSpec{}, s.dims...) }

// TotalPrecision returns the nominal total precision (sum of configured
// per-dimension bits), used for EstimatedIdCount and tier comparisons.
func (s *SFC) TotalPrecision() uint { return s.nominalBits }

// Identity returns a stable, platform-independent identifier for this
// SFC's configuration, suitable as a cache or namespace key.
func (s *SFC) Identity() string { return s.identity }

func computeIdentity(dims []DimensionSpec) string {
	h := fnv.New64a()
	for _, d := range dims {
		fmt.Fprintf(h, "%s:%d|", d.Name, d.Bits)
	}
	return fmt.Sprintf("%x", h.Sum64())
}

func quantize(v float64, bits uint) uint64 {
	if math.IsNaN(v) {
		v = 0
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	maxVal := uint64(1)<<bits - 1
	scaled := math.Floor(v * float64(uint64(1)<<bits))
	if scaled > float64(maxVal) {
		return maxVal
	}
	return uint64(scaled)
}

// Encode maps a normalized coordinate (each value in [0, 1]) to its
// Hilbert index, packed big-endian into the curve's byte width.
// Out-of-range inputs are clamped; see quantize.
func (s *SFC) Encode(normalized []float64) ([]byte, error) {
	if len(normalized) != len(s.dims) {
		return nil, fmt.Errorf("hilbert: expected %d dimensions, got %d", len(s.dims), len(normalized))
	}

	padded := make([]uint64, len(s.dims))
	for i, d := range s.dims {
		raw := quantize(normalized[i], d.Bits)
		padded[i] = raw << (s.maxBits - d.Bits)
	}

	var index *big.Int
	if s.usePrimitiveCodec {
		index = new(big.Int).SetUint64(encodeUniform64(uint64(len(s.dims)), uint64(s.maxBits), padded))
	} else {
		coords := make([]*big.Int, len(padded))
		for i, v := range padded {
			coords[i] = new(big.Int).SetUint64(v)
		}
		index = encodeUniformBig(uint(len(s.dims)), s.maxBits, coords)
	}

	return s.packIndex(index), nil
}

// packIndex renders idx as a big-endian byte string of exactly
// s.byteLen bytes, saturating to all-0xFF if idx doesn't fit (overflow).
func (s *SFC) packIndex(idx *big.Int) []byte {
	raw := idx.Bytes()
	if len(raw) > s.byteLen {
		out := make([]byte, s.byteLen)
		for i := range out {
			out[i] = 0xFF
		}
		return out
	}

	out := make([]byte, s.byteLen)
	copy(out[s.byteLen-len(raw):], raw)
	return out
}

// Decode inverts Encode: given a sort key, returns the [min, max)
// normalized sub-range each dimension's cell occupies.
func (s *SFC) Decode(key []byte) ([][2]float64, error) {
	if len(key) != s.byteLen {
		return nil, errors.Wrapf(sfcerr.ErrCorruptFormat, "hilbert: expected %d key bytes, got %d", s.byteLen, len(key))
	}

	index := new(big.Int).SetBytes(key)
	ranges := make([][2]float64, len(s.dims))

	if s.usePrimitiveCodec {
		coord := make([]uint64, len(s.dims))
		decodeUniform64(uint64(len(s.dims)), uint64(s.maxBits), index.Uint64(), coord)
		for i, d := range s.dims {
			raw := coord[i] >> (s.maxBits - d.Bits)
			ranges[i] = cellFraction(raw, d.Bits)
		}
	} else {
		coord := make([]*big.Int, len(s.dims))
		decodeUniformBig(uint(len(s.dims)), s.maxBits, index, coord)
		for i, d := range s.dims {
			raw := new(big.Int).Rsh(coord[i], s.maxBits-d.Bits)
			ranges[i] = cellFraction(raw.Uint64(), d.Bits)
		}
	}

	return ranges, nil
}

func cellFraction(raw uint64, bits uint) [2]float64 {
	denom := float64(uint64(1) << bits)
	lo := float64(raw) / denom
	hi := float64(raw+1) / denom
	if hi > 1 {
		hi = 1
	}
	return [2]float64{lo, hi}
}

// DecomposeRange decomposes a normalized query box into the ByteRange
// list a lexicographic store can scan, subject to the cardinality cap
// and edge policy described in the package's owning strategy. Results
// are served from, and populate, the process-wide decomposition cache.
func (s *SFC) DecomposeRange(min, max []float64, overInclusiveOnEdge bool, maxRanges int) (RangeDecomposition, error) {
	if len(min) != len(s.dims) || len(max) != len(s.dims) {
		return RangeDecomposition{}, fmt.Errorf("hilbert: expected %d dimensions", len(s.dims))
	}

	cacheKey := decompositionCacheKey(s.identity, min, max, overInclusiveOnEdge, maxRanges)
	cache := getDecompositionCache()
	if cached, ok := cache.Get(cacheKey); ok {
		return cached, nil
	}

	minPadded := make([]uint64, len(s.dims))
	maxPadded := make([]uint64, len(s.dims))
	degenerate := false
	for i, d := range s.dims {
		lo := quantize(min[i], d.Bits)
		hi := quantize(max[i], d.Bits)
		if hi < lo {
			degenerate = true
		}
		minPadded[i] = lo << (s.maxBits - d.Bits)
		maxPadded[i] = hi << (s.maxBits - d.Bits)
		maxPadded[i] |= uint64(1)<<(s.maxBits-d.Bits) - 1 // cover the padding bits too
	}

	result := RangeDecomposition{}
	if !degenerate {
		rangesBig, err := s.decomposeRangesAt(minPadded, maxPadded, !overInclusiveOnEdge)
		if err != nil {
			return RangeDecomposition{}, err
		}

		rangesBig = mergeCapBig(rangesBig, maxRanges)

		byteRanges := make([]ByteRange, len(rangesBig))
		for i, r := range rangesBig {
			byteRanges[i] = ByteRange{Start: s.packIndex(r.MinValue), End: s.packIndex(r.MaxValue)}
		}
		result.Ranges = byteRanges
	}

	cache.Add(cacheKey, result)
	return result, nil
}

func (s *SFC) decomposeRangesAt(minPadded, maxPadded []uint64, strict bool) (RangesBig, error) {
	nDims := uint64(len(s.dims))

	if s.usePrimitiveRange {
		q := &queryBox64{
			bounds: Bounds{Min: Point(minPadded), Max: Point(maxPadded)},
			strict: strict,
		}
		ranges, err := decomposeRanges64(nDims, uint64(s.maxBits), 0, uint64(s.maxBits)-1, q)
		if err != nil {
			return nil, err
		}
		out := make(RangesBig, len(ranges))
		for i, r := range ranges {
			out[i] = RangeBig{MinValue: new(big.Int).SetUint64(r.MinValue), MaxValue: new(big.Int).SetUint64(r.MaxValue)}
		}
		return out, nil
	}

	minBig := make(PointBig, len(minPadded))
	maxBig := make(PointBig, len(maxPadded))
	for i := range minPadded {
		minBig[i] = new(big.Int).SetUint64(minPadded[i])
		maxBig[i] = new(big.Int).SetUint64(maxPadded[i])
	}
	q := &queryBoxBig{bounds: BoundsBig{Min: minBig, Max: maxBig}, strict: strict}
	return decomposeRangesBig(uint(nDims), s.maxBits, 0, s.maxBits-1, q)
}

// EstimatedIdCount returns min(Π e_i, 2^totalPrecision), the number of
// distinct cells a query box's integer extents could touch at this
// curve's configured precision.
func (s *SFC) EstimatedIdCount(min, max []float64) *big.Int {
	product := big.NewInt(1)
	for i, d := range s.dims {
		lo := quantize(min[i], d.Bits)
		hi := quantize(max[i], d.Bits)
		if hi < lo {
			return big.NewInt(0)
		}
		extent := hi - lo + 1
		product.Mul(product, new(big.Int).SetUint64(extent))
	}

	ceiling := new(big.Int).Lsh(big1, s.nominalBits)
	if product.Cmp(ceiling) > 0 {
		return ceiling
	}
	return product
}

// ToBinary serializes the SFC per the hilbertSFC wire format: a varint
// dimension count followed by one length-prefixed per-dimension record.
func (s *SFC) ToBinary() []byte {
	buf := binary.AppendUvarint(nil, uint64(len(s.dims)))
	for _, d := range s.dims {
		rec := binary.AppendUvarint(nil, uint64(len(d.Name)))
		rec = append(rec, d.Name...)
		rec = binary.AppendUvarint(rec, uint64(d.Bits))
		buf = binary.AppendUvarint(buf, uint64(len(rec)))
		buf = append(buf, rec...)
	}
	return buf
}

// FromBinary reconstructs an SFC from ToBinary's output.
func FromBinary(data []byte) (*SFC, error) {
	numDims, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, errors.Wrap(sfcerr.ErrCorruptFormat, "hilbert: truncated dimension count")
	}
	data = data[n:]

	dims := make([]DimensionSpec, 0, numDims)
	for i := uint64(0); i < numDims; i++ {
		recLen, n := binary.Uvarint(data)
		if n <= 0 || uint64(len(data)-n) < recLen {
			return nil, errors.Wrap(sfcerr.ErrCorruptFormat, "hilbert: truncated dimension record")
		}
		data = data[n:]
		rec := data[:recLen]
		data = data[recLen:]

		nameLen, rn := binary.Uvarint(rec)
		if rn <= 0 || uint64(len(rec)-rn) < nameLen {
			return nil, errors.Wrap(sfcerr.ErrCorruptFormat, "hilbert: truncated dimension name")
		}
		rec = rec[rn:]
		name := string(rec[:nameLen])
		rec = rec[nameLen:]

		bits, bn := binary.Uvarint(rec)
		if bn <= 0 {
			return nil, errors.Wrap(sfcerr.ErrCorruptFormat, "hilbert: truncated dimension bits")
		}

		dims = append(dims, DimensionSpec{Name: name, Bits: uint(bits)})
	}

	return NewSFC(dims)
}
