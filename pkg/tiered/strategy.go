// Package tiered holds an ordered stack of Hilbert SFCs at increasing
// precision and picks, per inserted entry, the finest tier at which it
// fits in one cell or within the duplicate-id cap (falling back to the
// coarsest tier); queries are decomposed across every non-empty
// tier, finest first. This is the top-level index strategy: the
// component that turns a value tuple or query box into the
// (partitionKey, sortKey) pairs a lexicographic store actually holds.
package tiered

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/big"

	"github.com/bits-and-blooms/bitset"
	log "github.com/sirupsen/logrus"

	"github.com/radiant-maxar/geowave/pkg/binned"
	"github.com/radiant-maxar/geowave/pkg/dimension"
	"github.com/radiant-maxar/geowave/pkg/hilbert"
)

// InsertionID is a (partitionKey, sortKeys) pair: one or more SFC sort
// keys, sharing one partition key, that together index an entry.
type InsertionID struct {
	PartitionKey []byte
	SortKeys     [][]byte
}

// QueryRange is one partition key's worth of sort-key ranges to scan.
type QueryRange struct {
	PartitionKey []byte
	SortKeys     []hilbert.ByteRange
}

// Strategy is an ordered stack of SFCs, coarsest (index 0) to finest
// (index len-1), each addressed by an arbitrary, injective tier byte.
type Strategy struct {
	dims                                 []dimension.Definition
	sfcs                                 []*hilbert.SFC
	tierBytes                            []byte
	maxEstimatedDuplicateIdsPerDimension uint64

	dupTable    []uint64 // dupTable[d] = maxEstimatedDuplicateIdsPerDimension^d, d in [0, len(dims)]
	tierByByte  map[byte]int
	knownTiers  *bitset.BitSet
	identity    string
}

// NewStrategy constructs a tiered strategy. sfcs must be ordered
// coarsest-to-finest; tierBytes assigns each sfcs[i] its on-disk tier
// byte and must be the same length and injective.
func NewStrategy(dims []dimension.Definition, sfcs []*hilbert.SFC, tierBytes []byte, maxEstimatedDuplicateIdsPerDimension uint64) (*Strategy, error) {
	if len(sfcs) == 0 {
		return nil, fmt.Errorf("tiered: at least one SFC is required")
	}
	if len(sfcs) != len(tierBytes) {
		return nil, fmt.Errorf("tiered: sfcs and tierBytes must have the same length")
	}

	tierByByte := make(map[byte]int, len(tierBytes))
	known := bitset.New(256)
	for i, b := range tierBytes {
		if known.Test(uint(b)) {
			return nil, fmt.Errorf("tiered: duplicate tier byte %d", b)
		}
		known.Set(uint(b))
		tierByByte[b] = i
	}

	dupTable := make([]uint64, len(dims)+1)
	dupTable[0] = 1
	for d := 1; d <= len(dims); d++ {
		dupTable[d] = saturatingMul(dupTable[d-1], maxEstimatedDuplicateIdsPerDimension)
	}

	s := &Strategy{
		dims:                                 append([]dimension.Definition{}, dims...),
		sfcs:                                 append([]*hilbert.SFC{}, sfcs...),
		tierBytes:                            append([]byte{}, tierBytes...),
		maxEstimatedDuplicateIdsPerDimension: maxEstimatedDuplicateIdsPerDimension,
		dupTable:                             dupTable,
		tierByByte:                           tierByByte,
		knownTiers:                           known,
	}
	s.identity = s.computeIdentity()

	return s, nil
}

func saturatingMul(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	result := a * b
	if result/a != b {
		return ^uint64(0)
	}
	return result
}

// Identity returns a stable, platform-independent hash over this
// strategy's definitions, SFCs, mapping, and duplicate cap.
func (s *Strategy) Identity() string { return s.identity }

func (s *Strategy) computeIdentity() string {
	h := fnv.New64a()
	for _, d := range s.dims {
		if b, err := dimension.ToBinary(d); err == nil {
			h.Write(b)
		} else {
			// A Binned dimension built from a caller-supplied,
			// non-calendar strategy has no persistable form; fold in
			// every field Definition exposes (not just Name) so two
			// such dimensions that merely share a name don't collide.
			fmt.Fprintf(h, "dim:%s|%v|%v|%t|%d|%T", d.Name(), d.Min(), d.Max(), d.Wrap(), d.FixedBinIDSize(), d)
		}
	}
	for i, sfc := range s.sfcs {
		h.Write(sfc.ToBinary())
		h.Write([]byte{s.tierBytes[i]})
	}
	fmt.Fprintf(h, "dup:%d", s.maxEstimatedDuplicateIdsPerDimension)
	return fmt.Sprintf("%x", h.Sum64())
}

// GetPartitionKeyLength returns 1 (the tier byte) plus the sum of every
// dimension's fixed-width bin contribution.
func (s *Strategy) GetPartitionKeyLength() int {
	total := 1
	for _, d := range s.dims {
		total += d.FixedBinIDSize()
	}
	return total
}

// SubStrategy returns a length-1 Strategy addressing a single precision
// tier, for callers (e.g. partitioning tools) that want to work at one
// fixed level without the tier-selection machinery.
func (s *Strategy) SubStrategy(tier int) (*Strategy, error) {
	if tier < 0 || tier >= len(s.sfcs) {
		return nil, fmt.Errorf("tiered: tier %d out of range [0, %d)", tier, len(s.sfcs))
	}
	return NewStrategy(s.dims, s.sfcs[tier:tier+1], s.tierBytes[tier:tier+1], s.maxEstimatedDuplicateIdsPerDimension)
}

// CreateEqualIntervalPrecisionTieredStrategy builds a Strategy of
// numTiers SFCs, each dimension's bits of precision scaled evenly from a
// coarse fraction of bitsPerDim up to the full bitsPerDim value at the
// finest tier (index numTiers-1). Tier bytes are assigned 0..numTiers-1,
// coarsest to finest. This mirrors the original's
// createEqualIntervalPrecisionTieredStrategy(lonBits, latBits, timeBits,
// HILBERT, numTiers) factory, generalized to an arbitrary dimension
// count.
func CreateEqualIntervalPrecisionTieredStrategy(dims []dimension.Definition, bitsPerDim []uint, numTiers int, maxEstimatedDuplicateIdsPerDimension uint64) (*Strategy, error) {
	if len(dims) != len(bitsPerDim) {
		return nil, fmt.Errorf("tiered: dims and bitsPerDim must have the same length")
	}
	if numTiers <= 0 {
		return nil, fmt.Errorf("tiered: numTiers must be positive")
	}

	sfcs := make([]*hilbert.SFC, numTiers)
	tierBytes := make([]byte, numTiers)
	for tier := 0; tier < numTiers; tier++ {
		specs := make([]hilbert.DimensionSpec, len(dims))
		for d, dim := range dims {
			bits := uint(math.Ceil(float64(bitsPerDim[d]) * float64(tier+1) / float64(numTiers)))
			if bits == 0 {
				bits = 1
			}
			if bits > bitsPerDim[d] {
				bits = bitsPerDim[d]
			}
			specs[d] = hilbert.DimensionSpec{Name: dim.Name(), Bits: bits}
		}

		sfc, err := hilbert.NewSFC(specs)
		if err != nil {
			return nil, err
		}
		sfcs[tier] = sfc
		tierBytes[tier] = byte(tier)
	}

	return NewStrategy(dims, sfcs, tierBytes, maxEstimatedDuplicateIdsPerDimension)
}

// GetInsertionIDs computes the insertion ids for a value tuple or
// extent (min == max per dimension for a point). maxDupOverride, if
// non-nil, replaces maxEstimatedDuplicateIdsPerDimension for this call
// only.
func (s *Strategy) GetInsertionIDs(min, max []float64, maxDupOverride *uint64) ([]InsertionID, error) {
	if len(min) == 0 || len(max) == 0 {
		log.Warn("tiered: GetInsertionIDs called with empty input")
		return nil, nil
	}

	combos, err := dimension.GetBinnedRanges(s.dims, min, max)
	if err != nil {
		return nil, err
	}
	if len(combos) == 0 {
		log.Warn("tiered: GetInsertionIDs produced no bin combinations")
		return nil, nil
	}

	dupTable := s.dupTable
	if maxDupOverride != nil {
		dupTable = make([]uint64, len(s.dims)+1)
		dupTable[0] = 1
		for d := 1; d <= len(s.dims); d++ {
			dupTable[d] = saturatingMul(dupTable[d-1], *maxDupOverride)
		}
	}

	var ids []InsertionID
	for _, combo := range combos {
		id, err := s.insertionIDForCombo(combo, dupTable)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func (s *Strategy) insertionIDForCombo(combo dimension.Combination, dupTable []uint64) (InsertionID, error) {
	nonzeroExtents := 0
	for i := range combo.Mins {
		if combo.Maxs[i] > combo.Mins[i] {
			nonzeroExtents++
		}
	}
	maxDup := dupTable[nonzeroExtents]

	for tier := len(s.sfcs) - 1; tier >= 0; tier-- {
		sfc := s.sfcs[tier]

		entry, ok, err := binned.SingleInsertionID(sfc, combo.Label, combo.Mins, combo.Maxs)
		if err != nil {
			return InsertionID{}, err
		}
		if ok {
			return InsertionID{
				PartitionKey: append([]byte{s.tierBytes[tier]}, entry.BinLabel...),
				SortKeys:     [][]byte{entry.SortKey},
			}, nil
		}

		rowCount := sfc.EstimatedIdCount(combo.Mins, combo.Maxs)
		if tier == 0 || fitsWithinDup(rowCount, maxDup) {
			entries, err := binned.DecomposeForEntry(sfc, combo.Label, combo.Mins, combo.Maxs)
			if err != nil {
				return InsertionID{}, err
			}
			sortKeys := make([][]byte, len(entries))
			for i, e := range entries {
				sortKeys[i] = e.SortKey
			}
			return InsertionID{
				PartitionKey: append([]byte{s.tierBytes[tier]}, combo.Label...),
				SortKeys:     sortKeys,
			}, nil
		}
	}

	// Unreachable: tier 0 always satisfies the loop's exit condition.
	return InsertionID{}, fmt.Errorf("tiered: no tier accepted the entry")
}

func fitsWithinDup(rowCount *big.Int, maxDup uint64) bool {
	return rowCount.Cmp(new(big.Int).SetUint64(maxDup)) <= 0
}

// GetQueryRanges decomposes a query box into per-partition sort-key
// ranges, finer tiers first. meta, if non-nil, lets tiers with a zero
// count be skipped entirely.
func (s *Strategy) GetQueryRanges(min, max []float64, overInclusiveOnEdge bool, maxRanges int, meta *Metadata) ([]QueryRange, error) {
	if len(min) == 0 || len(max) == 0 {
		return nil, nil
	}

	combos, err := dimension.GetBinnedRanges(s.dims, min, max)
	if err != nil {
		return nil, err
	}

	var out []QueryRange
	for _, combo := range combos {
		for tier := len(s.sfcs) - 1; tier >= 0; tier-- {
			if meta != nil && meta.Count(s.tierBytes[tier]) == 0 {
				continue
			}

			ranges, err := binned.DecomposeForQuery(s.sfcs[tier], combo.Label, combo.Mins, combo.Maxs, overInclusiveOnEdge, maxRanges)
			if err != nil {
				return nil, err
			}
			if len(ranges) == 0 {
				continue
			}

			sortKeys := make([]hilbert.ByteRange, len(ranges))
			for i, r := range ranges {
				sortKeys[i] = hilbert.ByteRange{Start: r.Start, End: r.End}
			}
			out = append(out, QueryRange{
				PartitionKey: append([]byte{s.tierBytes[tier]}, combo.Label...),
				SortKeys:     sortKeys,
			})
		}
	}

	return out, nil
}

// IsKnownTier reports whether tierByte addresses one of this strategy's
// SFCs, using the per-strategy tier-byte lookup set built at
// construction.
func (s *Strategy) IsKnownTier(tierByte byte) bool {
	return s.knownTiers.Test(uint(tierByte))
}

// GetCoordinatesPerDimension decodes a (partitionKey, sortKey) pair back
// into the normalized [0, 1) cell it identifies, per dimension. Returns
// nil with a warning if partitionKey's tier byte is not known.
func (s *Strategy) GetCoordinatesPerDimension(partitionKey, sortKey []byte) ([][2]float64, error) {
	if len(partitionKey) == 0 {
		log.Warn("tiered: GetCoordinatesPerDimension called with empty partition key")
		return nil, nil
	}

	if !s.IsKnownTier(partitionKey[0]) {
		log.Warnf("tiered: unknown tier byte %d", partitionKey[0])
		return nil, nil
	}

	tier := s.tierByByte[partitionKey[0]]
	return s.sfcs[tier].Decode(sortKey)
}

// GetRangeForId is an alias for GetCoordinatesPerDimension: both report
// the normalized [min, max] cell a key identifies.
func (s *Strategy) GetRangeForId(partitionKey, sortKey []byte) ([][2]float64, error) {
	return s.GetCoordinatesPerDimension(partitionKey, sortKey)
}

// CreateMetaData returns a fresh, all-zero Metadata over this
// strategy's tier bytes.
func (s *Strategy) CreateMetaData() *Metadata {
	return newMetadata(s.tierBytes)
}
