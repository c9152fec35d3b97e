package tiered

import (
	"github.com/alitto/pond"
)

// Metadata tracks how many sort keys are currently stored at each tier,
// so query decomposition can skip tiers known to be empty. It is the
// only mutable state in the package: counts move monotonically up under
// insert and down under remove.
type Metadata struct {
	tierBytes []byte
	counts    map[byte]uint64
}

func newMetadata(tierBytes []byte) *Metadata {
	counts := make(map[byte]uint64, len(tierBytes))
	for _, b := range tierBytes {
		counts[b] = 0
	}
	return &Metadata{tierBytes: append([]byte{}, tierBytes...), counts: counts}
}

// Count returns the number of sort keys currently recorded at
// tierByte, or 0 if tierByte is not one of this metadata's tiers.
func (m *Metadata) Count(tierByte byte) uint64 {
	return m.counts[tierByte]
}

// InsertionIDsAdded increments each id's tier count by its number of
// sort keys. Partition keys whose first byte is not a known tier are
// ignored silently.
func (m *Metadata) InsertionIDsAdded(ids []InsertionID) {
	for _, id := range ids {
		if len(id.PartitionKey) == 0 {
			continue
		}
		tb := id.PartitionKey[0]
		if _, ok := m.counts[tb]; !ok {
			continue
		}
		m.counts[tb] += uint64(len(id.SortKeys))
	}
}

// InsertionIDsRemoved is InsertionIDsAdded's symmetric decrement. Counts
// never go negative; a removal exceeding the current count clamps to 0.
func (m *Metadata) InsertionIDsRemoved(ids []InsertionID) {
	for _, id := range ids {
		if len(id.PartitionKey) == 0 {
			continue
		}
		tb := id.PartitionKey[0]
		count, ok := m.counts[tb]
		if !ok {
			continue
		}
		dec := uint64(len(id.SortKeys))
		if dec > count {
			m.counts[tb] = 0
		} else {
			m.counts[tb] = count - dec
		}
	}
}

// Merge returns a new Metadata whose counts are the elementwise sum of
// m and other's. Both must share the same tier-byte set.
func (m *Metadata) Merge(other *Metadata) *Metadata {
	merged := newMetadata(m.tierBytes)
	for tb := range merged.counts {
		merged.counts[tb] = m.counts[tb] + other.counts[tb]
	}
	return merged
}

// BuildMetadataParallel shards ids across a worker pool, computes a
// Metadata per shard, and folds the results together with Merge — an
// embarrassingly parallel alternative to building one Metadata serially
// over a large insertion batch.
func BuildMetadataParallel(tierBytes []byte, ids []InsertionID, shardSize, concurrency int) *Metadata {
	result := newMetadata(tierBytes)
	if len(ids) == 0 {
		return result
	}
	if shardSize <= 0 {
		shardSize = len(ids)
	}

	var shards [][]InsertionID
	for i := 0; i < len(ids); i += shardSize {
		end := i + shardSize
		if end > len(ids) {
			end = len(ids)
		}
		shards = append(shards, ids[i:end])
	}

	pool := pond.New(concurrency, len(shards))

	partials := make([]*Metadata, len(shards))
	for i, shard := range shards {
		i, shard := i, shard
		pool.Submit(func() {
			m := newMetadata(tierBytes)
			m.InsertionIDsAdded(shard)
			partials[i] = m
		})
	}
	pool.StopAndWait()

	for _, p := range partials {
		result = result.Merge(p)
	}

	return result
}
