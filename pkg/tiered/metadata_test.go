package tiered_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radiant-maxar/geowave/pkg/tiered"
)

func tierBytes() []byte { return []byte{0, 1, 2} }

func sampleIDs(n int, tier byte) []tiered.InsertionID {
	ids := make([]tiered.InsertionID, n)
	for i := range ids {
		ids[i] = tiered.InsertionID{
			PartitionKey: []byte{tier},
			SortKeys:     [][]byte{{byte(i)}},
		}
	}
	return ids
}

func newMeta(t *testing.T) *tiered.Metadata {
	t.Helper()
	dims := spatiotemporalDims(t)
	strategy, err := tiered.CreateEqualIntervalPrecisionTieredStrategy(dims, []uint{10, 10, 10}, 3, 10)
	require.NoError(t, err)
	return strategy.CreateMetaData()
}

func TestMetadataInsertAndRemoveAreSymmetric(t *testing.T) {
	m := newMeta(t)
	m.InsertionIDsAdded(sampleIDs(5, 0))
	assert.Equal(t, uint64(5), m.Count(0))

	m.InsertionIDsRemoved(sampleIDs(3, 0))
	assert.Equal(t, uint64(2), m.Count(0))
}

func TestMetadataRemoveClampsAtZero(t *testing.T) {
	m := newMeta(t)
	m.InsertionIDsAdded(sampleIDs(2, 1))
	m.InsertionIDsRemoved(sampleIDs(5, 1))
	assert.Equal(t, uint64(0), m.Count(1))
}

func TestMetadataUnknownTierByteIgnoredSilently(t *testing.T) {
	m := newMeta(t)
	m.InsertionIDsAdded([]tiered.InsertionID{{PartitionKey: []byte{99}, SortKeys: [][]byte{{0}}}})
	assert.Equal(t, uint64(0), m.Count(99))
}

// Property 5: metadata merge is commutative and associative.
func TestMetadataMergeCommutative(t *testing.T) {
	a := newMeta(t)
	a.InsertionIDsAdded(sampleIDs(3, 0))
	b := newMeta(t)
	b.InsertionIDsAdded(sampleIDs(7, 1))

	ab := a.Merge(b)
	ba := b.Merge(a)

	for _, tb := range []byte{0, 1, 2} {
		assert.Equal(t, ab.Count(tb), ba.Count(tb))
	}
}

func TestMetadataMergeAssociative(t *testing.T) {
	a := newMeta(t)
	a.InsertionIDsAdded(sampleIDs(3, 0))
	b := newMeta(t)
	b.InsertionIDsAdded(sampleIDs(5, 1))
	c := newMeta(t)
	c.InsertionIDsAdded(sampleIDs(2, 2))

	abThenC := a.Merge(b).Merge(c)
	aThenBC := a.Merge(b.Merge(c))

	for _, tb := range []byte{0, 1, 2} {
		assert.Equal(t, abThenC.Count(tb), aThenBC.Count(tb))
	}
}

func TestBuildMetadataParallelMatchesSerial(t *testing.T) {
	dims := spatiotemporalDims(t)
	strategy, err := tiered.CreateEqualIntervalPrecisionTieredStrategy(dims, []uint{10, 10, 10}, 3, 10)
	require.NoError(t, err)

	var ids []tiered.InsertionID
	ids = append(ids, sampleIDs(40, 0)...)
	ids = append(ids, sampleIDs(25, 1)...)
	ids = append(ids, sampleIDs(13, 2)...)

	serial := strategy.CreateMetaData()
	serial.InsertionIDsAdded(ids)

	parallel := tiered.BuildMetadataParallel(tierBytes(), ids, 7, 4)

	for _, tb := range []byte{0, 1, 2} {
		assert.Equal(t, serial.Count(tb), parallel.Count(tb))
	}
}

func TestMetadataBinaryRoundTrip(t *testing.T) {
	m := newMeta(t)
	m.InsertionIDsAdded(sampleIDs(4, 0))
	m.InsertionIDsAdded(sampleIDs(9, 1))

	restored, err := tiered.MetadataFromBinary(m.ToBinary())
	require.NoError(t, err)

	for _, tb := range []byte{0, 1, 2} {
		assert.Equal(t, m.Count(tb), restored.Count(tb))
	}
}

func TestMetadataFromBinaryRejectsTruncatedInput(t *testing.T) {
	_, err := tiered.MetadataFromBinary([]byte{0x05})
	assert.Error(t, err)
}
