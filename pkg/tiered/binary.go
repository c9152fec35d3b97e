package tiered

import (
	"encoding/binary"
	"sort"

	"github.com/pkg/errors"

	"github.com/radiant-maxar/geowave/internal/sfcerr"
	"github.com/radiant-maxar/geowave/pkg/dimension"
	"github.com/radiant-maxar/geowave/pkg/hilbert"
)

// ToBinary serializes the strategy per the tieredSFC wire format:
//
//	u32v numSFCs
//	u32v numDims
//	u32v mappingSize
//	u64v maxEstimatedDuplicateIdsPerDimension
//	(u32v len, bytes[len])[numSFCs]   each SFC's own ToBinary
//	(u32v len, bytes[len])[numDims]   each dimension's own ToBinary
//	(u8 sfcIndex, u8 tierByte)[mappingSize]
func (s *Strategy) ToBinary() ([]byte, error) {
	buf := binary.AppendUvarint(nil, uint64(len(s.sfcs)))
	buf = binary.AppendUvarint(buf, uint64(len(s.dims)))
	buf = binary.AppendUvarint(buf, uint64(len(s.tierBytes)))
	buf = binary.AppendUvarint(buf, s.maxEstimatedDuplicateIdsPerDimension)

	for _, sfc := range s.sfcs {
		b := sfc.ToBinary()
		buf = binary.AppendUvarint(buf, uint64(len(b)))
		buf = append(buf, b...)
	}

	for _, d := range s.dims {
		b, err := dimension.ToBinary(d)
		if err != nil {
			return nil, err
		}
		buf = binary.AppendUvarint(buf, uint64(len(b)))
		buf = append(buf, b...)
	}

	for i, tierByte := range s.tierBytes {
		buf = append(buf, byte(i), tierByte)
	}

	return buf, nil
}

// FromBinary reconstructs a Strategy from ToBinary's output.
func FromBinary(data []byte) (*Strategy, error) {
	numSFCs, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, errors.Wrap(sfcerr.ErrCorruptFormat, "tiered: truncated numSFCs")
	}
	data = data[n:]

	numDims, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, errors.Wrap(sfcerr.ErrCorruptFormat, "tiered: truncated numDims")
	}
	data = data[n:]

	mappingSize, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, errors.Wrap(sfcerr.ErrCorruptFormat, "tiered: truncated mappingSize")
	}
	data = data[n:]

	maxDup, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, errors.Wrap(sfcerr.ErrCorruptFormat, "tiered: truncated maxEstimatedDuplicateIdsPerDimension")
	}
	data = data[n:]

	sfcs := make([]*hilbert.SFC, 0, numSFCs)
	for i := uint64(0); i < numSFCs; i++ {
		recLen, n := binary.Uvarint(data)
		if n <= 0 || uint64(len(data)-n) < recLen {
			return nil, errors.Wrap(sfcerr.ErrCorruptFormat, "tiered: truncated SFC record")
		}
		data = data[n:]
		sfc, err := hilbert.FromBinary(data[:recLen])
		if err != nil {
			return nil, err
		}
		data = data[recLen:]
		sfcs = append(sfcs, sfc)
	}

	dims := make([]dimension.Definition, 0, numDims)
	for i := uint64(0); i < numDims; i++ {
		recLen, n := binary.Uvarint(data)
		if n <= 0 || uint64(len(data)-n) < recLen {
			return nil, errors.Wrap(sfcerr.ErrCorruptFormat, "tiered: truncated dimension record")
		}
		data = data[n:]
		d, err := dimension.FromBinary(data[:recLen])
		if err != nil {
			return nil, err
		}
		data = data[recLen:]
		dims = append(dims, d)
	}

	if uint64(len(data)) < mappingSize*2 {
		return nil, errors.Wrap(sfcerr.ErrCorruptFormat, "tiered: truncated mapping")
	}

	orderedByIndex := make([]byte, mappingSize)
	for i := uint64(0); i < mappingSize; i++ {
		sfcIndex := data[0]
		tierByte := data[1]
		data = data[2:]
		if uint64(sfcIndex) >= mappingSize {
			return nil, errors.Wrap(sfcerr.ErrCorruptFormat, "tiered: mapping sfcIndex out of range")
		}
		orderedByIndex[sfcIndex] = tierByte
	}

	return NewStrategy(dims, sfcs, orderedByIndex, maxDup)
}

// tierMeta wire format:
//
//	u32v numTiers
//	u32v[numTiers] counts
//	(u8 tierByte, u8 sfcIndex)[numTiers]
//
// sfcIndex is recorded positionally (the order counts/tierBytes were
// written in) to match the spec's layout; this package does not need it
// to reconstruct a Metadata, since Metadata is keyed purely by tier
// byte, but round-trips it faithfully regardless.
func (m *Metadata) ToBinary() []byte {
	tierBytes := append([]byte{}, m.tierBytes...)
	sort.Slice(tierBytes, func(i, j int) bool { return tierBytes[i] < tierBytes[j] })

	buf := binary.AppendUvarint(nil, uint64(len(tierBytes)))
	for _, tb := range tierBytes {
		buf = binary.AppendUvarint(buf, m.counts[tb])
	}
	for i, tb := range tierBytes {
		buf = append(buf, tb, byte(i))
	}
	return buf
}

// MetadataFromBinary reconstructs a Metadata from ToBinary's output.
func MetadataFromBinary(data []byte) (*Metadata, error) {
	numTiers, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, errors.Wrap(sfcerr.ErrCorruptFormat, "tiered: truncated numTiers")
	}
	data = data[n:]

	counts := make([]uint64, numTiers)
	for i := uint64(0); i < numTiers; i++ {
		c, n := binary.Uvarint(data)
		if n <= 0 {
			return nil, errors.Wrap(sfcerr.ErrCorruptFormat, "tiered: truncated tier count")
		}
		data = data[n:]
		counts[i] = c
	}

	if uint64(len(data)) < numTiers*2 {
		return nil, errors.Wrap(sfcerr.ErrCorruptFormat, "tiered: truncated tier mapping")
	}

	tierBytes := make([]byte, numTiers)
	for i := uint64(0); i < numTiers; i++ {
		tierBytes[i] = data[0]
		data = data[2:]
	}

	m := newMetadata(tierBytes)
	for i, tb := range tierBytes {
		m.counts[tb] = counts[i]
	}
	return m, nil
}
