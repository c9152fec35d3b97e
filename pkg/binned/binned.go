// Package binned layers dimension binning on top of a Hilbert curve: it
// prepends a bin label to every sort key produced for a binned data
// point or query, and materializes either a single insertion id (when a
// binned dataset fits in one Hilbert cell) or a full per-cell
// decomposition.
package binned

import (
	"math/big"

	"github.com/radiant-maxar/geowave/pkg/hilbert"
)

// Entry is one binned insertion id: a (partitionKey, sortKey) pair
// before any tier byte the owning tiered strategy may prepend.
type Entry struct {
	BinLabel []byte
	SortKey  []byte
}

// FullKey concatenates BinLabel and SortKey, the representation whose
// lexicographic order the ordering invariant (bin bytes before SFC
// bytes) is stated over.
func (e Entry) FullKey() []byte {
	out := make([]byte, 0, len(e.BinLabel)+len(e.SortKey))
	out = append(out, e.BinLabel...)
	out = append(out, e.SortKey...)
	return out
}

// QueryRange is one binned query range: a partition key (the bin label)
// plus the [Start, End] sort-key range within it.
type QueryRange struct {
	BinLabel []byte
	Start    []byte
	End      []byte
}

// SingleInsertionID returns the single cell covering [min, max], and
// true, if and only if the entire binned dataset fits within one
// Hilbert cell at sfc's precision (sfc.Encode(min) == sfc.Encode(max)).
// Otherwise it returns false and the caller should fall back to
// DecomposeForEntry.
func SingleInsertionID(sfc *hilbert.SFC, binLabel []byte, min, max []float64) (Entry, bool, error) {
	encMin, err := sfc.Encode(min)
	if err != nil {
		return Entry{}, false, err
	}
	encMax, err := sfc.Encode(max)
	if err != nil {
		return Entry{}, false, err
	}

	if string(encMin) != string(encMax) {
		return Entry{}, false, nil
	}

	return Entry{BinLabel: binLabel, SortKey: encMin}, true, nil
}

// DecomposeForEntry returns one Entry per individual Hilbert cell
// touched by [min, max] — the full, uncompressed set of sort keys a
// binned dataset spanning multiple cells must be written under.
func DecomposeForEntry(sfc *hilbert.SFC, binLabel []byte, min, max []float64) ([]Entry, error) {
	decomp, err := sfc.DecomposeRange(min, max, true, 0)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(decomp.Ranges))
	for _, r := range decomp.Ranges {
		start := new(big.Int).SetBytes(r.Start)
		end := new(big.Int).SetBytes(r.End)
		byteLen := len(r.Start)

		for v := new(big.Int).Set(start); v.Cmp(end) <= 0; v.Add(v, big.NewInt(1)) {
			key := make([]byte, byteLen)
			raw := v.Bytes()
			copy(key[byteLen-len(raw):], raw)
			entries = append(entries, Entry{BinLabel: binLabel, SortKey: key})
		}
	}

	return entries, nil
}

// DecomposeForQuery decomposes a query's [min, max] sub-range within one
// bin into the compressed QueryRange list, preserving bin-before-SFC-byte
// ordering by keeping the bin label as a distinct leading field rather
// than folding it into the range bytes themselves.
func DecomposeForQuery(sfc *hilbert.SFC, binLabel []byte, min, max []float64, overInclusiveOnEdge bool, maxRanges int) ([]QueryRange, error) {
	decomp, err := sfc.DecomposeRange(min, max, overInclusiveOnEdge, maxRanges)
	if err != nil {
		return nil, err
	}

	out := make([]QueryRange, len(decomp.Ranges))
	for i, r := range decomp.Ranges {
		out[i] = QueryRange{BinLabel: binLabel, Start: r.Start, End: r.End}
	}
	return out, nil
}
