package hilbert

import "sort"

// joinRanges sorts in by MinValue and merges any overlapping or adjacent
// ranges into single entries. in is modified in place; the merged subset
// is returned. Ported from airmap/sfc's range.go.
func joinRanges(in Ranges) Ranges {
	if len(in) == 0 {
		return in
	}

	sort.Sort(in)
	out := in[:1]

	for i := 0; i < len(in); i++ {
		lo := len(out) - 1
		if in[i].MinValue == 0 || in[i].MinValue-1 <= out[lo].MaxValue {
			if in[i].MaxValue > out[lo].MaxValue {
				out[lo].MaxValue = in[i].MaxValue
			}
		} else {
			out = append(out, in[i])
		}
	}

	return out
}
