package ranges

// Complement inverts the set against [0, size): it returns the gaps between
// consecutive ranges plus the gap before the first range and after the last.
// An empty set complements to the single range [0, size). Zero-length gaps
// are filtered at emission so they never appear in the result.
//
// The union of the set and its complement reconstructs [0, size) exactly,
// provided the appended ranges were genuinely disjoint.
func (s *RangeSet) Complement(size uint64) []ByteRange {
	out := make([]ByteRange, 0, s.tree.Len()+1)
	var cursor uint64
	s.tree.Ascend(func(item seqRange) bool {
		if item.Begin > cursor {
			out = append(out, ByteRange{Begin: cursor, End: item.Begin})
		}
		// The cursor only ever advances; this keeps the walk sane even if a
		// malformed partition table produced nested ranges.
		if item.End > cursor {
			cursor = item.End
		}
		return true
	})
	if cursor < size {
		out = append(out, ByteRange{Begin: cursor, End: size})
	}
	return out
}
