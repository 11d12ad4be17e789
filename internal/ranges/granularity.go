package ranges

// BlockSize resolves the largest block size that evenly divides every Begin
// and End boundary in the set. Every block index reported downstream is
// boundary/BlockSize, so the result must divide all of them exactly; the
// fold over pairwise GCDs guarantees that regardless of iteration order.
//
// An empty set has no boundaries to constrain the result and yields ok=false.
func (s *RangeSet) BlockSize() (blockSize uint64, ok bool) {
	var g uint64
	s.tree.Ascend(func(item seqRange) bool {
		g = gcd(g, item.Begin)
		g = gcd(g, item.End)
		return true
	})
	// Zero-length ranges are dropped at Append time, so a nonempty set always
	// contributes at least one nonzero End and g > 0 here.
	if g == 0 {
		return 0, false
	}
	return g, true
}

// gcd is the Euclidean algorithm on unsigned byte offsets, with the
// degenerate case gcd(0, x) = x.
func gcd(a, b uint64) uint64 {
	for a != 0 {
		a, b = b%a, a
	}
	return b
}
