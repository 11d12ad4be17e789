package ranges

import "github.com/google/btree"

// seqRange tags a ByteRange with its insertion sequence number so that ranges
// sharing a Begin remain distinct entries in the btree.
type seqRange struct {
	ByteRange
	seq uint64
}

// RangeSet accumulates byte ranges appended from multiple sources, typically
// the free ranges of every partition on an image. Ranges are kept exactly as
// appended: no coalescing and no deduplication, so the boundary multiset used
// for block-size resolution is never silently altered. Adjacent free ranges
// contributed by different partitions stay distinct entries.
//
// RangeSet is not thread-safe.
type RangeSet struct {
	tree  *btree.BTreeG[seqRange]
	seq   uint64
	total uint64
}

func NewRangeSet() *RangeSet {
	return &RangeSet{
		tree: btree.NewG(32, func(a, b seqRange) bool {
			if a.Begin != b.Begin {
				return a.Begin < b.Begin
			}
			return a.seq < b.seq
		}),
	}
}

// Append adds r to the set. Zero-length ranges carry no information and are
// discarded here so consumers never see them.
func (s *RangeSet) Append(r ByteRange) {
	if r.Length() == 0 {
		return
	}
	s.seq++
	s.tree.ReplaceOrInsert(seqRange{ByteRange: r, seq: s.seq})
	s.total += r.Length()
}

func (s *RangeSet) Len() int {
	return s.tree.Len()
}

// TotalLength is the sum of the lengths of all appended ranges. Callers are
// expected to append disjoint ranges; overlap is counted twice.
func (s *RangeSet) TotalLength() uint64 {
	return s.total
}

// SortedByBegin returns the ranges ordered ascending by Begin. Ranges sharing
// a Begin keep their insertion order.
func (s *RangeSet) SortedByBegin() []ByteRange {
	out := make([]ByteRange, 0, s.tree.Len())
	s.tree.Ascend(func(item seqRange) bool {
		out = append(out, item.ByteRange)
		return true
	})
	return out
}
