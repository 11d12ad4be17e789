package ranges

import "fmt"

// ByteRange is a half-open span of bytes [Begin, End) within a disk image.
// Begin <= End is an invariant the producer must uphold.
type ByteRange struct {
	Begin uint64 // inclusive
	End   uint64 // exclusive
}

func (r ByteRange) Length() uint64 {
	return r.End - r.Begin
}

func (r ByteRange) Less(other ByteRange) bool {
	return r.Begin < other.Begin
}

func (r ByteRange) Overlaps(other ByteRange) bool {
	return r.Begin < other.End && other.Begin < r.End
}

func (r ByteRange) Contains(other ByteRange) bool {
	return r.Begin <= other.Begin && other.End <= r.End
}

func (r ByteRange) String() string {
	return fmt.Sprintf("[%d, %d)", r.Begin, r.End)
}
