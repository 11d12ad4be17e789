// Package sparsify converts an image's free byte ranges into real holes in
// the backing file, so the image occupies only as much disk as its mapped
// data.
package sparsify

import (
	"fmt"
	"os"

	"github.com/garethgeorge/bmapgen/internal/imagefile"
	"github.com/garethgeorge/bmapgen/internal/progress"
	"github.com/garethgeorge/bmapgen/internal/ranges"
)

// ErrAlreadySparse guards the sparsify mode: an image that already contains
// holes has presumably been processed before, and punching it again would
// hide that from the operator.
var ErrAlreadySparse = &SparsifyError{"image already contains holes"}

type SparsifyError struct {
	Msg string
}

func (e *SparsifyError) Error() string {
	return e.Msg
}

func (e *SparsifyError) Is(target error) bool {
	if targetErr, ok := target.(*SparsifyError); ok {
		return e.Msg == targetErr.Msg
	}
	return false
}

// HolePuncher releases a byte span of the backing store as a hole.
type HolePuncher interface {
	PunchHole(offset, length uint64) error
}

// FilePuncher punches holes in an open image file.
type FilePuncher struct {
	File *os.File
}

var _ HolePuncher = FilePuncher{}

func (p FilePuncher) PunchHole(offset, length uint64) error {
	return imagefile.PunchHole(p.File, offset, length)
}

// Sparsify punches one hole per free range. A range beginning at byte 0 is
// never punched: the partition table and boot sector live there even when the
// first filesystem reports the span as free. The first failure aborts the
// run; holes punched before it remain punched.
//
// Returns the number of holes punched.
func Sparsify(free []ranges.ByteRange, puncher HolePuncher, prog progress.BarProgressTracker) (int, error) {
	prog.SetMessage("punching holes for free ranges")
	prog.SetTotal(int64(len(free)))

	punched := 0
	for _, r := range free {
		if r.Begin == 0 || r.Length() == 0 {
			continue
		}
		if err := puncher.PunchHole(r.Begin, r.Length()); err != nil {
			prog.SetError(err)
			return punched, fmt.Errorf("punching hole at %s: %w", r, err)
		}
		punched++
		prog.SetDone(punched)
	}
	prog.MarkFinished()
	return punched, nil
}
