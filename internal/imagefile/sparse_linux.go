//go:build linux

package imagefile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// IsSparse reports whether the file at path already contains holes. SEEK_HOLE
// finds the first hole at or after the given offset; every file has a virtual
// hole at EOF, so the file is sparse exactly when a hole exists before EOF.
func IsSparse(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return false, err
	}
	hole, err := unix.Seek(int(f.Fd()), 0, unix.SEEK_HOLE)
	if err != nil {
		return false, fmt.Errorf("seeking for holes in %s: %w", path, err)
	}
	return hole < fi.Size(), nil
}

// PunchHole deallocates length bytes at offset, leaving a hole. KEEP_SIZE is
// required so the image's apparent size never changes.
func PunchHole(f *os.File, offset, length uint64) error {
	mode := unix.FALLOC_FL_PUNCH_HOLE | unix.FALLOC_FL_KEEP_SIZE
	if err := unix.Fallocate(int(f.Fd()), uint32(mode), int64(offset), int64(length)); err != nil {
		return fmt.Errorf("fallocate(punch hole, %d, %d): %w", offset, length, err)
	}
	return nil
}
