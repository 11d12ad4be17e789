// Package imagefile wraps the byte-level operations bmapgen performs on the
// backing image file: sizing it, detecting existing holes, and punching new
// ones.
package imagefile

import (
	"fmt"
	"os"
)

// Size returns the byte size of the image file at path.
func Size(path string) (uint64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if fi.IsDir() {
		return 0, fmt.Errorf("%s is a directory, not an image file", path)
	}
	return uint64(fi.Size()), nil
}
