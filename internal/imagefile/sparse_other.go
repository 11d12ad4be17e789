//go:build !linux

package imagefile

import (
	"errors"
	"os"
)

var errUnsupportedPlatform = errors.New("sparse file operations require linux")

func IsSparse(path string) (bool, error) {
	return false, errUnsupportedPlatform
}

func PunchHole(f *os.File, offset, length uint64) error {
	return errUnsupportedPlatform
}
