package scan

import "fmt"

var (
	// ErrNoPartitionsFound is returned when the partition table of the image
	// lists no partitions at all.
	ErrNoPartitionsFound = &ScanError{"no partitions found in image"}
	// ErrNoFreeSpaceFound is returned when every filesystem on the image was
	// either unsupported or fully allocated, leaving nothing to map against.
	ErrNoFreeSpaceFound = &ScanError{"no free space found on any supported filesystem"}
)

type ScanError struct {
	Msg string
}

func (e *ScanError) Error() string {
	return e.Msg
}

func (e *ScanError) Is(target error) bool {
	if targetErr, ok := target.(*ScanError); ok {
		return e.Msg == targetErr.Msg
	}
	return false
}

// BoundsError reports a free range that a filesystem claimed outside its own
// partition, which would silently corrupt the block map if pooled.
type BoundsError struct {
	Partition Partition
	Range     string
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("partition %d reported free range %s outside its bounds [%d, %d)",
		e.Partition.Index, e.Range, e.Partition.Offset, e.Partition.Offset+e.Partition.Size)
}
