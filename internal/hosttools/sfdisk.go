package hosttools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/garethgeorge/bmapgen/internal/scan"
)

// sectorSize is the unit sfdisk dumps partition tables in. The dump declares
// "unit: sectors" and sfdisk sectors are always 512 bytes regardless of the
// device's logical sector size.
const sectorSize = 512

// SfdiskLister lists an image's partitions by parsing `sfdisk --dump` output.
type SfdiskLister struct{}

var _ scan.PartitionLister = SfdiskLister{}

func (SfdiskLister) ListPartitions(ctx context.Context, image string) ([]scan.Partition, error) {
	out, err := runTool(ctx, "sfdisk", "--dump", image)
	if err != nil {
		return nil, err
	}
	return parseSfdiskDump(out)
}

// parseSfdiskDump parses sfdisk's dump format:
//
//	label: dos
//	label-id: 0xdeadbeef
//	device: disk.img
//	unit: sectors
//
//	disk.img1 : start=        2048, size=      524288, type=83
//	disk.img2 : start=      526336, size=     1048576, type=83
//
// The unit declaration is required: without it the start/size numbers have no
// defined meaning.
func parseSfdiskDump(out []byte) ([]scan.Partition, error) {
	var parts []scan.Partition
	unitSeen := false

	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "unit:") {
			unit := strings.TrimSpace(strings.TrimPrefix(line, "unit:"))
			if unit != "sectors" {
				return nil, fmt.Errorf("partition table dump uses unsupported unit %q", unit)
			}
			unitSeen = true
			continue
		}

		_, fields, ok := strings.Cut(line, ":")
		if !ok || !strings.Contains(fields, "start=") {
			continue
		}

		var start, size uint64
		var haveStart, haveSize bool
		for _, field := range strings.Split(fields, ",") {
			key, value, ok := strings.Cut(field, "=")
			if !ok {
				continue
			}
			value = strings.TrimSpace(value)
			switch strings.TrimSpace(key) {
			case "start":
				n, err := strconv.ParseUint(value, 10, 64)
				if err != nil {
					return nil, fmt.Errorf("parsing partition start %q: %w", value, err)
				}
				start, haveStart = n, true
			case "size":
				n, err := strconv.ParseUint(value, 10, 64)
				if err != nil {
					return nil, fmt.Errorf("parsing partition size %q: %w", value, err)
				}
				size, haveSize = n, true
			}
		}
		if !haveStart || !haveSize {
			return nil, fmt.Errorf("partition entry %q is missing start or size", line)
		}
		parts = append(parts, scan.Partition{
			Index:  len(parts) + 1,
			Offset: start * sectorSize,
			Size:   size * sectorSize,
		})
	}

	if len(parts) > 0 && !unitSeen {
		return nil, fmt.Errorf("partition table dump has no unit declaration")
	}
	return parts, nil
}
