package hosttools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	losetup "github.com/freddierice/go-losetup/v2"

	"github.com/garethgeorge/bmapgen/internal/scan"
)

// ExtFreeBlockSource enumerates the free blocks of an ext2/3/4 filesystem by
// parsing dumpe2fs group-descriptor output.
type ExtFreeBlockSource struct{}

var _ scan.FreeBlockSource = ExtFreeBlockSource{}

// DefaultSources maps the filesystem types bmapgen understands to their
// free-block enumerators.
func DefaultSources() map[string]scan.FreeBlockSource {
	ext := ExtFreeBlockSource{}
	return map[string]scan.FreeBlockSource{
		"ext2": ext,
		"ext3": ext,
		"ext4": ext,
	}
}

func (ExtFreeBlockSource) FreeBlocks(ctx context.Context, image string, part scan.Partition) (scan.FreeBlocks, error) {
	dev, err := losetup.Attach(image, part.Offset, true)
	if err != nil {
		return scan.FreeBlocks{}, fmt.Errorf("attaching partition %d to a loop device: %w", part.Index, err)
	}
	defer dev.Detach()

	out, err := runTool(ctx, "dumpe2fs", dev.Path())
	if err != nil {
		return scan.FreeBlocks{}, err
	}
	return parseDumpe2fs(out)
}

// parseDumpe2fs extracts the filesystem block size and every group's free
// block list from dumpe2fs output:
//
//	Block size:               4096
//	...
//	Group 0: (Blocks 0-32767)
//	  Free blocks: 9249-12287, 12290, 13312-16383
//
// The unindented "Free blocks:" line in the superblock header is a total
// count, not a list, and must be skipped. Long lists wrap onto continuation
// lines which end the previous line with a trailing comma.
func parseDumpe2fs(out []byte) (scan.FreeBlocks, error) {
	var free scan.FreeBlocks
	lines := strings.Split(string(out), "\n")

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "Block size:") {
			value := strings.TrimSpace(strings.TrimPrefix(trimmed, "Block size:"))
			bs, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return scan.FreeBlocks{}, fmt.Errorf("parsing block size %q: %w", value, err)
			}
			free.BlockSize = bs
			continue
		}

		// Group free-block lists are indented; the header total is not.
		if len(line) == 0 || (line[0] != ' ' && line[0] != '\t') {
			continue
		}
		if !strings.HasPrefix(trimmed, "Free blocks:") {
			continue
		}

		payload := strings.TrimPrefix(trimmed, "Free blocks:")
		for strings.HasSuffix(strings.TrimSpace(payload), ",") && i+1 < len(lines) {
			i++
			payload += " " + strings.TrimSpace(lines[i])
		}

		parsed, err := parseBlockList(payload)
		if err != nil {
			return scan.FreeBlocks{}, err
		}
		free.Ranges = append(free.Ranges, parsed...)
	}

	if len(free.Ranges) > 0 && free.BlockSize == 0 {
		return scan.FreeBlocks{}, fmt.Errorf("dumpe2fs output has no block size line")
	}
	return free, nil
}

// parseBlockList parses a comma-separated list of "a-b" ranges and "c"
// singles, both bounds inclusive.
func parseBlockList(payload string) ([]scan.BlockRange, error) {
	var out []scan.BlockRange
	for _, token := range strings.Split(payload, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		firstStr, lastStr, isRange := strings.Cut(token, "-")
		first, err := strconv.ParseUint(strings.TrimSpace(firstStr), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing free block %q: %w", token, err)
		}
		last := first
		if isRange {
			last, err = strconv.ParseUint(strings.TrimSpace(lastStr), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing free block range %q: %w", token, err)
			}
		}
		out = append(out, scan.BlockRange{First: first, Last: last})
	}
	return out, nil
}
