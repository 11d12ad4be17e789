// Package scan drives a single pass over a disk image: it lists the image's
// partitions, probes each partition's filesystem, collects the free block
// ranges the filesystem reports, and pools them as absolute byte ranges over
// the whole image. The host-tool adapters that actually produce partition
// tables and free-block listings live in internal/hosttools; this package
// only consumes their structured output.
package scan

import (
	"context"
	"fmt"

	"github.com/datawire/dlib/dlog"

	"github.com/garethgeorge/bmapgen/internal/ranges"
)

// Partition is one entry of the image's partition table, in absolute bytes.
// Created once from partition-table output and read-only afterwards.
type Partition struct {
	Index  int
	Offset uint64
	Size   uint64
}

// BlockRange is a filesystem-native free range, both block indices inclusive.
type BlockRange struct {
	First uint64
	Last  uint64
}

// FreeBlocks is one partition's free-space report in its filesystem's native
// block units.
type FreeBlocks struct {
	BlockSize uint64
	Ranges    []BlockRange
}

// PartitionLister produces the ordered partition table of an image.
type PartitionLister interface {
	ListPartitions(ctx context.Context, image string) ([]Partition, error)
}

// FilesystemProber reports the filesystem type of a partition, or "" when no
// filesystem is recognized.
type FilesystemProber interface {
	Probe(ctx context.Context, image string, part Partition) (string, error)
}

// FreeBlockSource enumerates the free block ranges of one filesystem type.
type FreeBlockSource interface {
	FreeBlocks(ctx context.Context, image string, part Partition) (FreeBlocks, error)
}

// Scanner walks all partitions of an image strictly in partition-table order
// and pools their free ranges. Order matters only for reproducibility: the
// pooled set is sorted before any consumer touches it, but a deterministic
// walk keeps generated documents byte-identical across runs.
type Scanner struct {
	Lister PartitionLister
	Prober FilesystemProber
	// Sources maps a filesystem type (as reported by the prober) to the
	// free-block enumerator for it. Types without a source degrade to zero
	// free ranges with a warning rather than failing the scan.
	Sources map[string]FreeBlockSource
}

// Result is the outcome of one scan pass. FreePool is the authoritative
// unused-bytes view of the image, shared by bmap generation and
// sparsification so both modes agree on the same ranges.
type Result struct {
	ImageSize  uint64
	Partitions []Partition
	FreePool   *ranges.RangeSet
}

// Scan processes every partition sequentially. Any collaborator failure
// aborts the whole run; there is no partial-result mode.
func (s *Scanner) Scan(ctx context.Context, image string, imageSize uint64) (*Result, error) {
	parts, err := s.Lister.ListPartitions(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("listing partitions of %s: %w", image, err)
	}
	if len(parts) == 0 {
		return nil, ErrNoPartitionsFound
	}

	pool := ranges.NewRangeSet()
	for _, part := range parts {
		fsType, err := s.Prober.Probe(ctx, image, part)
		if err != nil {
			return nil, fmt.Errorf("probing filesystem of partition %d: %w", part.Index, err)
		}

		source, ok := s.Sources[fsType]
		if !ok {
			// Deliberate degraded mode: the partition contributes no free
			// ranges and all of it stays mapped.
			dlog.Warnf(ctx, "partition %d: unsupported filesystem type %q, treating all of it as used",
				part.Index, fsType)
			continue
		}

		free, err := source.FreeBlocks(ctx, image, part)
		if err != nil {
			return nil, fmt.Errorf("reading free blocks of partition %d (%s): %w", part.Index, fsType, err)
		}
		if err := poolFreeBlocks(pool, part, free); err != nil {
			return nil, err
		}
		dlog.Debugf(ctx, "partition %d: %s, %d free ranges at block size %d",
			part.Index, fsType, len(free.Ranges), free.BlockSize)
	}

	return &Result{
		ImageSize:  imageSize,
		Partitions: parts,
		FreePool:   pool,
	}, nil
}

// poolFreeBlocks converts one partition's filesystem-native free ranges to
// absolute byte ranges and appends them to the pool. A range reaching outside
// the partition is rejected rather than pooled, since it would corrupt the
// block map without any visible symptom.
func poolFreeBlocks(pool *ranges.RangeSet, part Partition, free FreeBlocks) error {
	if free.BlockSize == 0 && len(free.Ranges) > 0 {
		return fmt.Errorf("partition %d reported free blocks with zero block size", part.Index)
	}
	for _, br := range free.Ranges {
		if br.Last < br.First {
			return &BoundsError{Partition: part, Range: fmt.Sprintf("%d-%d", br.First, br.Last)}
		}
		abs := ranges.ByteRange{
			Begin: part.Offset + br.First*free.BlockSize,
			End:   part.Offset + (br.Last+1)*free.BlockSize,
		}
		bounds := ranges.ByteRange{Begin: part.Offset, End: part.Offset + part.Size}
		if !bounds.Contains(abs) {
			return &BoundsError{Partition: part, Range: abs.String()}
		}
		pool.Append(abs)
	}
	return nil
}
