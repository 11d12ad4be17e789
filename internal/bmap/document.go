// Package bmap renders block-map documents: self-describing XML files that
// list which blocks of a disk image hold meaningful data, so that flashing
// tools can skip everything else.
package bmap

import (
	"encoding/hex"
	"fmt"
	"strings"

	sha256 "github.com/minio/sha256-simd"

	"github.com/garethgeorge/bmapgen/internal/ranges"
)

// FormatVersion is the bmap file format version this package emits.
const FormatVersion = "2.0"

// checksumType is fixed by the format: version 2.0 documents always carry a
// sha256 self-checksum.
const checksumType = "sha256"

// Document is the in-memory form of a bmap file, built once per scan and
// serialized exactly once.
type Document struct {
	ImageSize         uint64
	BlockSize         uint64
	BlocksCount       uint64
	MappedBlocksCount uint64

	// Mapped holds the must-be-preserved byte ranges, sorted ascending and
	// free of zero-length entries. All boundaries are BlockSize aligned.
	Mapped []ranges.ByteRange
}

// Build derives a Document from the image size and the pooled free ranges of
// every partition. The block size is the largest granularity dividing every
// free-range boundary; the mapped ranges are the complement of the free pool
// over the whole image.
func Build(imageSize uint64, free *ranges.RangeSet) (*Document, error) {
	if imageSize == 0 {
		return nil, ErrEmptyImage
	}
	blockSize, ok := free.BlockSize()
	if !ok {
		return nil, ErrUnresolvableBlockSize
	}
	if imageSize%blockSize != 0 {
		return nil, &InvariantError{Msg: fmt.Sprintf(
			"image size %d is not a multiple of resolved block size %d", imageSize, blockSize)}
	}

	blocksCount := imageSize / blockSize
	return &Document{
		ImageSize:         imageSize,
		BlockSize:         blockSize,
		BlocksCount:       blocksCount,
		MappedBlocksCount: blocksCount - free.TotalLength()/blockSize,
		Mapped:            free.Complement(imageSize),
	}, nil
}

// Render serializes the document and embeds a checksum of its own bytes.
//
// The checksum field is self-referential, so rendering is two-pass: first the
// full document is laid out with the checksum filled by a placeholder of the
// exact hex-digest width, then the digest of those bytes is computed and
// substituted for the placeholder. Because both have the same byte length the
// substitution shifts nothing else in the document.
func (d *Document) Render() ([]byte, error) {
	placeholder := strings.Repeat("0", sha256.Size*2)
	text, err := d.render(placeholder)
	if err != nil {
		return nil, err
	}

	digest := sha256.Sum256([]byte(text))
	checksum := hex.EncodeToString(digest[:])
	text = strings.Replace(text, placeholder, checksum, 1)
	return []byte(text), nil
}

func (d *Document) render(checksum string) (string, error) {
	if d.BlockSize == 0 {
		return "", ErrUnresolvableBlockSize
	}
	if d.BlocksCount*d.BlockSize != d.ImageSize {
		return "", &InvariantError{Msg: fmt.Sprintf(
			"blocks count %d times block size %d does not reproduce image size %d",
			d.BlocksCount, d.BlockSize, d.ImageSize)}
	}

	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" ?>\n")
	b.WriteString(`<!-- This file contains the block map for an image file, which is basically
     a list of useful (mapped) block numbers in the image file. The block map
     allows tools to copy or flash the image faster by skipping the blocks
     which do not contain any meaningful data.

     NOTE: the commentaries in this file contain human-readable units like
     image size in gigabytes. They are informational only and may be slightly
     inaccurate. -->
`)
	b.WriteString("\n<bmap version=\"" + FormatVersion + "\">\n")

	fmt.Fprintf(&b, "    <!-- Image size in bytes: %s -->\n", humanSize(d.ImageSize))
	fmt.Fprintf(&b, "    <ImageSize> %d </ImageSize>\n\n", d.ImageSize)

	b.WriteString("    <!-- Size of a block in bytes -->\n")
	fmt.Fprintf(&b, "    <BlockSize> %d </BlockSize>\n\n", d.BlockSize)

	fmt.Fprintf(&b, "    <!-- Count of blocks in the image file: %s -->\n", humanCount(d.BlocksCount))
	fmt.Fprintf(&b, "    <BlocksCount> %d </BlocksCount>\n\n", d.BlocksCount)

	fmt.Fprintf(&b, "    <!-- Count of mapped blocks: %s or %s of the image -->\n",
		humanSize(d.MappedBlocksCount*d.BlockSize), humanPercent(d.MappedBlocksCount, d.BlocksCount))
	fmt.Fprintf(&b, "    <MappedBlocksCount> %d </MappedBlocksCount>\n\n", d.MappedBlocksCount)

	b.WriteString("    <!-- Type of checksum used in this file -->\n")
	fmt.Fprintf(&b, "    <ChecksumType> %s </ChecksumType>\n\n", checksumType)

	b.WriteString(`    <!-- The checksum of this bmap file. When the checksum is calculated, the
         value of this field is set to all ASCII "0" symbols. -->
`)
	fmt.Fprintf(&b, "    <BmapFileChecksum> %s </BmapFileChecksum>\n\n", checksum)

	b.WriteString(`    <!-- The block map. Each element is either a single block number or a
         range of blocks, both bounds inclusive. -->
`)
	b.WriteString("    <BlockMap>\n")
	for _, r := range d.Mapped {
		if r.Length() == 0 {
			continue
		}
		first := r.Begin / d.BlockSize
		last := r.End/d.BlockSize - 1
		if first == last {
			fmt.Fprintf(&b, "        <Range> %d </Range>\n", first)
		} else {
			fmt.Fprintf(&b, "        <Range> %d-%d </Range>\n", first, last)
		}
	}
	b.WriteString("    </BlockMap>\n")
	b.WriteString("</bmap>\n")
	return b.String(), nil
}
