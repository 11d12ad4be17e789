package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/datawire/dlib/dlog"
	"github.com/spf13/cobra"

	"github.com/garethgeorge/bmapgen/internal/bmap"
	"github.com/garethgeorge/bmapgen/internal/hosttools"
	"github.com/garethgeorge/bmapgen/internal/imagefile"
	"github.com/garethgeorge/bmapgen/internal/progress"
	"github.com/garethgeorge/bmapgen/internal/scan"
	"github.com/garethgeorge/bmapgen/internal/sparsify"
)

var (
	bmapFlag   bool
	sparseFlag bool
	outputFlag string
)

var rootCmd = &cobra.Command{
	Use:   "bmapgen [flags] IMAGE",
	Short: "Generate block maps for disk images and sparsify their free space",
	Long: `bmapgen inspects a raw disk image's partition table and filesystems to find
which byte ranges actually hold data. It can emit that information as a
checksummed bmap XML document for bmap-aware flashing tools, punch the unused
ranges out of the image as sparse holes, or both.

Partition discovery and filesystem probing use the host's sfdisk, blkid and
dumpe2fs utilities; partitions with unsupported filesystems are kept fully
mapped.`,
	Version:       "0.1.0",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !bmapFlag && !sparseFlag {
			return fmt.Errorf("nothing to do: at least one of --bmap or --sparse is required")
		}
		return run(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.Flags().BoolVar(&bmapFlag, "bmap", false, "Generate a bmap document for the image")
	rootCmd.Flags().BoolVar(&sparseFlag, "sparse", false, "Punch holes in the image where space is free")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "",
		"Write the bmap document to `FILE` instead of stdout; a .gz suffix enables gzip")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "bmapgen: %v\n", err)
		fmt.Fprintln(os.Stderr, "try 'bmapgen --help' for usage")
		os.Exit(1)
	}
}

func run(ctx context.Context, image string) error {
	imageSize, err := imagefile.Size(image)
	if err != nil {
		return err
	}
	if imageSize == 0 {
		return fmt.Errorf("%s: %w", image, bmap.ErrEmptyImage)
	}

	// Check the sparse precondition before doing any work, so a misdirected
	// invocation aborts before the image is touched.
	if sparseFlag {
		sparse, err := imagefile.IsSparse(image)
		if err != nil {
			return err
		}
		if sparse {
			return fmt.Errorf("%s: %w", image, sparsify.ErrAlreadySparse)
		}
	}

	scanner := &scan.Scanner{
		Lister:  hosttools.SfdiskLister{},
		Prober:  hosttools.BlkidProber{},
		Sources: hosttools.DefaultSources(),
	}
	result, err := scanner.Scan(ctx, image, imageSize)
	if err != nil {
		return err
	}

	if bmapFlag {
		if err := writeBmap(ctx, result); err != nil {
			return err
		}
	}
	if sparseFlag {
		if err := sparsifyImage(ctx, image, result); err != nil {
			return err
		}
	}
	return nil
}

func writeBmap(ctx context.Context, result *scan.Result) error {
	if result.FreePool.Len() == 0 {
		return scan.ErrNoFreeSpaceFound
	}
	doc, err := bmap.Build(result.ImageSize, result.FreePool)
	if err != nil {
		return err
	}
	rendered, err := doc.Render()
	if err != nil {
		return err
	}

	dlog.Debugf(ctx, "bmap document fingerprint: %016x", xxhash.Sum64(rendered))
	dlog.Infof(ctx, "mapped %d of %d blocks at block size %d",
		doc.MappedBlocksCount, doc.BlocksCount, doc.BlockSize)
	return writeOutput(outputFlag, rendered)
}

func sparsifyImage(ctx context.Context, image string, result *scan.Result) error {
	f, err := os.OpenFile(image, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	free := result.FreePool.SortedByBegin()
	punched, err := sparsify.Sparsify(free, sparsify.FilePuncher{File: f},
		progress.NoopBarProgressTracker{})
	if err != nil {
		return err
	}
	dlog.Infof(ctx, "punched %d holes for %d free ranges in %s", punched, len(free), image)
	return nil
}
