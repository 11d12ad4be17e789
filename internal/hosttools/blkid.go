package hosttools

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	losetup "github.com/freddierice/go-losetup/v2"

	"github.com/garethgeorge/bmapgen/internal/scan"
)

// BlkidProber identifies a partition's filesystem by attaching it to a
// read-only loop device at its byte offset and running blkid against the
// device node.
type BlkidProber struct{}

var _ scan.FilesystemProber = BlkidProber{}

func (BlkidProber) Probe(ctx context.Context, image string, part scan.Partition) (string, error) {
	dev, err := losetup.Attach(image, part.Offset, true)
	if err != nil {
		return "", fmt.Errorf("attaching partition %d to a loop device: %w", part.Index, err)
	}
	defer dev.Detach()

	out, err := runTool(ctx, "blkid", "-o", "value", "-s", "TYPE", dev.Path())
	if err != nil {
		// blkid exits 2 when it recognizes nothing; that is an unknown
		// filesystem, not a failure.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 2 {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
