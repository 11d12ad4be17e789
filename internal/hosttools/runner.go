// Package hosttools adapts the host utilities bmapgen depends on (sfdisk,
// blkid, dumpe2fs) to the typed collaborator interfaces in internal/scan.
// Text parsing of tool output is inherently fragile, so each parser lives
// behind its interface as a pure function over captured output and the range
// math never sees a specific tool's grammar.
package hosttools

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ToolError wraps a host-utility failure together with the tail of its
// stderr, which is usually the only useful diagnostic these tools produce.
type ToolError struct {
	Tool   string
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s: %v", e.Tool, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Tool, e.Err, e.Stderr)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// runTool executes a host utility and returns its stdout. Stderr is drained
// concurrently so a chatty tool cannot deadlock on a full pipe.
func runTool(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", name, err)
	}

	var outBuf, errBuf bytes.Buffer
	var eg errgroup.Group
	eg.Go(func() error {
		_, err := io.Copy(&outBuf, stdout)
		return err
	})
	eg.Go(func() error {
		_, err := io.Copy(&errBuf, stderr)
		return err
	})
	copyErr := eg.Wait()

	if err := cmd.Wait(); err != nil {
		return nil, &ToolError{Tool: name, Err: err, Stderr: lastLine(errBuf.String())}
	}
	if copyErr != nil {
		return nil, fmt.Errorf("reading %s output: %w", name, copyErr)
	}
	return outBuf.Bytes(), nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}
