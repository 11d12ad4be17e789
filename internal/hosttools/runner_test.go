//go:build unix

package hosttools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunTool(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("captures stdout", func(t *testing.T) {
		out, err := runTool(ctx, "sh", "-c", "echo hello")
		require.NoError(t, err)
		assert.Equal(t, "hello\n", string(out))
	})

	t.Run("failure includes stderr tail", func(t *testing.T) {
		_, err := runTool(ctx, "sh", "-c", "echo noise >&2; echo it broke >&2; exit 3")
		require.Error(t, err)

		var toolErr *ToolError
		require.True(t, errors.As(err, &toolErr))
		assert.Equal(t, "sh", toolErr.Tool)
		assert.Equal(t, "it broke", toolErr.Stderr)
	})

	t.Run("missing binary", func(t *testing.T) {
		_, err := runTool(ctx, "definitely-not-a-real-tool-12345")
		require.Error(t, err)
	})
}
