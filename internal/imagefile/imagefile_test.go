package imagefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSize(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	path := filepath.Join(dir, "image.img")
	require.NoError(t, os.WriteFile(path, make([]byte, 12345), 0o644))

	size, err := Size(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), size)

	_, err = Size(filepath.Join(dir, "missing.img"))
	assert.Error(t, err)

	_, err = Size(dir)
	assert.Error(t, err)
}
