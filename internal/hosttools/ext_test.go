package hosttools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garethgeorge/bmapgen/internal/scan"
)

func TestParseDumpe2fs(t *testing.T) {
	t.Parallel()

	t.Run("groups and singles", func(t *testing.T) {
		out := `dumpe2fs 1.47.0 (5-Feb-2023)
Filesystem volume name:   <none>
Free blocks:              12345
Free inodes:              2048
Block size:               4096
Fragment size:            4096

Group 0: (Blocks 0-32767)
  Primary superblock at 0, Group descriptors at 1-1
  Free blocks: 9249-12287
  Free inodes: 12-8192
Group 1: (Blocks 32768-65535)
  Backup superblock at 32768, Group descriptors at 32769-32769
  Free blocks: 33792, 40960-65535
`
		free, err := parseDumpe2fs([]byte(out))
		require.NoError(t, err)
		assert.Equal(t, uint64(4096), free.BlockSize)
		require.Len(t, free.Ranges, 3)
		assert.Equal(t, scan.BlockRange{First: 9249, Last: 12287}, free.Ranges[0])
		assert.Equal(t, scan.BlockRange{First: 33792, Last: 33792}, free.Ranges[1])
		assert.Equal(t, scan.BlockRange{First: 40960, Last: 65535}, free.Ranges[2])
	})

	t.Run("header total is not a free range", func(t *testing.T) {
		out := `Free blocks:              99999
Block size:               1024
Group 0: (Blocks 0-8191)
  Free blocks: 100-200
`
		free, err := parseDumpe2fs([]byte(out))
		require.NoError(t, err)
		require.Len(t, free.Ranges, 1)
		assert.Equal(t, scan.BlockRange{First: 100, Last: 200}, free.Ranges[0])
	})

	t.Run("wrapped free block list", func(t *testing.T) {
		out := `Block size:               1024
Group 0: (Blocks 0-8191)
  Free blocks: 100-200, 300,
  400-500, 600
  Free inodes: 11-2048
`
		free, err := parseDumpe2fs([]byte(out))
		require.NoError(t, err)
		require.Len(t, free.Ranges, 4)
		assert.Equal(t, scan.BlockRange{First: 400, Last: 500}, free.Ranges[2])
		assert.Equal(t, scan.BlockRange{First: 600, Last: 600}, free.Ranges[3])
	})

	t.Run("no free blocks at all", func(t *testing.T) {
		out := `Block size:               4096
Group 0: (Blocks 0-32767)
  Free blocks:
`
		free, err := parseDumpe2fs([]byte(out))
		require.NoError(t, err)
		assert.Equal(t, uint64(4096), free.BlockSize)
		assert.Empty(t, free.Ranges)
	})

	t.Run("missing block size line", func(t *testing.T) {
		out := "Group 0: (Blocks 0-8191)\n  Free blocks: 100-200\n"
		_, err := parseDumpe2fs([]byte(out))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "block size")
	})

	t.Run("garbage in block list", func(t *testing.T) {
		out := "Block size: 1024\nGroup 0:\n  Free blocks: 100-banana\n"
		_, err := parseDumpe2fs([]byte(out))
		require.Error(t, err)
	})
}

func TestDefaultSources(t *testing.T) {
	sources := DefaultSources()
	for _, fsType := range []string{"ext2", "ext3", "ext4"} {
		assert.Contains(t, sources, fsType)
	}
	assert.NotContains(t, sources, "ntfs")
}
