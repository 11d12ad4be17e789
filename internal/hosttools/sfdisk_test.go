package hosttools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garethgeorge/bmapgen/internal/scan"
)

func TestParseSfdiskDump(t *testing.T) {
	t.Parallel()

	t.Run("two partitions", func(t *testing.T) {
		dump := `label: dos
label-id: 0x6f1a2b3c
device: disk.img
unit: sectors

disk.img1 : start=        2048, size=      524288, type=83
disk.img2 : start=      526336, size=     1048576, type=83, bootable
`
		parts, err := parseSfdiskDump([]byte(dump))
		require.NoError(t, err)
		require.Len(t, parts, 2)
		assert.Equal(t, scan.Partition{Index: 1, Offset: 2048 * 512, Size: 524288 * 512}, parts[0])
		assert.Equal(t, scan.Partition{Index: 2, Offset: 526336 * 512, Size: 1048576 * 512}, parts[1])
	})

	t.Run("gpt dump with uuid fields", func(t *testing.T) {
		dump := `label: gpt
label-id: 11111111-2222-3333-4444-555555555555
device: disk.img
unit: sectors
first-lba: 2048
last-lba: 2097118

disk.img1 : start=2048, size=204800, type=0FC63DAF-8483-4772-8E79-3D69D8477DE4, uuid=AAAAAAAA-BBBB-CCCC-DDDD-EEEEEEEEEEEE
`
		parts, err := parseSfdiskDump([]byte(dump))
		require.NoError(t, err)
		require.Len(t, parts, 1)
		assert.Equal(t, uint64(2048*512), parts[0].Offset)
		assert.Equal(t, uint64(204800*512), parts[0].Size)
	})

	t.Run("missing unit line", func(t *testing.T) {
		dump := `label: dos
disk.img1 : start=2048, size=524288, type=83
`
		_, err := parseSfdiskDump([]byte(dump))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unit")
	})

	t.Run("unsupported unit", func(t *testing.T) {
		dump := "unit: cylinders\ndisk.img1 : start=2048, size=524288\n"
		_, err := parseSfdiskDump([]byte(dump))
		require.Error(t, err)
	})

	t.Run("no partitions", func(t *testing.T) {
		parts, err := parseSfdiskDump([]byte("label: dos\nunit: sectors\n"))
		require.NoError(t, err)
		assert.Empty(t, parts)
	})

	t.Run("malformed start", func(t *testing.T) {
		dump := "unit: sectors\ndisk.img1 : start=banana, size=524288\n"
		_, err := parseSfdiskDump([]byte(dump))
		require.Error(t, err)
	})
}
