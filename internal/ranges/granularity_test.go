package ranges

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGCD(t *testing.T) {
	testCases := []struct {
		name     string
		a, b     uint64
		expected uint64
	}{
		{"coprime", 7, 13, 1},
		{"common factor", 12, 18, 6},
		{"zero left", 0, 42, 42},
		{"zero right", 42, 0, 42},
		{"both zero", 0, 0, 0},
		{"equal", 4096, 4096, 4096},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, gcd(tc.a, tc.b))
			assert.Equal(t, tc.expected, gcd(tc.b, tc.a))
		})
	}
}

func TestRangeSet_BlockSize(t *testing.T) {
	t.Parallel()

	t.Run("boundaries 100 250 400 resolve to 50", func(t *testing.T) {
		s := NewRangeSet()
		s.Append(ByteRange{Begin: 100, End: 250})
		s.Append(ByteRange{Begin: 250, End: 400})

		bs, ok := s.BlockSize()
		require.True(t, ok)
		assert.Equal(t, uint64(50), bs)
	})

	t.Run("result divides every boundary", func(t *testing.T) {
		s := NewRangeSet()
		boundaries := [][2]uint64{{4096, 8192}, {12288, 1048576}, {20480, 24576}}
		for _, b := range boundaries {
			s.Append(ByteRange{Begin: b[0], End: b[1]})
		}

		bs, ok := s.BlockSize()
		require.True(t, ok)
		for _, b := range boundaries {
			assert.Zero(t, b[0]%bs)
			assert.Zero(t, b[1]%bs)
		}
		assert.Equal(t, uint64(4096), bs)
	})

	t.Run("boundary at zero does not break resolution", func(t *testing.T) {
		s := NewRangeSet()
		s.Append(ByteRange{Begin: 0, End: 512})

		bs, ok := s.BlockSize()
		require.True(t, ok)
		assert.Equal(t, uint64(512), bs)
	})

	t.Run("misaligned boundary degrades to 1", func(t *testing.T) {
		s := NewRangeSet()
		s.Append(ByteRange{Begin: 4096, End: 8193})

		bs, ok := s.BlockSize()
		require.True(t, ok)
		assert.Equal(t, uint64(1), bs)
	})

	t.Run("empty set is unresolvable", func(t *testing.T) {
		s := NewRangeSet()
		_, ok := s.BlockSize()
		assert.False(t, ok)
	})
}
