package strutmesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func concat[T any](chunks [][]T) []T {
	var out []T
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

func TestPartitionRoundTrip(t *testing.T) {
	source := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	for size := 1; size <= len(source)+2; size++ {
		chunks, err := Partition(source, size)
		require.NoError(t, err)

		assert.Equal(t, source, concat(chunks), "size %d", size)
		assert.Len(t, chunks, PartitionCount(len(source), size))

		for i, c := range chunks {
			if i < len(chunks)-1 {
				assert.Len(t, c, size)
			} else {
				assert.LessOrEqual(t, len(c), size)
				assert.NotEmpty(t, c)
			}
		}
	}
}

func TestPartitionSingleChunk(t *testing.T) {
	source := []string{"a", "b", "c"}

	chunks, err := Partition(source, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b", "c"}}, chunks)

	chunks, err = Partition(source, 100)
	require.NoError(t, err)
	assert.Len(t, chunks, 1)
}

func TestPartitionEmpty(t *testing.T) {
	chunks, err := Partition([]int(nil), 4)
	require.NoError(t, err)
	assert.Empty(t, chunks)
	assert.Equal(t, 0, PartitionCount(0, 4))
}

func TestPartitionInvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		_, err := Partition([]int{1, 2}, size)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
}

func TestPartitionChunksDoNotOverlap(t *testing.T) {
	source := []int{1, 2, 3, 4}

	chunks, err := Partition(source, 2)
	require.NoError(t, err)

	grown := append(chunks[0], 99)
	assert.Equal(t, []int{1, 2, 99}, grown)
	assert.Equal(t, []int{3, 4}, chunks[1])
	assert.Equal(t, []int{1, 2, 3, 4}, source)
}
