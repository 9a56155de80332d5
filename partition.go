package strutmesh

import "fmt"

// Partition splits source into contiguous chunks of chunkSize elements. The
// last chunk may be shorter. Concatenating the chunks in order reproduces
// source; an empty source yields no chunks.
//
// Chunks alias source but have their capacity clipped, so appending to one
// chunk never overwrites the next.
func Partition[T any](source []T, chunkSize int) ([][]T, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidArgument, chunkSize)
	}

	chunks := make([][]T, 0, PartitionCount(len(source), chunkSize))
	for start := 0; start < len(source); start += chunkSize {
		end := start + chunkSize
		if end > len(source) {
			end = len(source)
		}
		chunks = append(chunks, source[start:end:end])
	}

	return chunks, nil
}

// PartitionCount is the number of chunks Partition produces for n elements.
// It returns 0 for a non-positive chunkSize.
func PartitionCount(n, chunkSize int) int {
	if chunkSize <= 0 || n <= 0 {
		return 0
	}
	return (n + chunkSize - 1) / chunkSize
}
