package embedding

import (
	"fmt"

	"museroll/internal/interval"
)

// Chunk splits an interval sequence into consecutive pieces of the given
// size. The final chunk is shorter when the length is not a multiple of
// size; no padding is added. The chunks share the input's backing array.
func Chunk(intervals []interval.Interval, size int) ([][]interval.Interval, error) {
	if size < 1 {
		return nil, fmt.Errorf("chunk size must be a positive integer, got %d", size)
	}

	chunks := make([][]interval.Interval, 0, (len(intervals)+size-1)/size)
	for start := 0; start < len(intervals); start += size {
		end := start + size
		if end > len(intervals) {
			end = len(intervals)
		}
		chunks = append(chunks, intervals[start:end])
	}
	return chunks, nil
}

// Merge concatenates chunks back into a single sequence in order.
func Merge(chunks [][]interval.Interval) []interval.Interval {
	total := 0
	for _, chunk := range chunks {
		total += len(chunk)
	}

	merged := make([]interval.Interval, 0, total)
	for _, chunk := range chunks {
		merged = append(merged, chunk...)
	}
	return merged
}
