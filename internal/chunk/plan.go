// Package chunk computes the part layout for multipart uploads.
package chunk

import "fmt"

// Part is one contiguous byte range of a file, uploaded independently of the
// other parts. Numbers are 1-based and contiguous; numeric order equals byte
// order.
type Part struct {
	Number int32
	Offset int64
	Length int64
}

// End returns the exclusive end offset of the part.
func (p Part) End() int64 {
	return p.Offset + p.Length
}

// Plan splits totalSize bytes into parts of at most chunkSize each. Every
// part except the last is exactly chunkSize long, ranges are contiguous and
// non-overlapping and cover [0, totalSize). A zero totalSize yields an empty
// plan; callers must route empty or sub-threshold files through the
// single-PUT path before reaching the multipart protocol.
func Plan(totalSize, chunkSize int64) ([]Part, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if totalSize < 0 {
		return nil, fmt.Errorf("total size must be non-negative, got %d", totalSize)
	}

	count := Count(totalSize, chunkSize)
	parts := make([]Part, 0, count)
	for offset := int64(0); offset < totalSize; offset += chunkSize {
		length := chunkSize
		if remaining := totalSize - offset; remaining < length {
			length = remaining
		}
		parts = append(parts, Part{
			Number: int32(len(parts) + 1),
			Offset: offset,
			Length: length,
		})
	}
	return parts, nil
}

// Count returns ceil(totalSize / chunkSize). It panics on a non-positive
// chunkSize, matching Plan's argument contract.
func Count(totalSize, chunkSize int64) int {
	if chunkSize <= 0 {
		panic("chunk: non-positive chunk size")
	}
	return int((totalSize + chunkSize - 1) / chunkSize)
}
