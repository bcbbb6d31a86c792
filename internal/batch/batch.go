package batch

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

var ErrInvalidBatchSize = errors.New("batch size must be positive")

// Divide returns a lazy sequence of contiguous chunks of items, each of length n
// except possibly the last one. Ranging over the result again restarts it.
func Divide[T any](items []T, n int) (iter.Seq[[]T], error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, n)
	}
	return slices.Chunk(items, n), nil
}
