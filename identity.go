package xfer

import "sync/atomic"

// IDAllocator assigns the numeric ids carried by orbits and trajectories.
// Ids are only used for external cross-referencing: none of the transfer
// computations depend on them.
type IDAllocator interface {
	Next() uint64
}

// SequentialIDs allocates monotonically increasing ids. Safe for concurrent
// use.
type SequentialIDs struct {
	last uint64
}

// NewSequentialIDs returns an allocator whose first id is `first`.
func NewSequentialIDs(first uint64) *SequentialIDs {
	if first == 0 {
		first = 1
	}
	return &SequentialIDs{last: first - 1}
}

// Next implements the IDAllocator interface.
func (s *SequentialIDs) Next() uint64 {
	return atomic.AddUint64(&s.last, 1)
}
