package main

import (
	"fmt"

	"github.com/voidptr/heapalloc/pkg/arena"
)

// ReplayError wraps the operation that failed and why, so a caller can use
// xerrors.AsA to pull the failing Op back out without string-matching.
type ReplayError struct {
	Op  Op
	Err error
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Op.Line, e.Err)
}

func (e *ReplayError) Unwrap() error { return e.Err }

// errOOM is returned (wrapped in a ReplayError) when an alloc/realloc op
// cannot be satisfied.
type errOOM struct{ requested int }

func (e *errOOM) Error() string {
	return fmt.Sprintf("out of memory allocating %d bytes", e.requested)
}

// Replay runs ops against h, tracking live pointers by id. If check is
// true, it runs h.CheckHeap after every mutating op, passing the trace
// line number through exactly as the original driver's
// mm_checkheap(__LINE__) convention did. It returns the sum of payload
// sizes still live when ops runs out, for a utilization summary.
func Replay(h *arena.Heap, ops []Op, check bool) (livePayload int, err error) {
	live := make(map[int]*byte)
	sizes := make(map[int]int)

	for _, op := range ops {
		switch op.Kind {
		case 'a':
			p := h.Allocate(op.Size)
			if p == nil {
				return 0, &ReplayError{op, &errOOM{op.Size}}
			}
			live[op.ID] = p
			sizes[op.ID] = op.Size

		case 'f':
			h.Free(live[op.ID])
			delete(live, op.ID)
			delete(sizes, op.ID)

		case 'r':
			p := h.Reallocate(live[op.ID], op.Size)
			if p == nil && op.Size > 0 {
				return 0, &ReplayError{op, &errOOM{op.Size}}
			}
			if op.Size == 0 {
				delete(live, op.ID)
				delete(sizes, op.ID)
			} else {
				live[op.ID] = p
				sizes[op.ID] = op.Size
			}
		}

		if check {
			h.CheckHeap(op.Line)
		}
	}

	for _, n := range sizes {
		livePayload += n
	}
	return livePayload, nil
}
