package arena

import (
	"fmt"

	"github.com/voidptr/heapalloc/internal/debug"
	"github.com/voidptr/heapalloc/pkg/res"
	"github.com/voidptr/heapalloc/pkg/xunsafe"
)

// OOMError is returned internally when a Provider cannot grow the region
// any further. It never crosses Heap's public API: every exported method
// that can fail this way returns a plain nil, matching the original
// malloc's contract.
type OOMError struct {
	Requested int
}

func (e *OOMError) Error() string {
	return fmt.Sprintf("arena: out of memory requesting %d bytes", e.Requested)
}

// Heap is an instance of the allocator: boundary-tag blocks threaded
// through a Provider-supplied arena, with an explicit doubly linked free
// list for O(1) insert/remove and first-fit placement.
//
// A Heap is not safe for concurrent use.
type Heap struct {
	_ xunsafe.NoCopy

	provider    Provider
	heapListp   xunsafe.Addr[byte] // prologue's payload address
	freeListp   xunsafe.Addr[byte] // head of the free list, zero if empty
	chunk       int
	initialized bool

	// allocCount only exists in debug builds; it has no effect on behavior
	// and exists purely so debug builds can report a running total through
	// AllocCount.
	allocCount debug.Value[int]
}

// AllocCount returns the number of successful Allocate calls so far. It
// panics outside debug builds, matching debug.Value's contract.
func (h *Heap) AllocCount() int { return *h.allocCount.Get() }

// New returns a Heap that has not yet requested any memory from provider.
// The region is created lazily, on the first call to Allocate, Free,
// Reallocate, or ZeroAllocate.
func New(provider Provider) *Heap {
	return &Heap{provider: provider, chunk: defaultChunk}
}

// WithChunkSize overrides the number of bytes requested from the Provider
// each time the arena must grow. The default is defaultChunk.
func (h *Heap) WithChunkSize(n int) *Heap {
	h.chunk = n
	return h
}

// init lazily lays down the prologue and epilogue sentinels and extends the
// arena with one chunk-sized free block, mirroring mm_init's layout:
//
//	[ padding word | prologue header | prologue payload | prologue footer | epilogue header ]
func (h *Heap) init() res.Result[struct{}] {
	if h.initialized {
		return res.Ok(struct{}{})
	}

	region, ok := h.provider.Grow(2*wordWidth + minBlockSize)
	if !ok {
		return res.Err[struct{}](&OOMError{2*wordWidth + minBlockSize})
	}

	writeWord(xunsafe.Addr[word](region), 0)

	writeWord(xunsafe.Addr[word](region.ByteAdd(wordWidth)), packWord(minBlockSize, true))
	prologuePayload := region.ByteAdd(2 * wordWidth)
	writeWord(footerAddr(prologuePayload, minBlockSize), packWord(minBlockSize, true))
	writeWord(xunsafe.Addr[word](region.ByteAdd(wordWidth+minBlockSize)), packWord(0, true))

	h.heapListp = prologuePayload
	h.freeListp = 0
	h.initialized = true

	debug.Log(nil, "init", "prologue at %v", prologuePayload)

	if _, ok := h.growArena(h.chunk); !ok {
		return res.Err[struct{}](&OOMError{h.chunk})
	}
	return res.Ok(struct{}{})
}

// Allocate returns a pointer to a block of at least size usable bytes, or
// nil if the Provider cannot supply enough memory. Requesting a size of
// zero returns nil without touching the heap.
func (h *Heap) Allocate(size int) *byte {
	if size <= 0 {
		return nil
	}
	if h.init().IsErr() {
		return nil
	}

	asize := roundSize(size)
	debug.Log(nil, "Allocate", "%d bytes -> block of %d", size, asize)

	p, ok := h.findFit(asize)
	if !ok {
		if p, ok = h.growArena(asize); !ok {
			return nil
		}
	}
	h.place(p, asize)
	if debug.Enabled {
		*h.allocCount.Get()++
	}
	return p.AssertValid()
}

// Free releases the block ptr points to, coalescing it with whichever
// physical neighbors are also free. Freeing nil is a no-op.
func (h *Heap) Free(ptr *byte) {
	if ptr == nil {
		return
	}
	if h.init().IsErr() {
		return
	}

	p := xunsafe.AddrOf(ptr)
	size := readWord(headerAddr(p)).size()

	debug.Log(nil, "Free", "%v (%d bytes)", p, size)

	writeWord(headerAddr(p), packWord(size, false))
	writeWord(footerAddr(p, size), packWord(size, false))
	h.coalesce(p)
}

// Reallocate resizes the block ptr points to, preserving its contents up to
// the smaller of the old and new sizes. A nil ptr behaves like Allocate; a
// size of zero behaves like Free and returns nil. If the Provider cannot
// supply the new size, ptr is left untouched and Reallocate returns nil.
func (h *Heap) Reallocate(ptr *byte, size int) *byte {
	if size <= 0 {
		h.Free(ptr)
		return nil
	}
	if ptr == nil {
		return h.Allocate(size)
	}

	p := xunsafe.AddrOf(ptr)
	oldSize := readWord(headerAddr(p)).size()
	if roundSize(size) == oldSize {
		return ptr
	}

	newPtr := h.Allocate(size)
	if newPtr == nil {
		return nil
	}

	oldPayload := oldSize - 2*wordWidth
	n := min(size, oldPayload)
	xunsafe.Copy(newPtr, ptr, n)
	h.Free(ptr)
	return newPtr
}

// ZeroAllocate allocates space for count objects of size bytes each and
// zeroes the result, matching calloc's contract. It returns nil if
// count*size overflows to a non-positive value or the allocation fails.
func (h *Heap) ZeroAllocate(count, size int) *byte {
	if count <= 0 || size <= 0 {
		return nil
	}

	n := count * size
	if n/count != size {
		return nil // overflow
	}

	p := h.Allocate(n)
	if p == nil {
		return nil
	}
	xunsafe.Clear(p, n)
	return p
}
