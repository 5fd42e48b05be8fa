package arena

import (
	"github.com/voidptr/heapalloc/internal/debug"
	"github.com/voidptr/heapalloc/pkg/xiter"
	"github.com/voidptr/heapalloc/pkg/xunsafe"
	"github.com/voidptr/heapalloc/pkg/xunsafe/layout"
)

// Provider is the external collaborator that owns the raw memory backing a
// Heap. It vends a single contiguous, monotonically growing byte region; a
// Heap never allocates or frees that region itself, only asks Provider to
// extend it.
type Provider interface {
	// Grow appends n bytes to the region and returns the address of the
	// newly appended bytes, i.e. the region's old Hi(). ok is false if the
	// region cannot grow any further.
	Grow(n int) (addr xunsafe.Addr[byte], ok bool)

	// Lo returns the current low address of the region.
	Lo() xunsafe.Addr[byte]

	// Hi returns the current high address of the region, one past the last
	// byte currently vended.
	Hi() xunsafe.Addr[byte]
}

// roundSize converts a requested payload size into the size of the block
// that will hold it: round up to Align, add the header and footer words,
// then raise the result to minBlockSize if it is smaller, so the block is
// always large enough to carry free-list links once freed.
func roundSize(payload int) int {
	aligned := layout.RoundUp(payload, Align)
	return max(aligned+2*wordWidth, minBlockSize)
}

// findFit returns the first free block able to hold asize bytes, walking
// the free list from its head (most recently inserted first), not in
// address order.
func (h *Heap) findFit(asize int) (xunsafe.Addr[byte], bool) {
	found := xiter.Find(h.freeBlocks(), func(p xunsafe.Addr[byte]) bool {
		return readWord(headerAddr(p)).size() >= asize
	})
	if found.IsNone() {
		return 0, false
	}
	return found.Unwrap(), true
}

// place marks p allocated at size asize, splitting off and coalescing the
// remainder as a new free block if what's left is large enough to stand on
// its own (spec minBlockSize); otherwise the whole block is handed out as
// internal fragmentation.
func (h *Heap) place(p xunsafe.Addr[byte], asize int) {
	csize := readWord(headerAddr(p)).size()
	h.removeFree(p)

	if csize-asize >= minBlockSize {
		debug.Log(nil, "place", "%v: split %d -> %d + %d", p, csize, asize, csize-asize)

		writeWord(headerAddr(p), packWord(asize, true))
		writeWord(footerAddr(p, asize), packWord(asize, true))

		q := nextBlock(p)
		rem := csize - asize
		writeWord(headerAddr(q), packWord(rem, false))
		writeWord(footerAddr(q, rem), packWord(rem, false))
		h.coalesce(q)
		return
	}

	debug.Log(nil, "place", "%v: no split, %d bytes internal fragmentation", p, csize-asize)
	writeWord(headerAddr(p), packWord(csize, true))
	writeWord(footerAddr(p, csize), packWord(csize, true))
}

// growArena asks the Provider for the larger of asize and the Heap's chunk
// size in more bytes, rewrites the old epilogue as the header of a new
// free block, writes a fresh epilogue at the new high end, coalesces the
// new block with whatever free block preceded the old epilogue, and
// returns the result. The returned block is always at least asize bytes,
// since growth only ever adds to whatever a coalesce merge contributes.
func (h *Heap) growArena(asize int) (xunsafe.Addr[byte], bool) {
	grow := max(asize, h.chunk)

	region, ok := h.provider.Grow(grow)
	if !ok {
		debug.Log(nil, "growArena", "provider out of memory for %d bytes", grow)
		return 0, false
	}

	// region is the arena's old Hi(), which is exactly where the old
	// epilogue header lived (headerAddr(region) = region - wordWidth): the
	// new free block's header overwrites it directly, the same way
	// extend_heap's sbrk'd pointer aliases the old epilogue slot.
	p := region
	writeWord(headerAddr(p), packWord(grow, false))
	writeWord(footerAddr(p, grow), packWord(grow, false))

	epilogue := xunsafe.Addr[word](h.provider.Hi().ByteAdd(-wordWidth))
	writeWord(epilogue, packWord(0, true))

	debug.Log(nil, "growArena", "%v: +%d bytes", p, grow)
	return h.coalesce(p), true
}
