package arena

import (
	"github.com/voidptr/heapalloc/internal/debug"
	"github.com/voidptr/heapalloc/pkg/xunsafe"
)

// coalesce merges the free block at p with whichever of its physical
// neighbors are also free, inserts the (possibly merged) result onto the
// free list, and returns its payload address.
//
// The prologue is permanently marked allocated, so a block sitting right
// after it reads the prologue's footer as allocated and takes the
// prevAllocated branch without any special-case code; the same is true of
// the epilogue on the other side.
func (h *Heap) coalesce(p xunsafe.Addr[byte]) xunsafe.Addr[byte] {
	size := readWord(headerAddr(p)).size()
	pFooterEnd := footerAddr(p, size)

	prevFooter := readWord(xunsafe.Addr[word](p.ByteAdd(-2 * wordWidth)))
	prevAllocated := prevFooter.allocated()

	next := nextBlock(p)
	nextHeader := readWord(headerAddr(next))
	nextAllocated := nextHeader.allocated()

	switch {
	case prevAllocated && nextAllocated:
		debug.Log(nil, "coalesce", "%v: no merge", p)
		h.insertFree(p)
		return p

	case prevAllocated && !nextAllocated:
		debug.Log(nil, "coalesce", "%v: merge with next", p)
		size += nextHeader.size()
		h.removeFree(next)
		writeWord(headerAddr(p), packWord(size, false))
		writeWord(footerAddr(p, size), packWord(size, false))
		h.insertFree(p)
		return p

	case !prevAllocated && nextAllocated:
		debug.Log(nil, "coalesce", "%v: merge with prev", p)
		prev := prevBlock(p)
		size += prevFooter.size()
		h.removeFree(prev)
		writeWord(headerAddr(prev), packWord(size, false))
		writeWord(pFooterEnd, packWord(size, false))
		h.insertFree(prev)
		return prev

	default:
		debug.Log(nil, "coalesce", "%v: merge with prev and next", p)
		prev := prevBlock(p)
		size += prevFooter.size() + nextHeader.size()
		h.removeFree(next)
		h.removeFree(prev)
		writeWord(headerAddr(prev), packWord(size, false))
		writeWord(footerAddr(next, nextHeader.size()), packWord(size, false))
		h.insertFree(prev)
		return prev
	}
}
