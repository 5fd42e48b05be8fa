package arena

import (
	"iter"
	"unsafe"

	"github.com/voidptr/heapalloc/internal/debug"
	"github.com/voidptr/heapalloc/pkg/xunsafe"
)

// linkWidth is the size, in bytes, of one free-list link. Links are stored
// as plain Addr[byte] values, so a link is pointer-sized regardless of the
// word width used by the boundary tags.
const linkWidth = int(unsafe.Sizeof(xunsafe.Addr[byte](0)))

func prevLinkAddr(p xunsafe.Addr[byte]) xunsafe.Addr[xunsafe.Addr[byte]] {
	return xunsafe.Addr[xunsafe.Addr[byte]](p)
}

func nextLinkAddr(p xunsafe.Addr[byte]) xunsafe.Addr[xunsafe.Addr[byte]] {
	return xunsafe.Addr[xunsafe.Addr[byte]](p.ByteAdd(linkWidth))
}

func prevFree(p xunsafe.Addr[byte]) xunsafe.Addr[byte] {
	return *prevLinkAddr(p).AssertValid()
}

func nextFree(p xunsafe.Addr[byte]) xunsafe.Addr[byte] {
	return *nextLinkAddr(p).AssertValid()
}

func setPrevFree(p, v xunsafe.Addr[byte]) {
	*prevLinkAddr(p).AssertValid() = v
}

func setNextFree(p, v xunsafe.Addr[byte]) {
	*nextLinkAddr(p).AssertValid() = v
}

// insertFree threads p onto the front of the free list (LIFO), matching
// insertfreeblock's policy of always inserting at the head.
func (h *Heap) insertFree(p xunsafe.Addr[byte]) {
	debug.Log(nil, "insertFree", "%v", p)

	setPrevFree(p, 0)
	setNextFree(p, h.freeListp)
	if !h.freeListp.IsNil() {
		setPrevFree(h.freeListp, p)
	}
	h.freeListp = p
}

// removeFree detaches p from the free list, covering all four positions a
// node can occupy: sole element, head, tail, or interior. Both of p's own
// links are nulled out afterward regardless of which case applied, so a
// stale read of a just-removed block's links can never alias a live node.
func (h *Heap) removeFree(p xunsafe.Addr[byte]) {
	debug.Log(nil, "removeFree", "%v", p)

	prev, next := prevFree(p), nextFree(p)
	switch {
	case prev.IsNil() && next.IsNil():
		h.freeListp = 0
	case prev.IsNil() && !next.IsNil():
		h.freeListp = next
		setPrevFree(next, 0)
	case !prev.IsNil() && next.IsNil():
		setNextFree(prev, 0)
	default:
		setNextFree(prev, next)
		setPrevFree(next, prev)
	}

	setPrevFree(p, 0)
	setNextFree(p, 0)
}

// freeBlocks iterates the free list from head to tail.
func (h *Heap) freeBlocks() iter.Seq[xunsafe.Addr[byte]] {
	return func(yield func(xunsafe.Addr[byte]) bool) {
		for p := h.freeListp; !p.IsNil(); p = nextFree(p) {
			if !yield(p) {
				return
			}
		}
	}
}
