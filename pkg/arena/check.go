package arena

import (
	"fmt"
	"iter"

	"github.com/voidptr/heapalloc/internal/debug"
	"github.com/voidptr/heapalloc/pkg/opt"
	"github.com/voidptr/heapalloc/pkg/xiter"
	"github.com/voidptr/heapalloc/pkg/xunsafe"
)

// Violation describes a single broken heap invariant, as found by Verify.
type Violation struct {
	Line    int
	Addr    xunsafe.Addr[byte]
	Message string
}

func (v Violation) Error() string {
	return fmt.Sprintf("heap corrupt at %v (checked from line %d): %s", v.Addr, v.Line, v.Message)
}

// Blocks iterates every real block between the prologue and the epilogue,
// in address order.
func (h *Heap) Blocks() iter.Seq[xunsafe.Addr[byte]] {
	return func(yield func(xunsafe.Addr[byte]) bool) {
		if !h.initialized {
			return
		}
		for p := nextBlock(h.heapListp); ; p = nextBlock(p) {
			hdr := readWord(headerAddr(p))
			if hdr.size() == 0 && hdr.allocated() {
				return // epilogue
			}
			if !yield(p) {
				return
			}
		}
	}
}

func (h *Heap) inBounds(p xunsafe.Addr[byte]) bool {
	return p.ByteSub(h.provider.Lo()) >= 0 && p.ByteSub(h.provider.Hi()) < 0
}

func (h *Heap) checkBlock(lineno int, p xunsafe.Addr[byte]) opt.Option[Violation] {
	if uintptr(p)%Align != 0 {
		return opt.Some(Violation{lineno, p, "payload address not aligned"})
	}
	if !h.inBounds(p) {
		return opt.Some(Violation{lineno, p, "block out of arena bounds"})
	}

	hdr := readWord(headerAddr(p))
	ftr := readWord(footerAddr(p, hdr.size()))
	if hdr != ftr {
		return opt.Some(Violation{lineno, p, "header and footer disagree"})
	}
	if hdr.size()%Align != 0 {
		return opt.Some(Violation{lineno, p, "block size not aligned"})
	}
	if hdr.allocated() && hdr.size() < minBlockSize {
		return opt.Some(Violation{lineno, p, "allocated block below minimum size"})
	}

	if !hdr.allocated() {
		if next := nextBlock(p); !readWord(headerAddr(next)).allocated() {
			return opt.Some(Violation{lineno, p, "two adjacent free blocks: coalescing invariant broken"})
		}
	}

	return opt.None[Violation]()
}

func (h *Heap) checkFreeLink(lineno int, p xunsafe.Addr[byte]) opt.Option[Violation] {
	if !h.inBounds(p) {
		return opt.Some(Violation{lineno, p, "free-list node out of arena bounds"})
	}

	if next := nextFree(p); !next.IsNil() {
		if !h.inBounds(next) {
			return opt.Some(Violation{lineno, p, "free-list next link out of arena bounds"})
		}
		if prevFree(next) != p {
			return opt.Some(Violation{lineno, p, "free-list broken: prev(next(x)) != x"})
		}
	}
	if prev := prevFree(p); !prev.IsNil() {
		if !h.inBounds(prev) {
			return opt.Some(Violation{lineno, p, "free-list prev link out of arena bounds"})
		}
		if nextFree(prev) != p {
			return opt.Some(Violation{lineno, p, "free-list broken: next(prev(x)) != x"})
		}
	}

	return opt.None[Violation]()
}

// Verify runs every check the original implementation's mm_checkheap did:
// prologue shape, per-block alignment and boundary-tag agreement, the
// no-two-adjacent-free-blocks coalescing invariant, free-list pointer
// symmetry, and free-block count agreement between a heap walk and a
// free-list walk. It returns the first violation found, or None if the
// heap is consistent. lineno identifies the call site, for diagnostics.
func (h *Heap) Verify(lineno int) opt.Option[Violation] {
	if !h.initialized {
		return opt.None[Violation]()
	}

	prologueHdr := readWord(headerAddr(h.heapListp))
	if prologueHdr.size() != minBlockSize || !prologueHdr.allocated() {
		return opt.Some(Violation{lineno, h.heapListp, "prologue malformed"})
	}

	for p := range h.Blocks() {
		if v := h.checkBlock(lineno, p); v.IsSome() {
			return v
		}
	}

	for p := range h.freeBlocks() {
		if v := h.checkFreeLink(lineno, p); v.IsSome() {
			return v
		}
	}

	freeFromWalk := func(yield func(xunsafe.Addr[byte]) bool) {
		for p := range h.Blocks() {
			if !readWord(headerAddr(p)).allocated() && !yield(p) {
				return
			}
		}
	}

	numByWalk := xiter.Count(iter.Seq[xunsafe.Addr[byte]](freeFromWalk))
	numByList := xiter.Count(h.freeBlocks())
	if numByWalk != numByList {
		return opt.Some(Violation{
			lineno, 0,
			fmt.Sprintf("free block count mismatch: heap walk saw %d, free list saw %d", numByWalk, numByList),
		})
	}

	return opt.None[Violation]()
}

// CheckHeap panics with a descriptive message if Verify finds a broken
// invariant. It is a no-op in release builds (debug.Enabled false), which
// is the debug/release split the original driver's mm_checkheap(__LINE__)
// calls relied on.
func (h *Heap) CheckHeap(lineno int) {
	if !debug.Enabled {
		return
	}
	if v := h.Verify(lineno); v.IsSome() {
		debug.Assert(false, "%s", v.Unwrap().Error())
	}
}
