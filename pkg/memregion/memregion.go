// Package memregion provides the reference [arena.Provider]: a single
// contiguous byte region with a stable base address, pre-reserved up to a
// fixed capacity.
//
// It deliberately does not use Go's append-style reallocating slice growth.
// A boundary-tag allocator depends on every address it has ever handed out
// staying valid and pointing at the same bytes for the lifetime of the
// arena; a growth strategy that can move the backing array (as append does
// once capacity is exceeded) would invalidate every live block. Region
// instead reserves its capacity once, up front, and grows only by
// re-slicing within it, mirroring the fixed-address guarantee sbrk/mmap
// give a real allocator.
package memregion

import (
	"fmt"

	"github.com/voidptr/heapalloc/pkg/xunsafe"
)

// Region is an arena.Provider backed by a single pre-reserved []byte.
type Region struct {
	base   xunsafe.Addr[byte]
	buf    []byte
	vended int
}

// New reserves a region with room to grow up to capacity bytes. Grow will
// refuse to extend the region past this limit.
func New(capacity int) *Region {
	r := &Region{buf: make([]byte, 0, capacity)}
	if capacity > 0 {
		full := r.buf[:capacity]
		r.base = xunsafe.AddrOf(&full[0])
	}
	return r
}

// Grow appends n bytes to the region, returning the address of the first
// new byte. It fails once the region's capacity is exhausted.
func (r *Region) Grow(n int) (xunsafe.Addr[byte], bool) {
	if n <= 0 {
		return 0, false
	}
	old := len(r.buf)
	if old+n > cap(r.buf) {
		return 0, false
	}
	r.buf = r.buf[:old+n]
	r.vended += n
	return r.base.ByteAdd(old), true
}

// Lo returns the region's fixed base address.
func (r *Region) Lo() xunsafe.Addr[byte] { return r.base }

// Hi returns the address one past the last byte currently vended.
func (r *Region) Hi() xunsafe.Addr[byte] { return r.base.ByteAdd(len(r.buf)) }

// Capacity returns the maximum number of bytes this region can ever vend.
func (r *Region) Capacity() int { return cap(r.buf) }

// Vended returns the total number of bytes handed out by Grow so far.
// Combined with a payload-byte tally kept by the caller, this turns P7
// ("total bytes obtained from the region must be at least the sum of
// allocated payload sizes") into an observable utilization ratio.
func (r *Region) Vended() int { return r.vended }

func (r *Region) String() string {
	return fmt.Sprintf("memregion(%d/%d bytes vended)", r.vended, cap(r.buf))
}
