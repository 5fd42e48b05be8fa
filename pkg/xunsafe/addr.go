package xunsafe

import (
	"fmt"
	"unsafe"

	"github.com/voidptr/heapalloc/pkg/xunsafe/layout"
)

// Addr is a typed address: a uintptr that remembers the type of the value it
// points to, so that arithmetic on it can be expressed in units of T instead
// of raw bytes.
//
// Unlike a *T, an Addr[T] is not traced by the garbage collector and carries
// no validity guarantee; it is only a number until [Addr.AssertValid] turns
// it back into a pointer. This is the representation the arena allocator
// uses for every header, footer, and free-list link address, since those
// addresses must be computable, stored, and compared without keeping the
// underlying memory rooted by a typed Go pointer.
type Addr[T any] uintptr

// AddrOf returns the address of p.
func AddrOf[T any](p *T) Addr[T] {
	return Addr[T](unsafe.Pointer(p))
}

// EndOf returns the address one past the end of the given slice.
func EndOf[S ~[]E, E any](s S) Addr[E] {
	size := layout.Size[E]()
	return Addr[E](uintptr(unsafe.Pointer(unsafe.SliceData(s))) + uintptr(len(s))*uintptr(size))
}

// IsNil returns whether this address is the null address.
func (a Addr[T]) IsNil() bool { return a == 0 }

// AssertValid converts this address back into a pointer.
//
// It performs no validation beyond returning nil for the null address; the
// caller is responsible for knowing that the address actually refers to a
// live T.
func (a Addr[T]) AssertValid() *T {
	if a == 0 {
		return nil
	}
	return (*T)(unsafe.Pointer(uintptr(a)))
}

// Add adds n, scaled by the size of T, to this address.
func (a Addr[T]) Add(n int) Addr[T] {
	size := layout.Size[T]()
	return a + Addr[T](n*size)
}

// ByteAdd adds n raw bytes, unscaled, to this address.
func (a Addr[T]) ByteAdd(n int) Addr[T] {
	return a + Addr[T](n)
}

// Sub computes the distance, in units of T, between this address and other.
func (a Addr[T]) Sub(other Addr[T]) int {
	size := layout.Size[T]()
	return int(uintptr(a)-uintptr(other)) / size
}

// ByteSub computes the raw byte distance between this address and other.
func (a Addr[T]) ByteSub(other Addr[T]) int {
	return int(uintptr(a) - uintptr(other))
}

// Padding returns the number of bytes needed to round this address up to
// align.
func (a Addr[T]) Padding(align int) int {
	return int(layout.Padding(uintptr(a), uintptr(align)))
}

// RoundUpTo rounds this address up to the given alignment.
func (a Addr[T]) RoundUpTo(align int) Addr[T] {
	return Addr[T](layout.RoundUp(uintptr(a), uintptr(align)))
}

// RoundDownTo rounds this address down to the given alignment.
func (a Addr[T]) RoundDownTo(align int) Addr[T] {
	return Addr[T](layout.RoundDown(uintptr(a), uintptr(align)))
}

// SignBit returns whether the top bit of this address is set.
func (a Addr[T]) SignBit() bool {
	return a.SignBitMask() != 0
}

// SignBitMask returns all-ones if the sign bit is set, all-zeros otherwise.
func (a Addr[T]) SignBitMask() Addr[T] {
	const signBit = 1 << (unsafe.Sizeof(uintptr(0))*8 - 1)
	if uintptr(a)&signBit != 0 {
		return ^Addr[T](0)
	}
	return 0
}

// ClearSignBit clears the top bit of this address.
func (a Addr[T]) ClearSignBit() Addr[T] {
	const signBit = 1 << (unsafe.Sizeof(uintptr(0))*8 - 1)
	return a &^ Addr[T](signBit)
}

func (a Addr[T]) Format(s fmt.State, verb rune) {
	switch verb {
	case 'x':
		fmt.Fprintf(s, "%x", uintptr(a))
	default:
		fmt.Fprintf(s, "%#x", uintptr(a))
	}
}

func (a Addr[T]) String() string { return fmt.Sprintf("%#x", uintptr(a)) }
