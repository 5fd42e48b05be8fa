package arena

import "github.com/voidptr/heapalloc/pkg/xunsafe"

// word is a packed header or footer: the low three bits hold the allocated
// flag (bit 0) and two unused padding bits; the rest of the word holds the
// block size, which is always a multiple of Align and so never sets those
// low bits itself.
type word uint32

func packWord(size int, allocated bool) word {
	w := word(size) &^ 0x7
	if allocated {
		w |= 1
	}
	return w
}

func (w word) size() int      { return int(w &^ 0x7) }
func (w word) allocated() bool { return w&1 != 0 }

// headerAddr returns the address of the header word belonging to the block
// whose payload starts at p.
func headerAddr(p xunsafe.Addr[byte]) xunsafe.Addr[word] {
	return xunsafe.Addr[word](p.ByteAdd(-wordWidth))
}

// footerAddr returns the address of the footer word of a block of the given
// size whose payload starts at p.
func footerAddr(p xunsafe.Addr[byte], size int) xunsafe.Addr[word] {
	return xunsafe.Addr[word](p.ByteAdd(size - 2*wordWidth))
}

func readWord(a xunsafe.Addr[word]) word {
	return *a.AssertValid()
}

func writeWord(a xunsafe.Addr[word], w word) {
	*a.AssertValid() = w
}
