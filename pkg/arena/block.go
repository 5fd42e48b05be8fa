package arena

import "github.com/voidptr/heapalloc/pkg/xunsafe"

// nextBlock returns the payload address of the block physically following
// the block whose payload starts at p. It never inspects p's neighbor, only
// p's own header, so it is safe to call even if the following block is the
// epilogue.
func nextBlock(p xunsafe.Addr[byte]) xunsafe.Addr[byte] {
	size := readWord(headerAddr(p)).size()
	return p.ByteAdd(size)
}

// prevBlock returns the payload address of the block physically preceding
// the block whose payload starts at p, read via the footer word stored
// immediately before p's own header.
func prevBlock(p xunsafe.Addr[byte]) xunsafe.Addr[byte] {
	prevFooter := xunsafe.Addr[word](p.ByteAdd(-2 * wordWidth))
	size := readWord(prevFooter).size()
	return p.ByteAdd(-size)
}
