// Package arena implements a boundary-tag, explicit-free-list dynamic memory
// allocator over a single contiguous byte region.
//
// A [Heap] services four operations — Allocate, Free, Reallocate, and
// ZeroAllocate — against an arena supplied by a [Provider]. Every block, in
// either state, is framed by a header word at its low end and a footer word
// at its high end; the header and footer always agree, which is what makes
// O(1) backward traversal possible without any metadata outside the blocks
// themselves. Free blocks additionally thread two link words through their
// own payload, forming a doubly linked free list rooted at the Heap, so that
// allocation can search only the free blocks instead of the whole arena.
//
// # Layout
//
//	Free block:      [ header | prev-link | next-link | ... | footer ]
//	Allocated block: [ header | ... user payload ...          | footer ]
//
// # Safety
//
// This package is built on raw pointer arithmetic ([pkg/xunsafe]) over a
// single owned byte region, by necessity: the whole point of a boundary-tag
// allocator is that adjacency in memory carries navigational meaning that no
// Go type can express safely. Every read or write through a raw address is
// confined to word.go (boundary tags), freelist.go (links), and heap.go's
// public API, which converts between payload pointers and addresses and
// copies or clears payload bytes; block navigation, coalescing, placement,
// and the checker only do address arithmetic and call those helpers.
//
// # Concurrency
//
// A Heap is single-threaded, synchronous, and non-reentrant, matching its
// origin as a direct port of a classroom malloc lab. Wrap calls in a mutex
// if concurrent access is required; nothing here does it for you.
package arena
