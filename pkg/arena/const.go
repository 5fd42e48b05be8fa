package arena

const (
	// wordWidth is the size, in bytes, of a header or footer word.
	wordWidth = 4

	// Align is the required alignment, in bytes, of every payload address
	// and every block size.
	Align = 8

	// minBlockSize is the smallest size a block can have: a header, two
	// free-list link words, and a footer. A payload smaller than this still
	// occupies a full minBlockSize block once the boundary tags and (while
	// free) the links are accounted for.
	minBlockSize = 24

	// defaultChunk is how many bytes the placement engine asks a Provider
	// for when no free block fits and the arena must grow.
	defaultChunk = 1 << 12
)
