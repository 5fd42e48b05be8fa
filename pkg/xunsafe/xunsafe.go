// Package xunsafe provides a more convenient interface for performing unsafe
// operations than Go's built-in package unsafe.
package xunsafe

import (
	"sync"

	"github.com/voidptr/heapalloc/pkg/xunsafe/layout"
)

// NoCopy is a type that go vet will complain about having been copied.
//
// It does so by containing a [sync.Mutex] (as a zero-length array), which
// vet's copylocks check looks for; NoCopy itself has no methods.
type NoCopy [0]sync.Mutex

// Int is any integer type.
type Int = layout.Int
