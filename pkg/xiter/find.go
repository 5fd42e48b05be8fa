//go:build go1.23

package xiter

import (
	"iter"

	"github.com/voidptr/heapalloc/pkg/opt"
)

// ReductionFunc is a function that reduces an iterator to a single value,
// suitable for use with pipelines built out of the *Func variants below.
type ReductionFunc[T, R any] func(iter.Seq[T]) R

// Find searches for an element of an iterator that satisfies a predicate f.
func Find[T any](x iter.Seq[T], f func(T) bool) opt.Option[T] {
	for v := range x {
		if f(v) {
			return opt.Some(v)
		}
	}

	return opt.None[T]()
}

// FindFunc searches for an element of an iterator that satisfies a predicate f.
func FindFunc[T any](f func(T) bool) ReductionFunc[T, opt.Option[T]] {
	return func(x iter.Seq[T]) opt.Option[T] {
		return Find(x, f)
	}
}

// FindMap applies function f to the elements of iterator and returns the first result that satisfies a predicate f.
func FindMap[T, B any](x iter.Seq[T], f func(T) (B, bool)) opt.Option[B] {
	for v := range x {
		if b, found := f(v); found {
			return opt.Some(b)
		}
	}

	return opt.None[B]()
}

// FindMapFunc applies function f to the elements of iterator and returns the first result that satisfies a predicate f.
func FindMapFunc[T, B any](f func(T) (B, bool)) ReductionFunc[T, opt.Option[B]] {
	return func(x iter.Seq[T]) opt.Option[B] {
		return FindMap(x, f)
	}
}
