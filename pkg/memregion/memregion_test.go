package memregion_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/voidptr/heapalloc/pkg/memregion"
)

func TestRegion(t *testing.T) {
	Convey("Given a region with a small capacity", t, func() {
		r := memregion.New(64)

		Convey("It starts empty", func() {
			So(r.Lo(), ShouldEqual, r.Hi())
			So(r.Vended(), ShouldEqual, 0)
		})

		Convey("Growing returns addresses contiguous with Hi", func() {
			a, ok := r.Grow(16)
			So(ok, ShouldBeTrue)
			So(a, ShouldEqual, r.Lo())
			So(r.Hi(), ShouldEqual, a.ByteAdd(16))

			b, ok := r.Grow(8)
			So(ok, ShouldBeTrue)
			So(b, ShouldEqual, r.Hi().ByteAdd(-8))
			So(r.Vended(), ShouldEqual, 24)
		})

		Convey("Growing past capacity fails", func() {
			_, ok := r.Grow(100)
			So(ok, ShouldBeFalse)
			So(r.Vended(), ShouldEqual, 0)
		})

		Convey("The base address never moves across growth", func() {
			lo := r.Lo()
			_, _ = r.Grow(8)
			_, _ = r.Grow(8)
			So(r.Lo(), ShouldEqual, lo)
		})

		Convey("Growing by zero or negative bytes fails", func() {
			_, ok := r.Grow(0)
			So(ok, ShouldBeFalse)
			_, ok = r.Grow(-1)
			So(ok, ShouldBeFalse)
		})
	})
}
