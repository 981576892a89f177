package allocator_test

import (
	"testing"
	"unsafe"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/nd/bitwise/pkg/allocator"
)

type arenaTestStruct struct {
	X int
	Y float64
}

func TestArena(t *testing.T) {
	Convey("Given an Arena", t, func() {
		a := allocator.NewArena(nil)

		Convey("When allocating a value", func() {
			p := allocator.New[arenaTestStruct](a)
			So(p, ShouldNotBeNil)

			Convey("Then the pointer should be aligned", func() {
				So(uintptr(unsafe.Pointer(p))%8, ShouldEqual, uintptr(0))
			})
		})

		Convey("When allocating many small values", func() {
			var ptrs []*int
			for i := 0; i < 10000; i++ {
				p := allocator.New[int](a)
				*p = i
				ptrs = append(ptrs, p)
			}

			Convey("Then every value should keep its contents distinct", func() {
				for i, p := range ptrs {
					So(*p, ShouldEqual, i)
				}
			})

			Convey("Then FreeAll resets the arena to empty", func() {
				So(a.Empty(), ShouldBeFalse)
				a.FreeAll()
				So(a.Empty(), ShouldBeTrue)
			})
		})

		Convey("When allocating a value larger than the default block", func() {
			p := a.Alloc(64*1024, 8)

			So(p, ShouldNotBeNil)
		})
	})
}

func TestArenaWithParent(t *testing.T) {
	Convey("Given an Arena whose parent is another Arena", t, func() {
		outer := allocator.NewArena(nil)
		inner := allocator.NewArena(outer)

		p := inner.Alloc(16, 8)
		So(p, ShouldNotBeNil)

		Convey("Freeing the inner arena returns its blocks to the outer one", func() {
			inner.FreeAll()
			So(inner.Empty(), ShouldBeTrue)
		})
	})
}

func TestArenaZero(t *testing.T) {
	Convey("Given a zero Arena", t, func() {
		var a allocator.Arena

		Convey("It allocates from the process default", func() {
			p := a.Alloc(8, 8)
			So(p, ShouldNotBeNil)
		})
	})
}
