package upcall

import (
	"github.com/wippyai/task-runtime/dynastack"
	"github.com/wippyai/task-runtime/runtime"
	"github.com/wippyai/task-runtime/typedesc"
)

type dynastackMarkArgs struct {
	retval dynastack.Mark
}

// DynastackMark captures the current dynamic-stack position. The returned
// token releases everything allocated after it when passed to
// DynastackFree.
func DynastackMark(t *runtime.Task) dynastack.Mark {
	var a dynastackMarkArgs
	perform(t, opDynastackMark, switched, func() {
		a.retval = t.Dynastack().Mark()
	})
	return a.retval
}

type dynastackAllocArgs struct {
	size   uint32
	td     *typedesc.TypeDesc
	retval *dynastack.Region
}

func dynastackAllocService(t *runtime.Task, a *dynastackAllocArgs) {
	a.retval = t.Dynastack().Alloc(a.size, a.td)
}

// DynastackAlloc allocates an untyped region on the dynamic stack. A zero
// size yields a nil region.
func DynastackAlloc(t *runtime.Task, size uint32) *dynastack.Region {
	a := dynastackAllocArgs{size: size}
	perform(t, opDynastackAlloc, switched, func() { dynastackAllocService(t, &a) })
	return a.retval
}

// DynastackAllocTyped allocates a region tagged with its type descriptor,
// making it visible to the garbage collector's typed-region walk.
func DynastackAllocTyped(t *runtime.Task, size uint32, td *typedesc.TypeDesc) *dynastack.Region {
	a := dynastackAllocArgs{size: size, td: td}
	perform(t, opDynastackAllocTyped, switched, func() { dynastackAllocService(t, &a) })
	return a.retval
}

// DynastackFree releases every region allocated after the mark was taken.
// Frees must unwind in reverse allocation order; anything else is caller
// error with undefined results.
func DynastackFree(t *runtime.Task, m dynastack.Mark) {
	perform(t, opDynastackFree, switched, func() {
		t.Dynastack().Free(m)
	})
}
