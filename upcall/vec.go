package upcall

import (
	"github.com/wippyai/task-runtime/runtime"
	"github.com/wippyai/task-runtime/typedesc"
	"github.com/wippyai/task-runtime/vec"
)

type vecGrowArgs struct {
	vecRef  uint32
	newSize uint32
}

func vecGrowService(t *runtime.Task, a *vecGrowArgs) {
	if err := vec.Grow(t.Heap(), a.vecRef, a.newSize); err != nil {
		t.Kernel().Fatalf(opVecGrow, "%v", err)
	}
}

// VecGrow resizes a vector to newSize bytes of fill, reallocating as
// needed. Shrinking keeps capacity and runs no glue on the truncated tail.
func VecGrow(t *runtime.Task, vecRef, newSize uint32) {
	a := vecGrowArgs{vecRef: vecRef, newSize: newSize}
	perform(t, opVecGrow, switched, func() { vecGrowService(t, &a) })
}

// VecPush appends one element, copying its bytes to the vector tail and
// running the element's take glue once on the destination. It stays on the
// caller's stack for speed, so it verifies the stack canary on the way out.
func VecPush(t *runtime.Task, vecRef uint32, elem *typedesc.TypeDesc, elemPtr uint32) {
	perform(t, opVecPush, unswitched, func() {
		if err := vec.Push(t.Heap(), vecRef, elem, elemPtr); err != nil {
			t.Kernel().Fatalf(opVecPush, "%v", err)
		}
	})
	t.CheckCanary()
}
