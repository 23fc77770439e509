package upcall

import (
	"github.com/wippyai/task-runtime/runtime"
)

type failArgs struct {
	expr string
	file string
	line int
}

func failService(t *runtime.Task, a *failArgs) {
	t.Fail(a.expr, a.file, a.line)
}

// Fail reports a failed assertion in compiled code. The task is marked
// failed and its teardown hook runs; the diagnostic carries the asserted
// expression and source position.
func Fail(t *runtime.Task, expr, file string, line int) {
	a := failArgs{expr: expr, file: file, line: line}
	perform(t, opFail, switched, func() { failService(t, &a) })
}

type newStackArgs struct {
	size   uint32
	args   []byte
	retval uint32
}

func newStackService(t *runtime.Task, a *newStackArgs) {
	a.retval = t.NewStackSegment(a.size, a.args)
}

// NewStack grows the task's bounded stack by a fresh segment, copying the
// caller's argument block onto it. Returns the address of the copied
// arguments on the new segment.
func NewStack(t *runtime.Task, size uint32, args []byte) uint32 {
	a := newStackArgs{size: size, args: args}
	perform(t, opNewStack, switched, func() { newStackService(t, &a) })
	return a.retval
}

// DelStack releases the most recently acquired stack segment. Releasing
// the initial segment is fatal.
func DelStack(t *runtime.Task) {
	perform(t, opDelStack, switched, func() {
		t.DelStackSegment()
	})
}

// ResetStackLimit recaptures the stack bound from the live stack pointer
// after an unwind lands back on the task stack. It must never switch:
// its whole job is to sample the stack it was called on.
func ResetStackLimit(t *runtime.Task) {
	perform(t, opResetStackLimit, unswitched, func() {
		t.ResetStackLimit()
	})
}

// CallShimOnCStack runs a native shim as a direct foreign call. The
// recorded stack limit is dropped for the call and restored when the shim
// returns; a panic escaping the shim is fatal.
func CallShimOnCStack(t *runtime.Task, fn func()) {
	debugf("upcall %s (task %d)", opCallShim, t.ID())
	t.CallForeign(opCallShim, fn)
}
