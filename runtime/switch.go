package runtime

import (
	"github.com/wippyai/task-runtime/errors"
)

// Stack switching. Crossing is synchronous: the task blocks until the
// native-side call returns, and no other task observes the crossing.

// OnCStack reports whether the task is currently executing on the native
// stack.
func (t *Task) OnCStack() bool { return t.cDepth > 0 }

// OnTaskStack reports whether the task is currently on its bounded stack.
func (t *Task) OnTaskStack() bool { return t.cDepth == 0 }

// CallOnCStack suspends the bounded stack and runs fn on the native stack.
// Alignment is verified at every crossing point: a misaligned native-ABI
// call corrupts vector call sequences silently, so it is fatal here.
func (t *Task) CallOnCStack(op string, fn func()) {
	if err := t.stk.CheckAlignment(); err != nil {
		t.Kernel().Fatalf(op, "crossing with misaligned stack: %v", err)
	}
	t.cDepth++
	defer func() { t.cDepth-- }()
	fn()
}

// CallForeign runs fn as a direct native call to foreign code. The foreign
// prologue does its own stack handling, so the recorded limit is dropped
// for the duration and restored afterward; the callee may have clobbered
// the stack-bound bookkeeping. A panic escaping foreign code is a contract
// violation and fatal.
func (t *Task) CallForeign(op string, fn func()) {
	t.stk.DropLimit()
	t.cDepth++

	defer func() {
		t.cDepth--
		t.stk.RecordLimit()
		if r := recover(); r != nil {
			err := errors.ForeignPanic(op, r)
			t.Kernel().Fatalf(op, "%v", err)
		}
	}()
	fn()
}

// NewStackSegment grows the bounded stack by a fresh segment, copying the
// given argument block onto it. Returns the segment-relative address of
// the copied arguments.
func (t *Task) NewStackSegment(size uint32, args []byte) uint32 {
	addr := t.stk.NewSegment(size, args)
	t.logger.Debug("stack grown")
	return addr
}

// DelStackSegment releases the most recently acquired segment.
func (t *Task) DelStackSegment() {
	if err := t.stk.DelSegment(); err != nil {
		t.Kernel().Fatalf("del_stack", "%v", err)
	}
}

// ResetStackLimit recaptures the stack bound from the live stack pointer.
// It must run on the bounded stack: landing pads call it on unwind
// re-entry, and its whole point is to sample the task-stack sp.
func (t *Task) ResetStackLimit() {
	if t.OnCStack() {
		t.Kernel().Fatalf("reset_stack_limit", "called on the native stack")
	}
	t.stk.ResetLimit()
}

// CheckCanary verifies the active segment's canary; damage is fatal.
func (t *Task) CheckCanary() {
	if err := t.stk.CheckCanary(); err != nil {
		t.Kernel().Fatalf("check_stack_canary", "%v", err)
	}
}
