package upcall

import (
	"github.com/wippyai/task-runtime/runtime"
	"github.com/wippyai/task-runtime/unwind"
)

type personalityArgs struct {
	version int
	actions unwind.Action
	class   uint64
	exc     *unwind.Exception
	ctx     *unwind.Context
	retval  unwind.ReasonCode
}

func personalityService(a *personalityArgs) {
	a.retval = unwind.Native()(a.version, a.actions, a.class, a.exc, a.ctx)
}

// Personality forwards a frame decision to the native personality routine.
// The unwinder runs it on the stack of the last frame that threw or
// landed, which is sometimes already the native stack: in that case it
// delegates directly, otherwise it crosses exactly once.
func Personality(t *runtime.Task, version int, actions unwind.Action, class uint64,
	exc *unwind.Exception, ctx *unwind.Context) unwind.ReasonCode {

	a := personalityArgs{version: version, actions: actions, class: class, exc: exc, ctx: ctx}
	if t.OnTaskStack() {
		perform(t, opPersonality, switched, func() { personalityService(&a) })
	} else {
		personalityService(&a)
	}
	return a.retval
}
