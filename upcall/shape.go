package upcall

import (
	"github.com/wippyai/task-runtime/runtime"
	"github.com/wippyai/task-runtime/shape"
	"github.com/wippyai/task-runtime/typedesc"
)

type cmpTypeArgs struct {
	td     *typedesc.TypeDesc
	subs   []*typedesc.TypeDesc
	a, b   uint32
	kind   shape.CompareKind
	retval int8
}

func cmpTypeService(t *runtime.Task, a *cmpTypeArgs) {
	err := shape.Default().CmpType(&a.retval, a.td, a.subs, t.Heap(), a.a, a.b, a.kind)
	if err != nil {
		t.Kernel().Fatalf(opCmpType, "%v", err)
	}
}

// CmpType structurally compares the two values at a and b through the
// installed shape engine and returns 1 when the comparison holds.
func CmpType(t *runtime.Task, td *typedesc.TypeDesc, subs []*typedesc.TypeDesc,
	a, b uint32, kind shape.CompareKind) int8 {

	args := cmpTypeArgs{td: td, subs: subs, a: a, b: b, kind: kind}
	perform(t, opCmpType, switched, func() { cmpTypeService(t, &args) })
	return args.retval
}

type logTypeArgs struct {
	td    *typedesc.TypeDesc
	ptr   uint32
	level uint32
}

func logTypeService(t *runtime.Task, a *logTypeArgs) {
	if err := shape.Default().LogType(a.td, t.Heap(), a.ptr, a.level); err != nil {
		t.Kernel().Fatalf(opLogType, "%v", err)
	}
}

// LogType renders the value at ptr through the installed shape engine at
// the given verbosity level.
func LogType(t *runtime.Task, td *typedesc.TypeDesc, ptr uint32, level uint32) {
	a := logTypeArgs{td: td, ptr: ptr, level: level}
	perform(t, opLogType, switched, func() { logTypeService(t, &a) })
}
