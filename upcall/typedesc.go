package upcall

import (
	"github.com/wippyai/task-runtime/runtime"
	"github.com/wippyai/task-runtime/typedesc"
)

type getTypeDescArgs struct {
	size       uint32
	align      uint32
	params     []*typedesc.TypeDesc
	nObjParams uint32
	retval     *typedesc.TypeDesc
}

func getTypeDescService(t *runtime.Task, a *getTypeDescArgs) {
	a.retval = t.CrateCache().GetTypeDesc(a.size, a.align, a.params, a.nObjParams)
}

// GetTypeDesc resolves the canonical descriptor for an instantiated generic
// type from the crate cache. Identical shapes always resolve to the same
// descriptor pointer.
func GetTypeDesc(t *runtime.Task, size, align uint32, params []*typedesc.TypeDesc, nObjParams uint32) *typedesc.TypeDesc {
	a := getTypeDescArgs{size: size, align: align, params: params, nObjParams: nObjParams}
	perform(t, opGetTypeDesc, switched, func() { getTypeDescService(t, &a) })
	return a.retval
}

type createSharedTDArgs struct {
	td     *typedesc.TypeDesc
	retval *typedesc.TypeDesc
}

func createSharedTDService(t *runtime.Task, a *createSharedTDArgs) {
	a.retval = typedesc.CloneShared(a.td, t.Kernel())
}

// CreateSharedTypeDesc deep-copies a descriptor graph into kernel-accounted
// nodes, for descriptors that outlive the task that built them (sending
// closures between tasks).
func CreateSharedTypeDesc(t *runtime.Task, td *typedesc.TypeDesc) *typedesc.TypeDesc {
	a := createSharedTDArgs{td: td}
	perform(t, opCreateSharedTD, switched, func() { createSharedTDService(t, &a) })
	return a.retval
}

// FreeSharedTypeDesc releases a shared descriptor graph, children before
// root. A nil descriptor is a no-op and does not switch.
func FreeSharedTypeDesc(t *runtime.Task, td *typedesc.TypeDesc) {
	if td == nil {
		return
	}
	perform(t, opFreeSharedTD, switched, func() {
		typedesc.FreeShared(td, t.Kernel())
	})
}

type internDictArgs struct {
	fields []uintptr
	retval []uintptr
}

func internDictService(t *runtime.Task, a *internDictArgs) {
	a.retval = t.CrateCache().InternDict(a.fields)
}

// InternDict interns a dictionary of pointer-sized fields by content in the
// crate cache. Interned dictionaries live for the process lifetime.
func InternDict(t *runtime.Task, fields []uintptr) []uintptr {
	a := internDictArgs{fields: fields}
	perform(t, opInternDict, switched, func() { internDictService(t, &a) })
	return a.retval
}
