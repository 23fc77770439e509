package upcall

import (
	"github.com/wippyai/task-runtime/runtime"
	"github.com/wippyai/task-runtime/typedesc"
)

// Operation names, used in diagnostics and fatal reports.
const (
	opMalloc              = "malloc"
	opFree                = "free"
	opSharedMalloc        = "shared_malloc"
	opSharedFree          = "shared_free"
	opMemset              = "memset"
	opGetTypeDesc         = "get_type_desc"
	opCreateSharedTD      = "create_shared_type_desc"
	opFreeSharedTD        = "free_shared_type_desc"
	opInternDict          = "intern_dict"
	opVecGrow             = "vec_grow"
	opVecPush             = "vec_push"
	opDynastackMark       = "dynastack_mark"
	opDynastackAlloc      = "dynastack_alloc"
	opDynastackAllocTyped = "dynastack_alloc_typed"
	opDynastackFree       = "dynastack_free"
	opFail                = "fail"
	opNewStack            = "new_stack"
	opDelStack            = "del_stack"
	opResetStackLimit     = "reset_stack_limit"
	opPersonality         = "personality"
	opCmpType             = "cmp_type"
	opLogType             = "log_type"
	opCallShim            = "call_shim_on_c_stack"
)

// policy says whether an operation crosses to the native stack before its
// service function runs.
type policy bool

const (
	switched   policy = true
	unswitched policy = false
)

// perform is the single dispatch point for every upcall entry.
func perform(t *runtime.Task, op string, p policy, fn func()) {
	debugf("upcall %s (task %d)", op, t.ID())
	if p == switched {
		t.CallOnCStack(op, fn)
		return
	}
	fn()
}

// mallocArgs carries the operands of a task-local allocation across the
// stack switch.
type mallocArgs struct {
	size   uint32
	td     *typedesc.TypeDesc
	origin string
	retval uint32
}

func mallocService(t *runtime.Task, a *mallocArgs) {
	// Collection, if due, happens before the heap grows.
	t.MaybeGC()
	t.MaybeCC()

	ptr, err := t.Heap().Alloc(a.size, a.td.Align)
	if err != nil {
		t.Kernel().Fatalf(opMalloc, "task-local allocation of %d bytes failed: %v", a.size, err)
	}
	t.RecordAlloc(ptr, a.td, a.origin)
	a.retval = ptr
}

// Malloc allocates size zeroed task-local bytes and records the block in
// the task's allocation index under the given descriptor. size is
// independent of td.Size: boxed values carry headers beyond the described
// type. Exhaustion is fatal.
func Malloc(t *runtime.Task, size uint32, td *typedesc.TypeDesc, origin string) uint32 {
	a := mallocArgs{size: size, td: td, origin: origin}
	perform(t, opMalloc, switched, func() { mallocService(t, &a) })
	return a.retval
}

type freeArgs struct {
	ptr  uint32
	isGC bool
}

func freeService(t *runtime.Task, a *freeArgs) {
	t.ForgetAlloc(a.ptr, a.isGC)
	if err := t.Heap().Free(a.ptr); err != nil {
		t.Kernel().Fatalf(opFree, "%v", err)
	}
}

// Free releases a task-local allocation. isGC distinguishes
// collector-initiated frees from compiled-code frees in the statistics.
func Free(t *runtime.Task, ptr uint32, isGC bool) {
	a := freeArgs{ptr: ptr, isGC: isGC}
	perform(t, opFree, switched, func() { freeService(t, &a) })
}

type sharedMallocArgs struct {
	size   uint32
	tag    string
	retval uint32
}

func sharedMallocService(t *runtime.Task, a *sharedMallocArgs) {
	a.retval = t.Kernel().Malloc(a.size, a.tag)
}

// SharedMalloc allocates zeroed bytes from the exchange heap. The block is
// not tracked by any task; exhaustion is fatal inside the kernel.
func SharedMalloc(t *runtime.Task, size uint32, tag string) uint32 {
	a := sharedMallocArgs{size: size, tag: tag}
	perform(t, opSharedMalloc, switched, func() { sharedMallocService(t, &a) })
	return a.retval
}

type sharedFreeArgs struct {
	ptr uint32
}

func sharedFreeService(t *runtime.Task, a *sharedFreeArgs) {
	t.Kernel().Free(a.ptr)
}

// SharedFree releases an exchange-heap allocation.
func SharedFree(t *runtime.Task, ptr uint32) {
	a := sharedFreeArgs{ptr: ptr}
	perform(t, opSharedFree, switched, func() { sharedFreeService(t, &a) })
}

func alignTo(n, align uint32) uint32 {
	if align == 0 {
		return n
	}
	return (n + align - 1) &^ (align - 1)
}

// Memset fills a task-heap region, handling dynamic alignment: the size is
// rounded up to the value's alignment before filling. Runs on the caller's
// stack.
func Memset(t *runtime.Task, ptr uint32, val byte, size, align uint32) {
	perform(t, opMemset, unswitched, func() {
		if err := t.Heap().Fill(ptr, val, alignTo(size, align)); err != nil {
			t.Kernel().Fatalf(opMemset, "%v", err)
		}
	})
}
