// Package kernel owns process-wide state: the exchange heap, shared
// type-descriptor accounting, and the fatal-condition abort path.
//
// The exchange heap holds values transferred between tasks. It is
// independent of any task's GC: allocation is zero-initialized, serialized
// by the kernel, and carries no per-task bookkeeping. Allocator exhaustion
// here is fatal by contract: compiled code does not check allocation
// results, so there is no error path to hand back.
//
// Fatal conditions log a diagnostic and abort the process through an
// overridable hook.
package kernel
