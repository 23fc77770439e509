// Package runtime implements tasks, schedulers and the stack-switch
// primitive.
//
// A Task is the unit of bounded-stack execution: it owns a private heap,
// the map from live allocation addresses to their type descriptors (the
// collector's trace index), a dynastack, and its stack-limit bookkeeping.
// A Scheduler owns a pool of tasks, the crate cache they share, the segment
// cache, and the kernel.
//
// Crossing to the native stack is a synchronous, non-yielding call: the
// task blocks until the native-side service returns. Every crossing point
// verifies stack alignment first, and the direct foreign-call path converts
// an escaping panic into a fatal condition: native code must not throw
// across this boundary.
package runtime
