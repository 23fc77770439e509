// Package typedesc implements structural type descriptors and their
// scheduler-wide interning cache.
//
// A TypeDesc describes the layout and polymorphic operations of a value's
// type. Descriptors are canonicalized through a Cache (the crate cache):
// structurally equal requests always return the identical pointer, which is
// how generic code avoids re-materializing descriptors per instantiation.
// The cache also interns generic-function dictionaries, keyed by contents
// and kept for the life of the process.
//
// Descriptors attached to values that cross task boundaries must first be
// deep-copied out of task-local storage with CloneShared; FreeShared is the
// exact recursive mirror.
package typedesc
