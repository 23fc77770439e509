// Package dynastack implements the per-task dynamic stack: a LIFO arena for
// transient, possibly GC-visible values.
//
// Mark returns a resume token, Alloc bump-allocates (optionally tagging the
// region with a type descriptor so the collector can trace it), and Free
// releases everything allocated since a mark. Frees must respect stack
// discipline relative to marks; freeing out of order is undefined behavior
// by design, matching the zero-overhead intent of the allocator.
//
// A Stack belongs to exactly one task and is not safe for concurrent use.
package dynastack
