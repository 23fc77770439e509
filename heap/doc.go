// Package heap implements the linear-memory allocator backing task-local
// heaps and the exchange heap.
//
// A Heap is a growable byte buffer addressed by uint32 offsets. Alloc hands
// out zero-initialized, 8-byte-aligned regions from a first-fit free list,
// falling back to bump allocation at the top of memory; the backing buffer
// doubles as needed up to an optional hard cap. Offset 0 is reserved so no
// allocation ever aliases the null pointer.
//
// A Heap is not safe for concurrent use. Task heaps are confined to their
// owning task; the exchange heap serializes access in package kernel.
package heap
