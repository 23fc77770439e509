// Package vec implements growable dynamic arrays stored in heap linear
// memory.
//
// A vector is a heap allocation laid out as
//
//	fill u32 | cap u32 | data ...
//
// Callers hold the address of a cell containing the vector pointer (the
// handle); growth may reallocate the vector and rewrites the cell. Capacity
// expands by doubling and never shrinks, so element append is amortized
// O(1). Pushing an element whose type carries take glue invokes the glue
// once on the destination bytes, establishing ownership for the new slot.
package vec
