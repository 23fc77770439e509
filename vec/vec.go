package vec

import (
	"math"

	taskruntime "github.com/wippyai/task-runtime"
	"github.com/wippyai/task-runtime/errors"
	"github.com/wippyai/task-runtime/typedesc"
)

// Heap is the slice of heap behavior vectors need: addressable memory,
// allocation, and in-heap moves.
type Heap interface {
	taskruntime.Memory
	taskruntime.Allocator
	Move(dst, src, length uint32) error
}

const (
	offFill    = 0
	offCap     = 4
	headerSize = 8

	minCap = 16
)

// New allocates an empty vector with the given initial capacity and stores
// its pointer into the handle cell at vecRef.
func New(h Heap, vecRef, initialCap uint32) error {
	if initialCap < minCap {
		initialCap = minCap
	}
	v, err := h.Alloc(headerSize+initialCap, 8)
	if err != nil {
		return err
	}
	if err := h.WriteU32(v+offCap, initialCap); err != nil {
		return err
	}
	return h.WriteU32(vecRef, v)
}

// Fill returns the fill (bytes used) of the vector at vecRef.
func Fill(h Heap, vecRef uint32) (uint32, error) {
	v, err := h.ReadU32(vecRef)
	if err != nil {
		return 0, err
	}
	return h.ReadU32(v + offFill)
}

// Cap returns the capacity in bytes of the vector at vecRef.
func Cap(h Heap, vecRef uint32) (uint32, error) {
	v, err := h.ReadU32(vecRef)
	if err != nil {
		return 0, err
	}
	return h.ReadU32(v + offCap)
}

// Data returns the address of the vector's first data byte.
func Data(h Heap, vecRef uint32) (uint32, error) {
	v, err := h.ReadU32(vecRef)
	if err != nil {
		return 0, err
	}
	return v + headerSize, nil
}

// reserve ensures capacity >= need, reallocating with doubling and moving
// the fill bytes. The handle cell is rewritten if the vector moved.
func reserve(h Heap, vecRef, need uint32) error {
	v, err := h.ReadU32(vecRef)
	if err != nil {
		return err
	}
	capacity, err := h.ReadU32(v + offCap)
	if err != nil {
		return err
	}
	if capacity >= need {
		return nil
	}
	if need > math.MaxUint32-headerSize {
		return errors.New(errors.PhaseAlloc, errors.KindExhaustion).
			Detail("vector of %d bytes exceeds the linear address space", need).
			Build()
	}

	// Double in uint64: past 2^31 a uint32 double wraps to zero and the
	// loop never terminates.
	wide := uint64(capacity)
	if wide < minCap {
		wide = minCap
	}
	for wide < uint64(need) {
		wide *= 2
	}
	if wide > math.MaxUint32-headerSize {
		wide = uint64(need)
	}
	newCap := uint32(wide)

	nv, err := h.Alloc(headerSize+newCap, 8)
	if err != nil {
		return err
	}
	fill, err := h.ReadU32(v + offFill)
	if err != nil {
		return err
	}
	// Straight byte move: the elements change address, not owner, so no
	// take glue runs here.
	if err := h.Move(nv+headerSize, v+headerSize, fill); err != nil {
		return err
	}
	if err := h.WriteU32(nv+offFill, fill); err != nil {
		return err
	}
	if err := h.WriteU32(nv+offCap, newCap); err != nil {
		return err
	}
	if err := h.Free(v); err != nil {
		return err
	}
	return h.WriteU32(vecRef, nv)
}

// Grow ensures capacity >= newSize, then sets fill = newSize. Capacity is
// never released: a newSize below the current fill truncates fill in place
// and runs no per-element glue for the cut elements.
func Grow(h Heap, vecRef, newSize uint32) error {
	if err := reserve(h, vecRef, newSize); err != nil {
		return err
	}
	v, err := h.ReadU32(vecRef)
	if err != nil {
		return err
	}
	return h.WriteU32(v+offFill, newSize)
}

// Push appends the element at elemPtr to the vector. After the raw byte
// copy, the element type's take glue runs once against the destination
// bytes so the new slot holds a registered owner.
func Push(h Heap, vecRef uint32, elem *typedesc.TypeDesc, elemPtr uint32) error {
	v, err := h.ReadU32(vecRef)
	if err != nil {
		return err
	}
	fill, err := h.ReadU32(v + offFill)
	if err != nil {
		return err
	}
	if err := reserve(h, vecRef, fill+elem.Size); err != nil {
		return err
	}
	if v, err = h.ReadU32(vecRef); err != nil {
		return err
	}

	dst := v + headerSize + fill
	if err := h.Move(dst, elemPtr, elem.Size); err != nil {
		return err
	}
	if elem.TakeGlue != nil {
		elem.TakeGlue(elem.Params, h, dst)
	}
	return h.WriteU32(v+offFill, fill+elem.Size)
}
