package heap

import (
	"math"

	"github.com/bytedance/gopkg/lang/dirtmake"

	"github.com/wippyai/task-runtime/errors"
)

const (
	// base reserves the low bytes so no allocation sits at offset 0.
	base = 8

	// quantum is the minimum allocation granule and default alignment.
	quantum = 8
)

// span is a free region in the heap.
type span struct {
	off  uint32
	size uint32
}

// Heap is a growable linear memory with a first-fit free list.
type Heap struct {
	buf    []byte
	allocs map[uint32]uint32 // live ptr -> rounded size
	spans  []span            // free spans, sorted by offset, coalesced
	top    uint32            // bump pointer above the highest span
	cap    uint32            // hard cap in bytes, 0 = unbounded
	live   uint64
}

// New creates a heap with the given initial buffer size. cap bounds total
// growth; zero means unbounded.
func New(initial, cap uint32) *Heap {
	if initial < base+quantum {
		initial = base + quantum
	}
	if cap != 0 && cap < initial {
		cap = initial
	}
	return &Heap{
		buf:    dirtmake.Bytes(int(initial), int(initial)),
		allocs: make(map[uint32]uint32),
		top:    base,
		cap:    cap,
	}
}

func alignUp(n, align uint32) uint32 {
	return (n + align - 1) &^ (align - 1)
}

// Alloc returns a zero-initialized region of at least size bytes aligned to
// align (minimum 8, must be a power of two). It never returns offset 0.
func (h *Heap) Alloc(size, align uint32) (uint32, error) {
	if align < quantum {
		align = quantum
	}
	rounded := alignUp(size, quantum)
	if rounded < size {
		// Rounding wrapped: the request has no representable extent.
		return 0, errors.New(errors.PhaseAlloc, errors.KindExhaustion).
			Detail("allocation of %d bytes exceeds the linear address space", size).
			Build()
	}
	if rounded == 0 {
		rounded = quantum
	}

	var ptr uint32
	if align == quantum {
		ptr = h.takeSpan(rounded)
	}
	if ptr == 0 {
		var err error
		ptr, err = h.bump(rounded, align)
		if err != nil {
			return 0, err
		}
	}

	clear(h.buf[ptr : ptr+rounded])
	h.allocs[ptr] = rounded
	h.live += uint64(rounded)
	return ptr, nil
}

// takeSpan pulls the first free span that fits, splitting off any tail.
func (h *Heap) takeSpan(size uint32) uint32 {
	for i, s := range h.spans {
		if s.size < size {
			continue
		}
		ptr := s.off
		if s.size == size {
			h.spans = append(h.spans[:i], h.spans[i+1:]...)
		} else {
			h.spans[i] = span{off: s.off + size, size: s.size - size}
		}
		return ptr
	}
	return 0
}

func (h *Heap) bump(size, align uint32) (uint32, error) {
	ptr := alignUp(h.top, align)
	// Widen before summing: ptr+size can wrap uint32 and slip past the
	// bounds check.
	end := uint64(ptr) + uint64(size)
	if end > math.MaxUint32 {
		return 0, errors.New(errors.PhaseAlloc, errors.KindExhaustion).
			Detail("allocation of %d bytes exceeds the linear address space", size).
			Build()
	}
	if end > uint64(len(h.buf)) {
		if err := h.grow(uint32(end)); err != nil {
			return 0, err
		}
	}
	h.top = uint32(end)
	return ptr, nil
}

func (h *Heap) grow(need uint32) error {
	// Doubling is computed wide: past 2^31 a uint32 double wraps to zero
	// and never reaches need.
	next := uint64(len(h.buf))
	for next < uint64(need) {
		next *= 2
	}
	if next > math.MaxUint32 {
		next = uint64(need)
	}
	if h.cap != 0 && next > uint64(h.cap) {
		if need > h.cap {
			return errors.New(errors.PhaseAlloc, errors.KindExhaustion).
				Detail("heap cap %d exceeded by request for %d bytes", h.cap, need).
				Build()
		}
		next = uint64(h.cap)
	}
	buf := dirtmake.Bytes(int(next), int(next))
	copy(buf, h.buf)
	h.buf = buf
	return nil
}

// Free releases a live allocation back to the free list. Freeing a pointer
// that is not live is a caller error.
func (h *Heap) Free(ptr uint32) error {
	size, ok := h.allocs[ptr]
	if !ok {
		return errors.DoubleFree(errors.PhaseAlloc, ptr)
	}
	delete(h.allocs, ptr)
	h.live -= uint64(size)

	if ptr+size == h.top {
		h.top = ptr
		h.retract()
		return nil
	}
	h.insertSpan(span{off: ptr, size: size})
	return nil
}

// retract absorbs any free span that now touches the top back into bump space.
func (h *Heap) retract() {
	for n := len(h.spans); n > 0; n = len(h.spans) {
		s := h.spans[n-1]
		if s.off+s.size != h.top {
			return
		}
		h.top = s.off
		h.spans = h.spans[:n-1]
	}
}

// insertSpan keeps spans sorted by offset and coalesces neighbors.
func (h *Heap) insertSpan(s span) {
	i := 0
	for i < len(h.spans) && h.spans[i].off < s.off {
		i++
	}
	h.spans = append(h.spans, span{})
	copy(h.spans[i+1:], h.spans[i:])
	h.spans[i] = s

	// merge with right neighbor
	if i+1 < len(h.spans) && s.off+s.size == h.spans[i+1].off {
		h.spans[i].size += h.spans[i+1].size
		h.spans = append(h.spans[:i+1], h.spans[i+2:]...)
	}
	// merge with left neighbor
	if i > 0 && h.spans[i-1].off+h.spans[i-1].size == h.spans[i].off {
		h.spans[i-1].size += h.spans[i].size
		h.spans = append(h.spans[:i], h.spans[i+1:]...)
	}
}

// Live reports whether ptr is a live allocation.
func (h *Heap) Live(ptr uint32) bool {
	_, ok := h.allocs[ptr]
	return ok
}

// SizeOf returns the rounded size of a live allocation, or 0.
func (h *Heap) SizeOf(ptr uint32) uint32 {
	return h.allocs[ptr]
}

// LiveBytes returns the total bytes currently allocated.
func (h *Heap) LiveBytes() uint64 { return h.live }

// LiveObjects returns the number of live allocations.
func (h *Heap) LiveObjects() int { return len(h.allocs) }

// Size returns the current size of the backing memory in bytes.
func (h *Heap) Size() uint32 { return uint32(len(h.buf)) }
