package vec

import (
	"math"
	"math/bits"
	"testing"

	taskruntime "github.com/wippyai/task-runtime"
	"github.com/wippyai/task-runtime/heap"
	"github.com/wippyai/task-runtime/typedesc"
)

func newVec(t *testing.T, h *heap.Heap, capacity uint32) uint32 {
	t.Helper()
	ref, err := h.Alloc(4, 8)
	if err != nil {
		t.Fatalf("alloc handle: %v", err)
	}
	if err := New(h, ref, capacity); err != nil {
		t.Fatalf("New: %v", err)
	}
	return ref
}

func TestPush_Basic(t *testing.T) {
	h := heap.New(1024, 0)
	ref := newVec(t, h, 16)

	elem := &typedesc.TypeDesc{Size: 4, Align: 4}
	src, _ := h.Alloc(4, 8)
	for i := uint32(0); i < 8; i++ {
		if err := h.WriteU32(src, 100+i); err != nil {
			t.Fatal(err)
		}
		if err := Push(h, ref, elem, src); err != nil {
			t.Fatalf("Push %d: %v", i, err)
		}
	}

	fill, _ := Fill(h, ref)
	if fill != 32 {
		t.Fatalf("fill = %d, want 32", fill)
	}
	data, _ := Data(h, ref)
	for i := uint32(0); i < 8; i++ {
		v, err := h.ReadU32(data + i*4)
		if err != nil {
			t.Fatal(err)
		}
		if v != 100+i {
			t.Fatalf("element %d = %d, want %d", i, v, 100+i)
		}
	}
}

func TestPush_AmortizedReallocs(t *testing.T) {
	h := heap.New(1024, 0)
	ref := newVec(t, h, 16)

	elem := &typedesc.TypeDesc{Size: 8, Align: 8}
	src, _ := h.Alloc(8, 8)

	const n = 4096
	reallocs := 0
	prev, _ := h.ReadU32(ref)
	for i := 0; i < n; i++ {
		if err := Push(h, ref, elem, src); err != nil {
			t.Fatalf("Push: %v", err)
		}
		cur, _ := h.ReadU32(ref)
		if cur != prev {
			reallocs++
			prev = cur
		}
	}

	// Doubling growth: O(log n) reallocations, with slack.
	bound := bits.Len(uint(n*8)) + 2
	if reallocs > bound {
		t.Fatalf("%d reallocations for %d pushes, want <= %d", reallocs, n, bound)
	}
	fill, _ := Fill(h, ref)
	if fill != n*8 {
		t.Fatalf("fill = %d, want %d", fill, n*8)
	}
}

func TestPush_TakeGlueOncePerElement(t *testing.T) {
	h := heap.New(1024, 0)
	// Capacity large enough that no reallocation moves the recorded slots.
	ref := newVec(t, h, 64)

	var calls []uint32
	elem := &typedesc.TypeDesc{Size: 4, Align: 4}
	elem.TakeGlue = func(params []*typedesc.TypeDesc, mem taskruntime.Memory, ptr uint32) {
		calls = append(calls, ptr)
	}

	src, _ := h.Alloc(4, 8)
	const n = 5
	for i := uint32(0); i < n; i++ {
		if err := h.WriteU32(src, i); err != nil {
			t.Fatal(err)
		}
		if err := Push(h, ref, elem, src); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}

	if len(calls) != n {
		t.Fatalf("take glue ran %d times, want %d", len(calls), n)
	}
	data, _ := Data(h, ref)
	for i, ptr := range calls {
		if ptr == src {
			t.Fatalf("call %d: glue pointed at the source, not the vector slot", i)
		}
		if ptr != data+uint32(i)*4 {
			t.Fatalf("call %d: glue at 0x%x, want slot 0x%x", i, ptr, data+uint32(i)*4)
		}
		v, _ := h.ReadU32(ptr)
		if v != uint32(i) {
			t.Fatalf("call %d: slot holds %d, want %d", i, v, i)
		}
	}
}

func TestGrow_SetsFill(t *testing.T) {
	h := heap.New(1024, 0)
	ref := newVec(t, h, 16)

	if err := Grow(h, ref, 64); err != nil {
		t.Fatalf("Grow: %v", err)
	}
	fill, _ := Fill(h, ref)
	if fill != 64 {
		t.Fatalf("fill = %d, want 64", fill)
	}
	capacity, _ := Cap(h, ref)
	if capacity < 64 {
		t.Fatalf("cap = %d, want >= 64", capacity)
	}
}

func TestGrow_TruncationKeepsCapacity(t *testing.T) {
	h := heap.New(1024, 0)
	ref := newVec(t, h, 16)

	if err := Grow(h, ref, 128); err != nil {
		t.Fatalf("Grow: %v", err)
	}
	capBefore, _ := Cap(h, ref)
	vBefore, _ := h.ReadU32(ref)

	// Shrinking fill below the previous value must not release capacity,
	// move the vector, or run any glue.
	if err := Grow(h, ref, 8); err != nil {
		t.Fatalf("Grow: %v", err)
	}
	fill, _ := Fill(h, ref)
	if fill != 8 {
		t.Fatalf("fill = %d, want 8", fill)
	}
	capAfter, _ := Cap(h, ref)
	if capAfter != capBefore {
		t.Fatalf("capacity changed: %d -> %d", capBefore, capAfter)
	}
	vAfter, _ := h.ReadU32(ref)
	if vAfter != vBefore {
		t.Fatal("vector moved during truncation")
	}
}

func TestGrow_HugeRequestFailsFast(t *testing.T) {
	// Doubling toward a past-2^31 target used to wrap the capacity loop
	// to zero and spin; the heap's cap must reject it instead.
	h := heap.New(1024, 1<<20)
	ref := newVec(t, h, 16)

	if err := Grow(h, ref, 1<<31); err == nil {
		t.Fatal("expected exhaustion error for a 2 GiB grow")
	}
	if err := Grow(h, ref, math.MaxUint32-2); err == nil {
		t.Fatal("expected error for a header-overflowing grow")
	}

	// The vector is still usable at its old size.
	if err := Grow(h, ref, 8); err != nil {
		t.Fatalf("Grow after failed huge request: %v", err)
	}
}
