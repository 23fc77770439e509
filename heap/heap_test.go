package heap

import (
	"math"
	"testing"
)

func TestAlloc_Basic(t *testing.T) {
	h := New(256, 0)

	p, err := h.Alloc(16, 8)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if p == 0 {
		t.Fatal("Alloc returned null pointer")
	}
	if p%8 != 0 {
		t.Fatalf("pointer 0x%x not 8-aligned", p)
	}
	if !h.Live(p) {
		t.Fatal("allocation not live")
	}
	if h.LiveBytes() != 16 {
		t.Fatalf("LiveBytes = %d, want 16", h.LiveBytes())
	}
}

func TestAlloc_Zeroed(t *testing.T) {
	h := New(256, 0)

	p, err := h.Alloc(32, 8)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if err := h.Fill(p, 0xAB, 32); err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if err := h.Free(p); err != nil {
		t.Fatalf("Free failed: %v", err)
	}

	// Reuse of the same region must come back zeroed.
	q, err := h.Alloc(32, 8)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	data, err := h.Read(q, 32)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	for i, b := range data {
		if b != 0 {
			t.Fatalf("byte %d not zeroed: 0x%x", i, b)
		}
	}
}

func TestFree_Reuse(t *testing.T) {
	h := New(256, 0)

	a, _ := h.Alloc(16, 8)
	b, _ := h.Alloc(16, 8)
	if err := h.Free(a); err != nil {
		t.Fatalf("Free failed: %v", err)
	}

	// First-fit should hand the freed hole back.
	c, _ := h.Alloc(16, 8)
	if c != a {
		t.Fatalf("expected reuse of freed span 0x%x, got 0x%x", a, c)
	}
	_ = b
}

func TestFree_DoubleFree(t *testing.T) {
	h := New(256, 0)
	p, _ := h.Alloc(8, 8)
	if err := h.Free(p); err != nil {
		t.Fatalf("first Free failed: %v", err)
	}
	if err := h.Free(p); err == nil {
		t.Fatal("second Free should fail")
	}
}

func TestFree_Coalesce(t *testing.T) {
	h := New(512, 0)

	a, _ := h.Alloc(16, 8)
	b, _ := h.Alloc(16, 8)
	c, _ := h.Alloc(16, 8)
	d, _ := h.Alloc(16, 8) // keeps top away from the holes

	h.Free(a)
	h.Free(c)
	h.Free(b) // joins a..c into one span

	// A request spanning all three must fit in the coalesced hole.
	p, err := h.Alloc(48, 8)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if p != a {
		t.Fatalf("expected coalesced span at 0x%x, got 0x%x", a, p)
	}
	_ = d
}

func TestAlloc_Grow(t *testing.T) {
	h := New(64, 0)
	before := h.Size()

	p, err := h.Alloc(1024, 8)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if h.Size() <= before {
		t.Fatal("heap did not grow")
	}
	if !h.Live(p) {
		t.Fatal("allocation not live after grow")
	}
}

func TestAlloc_CapExhaustion(t *testing.T) {
	h := New(64, 128)

	if _, err := h.Alloc(4096, 8); err == nil {
		t.Fatal("expected exhaustion error")
	}
}

func TestAlloc_HugeRequestFailsFast(t *testing.T) {
	// Requests past 2^31 used to wrap the capacity-doubling loop to zero
	// and spin; they must hit the exhaustion path instead.
	h := New(1024, 1<<20)

	if _, err := h.Alloc(1<<31, 8); err == nil {
		t.Fatal("expected exhaustion error for a 2 GiB request")
	}
	if h.LiveObjects() != 0 {
		t.Fatalf("LiveObjects = %d after failed alloc", h.LiveObjects())
	}

	// A follow-up allocation still works.
	if _, err := h.Alloc(64, 8); err != nil {
		t.Fatalf("Alloc after failed huge request: %v", err)
	}
}

func TestAlloc_SizeNearAddressSpaceLimit(t *testing.T) {
	// Near-MaxUint32 sizes wrap both the granule rounding and the
	// ptr+size bump sum; each must surface as exhaustion, not a
	// mis-sized allocation.
	h := New(1024, 0)

	if _, err := h.Alloc(math.MaxUint32-3, 8); err == nil {
		t.Fatal("expected exhaustion error for a wrapping-rounded size")
	}
	// Already granule-aligned, so only the bump-pointer sum can wrap.
	if _, err := h.Alloc(math.MaxUint32-7, 8); err == nil {
		t.Fatal("expected exhaustion error for an address-space-sized request")
	}
}

func TestAlloc_HighAlignment(t *testing.T) {
	h := New(256, 0)
	p, err := h.Alloc(8, 64)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if p%64 != 0 {
		t.Fatalf("pointer 0x%x not 64-aligned", p)
	}
}

func TestMemory_Bounds(t *testing.T) {
	h := New(64, 0)
	if _, err := h.Read(h.Size()-2, 8); err == nil {
		t.Fatal("expected out of bounds error")
	}
	if err := h.WriteU64(h.Size()-4, 1); err == nil {
		t.Fatal("expected out of bounds error")
	}
}

func TestMemory_RoundTrip(t *testing.T) {
	h := New(256, 0)
	p, _ := h.Alloc(16, 8)

	if err := h.WriteU32(p, 0xDEADBEEF); err != nil {
		t.Fatalf("WriteU32 failed: %v", err)
	}
	v, err := h.ReadU32(p)
	if err != nil {
		t.Fatalf("ReadU32 failed: %v", err)
	}
	if v != 0xDEADBEEF {
		t.Fatalf("ReadU32 = 0x%x", v)
	}

	if err := h.WriteU64(p+8, 0x0102030405060708); err != nil {
		t.Fatalf("WriteU64 failed: %v", err)
	}
	w, _ := h.ReadU64(p + 8)
	if w != 0x0102030405060708 {
		t.Fatalf("ReadU64 = 0x%x", w)
	}
}

func TestTopRetract(t *testing.T) {
	h := New(256, 0)

	a, _ := h.Alloc(16, 8)
	b, _ := h.Alloc(16, 8)

	h.Free(b)
	h.Free(a)

	// Everything was returned; the next allocation restarts at the base.
	c, _ := h.Alloc(16, 8)
	if c != a {
		t.Fatalf("top did not retract: got 0x%x, want 0x%x", c, a)
	}
	if h.LiveObjects() != 1 {
		t.Fatalf("LiveObjects = %d", h.LiveObjects())
	}
}
