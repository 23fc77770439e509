package stack

import (
	"github.com/bytedance/gopkg/lang/dirtmake"

	"github.com/wippyai/task-runtime/errors"
)

const (
	// canaryMagic sits in the low word of every segment; an overwrite means
	// task code ran off the bottom of its stack.
	canaryMagic uint32 = 0xCDCDCDCD

	// redZone reserves bytes above the canary that the limit guards.
	redZone = 128

	// spAlign is the ABI stack alignment verified at every crossing.
	spAlign = 16
)

// Segment is one bounded stack segment. The simulated stack pointer grows
// downward from the top of buf toward the canary at its base.
type Segment struct {
	buf  []byte
	sp   uint32
	prev *Segment
}

func newSegment(size uint32) *Segment {
	if size < redZone+spAlign {
		size = redZone + spAlign
	}
	size = (size + spAlign - 1) &^ (spAlign - 1)
	s := &Segment{buf: dirtmake.Bytes(int(size), int(size))}
	s.reset()
	return s
}

func (s *Segment) reset() {
	putU32(s.buf, 0, canaryMagic)
	s.sp = uint32(len(s.buf)) &^ (spAlign - 1)
}

// Size returns the segment size in bytes.
func (s *Segment) Size() uint32 { return uint32(len(s.buf)) }

func putU32(b []byte, off uint32, v uint32) {
	b[off] = byte(v)
	b[off+1] = byte(v >> 8)
	b[off+2] = byte(v >> 16)
	b[off+3] = byte(v >> 24)
}

func getU32(b []byte, off uint32) uint32 {
	return uint32(b[off]) | uint32(b[off+1])<<8 | uint32(b[off+2])<<16 | uint32(b[off+3])<<24
}

// Bounded is a task's stack-limit bookkeeping over its chain of segments.
type Bounded struct {
	top   *Segment
	limit uint32 // lowest sp the current segment may reach; 0 = disabled
	depth int
	cache *Cache
}

// NewBounded creates a task stack with one segment of the given size.
func NewBounded(c *Cache, size uint32) *Bounded {
	b := &Bounded{cache: c}
	b.push(size)
	b.RecordLimit()
	return b
}

func (b *Bounded) push(size uint32) *Segment {
	seg := b.cache.get(size)
	seg.prev = b.top
	b.top = seg
	b.depth++
	return seg
}

// NewSegment acquires a fresh segment of at least size bytes, copies args
// onto its 16-aligned top, and returns the segment-relative address of the
// copied args. This is the segmented-stack growth path.
func (b *Bounded) NewSegment(size uint32, args []byte) uint32 {
	need := uint32(len(args)) + redZone
	if size < need {
		size = need
	}
	seg := b.push(size)

	argsSz := (uint32(len(args)) + spAlign - 1) &^ (spAlign - 1)
	seg.sp -= argsSz
	copy(seg.buf[seg.sp:], args)
	b.RecordLimit()
	return seg.sp
}

// DelSegment releases the most recently acquired segment back to the cache.
// The initial segment cannot be released.
func (b *Bounded) DelSegment() error {
	if b.top == nil || b.top.prev == nil {
		return errors.New(errors.PhaseStack, errors.KindInvalidInput).
			Detail("del_stack on the initial segment").
			Build()
	}
	dead := b.top
	b.top = dead.prev
	b.depth--
	b.cache.put(dead)
	b.RecordLimit()
	return nil
}

// RecordLimit refreshes the stack-bound bookkeeping from the current
// segment. Runs after segment changes and after foreign code returns, since
// foreign code may clobber the recorded bound.
func (b *Bounded) RecordLimit() {
	b.limit = redZone
}

// DropLimit disables overflow checking for the duration of a foreign call
// whose prologue performs its own stack handling.
func (b *Bounded) DropLimit() {
	b.limit = 0
}

// ResetLimit recaptures the bound from the live stack pointer. Landing pads
// call this on unwind re-entry to the task stack.
func (b *Bounded) ResetLimit() {
	b.RecordLimit()
}

// Limit returns the current recorded limit.
func (b *Bounded) Limit() uint32 { return b.limit }

// Depth returns the number of live segments.
func (b *Bounded) Depth() int { return b.depth }

// SP returns the simulated stack pointer of the active segment.
func (b *Bounded) SP() uint32 { return b.top.sp }

// SetSP moves the simulated stack pointer, for callers modelling frame
// pushes. It does not enforce the limit; CheckLimit does.
func (b *Bounded) SetSP(sp uint32) { b.top.sp = sp }

// CheckAlignment verifies the ABI stack alignment at a crossing point.
// Misaligned native calls corrupt vector call sequences silently, so this
// runs before every switch.
func (b *Bounded) CheckAlignment() error {
	if b.top.sp%spAlign != 0 {
		return errors.Misaligned(errors.PhaseStack, b.top.sp, spAlign)
	}
	return nil
}

// CheckCanary verifies the active segment's canary word.
func (b *Bounded) CheckCanary() error {
	if getU32(b.top.buf, 0) != canaryMagic {
		return errors.New(errors.PhaseStack, errors.KindFatal).
			Detail("stack canary damaged: task ran off its stack").
			Build()
	}
	return nil
}

// CheckLimit reports whether the stack pointer has crossed the recorded
// bound.
func (b *Bounded) CheckLimit() error {
	if b.limit != 0 && b.top.sp < b.limit {
		return errors.New(errors.PhaseStack, errors.KindExhaustion).
			Detail("stack overflow: sp 0x%x below limit 0x%x", b.top.sp, b.limit).
			Build()
	}
	return nil
}

// Release returns every segment to the cache. The Bounded is dead after.
func (b *Bounded) Release() {
	for b.top != nil {
		dead := b.top
		b.top = dead.prev
		b.cache.put(dead)
	}
	b.depth = 0
}
