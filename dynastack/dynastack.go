package dynastack

import (
	"github.com/bytedance/gopkg/lang/dirtmake"

	"github.com/wippyai/task-runtime/typedesc"
)

const (
	// defaultChunk is the size of a freshly grown chunk.
	defaultChunk = 4096

	// granule keeps every region 16-byte aligned.
	granule = 16
)

type chunk struct {
	buf  []byte
	used uint32
}

// Mark is an opaque high-water-mark token.
type Mark struct {
	chunk int
	off   uint32
}

// Region is a live dynastack allocation.
type Region struct {
	mark Mark
	data []byte
	td   *typedesc.TypeDesc
}

// Mark returns the token that releases this region and everything above it.
func (r *Region) Mark() Mark { return r.mark }

// Bytes returns the region's storage.
func (r *Region) Bytes() []byte { return r.data }

// Type returns the descriptor the region was tagged with, or nil for
// untyped scratch space.
func (r *Region) Type() *typedesc.TypeDesc { return r.td }

// Stack is a task-owned mark/alloc/free arena.
type Stack struct {
	chunks  []chunk
	regions []*Region
}

// New returns an empty dynastack.
func New() *Stack {
	return &Stack{}
}

// Mark returns a token for the current high-water mark.
func (s *Stack) Mark() Mark {
	if len(s.chunks) == 0 {
		return Mark{}
	}
	last := len(s.chunks) - 1
	return Mark{chunk: last, off: s.chunks[last].used}
}

func alignUp(n, align uint32) uint32 {
	return (n + align - 1) &^ (align - 1)
}

// Alloc bump-allocates size bytes, zeroed. td tags the region as a typed
// value for the collector; scratch allocations pass nil. A zero size
// returns nil, matching the entry-point contract.
func (s *Stack) Alloc(size uint32, td *typedesc.TypeDesc) *Region {
	if size == 0 {
		return nil
	}
	mark := s.Mark()
	rounded := alignUp(size, granule)

	c := s.ensure(rounded)
	data := c.buf[c.used : c.used+size : c.used+rounded]
	clear(data)
	c.used += rounded

	r := &Region{mark: mark, data: data, td: td}
	s.regions = append(s.regions, r)
	return r
}

// ensure returns a chunk with room for rounded bytes, growing if needed.
func (s *Stack) ensure(rounded uint32) *chunk {
	if n := len(s.chunks); n > 0 {
		c := &s.chunks[n-1]
		if c.used+rounded <= uint32(len(c.buf)) {
			return c
		}
	}
	size := uint32(defaultChunk)
	if rounded > size {
		size = rounded
	}
	s.chunks = append(s.chunks, chunk{buf: dirtmake.Bytes(int(size), int(size))})
	return &s.chunks[len(s.chunks)-1]
}

// Free releases every allocation made since the mark was taken. Chunks above
// the mark are dropped; the mark's own chunk is truncated back to it.
func (s *Stack) Free(m Mark) {
	if len(s.chunks) == 0 {
		return
	}
	if m.chunk >= len(s.chunks) {
		return
	}
	// An empty-stack mark releases everything.
	if m.chunk == 0 && m.off == 0 && s.chunks[0].used == 0 {
		return
	}
	s.chunks = s.chunks[:m.chunk+1]
	s.chunks[m.chunk].used = m.off

	for len(s.regions) > 0 {
		r := s.regions[len(s.regions)-1]
		if r.mark.chunk < m.chunk || (r.mark.chunk == m.chunk && r.mark.off < m.off) {
			break
		}
		s.regions = s.regions[:len(s.regions)-1]
	}
}

// Used returns the total bytes currently allocated across all chunks.
func (s *Stack) Used() uint64 {
	var n uint64
	for _, c := range s.chunks {
		n += uint64(c.used)
	}
	return n
}

// Typed visits every live typed region, oldest first, for GC tracing.
func (s *Stack) Typed(visit func(td *typedesc.TypeDesc, data []byte)) {
	for _, r := range s.regions {
		if r.td != nil {
			visit(r.td, r.data)
		}
	}
}

// Regions returns the number of live regions.
func (s *Stack) Regions() int { return len(s.regions) }
