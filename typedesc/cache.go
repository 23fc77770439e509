package typedesc

import (
	"fmt"
	"strings"
	"sync"
)

// Cache is the crate cache: the scheduler-owned intern table for type
// descriptors and dictionaries. It is shared by every task the scheduler
// runs and is safe for concurrent use; concurrent requests for structurally
// equal inputs settle on a single canonical pointer.
type Cache struct {
	mu    sync.Mutex
	descs map[string]*TypeDesc
	dicts map[string][]uintptr
}

// NewCache creates an empty crate cache.
func NewCache() *Cache {
	return &Cache{
		descs: make(map[string]*TypeDesc),
		dicts: make(map[string][]uintptr),
	}
}

// descKey canonicalizes a descriptor request. Parameter descriptors compare
// by pointer identity: they are expected to be interned themselves.
func descKey(size, align uint32, params []*TypeDesc, nObjParams uint32) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d:%d:%d", size, align, nObjParams)
	for _, p := range params {
		fmt.Fprintf(&b, ":%p", p)
	}
	return b.String()
}

// GetTypeDesc interns a structural descriptor. Repeated calls with
// structurally equal arguments return the identical pointer.
func (c *Cache) GetTypeDesc(size, align uint32, params []*TypeDesc, nObjParams uint32) *TypeDesc {
	key := descKey(size, align, params, nObjParams)

	c.mu.Lock()
	defer c.mu.Unlock()

	if td, ok := c.descs[key]; ok {
		return td
	}
	td := &TypeDesc{
		Size:       size,
		Align:      align,
		NObjParams: nObjParams,
	}
	if len(params) > 0 {
		td.Params = append([]*TypeDesc(nil), params...)
	}
	c.descs[key] = td
	return td
}

// InternDict interns a generic-function dictionary keyed by its contents.
// The returned slice is canonical and must not be mutated; interned
// dictionaries live for the life of the process.
func (c *Cache) InternDict(fields []uintptr) []uintptr {
	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, "%x:", f)
	}
	key := b.String()

	c.mu.Lock()
	defer c.mu.Unlock()

	if d, ok := c.dicts[key]; ok {
		return d
	}
	d := append([]uintptr(nil), fields...)
	c.dicts[key] = d
	return d
}

// DescCount returns the number of interned descriptors.
func (c *Cache) DescCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.descs)
}

// DictCount returns the number of interned dictionaries.
func (c *Cache) DictCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.dicts)
}
