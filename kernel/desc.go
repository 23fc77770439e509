package kernel

import (
	"github.com/wippyai/task-runtime/typedesc"
)

// The kernel is the typedesc.Arena for shared descriptor clones. Nodes are
// host-side, but the kernel accounts for them the same way it accounts for
// exchange allocations so clone/free pairing is verifiable.

// NewDesc allocates an accounted shared descriptor node.
func (k *Kernel) NewDesc() *typedesc.TypeDesc {
	td := &typedesc.TypeDesc{}
	k.descMu.Lock()
	k.descLive[td] = true
	k.descMu.Unlock()
	return td
}

// FreeDesc releases an accounted node. Freeing a node that is not live is a
// fatal invariant violation (double free or a descriptor that never came
// from CloneShared).
func (k *Kernel) FreeDesc(td *typedesc.TypeDesc) {
	k.descMu.Lock()
	if !k.descLive[td] {
		k.descMu.Unlock()
		k.Fatalf("free_shared_type_desc", "descriptor %p is not a live shared clone", td)
	}
	delete(k.descLive, td)
	k.descMu.Unlock()
}

// DescLive returns the number of outstanding shared descriptor nodes.
func (k *Kernel) DescLive() int {
	k.descMu.Lock()
	defer k.descMu.Unlock()
	return len(k.descLive)
}
