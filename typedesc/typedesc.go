package typedesc

import (
	taskruntime "github.com/wippyai/task-runtime"
)

// GlueFn is a per-type polymorphic operation. It receives the descriptor's
// parameter descriptors and the address of the value it operates on.
type GlueFn func(params []*TypeDesc, mem taskruntime.Memory, ptr uint32)

// TypeDesc describes the memory layout and polymorphic operations of a type.
//
// Two descriptors are identical iff size, align, parameter identity (by
// pointer, after interning) and object-parameter count match. Interned
// descriptors must be treated as immutable.
type TypeDesc struct {
	Size  uint32
	Align uint32

	// Params holds the parameter sub-descriptors of a generic type, in
	// declaration order.
	Params []*TypeDesc

	// NObjParams counts parameters bound to object types.
	NObjParams uint32

	// TakeGlue registers a new logical owner after a value's bytes are
	// duplicated or moved into new storage. Nil for trivially copyable types.
	TakeGlue GlueFn

	// DropGlue releases ownership before a value's storage dies.
	DropGlue GlueFn
}

// NParams returns the number of parameter sub-descriptors.
func (td *TypeDesc) NParams() int { return len(td.Params) }

// Depth returns the longest parameter chain rooted at td, counting td.
func (td *TypeDesc) Depth() int {
	if td == nil {
		return 0
	}
	max := 0
	for _, p := range td.Params {
		if d := p.Depth(); d > max {
			max = d
		}
	}
	return max + 1
}
