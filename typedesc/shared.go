package typedesc

// Arena allocates and releases descriptor nodes outside any task-local heap.
// The kernel implements it for the exchange heap, with accounting so that
// clone/free pairs can be verified leak-free.
type Arena interface {
	NewDesc() *TypeDesc
	FreeDesc(td *TypeDesc)
}

// CloneShared deep-copies a descriptor graph into arena-owned nodes so the
// result holds no pointers back into task-local storage. Parameter order is
// preserved; every sub-descriptor is copied recursively. A nil descriptor
// clones to nil.
func CloneShared(td *TypeDesc, a Arena) *TypeDesc {
	if td == nil {
		return nil
	}
	res := a.NewDesc()
	res.Size = td.Size
	res.Align = td.Align
	res.NObjParams = td.NObjParams
	res.TakeGlue = td.TakeGlue
	res.DropGlue = td.DropGlue
	if n := len(td.Params); n > 0 {
		res.Params = make([]*TypeDesc, n)
		for i, p := range td.Params {
			res.Params[i] = CloneShared(p, a)
		}
	}
	return res
}

// FreeShared releases a graph produced by CloneShared: the exact recursive
// mirror, freeing all parameter sub-descriptors before the root. A nil
// descriptor is a no-op.
func FreeShared(td *TypeDesc, a Arena) {
	if td == nil {
		return
	}
	for _, p := range td.Params {
		FreeShared(p, a)
	}
	a.FreeDesc(td)
}
