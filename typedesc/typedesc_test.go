package typedesc

import (
	"sync"
	"testing"
)

func TestGetTypeDesc_Canonical(t *testing.T) {
	c := NewCache()

	a := c.GetTypeDesc(8, 8, nil, 0)
	b := c.GetTypeDesc(8, 8, nil, 0)
	if a != b {
		t.Fatal("equal requests returned distinct descriptors")
	}

	d := c.GetTypeDesc(16, 8, nil, 0)
	if d == a {
		t.Fatal("distinct sizes interned to the same descriptor")
	}
	if c.DescCount() != 2 {
		t.Fatalf("DescCount = %d, want 2", c.DescCount())
	}
}

func TestGetTypeDesc_ParamIdentity(t *testing.T) {
	c := NewCache()

	elem := c.GetTypeDesc(4, 4, nil, 0)
	box1 := c.GetTypeDesc(8, 8, []*TypeDesc{elem}, 0)
	box2 := c.GetTypeDesc(8, 8, []*TypeDesc{elem}, 0)
	if box1 != box2 {
		t.Fatal("same parameter list returned distinct descriptors")
	}

	other := c.GetTypeDesc(4, 2, nil, 0)
	box3 := c.GetTypeDesc(8, 8, []*TypeDesc{other}, 0)
	if box3 == box1 {
		t.Fatal("different parameter interned to the same descriptor")
	}

	objs := c.GetTypeDesc(8, 8, []*TypeDesc{elem}, 1)
	if objs == box1 {
		t.Fatal("object-parameter count ignored by interning")
	}
}

func TestGetTypeDesc_Concurrent(t *testing.T) {
	const (
		callers = 16
		shapes  = 32
	)
	c := NewCache()

	results := make([][]*TypeDesc, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		i := i
		results[i] = make([]*TypeDesc, shapes)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := 0; s < shapes; s++ {
				results[i][s] = c.GetTypeDesc(uint32(8*(s+1)), 8, nil, 0)
			}
		}()
	}
	wg.Wait()

	for s := 0; s < shapes; s++ {
		want := results[0][s]
		for i := 1; i < callers; i++ {
			if results[i][s] != want {
				t.Fatalf("shape %d: caller %d observed a different canonical pointer", s, i)
			}
		}
	}
	if c.DescCount() != shapes {
		t.Fatalf("DescCount = %d, want %d", c.DescCount(), shapes)
	}
}

func TestInternDict(t *testing.T) {
	c := NewCache()

	d1 := c.InternDict([]uintptr{1, 2, 3})
	d2 := c.InternDict([]uintptr{1, 2, 3})
	if &d1[0] != &d2[0] {
		t.Fatal("equal dictionaries were not interned")
	}

	d3 := c.InternDict([]uintptr{1, 2, 4})
	if &d3[0] == &d1[0] {
		t.Fatal("distinct dictionaries interned together")
	}
	if c.DictCount() != 2 {
		t.Fatalf("DictCount = %d", c.DictCount())
	}
}

// countingArena tracks outstanding nodes to verify clone/free pairing.
type countingArena struct {
	live    map[*TypeDesc]bool
	allocs  int
	doubled bool
}

func newCountingArena() *countingArena {
	return &countingArena{live: map[*TypeDesc]bool{}}
}

func (a *countingArena) NewDesc() *TypeDesc {
	td := &TypeDesc{}
	a.live[td] = true
	a.allocs++
	return td
}

func (a *countingArena) FreeDesc(td *TypeDesc) {
	if !a.live[td] {
		a.doubled = true
		return
	}
	delete(a.live, td)
}

func TestCloneShared_Nested(t *testing.T) {
	c := NewCache()
	leaf := c.GetTypeDesc(4, 4, nil, 0)
	mid := c.GetTypeDesc(8, 8, []*TypeDesc{leaf, leaf}, 0)
	root := c.GetTypeDesc(16, 8, []*TypeDesc{mid, leaf}, 0)

	a := newCountingArena()
	shared := CloneShared(root, a)

	// root + (mid + 2 leaves) + leaf
	if a.allocs != 5 {
		t.Fatalf("allocated %d nodes, want 5", a.allocs)
	}
	if shared == root || shared.Params[0] == mid {
		t.Fatal("clone aliases the source graph")
	}
	if shared.Size != 16 || shared.Params[0].Params[1].Size != 4 {
		t.Fatal("clone does not preserve structure")
	}
	if len(shared.Params) != 2 || len(shared.Params[0].Params) != 2 {
		t.Fatal("parameter order or arity lost")
	}

	FreeShared(shared, a)
	if len(a.live) != 0 {
		t.Fatalf("%d nodes leaked", len(a.live))
	}
	if a.doubled {
		t.Fatal("double free during FreeShared")
	}
}

func TestCloneShared_Nil(t *testing.T) {
	a := newCountingArena()
	if CloneShared(nil, a) != nil {
		t.Fatal("nil clone should be nil")
	}
	FreeShared(nil, a) // no-op
	if a.allocs != 0 {
		t.Fatal("nil handling allocated nodes")
	}
}
