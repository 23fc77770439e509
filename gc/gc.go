package gc

// Stats is the view of a task heap a collector bases its decision on.
type Stats interface {
	LiveBytes() uint64
	LiveObjects() int
}

// Collector is the maybe-collect hook invoked inline on every task-local
// allocation. Implementations decide internally whether to run a pass; the
// calling task is paused for the duration.
type Collector interface {
	MaybeCollect(s Stats)
}

// Nop never collects.
type Nop struct{}

func (Nop) MaybeCollect(Stats) {}

// Threshold invokes Collect whenever live bytes reach Budget. A zero
// Budget disables it; a nil Collect still counts triggered passes, so a
// budget can be armed before the collection callback exists.
type Threshold struct {
	Budget  uint64
	Collect func(s Stats)

	// Runs counts completed collection passes.
	Runs uint64
}

func (t *Threshold) MaybeCollect(s Stats) {
	if t.Budget == 0 {
		return
	}
	if s.LiveBytes() < t.Budget {
		return
	}
	if t.Collect != nil {
		t.Collect(s)
	}
	t.Runs++
}
