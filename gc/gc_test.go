package gc

import "testing"

type fakeStats struct {
	bytes   uint64
	objects int
}

func (f fakeStats) LiveBytes() uint64 { return f.bytes }
func (f fakeStats) LiveObjects() int  { return f.objects }

func TestThreshold_BelowBudget(t *testing.T) {
	c := &Threshold{Budget: 100, Collect: func(Stats) { t.Fatal("collected below budget") }}
	c.MaybeCollect(fakeStats{bytes: 99})
	if c.Runs != 0 {
		t.Fatalf("Runs = %d", c.Runs)
	}
}

func TestThreshold_AtBudget(t *testing.T) {
	ran := false
	c := &Threshold{Budget: 100, Collect: func(s Stats) { ran = true }}
	c.MaybeCollect(fakeStats{bytes: 100})
	if !ran {
		t.Fatal("expected collection at budget")
	}
	if c.Runs != 1 {
		t.Fatalf("Runs = %d", c.Runs)
	}
}

func TestThreshold_Disabled(t *testing.T) {
	c := &Threshold{}
	c.MaybeCollect(fakeStats{bytes: 1 << 40})
	if c.Runs != 0 {
		t.Fatal("disabled collector ran")
	}
}
