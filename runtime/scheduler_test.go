package runtime

import (
	"testing"

	"github.com/wippyai/task-runtime/config"
)

func TestSchedulerClose(t *testing.T) {
	s := testScheduler(t)
	for i := 0; i < 3; i++ {
		s.Spawn()
	}
	if s.TaskCount() != 3 {
		t.Fatalf("TaskCount = %d", s.TaskCount())
	}

	s.Close()
	if s.TaskCount() != 0 {
		t.Fatalf("TaskCount = %d after close", s.TaskCount())
	}
}

func TestSchedulerDefaults(t *testing.T) {
	s := NewScheduler(config.Default())
	defer s.Close()

	if s.Kernel() == nil {
		t.Fatal("no default kernel")
	}
	if s.CrateCache() == nil {
		t.Fatal("no crate cache")
	}
}

func TestCrateCacheSharedAcrossTasks(t *testing.T) {
	s := testScheduler(t)
	a := s.Spawn()
	b := s.Spawn()

	da := a.CrateCache().GetTypeDesc(8, 8, nil, 0)
	db := b.CrateCache().GetTypeDesc(8, 8, nil, 0)
	if da != db {
		t.Fatal("tasks resolved distinct descriptors for one shape")
	}
}

func TestTaskIDsUnique(t *testing.T) {
	s := testScheduler(t)
	seen := make(map[uint64]bool)
	for i := 0; i < 8; i++ {
		id := s.Spawn().ID()
		if seen[id] {
			t.Fatalf("duplicate task id %d", id)
		}
		seen[id] = true
	}
}
