package runtime

import (
	"go.uber.org/zap"

	"github.com/wippyai/task-runtime/dynastack"
	"github.com/wippyai/task-runtime/gc"
	"github.com/wippyai/task-runtime/heap"
	"github.com/wippyai/task-runtime/kernel"
	"github.com/wippyai/task-runtime/stack"
	"github.com/wippyai/task-runtime/typedesc"
)

// Task is the unit of bounded-stack execution. A task is owned by the
// single goroutine running it; only the scheduler-shared state it reaches
// through its scheduler is synchronized.
type Task struct {
	id    uint64
	sched *Scheduler

	heap        *heap.Heap
	localAllocs map[uint32]*typedesc.TypeDesc
	origins     map[uint32]string // debug origin tags, nil unless enabled
	dyna        *dynastack.Stack
	stk         *stack.Bounded

	gc gc.Collector
	cc gc.Collector

	// cDepth > 0 while execution is on the native stack.
	cDepth int

	failed   bool
	failInfo *FailInfo
	teardown func(*Task) // lifecycle collaborator, runs on Fail

	gcFrees   uint64
	userFrees uint64

	logger *zap.Logger
}

// budgetCollector arms a threshold trigger for a configured budget. The
// collection callback is bound later through SetCollectors; until then a
// triggered pass only counts.
func budgetCollector(budget uint64) gc.Collector {
	if budget == 0 {
		return gc.Nop{}
	}
	return &gc.Threshold{Budget: budget}
}

// Spawn creates a task with a fresh heap, dynastack and initial stack
// segment. Configured GC and cycle-collector budgets arm threshold
// triggers on the new task.
func (s *Scheduler) Spawn() *Task {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	t := &Task{
		id:          id,
		sched:       s,
		heap:        heap.New(s.cfg.TaskHeapStart, s.cfg.TaskHeapCap),
		localAllocs: make(map[uint32]*typedesc.TypeDesc),
		dyna:        dynastack.New(),
		stk:         stack.NewBounded(s.segments, s.cfg.MinStackSize),
		gc:          budgetCollector(s.cfg.GCBudget),
		cc:          budgetCollector(s.cfg.CCBudget),
		logger:      s.logger.With(zap.Uint64("task", id)),
	}
	if s.cfg.DebugOrigins {
		t.origins = make(map[uint32]string)
	}
	s.tasks[id] = t
	s.mu.Unlock()

	t.logger.Debug("task spawned")
	return t
}

// ID returns the task id.
func (t *Task) ID() uint64 { return t.id }

// Scheduler returns the owning scheduler.
func (t *Task) Scheduler() *Scheduler { return t.sched }

// Heap returns the task-local heap.
func (t *Task) Heap() *heap.Heap { return t.heap }

// Dynastack returns the task's dynamic stack.
func (t *Task) Dynastack() *dynastack.Stack { return t.dyna }

// Stack returns the task's bounded-stack bookkeeping.
func (t *Task) Stack() *stack.Bounded { return t.stk }

// Kernel returns the process-wide kernel.
func (t *Task) Kernel() *kernel.Kernel { return t.sched.kernel }

// CrateCache resolves the scheduler's crate cache.
func (t *Task) CrateCache() *typedesc.Cache { return t.sched.cache }

// Logger returns the task logger.
func (t *Task) Logger() *zap.Logger { return t.logger }

// SetCollectors installs the GC and cycle-collector collaborators. Nil
// leaves the corresponding slot untouched.
func (t *Task) SetCollectors(gcc, ccc gc.Collector) {
	if gcc != nil {
		t.gc = gcc
	}
	if ccc != nil {
		t.cc = ccc
	}
}

// Collectors returns the installed GC and cycle-collector collaborators.
func (t *Task) Collectors() (gcc, ccc gc.Collector) { return t.gc, t.cc }

// SetTeardown installs the lifecycle collaborator invoked when the task
// fails.
func (t *Task) SetTeardown(fn func(*Task)) { t.teardown = fn }

// MaybeGC gives the GC collaborator an opportunity to run.
func (t *Task) MaybeGC() { t.gc.MaybeCollect(t.heap) }

// MaybeCC gives the cycle collector an opportunity to run.
func (t *Task) MaybeCC() { t.cc.MaybeCollect(t.heap) }

// RecordAlloc indexes a live task-local allocation for tracing.
func (t *Task) RecordAlloc(ptr uint32, td *typedesc.TypeDesc, origin string) {
	t.localAllocs[ptr] = td
	if t.origins != nil {
		t.origins[ptr] = origin
	}
}

// ForgetAlloc drops an allocation from the trace index. isGC distinguishes
// a collector-initiated free from an explicit one.
func (t *Task) ForgetAlloc(ptr uint32, isGC bool) {
	delete(t.localAllocs, ptr)
	if t.origins != nil {
		delete(t.origins, ptr)
	}
	if isGC {
		t.gcFrees++
	} else {
		t.userFrees++
	}
}

// AllocType returns the descriptor an allocation was made with.
func (t *Task) AllocType(ptr uint32) (*typedesc.TypeDesc, bool) {
	td, ok := t.localAllocs[ptr]
	return td, ok
}

// LiveAllocs returns the number of traced task-local allocations.
func (t *Task) LiveAllocs() int { return len(t.localAllocs) }

// Frees returns the explicit and collector-initiated free counts.
func (t *Task) Frees() (user, gcInitiated uint64) { return t.userFrees, t.gcFrees }

// Destroy releases the task's segments back to the scheduler and reaps it.
func (t *Task) Destroy() {
	t.stk.Release()
	t.localAllocs = nil
	t.origins = nil
	t.sched.remove(t)
	t.logger.Debug("task destroyed")
}
