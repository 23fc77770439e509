package runtime

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/task-runtime/config"
	"github.com/wippyai/task-runtime/kernel"
	"github.com/wippyai/task-runtime/stack"
	"github.com/wippyai/task-runtime/typedesc"
)

// Scheduler owns a pool of tasks and the process-wide state they share: the
// kernel, one crate cache, and the stack segment cache.
type Scheduler struct {
	cfg      *config.Config
	kernel   *kernel.Kernel
	cache    *typedesc.Cache
	segments *stack.Cache
	logger   *zap.Logger

	mu     sync.Mutex
	tasks  map[uint64]*Task
	nextID uint64
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the scheduler logger. Defaults to a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// WithKernel substitutes the kernel, primarily so tests can install an
// abort hook.
func WithKernel(k *kernel.Kernel) Option {
	return func(s *Scheduler) { s.kernel = k }
}

// NewScheduler creates a scheduler. A nil cfg uses config.Default().
func NewScheduler(cfg *config.Config, opts ...Option) *Scheduler {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Scheduler{
		cfg:      cfg,
		cache:    typedesc.NewCache(),
		segments: stack.NewCache(cfg.MaxIdleSegments),
		logger:   zap.NewNop(),
		tasks:    make(map[uint64]*Task),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.kernel == nil {
		s.kernel = kernel.New(cfg.ExchangeHeapStart, cfg.ExchangeHeapCap,
			kernel.WithLogger(s.logger))
	}
	return s
}

// Kernel returns the process-wide kernel.
func (s *Scheduler) Kernel() *kernel.Kernel { return s.kernel }

// CrateCache returns the scheduler's descriptor intern table.
func (s *Scheduler) CrateCache() *typedesc.Cache { return s.cache }

// Config returns the scheduler configuration.
func (s *Scheduler) Config() *config.Config { return s.cfg }

// TaskCount returns the number of live tasks.
func (s *Scheduler) TaskCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Close tears the scheduler down. Live tasks are destroyed.
func (s *Scheduler) Close() {
	s.mu.Lock()
	live := make([]*Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		live = append(live, t)
	}
	s.mu.Unlock()

	for _, t := range live {
		t.Destroy()
	}
	s.logger.Info("scheduler closed",
		zap.Int("descs", s.cache.DescCount()),
		zap.Int("dicts", s.cache.DictCount()),
		zap.Uint64("exchange_live", s.kernel.LiveBytes()))
}

func (s *Scheduler) remove(t *Task) {
	s.mu.Lock()
	delete(s.tasks, t.id)
	s.mu.Unlock()
}
