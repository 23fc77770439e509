package kernel

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/task-runtime/heap"
	"github.com/wippyai/task-runtime/typedesc"
)

// Kernel is the process-wide allocator behind the exchange heap and shared
// type-descriptor nodes. All methods are safe for concurrent use.
type Kernel struct {
	mu       sync.Mutex
	exchange *heap.Heap
	tags     map[uint32]string // live exchange ptr -> allocation tag

	descMu   sync.Mutex
	descLive map[*typedesc.TypeDesc]bool

	logger *zap.Logger
	abort  func(msg string)
}

// Option configures a Kernel.
type Option func(*Kernel)

// WithLogger sets the kernel logger. Defaults to a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(k *Kernel) { k.logger = l }
}

// WithAbort replaces the process-abort hook, primarily for tests.
func WithAbort(fn func(msg string)) Option {
	return func(k *Kernel) { k.abort = fn }
}

// New creates a kernel with an exchange heap of the given initial size and
// cap (0 = unbounded).
func New(exchangeInitial, exchangeCap uint32, opts ...Option) *Kernel {
	k := &Kernel{
		exchange: heap.New(exchangeInitial, exchangeCap),
		tags:     make(map[uint32]string),
		descLive: make(map[*typedesc.TypeDesc]bool),
		logger:   zap.NewNop(),
	}
	k.abort = func(msg string) {
		fmt.Fprintln(os.Stderr, msg)
		os.Exit(134)
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Fatalf reports a broken internal invariant: it logs the diagnostic and
// aborts. It does not return.
func (k *Kernel) Fatalf(op, format string, args ...any) {
	msg := fmt.Sprintf("fatal: %s: %s", op, fmt.Sprintf(format, args...))
	k.logger.Error(msg, zap.String("op", op))
	k.abort(msg)
	// The default hook exits; a test hook that returns must not let the
	// caller continue on broken state.
	panic(msg)
}

// Malloc allocates size zeroed bytes from the exchange heap. Exhaustion is
// fatal: there is no fallback allocation strategy.
func (k *Kernel) Malloc(size uint32, tag string) uint32 {
	k.mu.Lock()
	ptr, err := k.exchange.Alloc(size, 8)
	if err != nil {
		k.mu.Unlock()
		k.Fatalf("shared_malloc", "exchange heap exhausted allocating %d bytes (%s): %v", size, tag, err)
	}
	k.tags[ptr] = tag
	k.mu.Unlock()

	k.logger.Debug("shared malloc",
		zap.Uint32("size", size),
		zap.Uint32("ptr", ptr),
		zap.String("tag", tag))
	return ptr
}

// Free releases an exchange-heap allocation. Freeing a dead pointer is a
// fatal invariant violation.
func (k *Kernel) Free(ptr uint32) {
	k.mu.Lock()
	if err := k.exchange.Free(ptr); err != nil {
		k.mu.Unlock()
		k.Fatalf("shared_free", "freeing dead exchange pointer 0x%x: %v", ptr, err)
	}
	delete(k.tags, ptr)
	k.mu.Unlock()
}

// LiveBytes returns the bytes currently allocated on the exchange heap.
func (k *Kernel) LiveBytes() uint64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.exchange.LiveBytes()
}

// LiveObjects returns the number of live exchange allocations.
func (k *Kernel) LiveObjects() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.exchange.LiveObjects()
}
