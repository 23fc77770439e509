package shape

import (
	"bytes"
	"sync"

	"go.uber.org/zap"

	taskruntime "github.com/wippyai/task-runtime"
	"github.com/wippyai/task-runtime/typedesc"
)

// CompareKind selects the structural comparison performed by CmpType.
type CompareKind uint8

const (
	CompareEq CompareKind = iota
	CompareLt
	CompareLe
)

// Engine walks type descriptors to compare and log values.
type Engine interface {
	// CmpType writes the comparison outcome (0 or 1) into result.
	CmpType(result *int8, td *typedesc.TypeDesc, subs []*typedesc.TypeDesc,
		mem taskruntime.Memory, a, b uint32, kind CompareKind) error

	// LogType renders the value at ptr at the given verbosity level.
	LogType(td *typedesc.TypeDesc, mem taskruntime.Memory, ptr uint32, level uint32) error
}

var (
	mu     sync.RWMutex
	engine Engine = Bytewise{Logger: zap.NewNop()}
)

// SetEngine installs the structural engine.
func SetEngine(e Engine) {
	mu.Lock()
	defer mu.Unlock()
	engine = e
}

// Default returns the installed engine.
func Default() Engine {
	mu.RLock()
	defer mu.RUnlock()
	return engine
}

// Bytewise is a minimal engine that compares values as raw bytes of the
// descriptor's size and logs them as hex. It ignores sub-descriptors.
type Bytewise struct {
	Logger *zap.Logger
}

func (e Bytewise) CmpType(result *int8, td *typedesc.TypeDesc, subs []*typedesc.TypeDesc,
	mem taskruntime.Memory, a, b uint32, kind CompareKind) error {

	lhs, err := mem.Read(a, td.Size)
	if err != nil {
		return err
	}
	rhs, err := mem.Read(b, td.Size)
	if err != nil {
		return err
	}

	c := bytes.Compare(lhs, rhs)
	var out bool
	switch kind {
	case CompareEq:
		out = c == 0
	case CompareLt:
		out = c < 0
	case CompareLe:
		out = c <= 0
	}
	if out {
		*result = 1
	} else {
		*result = 0
	}
	return nil
}

func (e Bytewise) LogType(td *typedesc.TypeDesc, mem taskruntime.Memory, ptr uint32, level uint32) error {
	data, err := mem.Read(ptr, td.Size)
	if err != nil {
		return err
	}
	if e.Logger == nil {
		return nil
	}
	e.Logger.Debug("log_type",
		zap.Uint32("ptr", ptr),
		zap.Uint32("size", td.Size),
		zap.Uint32("level", level),
		zap.Binary("data", data))
	return nil
}
