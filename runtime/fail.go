package runtime

import (
	"fmt"

	"go.uber.org/zap"
)

// FailInfo is the diagnostic recorded when a task fails.
type FailInfo struct {
	Expr string
	File string
	Line int
}

func (f *FailInfo) String() string {
	return fmt.Sprintf("task failed at '%s', %s:%d", f.Expr, f.File, f.Line)
}

// Fail records the diagnostic, marks the task failed and starts its unwind
// teardown. This is the single low-level entry point compiled code targets
// for broken invariants: bounds checks, match exhaustiveness, explicit
// aborts.
func (t *Task) Fail(expr, file string, line int) {
	t.failInfo = &FailInfo{Expr: expr, File: file, Line: line}
	t.failed = true
	t.logger.Error("upcall fail",
		zap.String("expr", expr),
		zap.String("file", file),
		zap.Int("line", line))
	if t.teardown != nil {
		t.teardown(t)
	}
}

// Failed reports whether the task has failed.
func (t *Task) Failed() bool { return t.failed }

// FailInfo returns the failure diagnostic, or nil.
func (t *Task) FailInfo() *FailInfo { return t.failInfo }
