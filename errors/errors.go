package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the runtime the error occurred
type Phase string

const (
	PhaseAlloc    Phase = "alloc"    // task-local heap operations
	PhaseExchange Phase = "exchange" // exchange heap operations
	PhaseUpcall   Phase = "upcall"   // entry-point marshalling
	PhaseTypeDesc Phase = "typedesc" // descriptor interning and cloning
	PhaseStack    Phase = "stack"    // bounded stack segments
	PhaseUnwind   Phase = "unwind"   // personality forwarding
	PhaseConfig   Phase = "config"   // configuration loading
	PhaseRuntime  Phase = "runtime"  // task and scheduler lifecycle
)

// Kind categorizes the error
type Kind string

const (
	KindAllocation   Kind = "allocation"
	KindExhaustion   Kind = "exhaustion"
	KindOutOfBounds  Kind = "out_of_bounds"
	KindDoubleFree   Kind = "double_free"
	KindMisaligned   Kind = "misaligned"
	KindForeignPanic Kind = "foreign_panic"
	KindInvalidInput Kind = "invalid_input"
	KindNotFound     Kind = "not_found"
	KindFatal        Kind = "fatal"
)

// Error is the structured error type used throughout the runtime
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	OpName string
	Addr   uint32
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.OpName != "" {
		b.WriteString(" in ")
		b.WriteString(e.OpName)
	}

	if e.Addr != 0 {
		fmt.Fprintf(&b, " at 0x%x", e.Addr)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Op sets the upcall operation name
func (b *Builder) Op(name string) *Builder {
	b.err.OpName = name
	return b
}

// Addr sets the offending heap address
func (b *Builder) Addr(ptr uint32) *Builder {
	b.err.Addr = ptr
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Exhaustion creates an allocator exhaustion error
func Exhaustion(phase Phase, size, align uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindExhaustion,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// OutOfBounds creates an out of bounds memory access error
func OutOfBounds(phase Phase, offset, length, size uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Addr:   offset,
		Detail: fmt.Sprintf("access of %d bytes at 0x%x exceeds memory size %d", length, offset, size),
	}
}

// DoubleFree creates a double-free error
func DoubleFree(phase Phase, ptr uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDoubleFree,
		Addr:   ptr,
		Detail: "pointer is not a live allocation",
	}
}

// Misaligned creates a stack or pointer misalignment error
func Misaligned(phase Phase, addr uint32, align uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMisaligned,
		Addr:   addr,
		Detail: fmt.Sprintf("address not aligned to %d bytes", align),
	}
}

// ForeignPanic creates an error for a panic escaping foreign code
func ForeignPanic(op string, recovered any) *Error {
	return &Error{
		Phase:  PhaseUpcall,
		Kind:   KindForeignPanic,
		OpName: op,
		Value:  recovered,
		Detail: fmt.Sprintf("native code threw an exception: %v", recovered),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
