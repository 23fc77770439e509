package unwind

import "sync"

// ReasonCode is the personality routine's verdict for a frame.
type ReasonCode int

const (
	NoReason         ReasonCode = 0
	FatalPhase2Error ReasonCode = 2
	FatalPhase1Error ReasonCode = 3
	NormalStop       ReasonCode = 4
	EndOfStack       ReasonCode = 5
	HandlerFound     ReasonCode = 6
	InstallContext   ReasonCode = 7
	ContinueUnwind   ReasonCode = 8
)

// Action is the phase bitmask passed to the personality routine.
type Action int

const (
	SearchPhase  Action = 1 << iota // locating a handler
	CleanupPhase                    // running cleanups
	HandlerFrame                    // stopped at the handler's frame
	ForceUnwind                     // forced (non-resumable) unwind
)

// Exception is the in-flight exception header.
type Exception struct {
	// Class identifies the runtime that raised the exception.
	Class uint64

	// Payload is opaque to the forwarding layer.
	Payload any
}

// Context is the unwinder's view of the frame being inspected. Opaque here;
// only the underlying personality interprets it.
type Context struct {
	Frame any
}

// PersonalityFn decides how to handle an in-flight exception at one frame.
type PersonalityFn func(version int, actions Action, class uint64, exc *Exception, ctx *Context) ReasonCode

var (
	mu     sync.RWMutex
	native PersonalityFn = func(int, Action, uint64, *Exception, *Context) ReasonCode {
		return ContinueUnwind
	}
)

// SetNative installs the underlying native personality implementation.
func SetNative(fn PersonalityFn) {
	mu.Lock()
	defer mu.Unlock()
	native = fn
}

// Native returns the installed personality implementation.
func Native() PersonalityFn {
	mu.RLock()
	defer mu.RUnlock()
	return native
}
