// Package errors provides structured error types for the task-runtime library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: the upcall operation, the
// offending address, detail text and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseAlloc, errors.KindExhaustion).
//		Op("malloc").
//		Addr(ptr).
//		Detail("request for %d bytes exceeds heap cap", n).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Exhaustion(errors.PhaseAlloc, size, align)
//	err := errors.OutOfBounds(errors.PhaseUpcall, ptr, length, size)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
