// Package upcall is the entry-point surface compiled task code calls into
// the runtime through.
//
// Every operation follows the same shape: a small args struct packs the
// operands, a service function runs the operation against runtime state,
// and a thin exported entry marshals between the two. Entries dispatch
// through a single helper that applies the operation's stack policy: most
// operations cross to the native stack before touching runtime state, a
// few latency-critical ones (vector push, memset, stack-limit reset) run
// on the caller's bounded stack and must therefore stay shallow.
//
// Entries never return errors to compiled code. A failed operation is
// either a task failure (an explicit Fail upcall) or a fatal runtime
// condition reported through the kernel.
package upcall
