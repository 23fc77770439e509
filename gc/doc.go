// Package gc defines the trigger contracts for the garbage collector and
// cycle collector collaborators.
//
// The tracing algorithms themselves live outside this module. The runtime
// only gives them an opportunity to run: every task-local allocation first
// calls MaybeCollect on the task's GC and CC collectors, synchronously and
// inline. A collector decides internally whether a pass is due.
package gc
