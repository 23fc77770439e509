// Package stack manages the bounded task stacks: the small, growable stack
// segments compiled task code runs on, as distinct from the native OS thread
// stack that runtime services use.
//
// Stack bounds are explicit per-task values refreshed at well-defined
// checkpoints (segment growth, unwind landing, foreign-call return) rather
// than inferred from the host call stack. Every crossing to the native stack
// verifies 16-byte alignment of the simulated stack pointer, and each
// segment carries a canary word checked after operations that run glue on
// the task stack.
//
// Released segments of the default size recycle through a scheduler-owned
// Cache so segmented-stack growth stays cheap.
package stack
