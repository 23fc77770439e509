// Package unwind defines the native-unwind personality contract.
//
// The personality routine is invoked by the unwind runtime while walking
// stack frames for a landing pad. Landing-pad logic itself is an external
// collaborator: this package only carries the types the routine is called
// with and the hook for installing the underlying native implementation.
// The runtime's job is purely positional: ensure the routine executes on
// the native stack, crossing from the task stack at most once.
package unwind
