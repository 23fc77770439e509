// Package shape defines the contract for the structural engine: the
// collaborator that compares and logs values by walking their type
// descriptors.
//
// The engine itself lives outside this module; the runtime forwards
// cmp_type and log_type upcalls to whichever Engine is installed. Bytewise
// is a minimal built-in engine for tests and tooling.
package shape
