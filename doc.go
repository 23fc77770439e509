// Package taskruntime is the upcall and stack-switching core of a compiled
// language runtime: the boundary through which generated code, running on a
// bounded per-task stack, reaches runtime services that must execute on a
// full-size native stack.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	taskruntime/         Root package with core Memory and Allocator interfaces
//	├── runtime/         Scheduler and Task lifecycle, stack-switch primitive, failure
//	├── upcall/          Entry-point surface exposed to compiled code
//	├── heap/            Linear-memory free-list heap backing task-local allocation
//	├── kernel/          Process-wide allocator, exchange heap, fatal conditions
//	├── typedesc/        Type descriptors, crate-cache interning, shared clones
//	├── dynastack/       Per-task mark/alloc/free arena for transient values
//	├── vec/             Dynamic array growth and push with take glue
//	├── stack/           Bounded stack segments, limits, canary and alignment checks
//	├── unwind/          Native unwind personality forwarding contract
//	├── shape/           Structural compare/log collaborator contract
//	├── gc/              GC and cycle-collector trigger contracts
//	├── config/          TOML and environment configuration
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Build a scheduler and spawn a task:
//
//	sched := runtime.NewScheduler(config.Default())
//	defer sched.Close()
//
//	task := sched.Spawn()
//	defer task.Destroy()
//
//	ptr := upcall.Malloc(task, td.Size, td, "example")
//	upcall.Free(task, ptr, false)
//
// # Memory Model
//
// Every heap is a growable linear memory addressed by uint32 offsets through
// the Memory interface. Offset 0 is the null pointer; allocators never return
// it. Task heaps are private to their task and require no locking; the
// exchange heap is process-wide and serializes access internally.
//
// # Thread Safety
//
// Scheduler, the crate cache and the exchange heap are safe for concurrent
// use. A Task is NOT thread-safe: it is owned by the single goroutine running
// it, and all upcall entry points must be invoked from that goroutine.
package taskruntime
