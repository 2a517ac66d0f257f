// Package jobsystem provides an in-process fork-join scheduler for
// CPU-bound, data-parallel work.
//
// Work is expressed as jobs rather than goroutines. A job can spawn
// child jobs, attach continuations that run once its children finish,
// and split itself recursively over a range via ParallelFor. Idle
// workers steal from the back of a busy worker's deque, so a single
// producer can saturate every worker without any worker managing
// load balancing itself.
//
// # Quick Start
//
// Initialize the global scheduler at application startup:
//
//	jobsystem.Init()
//	defer jobsystem.Destroy()
//
// Fork work from the calling goroutine (which is itself worker 0):
//
//	s := jobsystem.GetGlobalScheduler()
//	root := s.CreateJob()
//	for i := 0; i < n; i++ {
//		i := i
//		s.StartFunction(root, func(p core.JobParams) {
//			process(i)
//		})
//	}
//	s.StartAndWaitForJob(root)
//
// # Key Concepts
//
// Job: the unit of scheduled work, a function plus an unfinished
// counter tracking itself and its outstanding children.
//
// Continuation: a job chained onto another job's completion, queued on
// the deque of whichever worker finishes the antecedent.
//
// ParallelFor: splits an index range into a binary tree of jobs so
// that a single loop is spread across every idle worker.
//
// For more details see the core package, which holds the scheduler,
// job pool, and per-worker deques this package re-exports.
package jobsystem
