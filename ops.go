package jobsystem

import "github.com/forkjoin-go/jobsystem/core"

// Free functions operate on the global scheduler (see Init/GetGlobalScheduler).
// Prefer the explicit *Scheduler methods when running more than one
// scheduler in a process, e.g. in tests.

func WorkerCount() int     { return GetGlobalScheduler().WorkerCount() }
func ThisWorkerIndex() int { return GetGlobalScheduler().ThisWorkerIndex() }

func CreateJob() JobID                  { return GetGlobalScheduler().CreateJob() }
func CreateJobFunc(fn JobFunc) JobID    { return GetGlobalScheduler().CreateJobFunc(fn) }
func CreateChildJob(parent JobID) JobID { return GetGlobalScheduler().CreateChildJob(parent) }
func CreateChildJobFunc(parent JobID, fn JobFunc) JobID {
	return GetGlobalScheduler().CreateChildJobFunc(parent, fn)
}
func AddContinuation(antecedent JobID, fn JobFunc) JobID {
	return GetGlobalScheduler().AddContinuation(antecedent, fn)
}
func StartJob(id JobID)           { GetGlobalScheduler().StartJob(id) }
func WaitForJob(id JobID)         { GetGlobalScheduler().WaitForJob(id) }
func StartAndWaitForJob(id JobID) { GetGlobalScheduler().StartAndWaitForJob(id) }
func StartFunction(parent JobID, fn JobFunc) JobID {
	return GetGlobalScheduler().StartFunction(parent, fn)
}

func ParallelFor(parent JobID, splitThreshold, elementCount int, fn RangeFunc) JobID {
	return GetGlobalScheduler().ParallelFor(parent, splitThreshold, elementCount, fn)
}

func ThreadStats(workerIdx int) Stats { return GetGlobalScheduler().ThreadStats(workerIdx) }

// CreateJobWithArgs, CreateChildJobWithArgs, and AddContinuationWithArgs
// carry a type parameter a var can't preserve, so they're re-exported as
// thin generic wrapper functions operating on the global scheduler.
// Callers juggling more than one scheduler should use the equivalents in
// package core, which take an explicit *Scheduler.

func CreateJobWithArgs[T any](fn func(JobParams, T), args T) JobID {
	return core.CreateJobWithArgs(GetGlobalScheduler(), fn, args)
}

func CreateChildJobWithArgs[T any](parent JobID, fn func(JobParams, T), args T) JobID {
	return core.CreateChildJobWithArgs(GetGlobalScheduler(), parent, fn, args)
}

func AddContinuationWithArgs[T any](antecedent JobID, fn func(JobParams, T), args T) JobID {
	return core.AddContinuationWithArgs(GetGlobalScheduler(), antecedent, fn, args)
}
