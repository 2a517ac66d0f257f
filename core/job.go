package core

import "sync/atomic"

// JobID is a stable 16-bit identifier for a job record. Zero is reserved
// and never returned by allocation.
type JobID uint16

// NullJobID is the reserved "no job" identifier.
const NullJobID JobID = 0

// JobParams is passed to a JobFunc at execution time.
type JobParams struct {
	JobID       JobID
	ThreadIndex int
	scheduler   *Scheduler
}

// Scheduler returns the scheduler executing this job, for use by operations
// (CreateChildJob, StartJob, ...) called from inside a job body.
func (p JobParams) Scheduler() *Scheduler {
	return p.scheduler
}

// JobFunc is the function type executed by a job. Closures created via
// CreateJobWithArgs and friends are adapted into this shape: a Go closure
// already satisfies "constructed once, invoked once, no heap-owned
// indirection the caller didn't intend", so there is no separate
// raw-function-pointer-vs-closure distinction to make here.
type JobFunc func(p JobParams)

// nullFunction is installed on sentinel jobs created via CreateJob().
func nullFunction(JobParams) {}

// job is one record in the pool. unfinished starts at 1 on creation, is
// incremented once per child or continuation attached before the job
// finishes, and is decremented once by the job's own function completing
// and once per child/continuation finishing. The job is finished when
// unfinished reaches 0.
//
// parent/continuation/next are frozen before the job is started, so they
// are read unsynchronized by any thread; unfinished is the only field
// mutated concurrently after creation, and only through atomic ops.
type job struct {
	fn             JobFunc
	args           any // optional typed payload for CreateJobWithArgs-style jobs
	unfinished     atomic.Int32
	parent         JobID
	continuation   JobID // head of singly-linked continuation list
	next           JobID // next sibling in parent's continuation list
	isContinuation bool
	started        atomic.Bool // set by StartJob; checked by AddContinuation (a second StartJob is not detected)
}

func (j *job) reset(fn JobFunc, parent JobID) {
	j.fn = fn
	j.args = nil
	j.parent = parent
	j.continuation = NullJobID
	j.next = NullJobID
	j.isContinuation = false
	j.started.Store(false)
	j.unfinished.Store(1)
}
