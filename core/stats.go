package core

import (
	"sync/atomic"
	"time"
)

// workerCounters holds one worker's lifetime counters. Each field has a
// single kind of writer (givenJobs is incremented by the stealing worker,
// the rest by the owning worker) and snapshot reads them from any
// goroutine, so plain atomics (rather than a mutex) are enough.
type workerCounters struct {
	enqueuedJobs    atomic.Int64
	executedJobs    atomic.Int64
	stolenJobs      atomic.Int64 // jobs this worker stole from someone else
	givenJobs       atomic.Int64 // jobs someone else stole from this worker
	attemptedSteals atomic.Int64
	totalTime       atomic.Int64 // nanoseconds spent executing job bodies
	startNanos      atomic.Int64 // UnixNano when the worker was started, 0 until markStarted
}

// markStarted records the worker's start time. NewScheduler calls it once
// per worker before returning (for a spawned worker, just before its
// goroutine is launched; for worker 0, right after the scheduler is
// constructed), so RunningTime can be recomputed live on every snapshot
// instead of only written once when the loop exits.
func (c *workerCounters) markStarted() {
	c.startNanos.Store(time.Now().UnixNano())
}

// Stats is a point-in-time snapshot of one worker's counters, returned by
// Scheduler.ThreadStats. TotalTime/RunningTime supplement the base counter
// set with the per-thread profiling timers a production scheduler tends to
// want once it's running in anger. RunningTime is recomputed fresh on every
// call from the worker's recorded start time, not accumulated.
type Stats struct {
	WorkerIdx       int
	EnqueuedJobs    int64
	ExecutedJobs    int64
	StolenJobs      int64
	GivenJobs       int64
	AttemptedSteals int64
	TotalTime       time.Duration
	RunningTime     time.Duration
}

func (c *workerCounters) snapshot(workerIdx int) Stats {
	var runningTime time.Duration
	if start := c.startNanos.Load(); start != 0 {
		runningTime = time.Duration(time.Now().UnixNano() - start)
	}

	return Stats{
		WorkerIdx:       workerIdx,
		EnqueuedJobs:    c.enqueuedJobs.Load(),
		ExecutedJobs:    c.executedJobs.Load(),
		StolenJobs:      c.stolenJobs.Load(),
		GivenJobs:       c.givenJobs.Load(),
		AttemptedSteals: c.attemptedSteals.Load(),
		TotalTime:       time.Duration(c.totalTime.Load()),
		RunningTime:     runningTime,
	}
}
