package core

import (
	"bytes"
	"math/rand"
	"runtime"
	"runtime/debug"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Scheduler owns the job pool, the per-worker deques, and the worker
// goroutines that drain them. The goroutine that constructs it (via
// NewScheduler) becomes worker 0 and participates in stealing exactly like
// the spawned workers; it never gets special treatment beyond not having a
// goroutine of its own to join on Destroy.
type Scheduler struct {
	pool     *jobPool
	deques   []*workerDeque
	counters []*workerCounters
	rngs     []*rand.Rand

	threadCount   int
	jobsPerThread int

	logger       Logger
	panicHandler PanicHandler
	metrics      Metrics

	mu             sync.Mutex
	cond           *sync.Cond
	running        atomic.Bool
	activeJobCount atomic.Int64

	wg sync.WaitGroup

	identityMu sync.Mutex
	identity   map[uint64]int // goroutine id -> worker index
}

// NewScheduler allocates the job pool and per-worker deques, spawns
// threadCount-1 worker goroutines, and binds the calling goroutine as
// worker 0. The calling goroutine must be the one that later calls
// Destroy, and should not call scheduler operations concurrently from a
// second goroutine without first obtaining a worker index of its own
// (there is none to obtain: only worker goroutines and the Init caller
// have one).
func NewScheduler(opts ...Option) (*Scheduler, error) {
	cfg := defaultSchedulerConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	jobsPerThread := nextPowerOfTwo(cfg.jobsPerThread)

	numWorkers := cfg.workerCount
	if numWorkers < 0 {
		numWorkers = runtime.NumCPU() - 1
		if numWorkers < 0 {
			numWorkers = 0
		}
	}

	threadCount := numWorkers + 1
	if threadCount > MaxThreads {
		threadCount = MaxThreads
	}
	if maxByID := maxJobID / jobsPerThread; threadCount > maxByID {
		threadCount = maxByID
	}
	if threadCount < 1 {
		threadCount = 1
	}

	s := &Scheduler{
		pool:          newJobPool(threadCount, jobsPerThread),
		threadCount:   threadCount,
		jobsPerThread: jobsPerThread,
		logger:        cfg.logger,
		panicHandler:  cfg.panicHandler,
		metrics:       cfg.metrics,
		identity:      make(map[uint64]int, threadCount),
	}
	s.cond = sync.NewCond(&s.mu)
	s.running.Store(true)

	s.deques = make([]*workerDeque, threadCount)
	s.counters = make([]*workerCounters, threadCount)
	s.rngs = make([]*rand.Rand, threadCount)
	for i := 0; i < threadCount; i++ {
		s.deques[i] = newWorkerDeque(jobsPerThread)
		s.counters[i] = &workerCounters{}
		s.rngs[i] = rand.New(rand.NewSource(int64(i) + 1))
	}

	s.bindCurrentGoroutine(0)
	s.counters[0].markStarted()
	s.logger.Info("scheduler initialized", F("workers", threadCount-1), F("jobsPerThread", jobsPerThread))

	for i := 1; i < threadCount; i++ {
		s.wg.Add(1)
		s.counters[i].markStarted()
		go s.runWorker(i)
	}

	return s, nil
}

// goroutineID extracts the numeric goroutine id from runtime.Stack's
// header line. There is no public Go API for goroutine-local storage;
// this is the standard workaround used when a design genuinely requires
// per-goroutine identity (here: "which worker is the caller"), and it is
// only ever used to look up a pre-registered worker index, never to infer
// one.
func goroutineID() uint64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]
	buf = bytes.TrimPrefix(buf, []byte("goroutine "))
	if i := bytes.IndexByte(buf, ' '); i >= 0 {
		buf = buf[:i]
	}
	id, _ := strconv.ParseUint(string(buf), 10, 64)
	return id
}

func (s *Scheduler) bindCurrentGoroutine(workerIdx int) {
	s.identityMu.Lock()
	defer s.identityMu.Unlock()
	s.identity[goroutineID()] = workerIdx
}

func (s *Scheduler) unbindCurrentGoroutine() {
	s.identityMu.Lock()
	defer s.identityMu.Unlock()
	delete(s.identity, goroutineID())
}

// ThisWorkerIndex returns the worker index of the calling goroutine. It
// must be called either from worker 0 (the goroutine that called
// NewScheduler), from inside a worker goroutine's loop, or from inside a
// running JobFunc (whose goroutine is, transitively, one of the above).
func (s *Scheduler) ThisWorkerIndex() int {
	s.identityMu.Lock()
	idx, ok := s.identity[goroutineID()]
	s.identityMu.Unlock()
	if !ok {
		fail(ErrWrongOwner, "calling goroutine is not bound to any worker")
	}
	return idx
}

// WorkerCount returns threadCount-1: the number of spawned worker
// goroutines, not counting worker 0.
func (s *Scheduler) WorkerCount() int {
	return s.threadCount - 1
}

func (s *Scheduler) runWorker(workerIdx int) {
	defer s.wg.Done()
	s.bindCurrentGoroutine(workerIdx)
	defer s.unbindCurrentGoroutine()

	for s.running.Load() {
		if id := s.takeLocal(workerIdx); id != NullJobID {
			s.execute(workerIdx, id)
			continue
		}
		if id, victim := s.stealFor(workerIdx); id != NullJobID {
			s.execute(workerIdx, id)
			_ = victim
			continue
		}
		if !s.idle() {
			break
		}
	}
}

// pause is the short, non-blocking yield WaitForJob takes between failed
// pop/steal attempts, matching the worker loop's post-wakeup sleep
// without going through the scheduler's condition variable (the waiter is
// not running the worker loop's idle wait and must return promptly once
// its target job finishes).
func pause() {
	time.Sleep(time.Microsecond)
}

// idle blocks until there is work to look for again or the scheduler is
// shutting down. Returns false when the caller should exit its loop.
func (s *Scheduler) idle() bool {
	s.mu.Lock()
	for s.activeJobCount.Load() == 0 && s.running.Load() {
		s.cond.Wait()
	}
	running := s.running.Load()
	s.mu.Unlock()
	if !running {
		return false
	}
	// Short sleep before returning avoids a tight spin while jobs are
	// queued but this worker's single random steal keeps missing them.
	time.Sleep(time.Microsecond)
	return true
}

func (s *Scheduler) takeLocal(workerIdx int) JobID {
	id := s.deques[workerIdx].popLocal()
	if id != NullJobID {
		s.activeJobCount.Add(-1)
	}
	return id
}

// stealFor attempts one steal from a uniformly random worker other than
// workerIdx. Worker 0 is a valid steal target like any other.
func (s *Scheduler) stealFor(workerIdx int) (JobID, int) {
	s.counters[workerIdx].attemptedSteals.Add(1)
	if s.threadCount < 2 {
		s.metrics.RecordStealAttempt(workerIdx, false)
		return NullJobID, -1
	}

	victim := s.rngs[workerIdx].Intn(s.threadCount - 1)
	if victim >= workerIdx {
		victim++
	}

	id := s.deques[victim].steal()
	if id == NullJobID {
		s.metrics.RecordStealAttempt(workerIdx, false)
		return NullJobID, -1
	}

	s.activeJobCount.Add(-1)
	s.counters[workerIdx].stolenJobs.Add(1)
	s.counters[victim].givenJobs.Add(1)
	s.metrics.RecordStealAttempt(workerIdx, true)
	s.metrics.RecordJobStolen(workerIdx, victim)
	return id, victim
}

// enqueue pushes id onto workerIdx's own deque and wakes one idle worker.
func (s *Scheduler) enqueue(workerIdx int, id JobID) {
	s.deques[workerIdx].push(id)
	s.counters[workerIdx].enqueuedJobs.Add(1)
	s.metrics.RecordJobEnqueued(workerIdx)
	s.activeJobCount.Add(1)
	s.metrics.RecordPoolOccupancy(int(s.activeJobCount.Load()))

	s.mu.Lock()
	s.cond.Signal()
	s.mu.Unlock()
}

func (s *Scheduler) execute(workerIdx int, id JobID) {
	j := s.pool.jobFromID(id)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.panicHandler.HandlePanic(workerIdx, id, r, debug.Stack())
			panic(r)
		}
	}()

	j.fn(JobParams{JobID: id, ThreadIndex: workerIdx, scheduler: s})

	elapsed := time.Since(start)
	s.counters[workerIdx].executedJobs.Add(1)
	s.counters[workerIdx].totalTime.Add(int64(elapsed))
	s.metrics.RecordJobExecuted(workerIdx, elapsed.Seconds())

	s.finish(workerIdx, id)
}

// finish walks the finish cascade iteratively: decrement unfinished,
// relocate continuations onto the executing worker's own deque, and climb
// to the parent when unfinished reaches zero.
func (s *Scheduler) finish(workerIdx int, id JobID) {
	for id != NullJobID {
		j := s.pool.jobFromID(id)
		if j.unfinished.Add(-1) > 0 {
			return
		}

		for c := j.continuation; c != NullJobID; {
			cj := s.pool.jobFromID(c)
			next := cj.next
			s.enqueue(workerIdx, c)
			c = next
		}

		id = j.parent
	}
}

// Destroy stops all workers, joins them, and releases the scheduler's
// state. Must be called from worker 0 (the goroutine that called
// NewScheduler), with no jobs in flight: Destroy does not drain worker 0's
// own deque, mirroring the reference behavior of not waiting on the main
// thread's outstanding roots before tearing down.
func (s *Scheduler) Destroy() {
	s.mu.Lock()
	s.running.Store(false)
	s.cond.Broadcast()
	s.mu.Unlock()

	s.wg.Wait()
	s.unbindCurrentGoroutine()
	s.logger.Info("scheduler destroyed")
}
