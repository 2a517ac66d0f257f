package core

// CreateJob allocates an empty sentinel job: nullFunction, unfinished=1,
// no parent. Useful as the root of a job tree that exists purely to be
// waited on.
func (s *Scheduler) CreateJob() JobID {
	workerIdx := s.ThisWorkerIndex()
	id, j := s.pool.allocate(workerIdx)
	j.reset(nullFunction, NullJobID)
	return id
}

// CreateJobFunc allocates a root job running fn.
func (s *Scheduler) CreateJobFunc(fn JobFunc) JobID {
	workerIdx := s.ThisWorkerIndex()
	id, j := s.pool.allocate(workerIdx)
	j.reset(fn, NullJobID)
	return id
}

// CreateChildJob allocates an empty sentinel job as a child of parentID.
// Increments parentID's unfinished counter. Fails if parentID has already
// finished.
func (s *Scheduler) CreateChildJob(parentID JobID) JobID {
	return s.createChild(parentID, nullFunction)
}

// CreateChildJobFunc allocates a child job running fn.
func (s *Scheduler) CreateChildJobFunc(parentID JobID, fn JobFunc) JobID {
	return s.createChild(parentID, fn)
}

func (s *Scheduler) createChild(parentID JobID, fn JobFunc) JobID {
	parent := s.pool.jobFromID(parentID)
	if parent.unfinished.Load() <= 0 {
		fail(ErrParentFinished, "createChildJob: parent %d already finished", parentID)
	}
	parent.unfinished.Add(1)

	workerIdx := s.ThisWorkerIndex()
	id, j := s.pool.allocate(workerIdx)
	j.reset(fn, parentID)
	return id
}

// AddContinuation creates fn as a continuation of antecedentID: a job that
// runs after antecedentID finishes, re-parented to antecedentID's parent
// (not to antecedentID itself). Fails if antecedentID has already been
// started.
func (s *Scheduler) AddContinuation(antecedentID JobID, fn JobFunc) JobID {
	return s.addContinuation(antecedentID, fn)
}

// AddContinuationFunc is an alias of AddContinuation kept for symmetry
// with the other *Func constructors; both take a JobFunc.
func (s *Scheduler) AddContinuationFunc(antecedentID JobID, fn JobFunc) JobID {
	return s.addContinuation(antecedentID, fn)
}

func (s *Scheduler) addContinuation(antecedentID JobID, fn JobFunc) JobID {
	antecedent := s.pool.jobFromID(antecedentID)
	if antecedent.started.Load() {
		fail(ErrAntecedentStarted, "addContinuation: antecedent %d already started", antecedentID)
	}

	grandparent := antecedent.parent
	if grandparent != NullJobID {
		s.pool.jobFromID(grandparent).unfinished.Add(1)
	}

	workerIdx := s.ThisWorkerIndex()
	id, j := s.pool.allocate(workerIdx)
	j.reset(fn, grandparent)
	j.isContinuation = true

	appendContinuation(s.pool, antecedent, id)
	return id
}

// appendContinuation appends id to the tail of ant's continuation list,
// preserving insertion order.
func appendContinuation(pool *jobPool, ant *job, id JobID) {
	if ant.continuation == NullJobID {
		ant.continuation = id
		return
	}
	cur := pool.jobFromID(ant.continuation)
	for cur.next != NullJobID {
		cur = pool.jobFromID(cur.next)
	}
	cur.next = id
}

// StartJob pushes id onto its owning worker's deque, making it eligible
// for execution or stealing. The caller must be running on id's owning
// worker, and id must not be a continuation (continuations are pushed
// only by the finish cascade).
func (s *Scheduler) StartJob(id JobID) {
	workerIdx := s.ThisWorkerIndex()
	if owner := s.pool.workerIDOf(id); owner != workerIdx {
		fail(ErrWrongOwner, "startJob: job %d owned by worker %d, started from worker %d", id, owner, workerIdx)
	}

	j := s.pool.jobFromID(id)
	if j.isContinuation {
		fail(ErrStartContinuation, "startJob: job %d is a continuation and cannot be started directly", id)
	}

	j.started.Store(true)
	s.enqueue(workerIdx, id)
}

// StartFunction allocates a child of parentID running fn and starts it in
// one step.
func (s *Scheduler) StartFunction(parentID JobID, fn JobFunc) JobID {
	id := s.CreateChildJobFunc(parentID, fn)
	s.StartJob(id)
	return id
}

// WaitForJob blocks the calling goroutine until id's unfinished counter
// reaches zero, participating in the work loop (pop local, then steal,
// then brief idle) so the waiter never blocks while there is work it could
// help finish. The caller must be running on id's owning worker.
func (s *Scheduler) WaitForJob(id JobID) {
	workerIdx := s.ThisWorkerIndex()
	if owner := s.pool.workerIDOf(id); owner != workerIdx {
		fail(ErrWrongOwner, "waitForJob: job %d owned by worker %d, waited on from worker %d", id, owner, workerIdx)
	}

	j := s.pool.jobFromID(id)
	for j.unfinished.Load() > 0 {
		if localID := s.takeLocal(workerIdx); localID != NullJobID {
			s.execute(workerIdx, localID)
			continue
		}
		if stolenID, _ := s.stealFor(workerIdx); stolenID != NullJobID {
			s.execute(workerIdx, stolenID)
			continue
		}
		if !s.running.Load() {
			return
		}
		pause()
	}
}

// StartAndWaitForJob is StartJob followed by WaitForJob.
func (s *Scheduler) StartAndWaitForJob(id JobID) {
	s.StartJob(id)
	s.WaitForJob(id)
}

// ThreadStats returns a snapshot of workerIdx's counters.
func (s *Scheduler) ThreadStats(workerIdx int) Stats {
	return s.counters[workerIdx].snapshot(workerIdx)
}
