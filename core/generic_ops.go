package core

// Go methods cannot carry their own type parameters, so the typed-argument
// constructors are free functions taking the scheduler explicitly. They
// exist for callers who want a named argument struct instead of writing
// out a closure by hand; a closure over the same data works identically
// and is what these forward to.

// CreateJobWithArgs allocates a root job that invokes fn with args when
// executed.
func CreateJobWithArgs[T any](s *Scheduler, fn func(JobParams, T), args T) JobID {
	id := s.CreateJobFunc(func(p JobParams) { fn(p, args) })
	s.pool.jobFromID(id).args = args
	return id
}

// CreateChildJobWithArgs allocates a child of parentID that invokes fn
// with args when executed.
func CreateChildJobWithArgs[T any](s *Scheduler, parentID JobID, fn func(JobParams, T), args T) JobID {
	id := s.CreateChildJobFunc(parentID, func(p JobParams) { fn(p, args) })
	s.pool.jobFromID(id).args = args
	return id
}

// AddContinuationWithArgs attaches fn as a continuation of antecedentID,
// invoked with args when it runs.
func AddContinuationWithArgs[T any](s *Scheduler, antecedentID JobID, fn func(JobParams, T), args T) JobID {
	id := s.AddContinuation(antecedentID, func(p JobParams) { fn(p, args) })
	s.pool.jobFromID(id).args = args
	return id
}
