package core

// RangeFunc is invoked once per leaf range produced by ParallelFor, with
// offset and count describing a contiguous, non-overlapping slice of
// [0, elementCount) and threadIdx the worker executing that leaf.
type RangeFunc func(offset, count, threadIdx int)

// parallelForRange is the per-node state of a ParallelFor spawn tree: the
// driver function below closes over one of these per split, halving count
// at each level until it drops to splitThreshold or below.
type parallelForRange struct {
	fn             RangeFunc
	splitThreshold int
	offset         int
	count          int
}

// ParallelFor builds (but does not start) a driver job that recursively
// splits [0, elementCount) in half until each leaf range is at most
// splitThreshold elements, invoking fn on each leaf. The returned job is a
// child of parentID; the caller is expected to StartJob it.
//
// splitThreshold <= 0 or >= elementCount collapses to a single leaf call.
// elementCount == 0 still produces one leaf call with count 0.
func (s *Scheduler) ParallelFor(parentID JobID, splitThreshold, elementCount int, fn RangeFunc) JobID {
	r := &parallelForRange{
		fn:             fn,
		splitThreshold: splitThreshold,
		offset:         0,
		count:          elementCount,
	}
	return s.spawnParallelForNode(parentID, r)
}

func (s *Scheduler) spawnParallelForNode(parentID JobID, r *parallelForRange) JobID {
	return s.CreateChildJobFunc(parentID, func(p JobParams) {
		s.runParallelForNode(p, r)
	})
}

func (s *Scheduler) runParallelForNode(p JobParams, r *parallelForRange) {
	if r.splitThreshold > 0 && r.count > r.splitThreshold {
		leftCount := r.count / 2
		rightCount := r.count - leftCount

		left := &parallelForRange{fn: r.fn, splitThreshold: r.splitThreshold, offset: r.offset, count: leftCount}
		right := &parallelForRange{fn: r.fn, splitThreshold: r.splitThreshold, offset: r.offset + leftCount, count: rightCount}

		leftJob := s.spawnParallelForNode(p.JobID, left)
		rightJob := s.spawnParallelForNode(p.JobID, right)
		s.StartJob(leftJob)
		s.StartJob(rightJob)
		return
	}

	r.fn(r.offset, r.count, p.ThreadIndex)
}
