package core

import (
	"sync/atomic"
	"testing"
)

func TestCreateChildJob_OnFinishedParentPanics(t *testing.T) {
	s := newTestScheduler(t, 0)

	root := s.CreateJob()
	s.StartAndWaitForJob(root) // root.unfinished reaches 0

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic when creating a child of a finished parent")
		}
		if se, ok := r.(*SchedulerError); !ok || se.Kind != ErrParentFinished {
			t.Fatalf("expected ErrParentFinished, got %v", r)
		}
	}()
	s.CreateChildJob(root)
}

func TestStartJob_OnContinuationPanics(t *testing.T) {
	s := newTestScheduler(t, 0)

	root := s.CreateJob()
	a := s.CreateChildJob(root)
	b := s.AddContinuation(a, nullFunction)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic when starting a continuation directly")
		}
		if se, ok := r.(*SchedulerError); !ok || se.Kind != ErrStartContinuation {
			t.Fatalf("expected ErrStartContinuation, got %v", r)
		}
	}()
	s.StartJob(b)
}

func TestAddContinuation_AfterStartPanics(t *testing.T) {
	s := newTestScheduler(t, 0)

	root := s.CreateJob()
	a := s.CreateChildJob(root)
	s.StartJob(a)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic when adding a continuation to a started job")
		}
		if se, ok := r.(*SchedulerError); !ok || se.Kind != ErrAntecedentStarted {
			t.Fatalf("expected ErrAntecedentStarted, got %v", r)
		}
	}()
	s.AddContinuation(a, nullFunction)
}

func TestContinuation_RepantsToAntecedentsParent(t *testing.T) {
	// Given: root -> a (child of root) -> b (continuation of a)
	s := newTestScheduler(t, 0)

	root := s.CreateJob()
	a := s.CreateChildJob(root)
	b := s.AddContinuation(a, nullFunction)

	// Then: b's parent is root, not a
	if s.pool.jobFromID(b).parent != root {
		t.Fatalf("expected continuation's parent to be root, got %d", s.pool.jobFromID(b).parent)
	}

	// And: root's unfinished accounts for itself, a, and b
	if got := s.pool.jobFromID(root).unfinished.Load(); got != 3 {
		t.Fatalf("expected root.unfinished == 3, got %d", got)
	}

	s.StartJob(a)
	s.StartAndWaitForJob(root)
}

func TestGameFrameDAG(t *testing.T) {
	// simulate -> {physics -> animation, particles}; sync;
	// render -> {cull -> draw -> submit}; vsync
	//
	// Each stage spawns its dynamic children from inside its own job body,
	// the way setup code is expected to attach structural children before
	// starting them, so every ordering asserted below is a consequence of
	// the parent/child/continuation protocol rather than an accident of
	// scheduling.
	s := newTestScheduler(t, 4)

	order := make(chan string, 16)
	record := func(name string) func(JobParams) {
		return func(p JobParams) { order <- name }
	}

	root := s.CreateJob()

	simulate := s.CreateChildJobFunc(root, func(p JobParams) {
		order <- "simulate"
		sched := p.Scheduler()
		physics := sched.CreateChildJobFunc(p.JobID, record("physics"))
		sched.AddContinuation(physics, record("animation"))
		particles := sched.CreateChildJobFunc(p.JobID, record("particles"))
		sched.StartJob(physics)
		sched.StartJob(particles)
	})

	sync := s.AddContinuation(simulate, record("sync"))

	render := s.AddContinuation(sync, func(p JobParams) {
		order <- "render"
		sched := p.Scheduler()
		cull := sched.CreateChildJobFunc(p.JobID, record("cull"))
		draw := sched.AddContinuation(cull, record("draw"))
		sched.AddContinuation(draw, record("submit"))
		sched.StartJob(cull)
	})

	_ = s.AddContinuation(render, record("vsync"))

	s.StartJob(simulate)
	s.StartAndWaitForJob(root)
	close(order)

	var ran []string
	for name := range order {
		ran = append(ran, name)
	}

	if len(ran) != 10 {
		t.Fatalf("expected 10 stages to run, got %d: %v", len(ran), ran)
	}

	pos := make(map[string]int, len(ran))
	for i, name := range ran {
		pos[name] = i
	}

	if pos["vsync"] != len(ran)-1 {
		t.Fatalf("expected vsync last, got order %v", ran)
	}
	if pos["simulate"] > pos["physics"] || pos["simulate"] > pos["particles"] {
		t.Fatalf("expected simulate before physics and particles, got %v", ran)
	}
	if pos["physics"] > pos["animation"] {
		t.Fatalf("expected physics before animation, got %v", ran)
	}
	if pos["simulate"] > pos["sync"] || pos["animation"] > pos["sync"] || pos["particles"] > pos["sync"] {
		t.Fatalf("expected sync after simulate, physics/animation and particles, got %v", ran)
	}
	if pos["sync"] > pos["render"] {
		t.Fatalf("expected sync before render, got %v", ran)
	}
	if pos["render"] > pos["cull"] || pos["cull"] > pos["draw"] || pos["draw"] > pos["submit"] {
		t.Fatalf("expected render < cull < draw < submit, got %v", ran)
	}
}

func TestParallelFor_EdgeCases(t *testing.T) {
	// Each subtest runs on its own goroutine, so each builds its own
	// scheduler there: that goroutine becomes worker 0.
	t.Run("zero elements still invokes one leaf", func(t *testing.T) {
		s := newTestScheduler(t, 2)
		var calls atomic.Int64
		root := s.CreateJob()
		job := s.ParallelFor(root, 16, 0, func(offset, count, threadIdx int) {
			calls.Add(1)
			if count != 0 {
				t.Errorf("expected count 0, got %d", count)
			}
		})
		s.StartJob(job)
		s.StartAndWaitForJob(root)
		if calls.Load() != 1 {
			t.Fatalf("expected exactly 1 leaf call, got %d", calls.Load())
		}
	})

	t.Run("threshold above element count is a single leaf", func(t *testing.T) {
		s := newTestScheduler(t, 2)
		var calls atomic.Int64
		root := s.CreateJob()
		job := s.ParallelFor(root, 1000, 10, func(offset, count, threadIdx int) {
			calls.Add(1)
			if offset != 0 || count != 10 {
				t.Errorf("expected offset 0 count 10, got %d,%d", offset, count)
			}
		})
		s.StartJob(job)
		s.StartAndWaitForJob(root)
		if calls.Load() != 1 {
			t.Fatalf("expected exactly 1 leaf call, got %d", calls.Load())
		}
	})

	t.Run("covers the full range without overlap", func(t *testing.T) {
		s := newTestScheduler(t, 2)
		const n = 777
		seen := make([]int32, n)
		root := s.CreateJob()
		job := s.ParallelFor(root, 7, n, func(offset, count, threadIdx int) {
			for i := offset; i < offset+count; i++ {
				atomic.AddInt32(&seen[i], 1)
			}
		})
		s.StartJob(job)
		s.StartAndWaitForJob(root)

		for i, v := range seen {
			if v != 1 {
				t.Fatalf("index %d covered %d times, want exactly 1", i, v)
			}
		}
	})
}
