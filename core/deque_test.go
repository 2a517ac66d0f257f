package core

import "testing"

func TestWorkerDeque_PushPopLocalIsLIFO(t *testing.T) {
	// Given: a deque with three pushed ids
	d := newWorkerDeque(8)
	d.push(JobID(1))
	d.push(JobID(2))
	d.push(JobID(3))

	// Then: popLocal returns them in reverse order
	if got := d.popLocal(); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := d.popLocal(); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := d.popLocal(); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := d.popLocal(); got != NullJobID {
		t.Fatalf("expected NullJobID on empty deque, got %d", got)
	}
}

func TestWorkerDeque_StealIsFIFO(t *testing.T) {
	// Given: a deque with three pushed ids
	d := newWorkerDeque(8)
	d.push(JobID(1))
	d.push(JobID(2))
	d.push(JobID(3))

	// Then: steal returns them in insertion order
	if got := d.steal(); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := d.steal(); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := d.steal(); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := d.steal(); got != NullJobID {
		t.Fatalf("expected NullJobID on empty deque, got %d", got)
	}
}

func TestWorkerDeque_StealAndPopLocalDoNotDoubleDeliver(t *testing.T) {
	// Given: a deque with two ids
	d := newWorkerDeque(8)
	d.push(JobID(1))
	d.push(JobID(2))

	// When: one is stolen from the top and one popped locally from the bottom
	stolen := d.steal()
	local := d.popLocal()

	// Then: they are the two distinct ids, and the deque is now empty
	if stolen == local {
		t.Fatalf("steal and popLocal returned the same id %d", stolen)
	}
	if !d.isEmpty() {
		t.Fatalf("expected deque to be empty, len=%d", d.len())
	}
}

func TestWorkerDeque_PushOverCapacityPanics(t *testing.T) {
	d := newWorkerDeque(2)
	d.push(JobID(1))
	d.push(JobID(2))

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic when pushing past capacity")
		}
		if se, ok := r.(*SchedulerError); !ok || se.Kind != ErrJobRingFull {
			t.Fatalf("expected ErrJobRingFull, got %v", r)
		}
	}()
	d.push(JobID(3))
}

func TestWorkerDeque_LenAndIsEmpty(t *testing.T) {
	d := newWorkerDeque(4)
	if !d.isEmpty() || d.len() != 0 {
		t.Fatalf("expected empty new deque")
	}

	d.push(JobID(1))
	d.push(JobID(2))
	if d.isEmpty() || d.len() != 2 {
		t.Fatalf("expected len 2, got %d", d.len())
	}
}
