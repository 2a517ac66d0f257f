package core

import "fmt"

// =============================================================================
// PanicHandler: Interface for handling job panics
// =============================================================================

// PanicHandler is called when a job function panics during execution. The
// job's finish cascade is not walked for a panicking job, and the panic is
// re-raised once HandlePanic returns; HandlePanic exists purely for
// observability, not recovery.
//
// Implementations should be thread-safe: they may be called concurrently
// from any worker.
type PanicHandler interface {
	// HandlePanic is called when a job panics.
	//
	// workerIdx is the worker executing the job, jobID identifies the job,
	// panicInfo is the recovered panic value, and stackTrace is the stack
	// captured at the panic site.
	HandlePanic(workerIdx int, jobID JobID, panicInfo any, stackTrace []byte)
}

// DefaultPanicHandler logs panics to stdout via fmt.Printf.
type DefaultPanicHandler struct{}

func (h *DefaultPanicHandler) HandlePanic(workerIdx int, jobID JobID, panicInfo any, stackTrace []byte) {
	fmt.Printf("[worker %d job %d] panic: %v\n%s", workerIdx, jobID, panicInfo, stackTrace)
}

// =============================================================================
// Metrics: Interface for observability and monitoring
// =============================================================================

// Metrics defines the interface for collecting scheduler execution metrics.
// Implementations can send metrics to monitoring systems (Prometheus, StatsD,
// etc.). All methods must be non-blocking and fast: they are called from
// worker loops on the hot path.
type Metrics interface {
	// RecordJobEnqueued records that a job was pushed onto workerIdx's own
	// deque, whether by StartJob or by the finish cascade relocating a
	// continuation.
	RecordJobEnqueued(workerIdx int)

	// RecordJobExecuted records that workerIdx ran a job's function to
	// completion, taking duration.
	RecordJobExecuted(workerIdx int, duration float64)

	// RecordJobStolen records that thiefIdx successfully stole a job
	// originally queued on victimIdx's deque. victimIdx's "given" count
	// and thiefIdx's "stolen" count both derive from this one call.
	RecordJobStolen(thiefIdx, victimIdx int)

	// RecordStealAttempt records a steal attempt by workerIdx, whether or
	// not it found a job to take.
	RecordStealAttempt(workerIdx int, succeeded bool)

	// RecordPoolOccupancy records the number of jobs currently queued on
	// the worker deques (enqueued and not yet taken by a worker). It is
	// sampled on every enqueue.
	RecordPoolOccupancy(count int)
}

// NilMetrics is the default Metrics implementation: every method is a no-op.
type NilMetrics struct{}

func (m *NilMetrics) RecordJobEnqueued(workerIdx int)                   {}
func (m *NilMetrics) RecordJobExecuted(workerIdx int, duration float64) {}
func (m *NilMetrics) RecordJobStolen(thiefIdx, victimIdx int)           {}
func (m *NilMetrics) RecordStealAttempt(workerIdx int, succeeded bool)  {}
func (m *NilMetrics) RecordPoolOccupancy(count int)                     {}
