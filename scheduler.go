package jobsystem

import (
	"sync"

	"github.com/forkjoin-go/jobsystem/core"
)

// =============================================================================
// Global Scheduler Helper (Singleton)
// =============================================================================

var (
	globalScheduler *Scheduler
	globalMu        sync.Mutex
)

// Init initializes the global scheduler with the given options. Repeated
// calls after a successful Init are no-ops until Destroy is called.
func Init(opts ...Option) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalScheduler != nil {
		return nil
	}

	s, err := core.NewScheduler(opts...)
	if err != nil {
		return err
	}
	globalScheduler = s
	return nil
}

// GetGlobalScheduler returns the global scheduler instance. It panics with
// a *SchedulerError of kind ErrNotInitialized if Init has not been called.
func GetGlobalScheduler() *Scheduler {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalScheduler == nil {
		panic(&core.SchedulerError{Kind: core.ErrNotInitialized, Msg: "call jobsystem.Init() first"})
	}
	return globalScheduler
}

// Destroy stops the global scheduler's workers and clears the singleton so
// a later Init call can start a fresh one.
func Destroy() {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalScheduler != nil {
		globalScheduler.Destroy()
		globalScheduler = nil
	}
}
