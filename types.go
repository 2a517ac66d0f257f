package jobsystem

import "github.com/forkjoin-go/jobsystem/core"

// Re-export commonly used types from core so most callers only need to
// import the jobsystem package.

type Scheduler = core.Scheduler
type JobID = core.JobID
type JobParams = core.JobParams
type JobFunc = core.JobFunc
type RangeFunc = core.RangeFunc
type Option = core.Option
type Logger = core.Logger
type Field = core.Field
type PanicHandler = core.PanicHandler
type Metrics = core.Metrics
type Stats = core.Stats
type SchedulerError = core.SchedulerError
type ErrorKind = core.ErrorKind

const NullJobID = core.NullJobID

const (
	ErrNotInitialized    = core.ErrNotInitialized
	ErrJobRingFull       = core.ErrJobRingFull
	ErrWrongOwner        = core.ErrWrongOwner
	ErrStartContinuation = core.ErrStartContinuation
	ErrAntecedentStarted = core.ErrAntecedentStarted
	ErrParentFinished    = core.ErrParentFinished
	ErrPayloadTooLarge   = core.ErrPayloadTooLarge
)

// Option constructors.
var (
	WithJobsPerWorker = core.WithJobsPerWorker
	WithWorkerCount   = core.WithWorkerCount
	WithLogger        = core.WithLogger
	WithPanicHandler  = core.WithPanicHandler
	WithMetrics       = core.WithMetrics
)

// Logging helpers.
var (
	F                = core.F
	NewDefaultLogger = core.NewDefaultLogger
	NewNoOpLogger    = core.NewNoOpLogger
)

// DefaultPanicHandler and NilMetrics are the zero-value defaults used
// when no Option overrides them.
type DefaultPanicHandler = core.DefaultPanicHandler
type NilMetrics = core.NilMetrics

