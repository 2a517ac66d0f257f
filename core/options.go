package core

// Default configuration values. jobsPerThread and workerCount are both
// overridable via options; these are the values used when the caller
// takes the defaults.
const (
	// DefaultMaxJobs is the default per-worker concurrent-job budget.
	DefaultMaxJobs = 4096

	// MaxThreads is the compile-time upper bound on worker count. Job IDs
	// are 16-bit, so threadCount*jobsPerThread must stay at or below
	// 65534 (0 is reserved as NullJobID).
	MaxThreads = 64

	// DefaultParallelForSplitThreshold is a ready-made splitThreshold for
	// ParallelFor callers. ParallelFor does not substitute it on its own:
	// a splitThreshold <= 0 yields a single leaf.
	DefaultParallelForSplitThreshold = 256

	maxJobID = 65534
)

// schedulerConfig collects the options a Scheduler is built with.
type schedulerConfig struct {
	jobsPerThread int
	workerCount   int // -1 means "hardware concurrency minus one"
	logger        Logger
	panicHandler  PanicHandler
	metrics       Metrics
}

func defaultSchedulerConfig() *schedulerConfig {
	return &schedulerConfig{
		jobsPerThread: DefaultMaxJobs,
		workerCount:   -1,
		logger:        NewDefaultLogger(),
		panicHandler:  &DefaultPanicHandler{},
		metrics:       &NilMetrics{},
	}
}

// Option configures a Scheduler at construction time.
type Option func(*schedulerConfig)

// WithJobsPerWorker overrides the per-worker job ring capacity. Rounded up
// to the next power of two at construction time.
func WithJobsPerWorker(n int) Option {
	return func(c *schedulerConfig) { c.jobsPerThread = n }
}

// WithWorkerCount overrides the number of spawned worker goroutines
// (not counting the calling goroutine, which is always worker 0). Pass a
// negative value to request "hardware concurrency minus one", the default.
func WithWorkerCount(n int) Option {
	return func(c *schedulerConfig) { c.workerCount = n }
}

// WithLogger overrides the scheduler's Logger. Defaults to DefaultLogger.
func WithLogger(l Logger) Option {
	return func(c *schedulerConfig) { c.logger = l }
}

// WithPanicHandler overrides the scheduler's PanicHandler. Defaults to
// DefaultPanicHandler.
func WithPanicHandler(h PanicHandler) Option {
	return func(c *schedulerConfig) { c.panicHandler = h }
}

// WithMetrics overrides the scheduler's Metrics sink. Defaults to
// NilMetrics.
func WithMetrics(m Metrics) Option {
	return func(c *schedulerConfig) { c.metrics = m }
}
