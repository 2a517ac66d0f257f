package prometheus

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/forkjoin-go/jobsystem/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	DurationBuckets []float64
}

// MetricsExporter adapts core.Metrics to Prometheus collectors.
type MetricsExporter struct {
	jobEnqueuedTotal  *prom.CounterVec
	jobDurationSecs   *prom.HistogramVec
	jobStolenTotal    *prom.CounterVec
	jobGivenTotal     *prom.CounterVec
	stealAttemptTotal *prom.CounterVec
	poolOccupancy     prom.Gauge
}

var _ core.Metrics = (*MetricsExporter)(nil)

// NewMetricsExporter creates and registers Prometheus collectors for
// core.Metrics.
func NewMetricsExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = "jobsystem"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}

	enqueuedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "job_enqueued_total",
		Help:      "Total number of jobs pushed onto a worker's deque.",
	}, []string{"worker"})
	durationVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "job_duration_seconds",
		Help:      "Job execution duration in seconds.",
		Buckets:   buckets,
	}, []string{"worker"})
	stolenVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "job_stolen_total",
		Help:      "Total number of jobs a worker stole from another worker's deque.",
	}, []string{"thief"})
	givenVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "job_given_total",
		Help:      "Total number of jobs stolen away from a worker's own deque.",
	}, []string{"victim"})
	stealAttemptVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "steal_attempt_total",
		Help:      "Total number of steal attempts, labeled by outcome.",
	}, []string{"worker", "outcome"})
	occupancyGauge := prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "pool_occupancy",
		Help:      "Number of jobs currently queued on worker deques, sampled on each enqueue.",
	})

	var err error
	if enqueuedVec, err = registerCollector(reg, enqueuedVec); err != nil {
		return nil, err
	}
	if durationVec, err = registerCollector(reg, durationVec); err != nil {
		return nil, err
	}
	if stolenVec, err = registerCollector(reg, stolenVec); err != nil {
		return nil, err
	}
	if givenVec, err = registerCollector(reg, givenVec); err != nil {
		return nil, err
	}
	if stealAttemptVec, err = registerCollector(reg, stealAttemptVec); err != nil {
		return nil, err
	}
	occupancyCollector, err := registerCollector[prom.Gauge](reg, occupancyGauge)
	if err != nil {
		return nil, err
	}

	return &MetricsExporter{
		jobEnqueuedTotal:  enqueuedVec,
		jobDurationSecs:   durationVec,
		jobStolenTotal:    stolenVec,
		jobGivenTotal:     givenVec,
		stealAttemptTotal: stealAttemptVec,
		poolOccupancy:     occupancyCollector,
	}, nil
}

func (m *MetricsExporter) RecordJobEnqueued(workerIdx int) {
	if m == nil {
		return
	}
	m.jobEnqueuedTotal.WithLabelValues(workerLabel(workerIdx)).Inc()
}

func (m *MetricsExporter) RecordJobExecuted(workerIdx int, duration float64) {
	if m == nil {
		return
	}
	m.jobDurationSecs.WithLabelValues(workerLabel(workerIdx)).Observe(duration)
}

func (m *MetricsExporter) RecordJobStolen(thiefIdx, victimIdx int) {
	if m == nil {
		return
	}
	m.jobStolenTotal.WithLabelValues(workerLabel(thiefIdx)).Inc()
	m.jobGivenTotal.WithLabelValues(workerLabel(victimIdx)).Inc()
}

func (m *MetricsExporter) RecordStealAttempt(workerIdx int, succeeded bool) {
	if m == nil {
		return
	}
	outcome := "miss"
	if succeeded {
		outcome = "hit"
	}
	m.stealAttemptTotal.WithLabelValues(workerLabel(workerIdx), outcome).Inc()
}

func (m *MetricsExporter) RecordPoolOccupancy(count int) {
	if m == nil {
		return
	}
	m.poolOccupancy.Set(float64(count))
}

func workerLabel(workerIdx int) string {
	return strconv.Itoa(workerIdx)
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
