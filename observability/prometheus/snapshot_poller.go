package prometheus

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/forkjoin-go/jobsystem/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// StatsProvider is satisfied directly by *core.Scheduler: WorkerCount
// returns the number of spawned workers (excluding worker 0), and
// ThreadStats(idx) returns the snapshot for worker idx, idx in
// [0, WorkerCount()].
type StatsProvider interface {
	WorkerCount() int
	ThreadStats(workerIdx int) core.Stats
}

// SnapshotPoller periodically exports a scheduler's per-worker Stats()
// snapshots into Prometheus gauges, for the counters Metrics cannot
// express as monotonic events (point-in-time totals, not deltas).
type SnapshotPoller struct {
	interval time.Duration

	providersMu sync.RWMutex
	providers   map[string]StatsProvider

	enqueued    *prom.GaugeVec
	executed    *prom.GaugeVec
	stolen      *prom.GaugeVec
	given       *prom.GaugeVec
	attempted   *prom.GaugeVec
	totalTime   *prom.GaugeVec
	runningTime *prom.GaugeVec

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSnapshotPoller creates a snapshot poller and registers its collectors.
func NewSnapshotPoller(reg prom.Registerer, interval time.Duration) (*SnapshotPoller, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	enqueued := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "jobsystem",
		Name:      "worker_enqueued_jobs",
		Help:      "Total jobs enqueued on a worker's own deque, snapshotted.",
	}, []string{"scheduler", "worker"})
	executed := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "jobsystem",
		Name:      "worker_executed_jobs",
		Help:      "Total jobs executed by a worker, snapshotted.",
	}, []string{"scheduler", "worker"})
	stolen := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "jobsystem",
		Name:      "worker_stolen_jobs",
		Help:      "Total jobs a worker stole from others, snapshotted.",
	}, []string{"scheduler", "worker"})
	given := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "jobsystem",
		Name:      "worker_given_jobs",
		Help:      "Total jobs stolen away from a worker's own deque, snapshotted.",
	}, []string{"scheduler", "worker"})
	attempted := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "jobsystem",
		Name:      "worker_attempted_steals",
		Help:      "Total steal attempts made by a worker, snapshotted.",
	}, []string{"scheduler", "worker"})
	totalTime := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "jobsystem",
		Name:      "worker_busy_seconds",
		Help:      "Total time a worker has spent executing job bodies, snapshotted.",
	}, []string{"scheduler", "worker"})
	runningTime := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "jobsystem",
		Name:      "worker_running_seconds",
		Help:      "Total time a worker's loop has been running, snapshotted.",
	}, []string{"scheduler", "worker"})

	var err error
	if enqueued, err = registerCollector(reg, enqueued); err != nil {
		return nil, err
	}
	if executed, err = registerCollector(reg, executed); err != nil {
		return nil, err
	}
	if stolen, err = registerCollector(reg, stolen); err != nil {
		return nil, err
	}
	if given, err = registerCollector(reg, given); err != nil {
		return nil, err
	}
	if attempted, err = registerCollector(reg, attempted); err != nil {
		return nil, err
	}
	if totalTime, err = registerCollector(reg, totalTime); err != nil {
		return nil, err
	}
	if runningTime, err = registerCollector(reg, runningTime); err != nil {
		return nil, err
	}

	return &SnapshotPoller{
		interval:    interval,
		providers:   make(map[string]StatsProvider),
		enqueued:    enqueued,
		executed:    executed,
		stolen:      stolen,
		given:       given,
		attempted:   attempted,
		totalTime:   totalTime,
		runningTime: runningTime,
	}, nil
}

// AddScheduler adds or replaces a scheduler stats provider by name.
func (p *SnapshotPoller) AddScheduler(name string, provider StatsProvider) {
	if p == nil || provider == nil {
		return
	}
	if name == "" {
		name = "default"
	}
	p.providersMu.Lock()
	p.providers[name] = provider
	p.providersMu.Unlock()
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *SnapshotPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	p.stateMu.Unlock()

	go p.loop(pollCtx)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *SnapshotPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.running = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *SnapshotPoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

func (p *SnapshotPoller) collectOnce() {
	p.providersMu.RLock()
	defer p.providersMu.RUnlock()

	for name, provider := range p.providers {
		for idx := 0; idx <= provider.WorkerCount(); idx++ {
			stats := provider.ThreadStats(idx)
			worker := strconv.Itoa(idx)
			p.enqueued.WithLabelValues(name, worker).Set(float64(stats.EnqueuedJobs))
			p.executed.WithLabelValues(name, worker).Set(float64(stats.ExecutedJobs))
			p.stolen.WithLabelValues(name, worker).Set(float64(stats.StolenJobs))
			p.given.WithLabelValues(name, worker).Set(float64(stats.GivenJobs))
			p.attempted.WithLabelValues(name, worker).Set(float64(stats.AttemptedSteals))
			p.totalTime.WithLabelValues(name, worker).Set(stats.TotalTime.Seconds())
			p.runningTime.WithLabelValues(name, worker).Set(stats.RunningTime.Seconds())
		}
	}
}
