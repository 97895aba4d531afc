// Package services holds the background infrastructure shared by the engines:
// the worker pool, counter reconciliation, email delivery, health checks and
// rate limiting.
package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/campusconnect/campus-backend/config"
	"github.com/campusconnect/campus-backend/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Job is a unit of background work such as a notification fan-out or a
// reconciliation pass. Name is "<kind>:<detail>"; the kind labels metrics.
type Job struct {
	Name    string
	Timeout time.Duration
	Execute func(ctx context.Context) error
}

const defaultJobTimeout = 30 * time.Second

func (j Job) kind() string {
	kind, _, _ := strings.Cut(j.Name, ":")
	if kind == "" {
		return "unnamed"
	}
	return kind
}

type poolMetrics struct {
	queued   prometheus.Gauge
	busy     prometheus.Gauge
	finished *prometheus.CounterVec
	dropped  prometheus.Counter
	runtime  *prometheus.HistogramVec
}

var (
	poolMetricsMu  sync.Mutex
	poolRegistry   prometheus.Registerer = prometheus.DefaultRegisterer
	poolMetricsSet *poolMetrics
)

func sharedPoolMetrics() *poolMetrics {
	poolMetricsMu.Lock()
	defer poolMetricsMu.Unlock()
	if poolMetricsSet != nil {
		return poolMetricsSet
	}
	f := promauto.With(poolRegistry)
	poolMetricsSet = &poolMetrics{
		queued: f.NewGauge(prometheus.GaugeOpts{
			Name: "campus_jobs_queued",
			Help: "Background jobs waiting for a worker",
		}),
		busy: f.NewGauge(prometheus.GaugeOpts{
			Name: "campus_job_workers_busy",
			Help: "Workers currently running a job",
		}),
		finished: f.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_jobs_finished_total",
			Help: "Background jobs run to completion, by kind and outcome",
		}, []string{"kind", "outcome"}),
		dropped: f.NewCounter(prometheus.CounterOpts{
			Name: "campus_jobs_dropped_total",
			Help: "Background jobs rejected because the queue was full or closed",
		}),
		runtime: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "campus_job_duration_seconds",
			Help:    "Background job run time, by kind",
			Buckets: prometheus.ExponentialBuckets(0.01, 3, 8),
		}, []string{"kind"}),
	}
	return poolMetricsSet
}

// resetWorkerPoolMetricsForTesting points the pool at a fresh registry.
func resetWorkerPoolMetricsForTesting() {
	poolMetricsMu.Lock()
	defer poolMetricsMu.Unlock()
	poolRegistry = prometheus.NewRegistry()
	poolMetricsSet = nil
}

// WorkerPool runs jobs from a bounded queue on MaxWorkers goroutines.
// Submit never blocks: a full queue drops the job.
type WorkerPool struct {
	cfg     config.WorkerPoolConfig
	queue   chan Job
	log     *zap.SugaredLogger
	metrics *poolMetrics

	// jobCtx is cancelled only when a shutdown deadline passes.
	jobCtx    context.Context
	cancelJob context.CancelFunc
	workers   sync.WaitGroup

	mu      sync.Mutex
	started bool
	closed  bool
}

// NewWorkerPool returns a pool that queues jobs but runs none until Start.
func NewWorkerPool(cfg config.WorkerPoolConfig) *WorkerPool {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 1
	}
	if cfg.QueueSize < 0 {
		cfg.QueueSize = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		cfg:       cfg,
		queue:     make(chan Job, cfg.QueueSize),
		log:       logger.GetLogger().Named("worker_pool"),
		metrics:   sharedPoolMetrics(),
		jobCtx:    ctx,
		cancelJob: cancel,
	}
}

func (wp *WorkerPool) Start() {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	if wp.started || wp.closed {
		return
	}
	wp.started = true
	for i := 0; i < wp.cfg.MaxWorkers; i++ {
		wp.workers.Add(1)
		go wp.work()
	}
	wp.log.Infow("Worker pool started", "workers", wp.cfg.MaxWorkers, "queueSize", wp.cfg.QueueSize)
}

// work drains the queue until it is closed.
func (wp *WorkerPool) work() {
	defer wp.workers.Done()
	for job := range wp.queue {
		wp.metrics.queued.Dec()
		wp.run(job)
	}
}

func (wp *WorkerPool) run(job Job) {
	timeout := job.Timeout
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}
	ctx, cancel := context.WithTimeout(wp.jobCtx, timeout)
	defer cancel()

	wp.metrics.busy.Inc()
	start := time.Now()
	err := safeExecute(ctx, job)
	elapsed := time.Since(start)
	wp.metrics.busy.Dec()

	kind := job.kind()
	wp.metrics.runtime.WithLabelValues(kind).Observe(elapsed.Seconds())
	if err != nil {
		wp.metrics.finished.WithLabelValues(kind, "error").Inc()
		wp.log.Errorw("Job failed", "job", job.Name, "duration", elapsed, "error", err)
		return
	}
	wp.metrics.finished.WithLabelValues(kind, "ok").Inc()
}

func safeExecute(ctx context.Context, job Job) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Name, p)
		}
	}()
	return job.Execute(ctx)
}

// Submit enqueues job and reports whether it was accepted.
func (wp *WorkerPool) Submit(job Job) bool {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	if wp.closed {
		wp.metrics.dropped.Inc()
		return false
	}
	select {
	case wp.queue <- job:
		wp.metrics.queued.Inc()
		return true
	default:
		wp.metrics.dropped.Inc()
		wp.log.Warnw("Job queue full, dropping job", "job", job.Name, "queueSize", wp.cfg.QueueSize)
		return false
	}
}

// Shutdown stops accepting jobs and lets the workers finish what is queued.
// When ctx ends first, running jobs see their context cancelled and
// ctx.Err() is returned.
func (wp *WorkerPool) Shutdown(ctx context.Context) error {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		return nil
	}
	wp.closed = true
	close(wp.queue)
	started := wp.started
	wp.mu.Unlock()

	if !started {
		wp.cancelJob()
		return nil
	}

	drained := make(chan struct{})
	go func() {
		wp.workers.Wait()
		close(drained)
	}()
	select {
	case <-drained:
		wp.cancelJob()
		wp.log.Info("Worker pool drained")
		return nil
	case <-ctx.Done():
		wp.cancelJob()
		wp.log.Warnw("Worker pool shutdown deadline passed", "pending", len(wp.queue))
		return ctx.Err()
	}
}

func (wp *WorkerPool) QueueDepth() int {
	return len(wp.queue)
}

// IsRunning reports whether workers are accepting jobs.
func (wp *WorkerPool) IsRunning() bool {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	return wp.started && !wp.closed
}
