package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// CounterReconciler recomputes one denormalized counter from its source of
// truth and returns how many rows it corrected.
type CounterReconciler func(ctx context.Context) (int64, error)

var (
	repairsOnce    sync.Once
	counterRepairs *prometheus.CounterVec
)

func repairsMetric() *prometheus.CounterVec {
	repairsOnce.Do(func() {
		counterRepairs = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_counter_repairs_total",
			Help: "Rows whose denormalized counter was corrected by reconciliation",
		}, []string{"counter"})
	})
	return counterRepairs
}

// Reconciler periodically repairs memberCount and likes drift. Each pass runs
// as a job on the worker pool.
type Reconciler struct {
	counters map[string]CounterReconciler
	pool     *WorkerPool
	interval time.Duration
	log      *zap.Logger
	repairs  *prometheus.CounterVec
}

// NewReconciler registers the named counters. A nil pool runs passes inline.
func NewReconciler(counters map[string]CounterReconciler, pool *WorkerPool, interval time.Duration, logger *zap.Logger) *Reconciler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Reconciler{
		counters: counters,
		pool:     pool,
		interval: interval,
		log:      logger.Named("Reconciler"),
		repairs:  repairsMetric(),
	}
}

// RunOnce reconciles every counter and joins their errors.
func (r *Reconciler) RunOnce(ctx context.Context) error {
	var errs []error
	for name, fn := range r.counters {
		fixed, err := fn(ctx)
		if err != nil {
			r.log.Error("Counter reconciliation failed", zap.String("counter", name), zap.Error(err))
			errs = append(errs, fmt.Errorf("reconcile %s: %w", name, err))
			continue
		}
		r.repairs.WithLabelValues(name).Add(float64(fixed))
		if fixed > 0 {
			r.log.Warn("Counter drift repaired", zap.String("counter", name), zap.Int64("rows", fixed))
		}
	}
	return errors.Join(errs...)
}

// Start runs a pass immediately, then one per interval until ctx is done.
func (r *Reconciler) Start(ctx context.Context) {
	r.log.Info("Starting counter reconciliation", zap.Duration("interval", r.interval))
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.schedule(ctx)
	for {
		select {
		case <-ctx.Done():
			r.log.Info("Stopping counter reconciliation")
			return
		case <-ticker.C:
			r.schedule(ctx)
		}
	}
}

func (r *Reconciler) schedule(ctx context.Context) {
	if r.pool == nil {
		_ = r.RunOnce(ctx)
		return
	}
	if !r.pool.Submit(Job{Name: "reconcile:counters", Execute: r.RunOnce}) {
		r.log.Warn("Reconciliation pass skipped, worker queue full")
	}
}
