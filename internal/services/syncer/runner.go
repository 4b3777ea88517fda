package syncer

import (
	"context"
	"errors"
	"time"

	"github.com/NordCoder/ProjectEye/internal/apiclient"
	"github.com/NordCoder/ProjectEye/internal/obs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	mProjects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "projecteye_syncer_projects_total", Help: "Projects visited by the syncer",
	})
	mChanged = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projecteye_syncer_snapshots_total", Help: "Snapshots stored, by outcome",
	}, []string{"outcome"})
	mErr = promauto.NewCounter(prometheus.CounterOpts{
		Name: "projecteye_syncer_errors_total", Help: "Errors in syncer ticks",
	})
	mLoopDur = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "projecteye_syncer_tick_duration_seconds", Help: "Syncer tick duration",
		Buckets: prometheus.DefBuckets,
	})
	mLastSuccess = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "projecteye_syncer_last_success_timestamp_seconds", Help: "Unix time of the last tick without fatal error",
	})
)

type Runner struct {
	Log *zap.Logger
	UC  *Usecase

	seq uint64
}

func New(log *zap.Logger, uc *Usecase) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{Log: log.With(zap.String("component", "syncer.runner")), UC: uc}
}

func (r *Runner) tick(ctx context.Context) {
	start := time.Now()
	defer func() { mLoopDur.Observe(time.Since(start).Seconds()) }()

	r.seq++
	ctx = obs.ContextWithFields(ctx, zap.Uint64("tick", r.seq))
	log := obs.WithTrace(ctx, r.Log)

	st, err := r.UC.Tick(ctx)
	mProjects.Add(float64(st.Projects))
	mChanged.WithLabelValues("changed").Add(float64(st.Changed))
	mChanged.WithLabelValues("unchanged").Add(float64(st.Saved - st.Changed))
	if st.Errors > 0 {
		mErr.Add(float64(st.Errors))
	}

	switch {
	case err == nil:
		mLastSuccess.SetToCurrentTime()
	case errors.Is(err, context.Canceled):
		return
	case apiclient.IsUnauthorized(err):
		mErr.Inc()
		log.Warn("session rejected, tick aborted; log in again to resume", zap.Error(err))
		return
	default:
		mErr.Inc()
		log.Warn("tick error", zap.Error(err))
		return
	}
	log.Debug("tick done",
		zap.Int("projects", st.Projects),
		zap.Int("saved", st.Saved),
		zap.Int("changed", st.Changed),
		zap.Int("errors", st.Errors),
	)
}

func (r *Runner) Run(ctx context.Context) error {
	interval := r.UC.Cfg.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}
