package outbox

import (
	"context"
	"sync"
	"time"

	"github.com/NordCoder/ProjectEye/internal/domain/outbox"
	"github.com/NordCoder/ProjectEye/internal/obs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var (
	mPicked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "projecteye_outbox_picked_total", Help: "Messages picked into processing.",
	})
	mOk = promauto.NewCounter(prometheus.CounterOpts{
		Name: "projecteye_outbox_processed_ok_total", Help: "Messages processed successfully.",
	})
	mErr = promauto.NewCounter(prometheus.CounterOpts{
		Name: "projecteye_outbox_processed_err_total", Help: "Pick, dispatch and mark errors.",
	})
	mTickDur = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "projecteye_outbox_tick_duration_seconds", Help: "Tick duration.",
		Buckets: prometheus.DefBuckets,
	})
	mBatchSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "projecteye_outbox_last_batch_size", Help: "Size of last picked batch.",
	})
)

type Config struct {
	Workers       int
	BatchSize     int
	WaitTime      time.Duration
	InProgressTTL time.Duration
}

type Runner struct {
	log      *zap.Logger
	repo     outbox.Repository
	dispatch outbox.GlobalHandler
	cfg      Config
	wg       sync.WaitGroup
}

func NewOutboxRunner(log *zap.Logger, repo outbox.Repository, dispatch outbox.GlobalHandler, cfg Config) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.WaitTime <= 0 {
		cfg.WaitTime = time.Second
	}
	if cfg.InProgressTTL <= 0 {
		cfg.InProgressTTL = 30 * time.Second
	}
	return &Runner{
		log:      log.With(zap.String("component", "outbox")),
		repo:     repo,
		dispatch: dispatch,
		cfg:      cfg,
	}
}

// Start launches the workers; Wait blocks until they exit after ctx is done.
func (r *Runner) Start(ctx context.Context) {
	for i := 0; i < r.cfg.Workers; i++ {
		r.wg.Add(1)
		go r.worker(ctx, i)
	}
}

func (r *Runner) Wait() { r.wg.Wait() }

func (r *Runner) worker(ctx context.Context, id int) {
	defer r.wg.Done()
	log := r.log.With(zap.Int("worker", id))
	log.Info("outbox worker started", zap.Duration("wait", r.cfg.WaitTime))

	ticker := time.NewTicker(r.cfg.WaitTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox worker stop")
			return
		case <-ticker.C:
			r.Tick(ctx)
		}
	}
}

// Tick picks one batch, dispatches each message under its stored trace
// context and marks the delivered ones. It returns the number delivered.
func (r *Runner) Tick(ctx context.Context) int {
	t0 := time.Now()
	defer func() { mTickDur.Observe(time.Since(t0).Seconds()) }()

	tr := otel.Tracer("outbox.runner")
	prop := otel.GetTextMapPropagator()

	ctxSpan, span := tr.Start(ctx, "outbox.tick")
	defer span.End()
	span.SetAttributes(
		attribute.Int("batch.limit", r.cfg.BatchSize),
		attribute.String("in_progress_ttl", r.cfg.InProgressTTL.String()),
	)

	messages, err := r.repo.PickBatch(ctxSpan, r.cfg.BatchSize, r.cfg.InProgressTTL)
	if err != nil {
		span.RecordError(err)
		mErr.Inc()
		obs.WithTrace(ctxSpan, r.log).Error("outbox pick error", zap.Error(err))
		return 0
	}
	mPicked.Add(float64(len(messages)))
	mBatchSize.Set(float64(len(messages)))
	if len(messages) == 0 {
		return 0
	}

	okKeys := make([]string, 0, len(messages))
	for _, m := range messages {
		parent := prop.Extract(ctx, propagation.MapCarrier(m.Trace.Map()))
		msgCtx, msgSpan := tr.Start(parent, "outbox.dispatch",
			trace.WithAttributes(
				attribute.String("outbox.key", m.IdempotencyKey),
				attribute.String("outbox.kind", m.Kind.String()),
			),
			trace.WithLinks(trace.LinkFromContext(ctxSpan)),
		)

		handler, herr := r.dispatch(m.Kind)
		if herr != nil {
			msgSpan.RecordError(herr)
			mErr.Inc()
			obs.WithTrace(msgCtx, r.log).Error("no handler for kind",
				zap.Stringer("kind", m.Kind), zap.Error(herr))
			msgSpan.End()
			continue
		}
		if err := handler(msgCtx, m.Data); err != nil {
			msgSpan.RecordError(err)
			mErr.Inc()
			obs.WithTrace(msgCtx, r.log).Error("handler error",
				zap.String("key", m.IdempotencyKey), zap.Stringer("kind", m.Kind), zap.Error(err))
			msgSpan.End()
			continue
		}
		msgSpan.End()
		okKeys = append(okKeys, m.IdempotencyKey)
		mOk.Inc()
	}

	if err := r.repo.MarkSuccess(ctxSpan, okKeys); err != nil {
		span.RecordError(err)
		mErr.Inc()
		obs.WithTrace(ctxSpan, r.log).Error("mark success error", zap.Error(err))
		return 0
	}
	return len(okKeys)
}
