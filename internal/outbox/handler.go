package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/NordCoder/ProjectEye/internal/domain/outbox"
	"github.com/NordCoder/ProjectEye/internal/domain/snapshot"
	"github.com/NordCoder/ProjectEye/internal/obs/retry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var (
	outboxHandlerLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "projecteye_outbox_handler_latency_seconds",
		Help:    "Latency of outbox handlers including retries.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	outboxHandlerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projecteye_outbox_handler_errors_total",
		Help: "Errors in outbox handlers (after retries).",
	}, []string{"kind"})
)

// SnapshotChangedMessage builds the outbox record for ev. The key names the
// transition and the fetch time: re-enqueueing the same change is a no-op,
// while a value that flips back to an earlier hash gets a fresh key.
func SnapshotChangedMessage(ev snapshot.ChangedEvent) (key string, data []byte, err error) {
	data, err = json.Marshal(ev)
	if err != nil {
		return "", nil, fmt.Errorf("marshal snapshot event: %w", err)
	}
	key = fmt.Sprintf("snapshot.changed:%s:%s>%s@%d", ev.Key(), ev.PrevHash, ev.Hash, ev.At.UnixNano())
	return key, data, nil
}

// WrapKindHandler runs h under the retry policy p.
func WrapKindHandler(h outbox.KindHandler, p retry.Policy) outbox.KindHandler {
	return func(ctx context.Context, data []byte) error {
		return retry.Do(ctx, func() error { return h(ctx, data) }, p)
	}
}

func instrument(kind string, h outbox.KindHandler, pol retry.Policy) outbox.KindHandler {
	tr := otel.Tracer("outbox.handler")
	if pol.Name == "" {
		pol.Name = "outbox_" + kind
	}
	wrapped := WrapKindHandler(h, pol)
	return func(ctx context.Context, data []byte) error {
		ctx, span := tr.Start(ctx, "outbox.handle "+kind)
		defer span.End()

		start := time.Now()
		err := wrapped(ctx, data)
		outboxHandlerLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
		if err != nil {
			span.RecordError(err)
			outboxHandlerErrors.WithLabelValues(kind).Inc()
		}
		return err
	}
}

func MakeGlobalOutboxHandler(pub snapshot.ChangePublisher, pol retry.Policy) outbox.GlobalHandler {
	return func(kind outbox.Kind) (outbox.KindHandler, error) {
		switch kind {
		case outbox.KindSnapshotChanged:
			base := func(ctx context.Context, data []byte) error {
				var ev snapshot.ChangedEvent
				if err := json.Unmarshal(data, &ev); err != nil {
					return retry.Permanent(fmt.Errorf("unmarshal snapshot-changed payload: %w", err))
				}
				return pub.PublishChanged(ctx, ev)
			}
			return instrument(kind.String(), base, pol), nil
		default:
			return nil, fmt.Errorf("unsupported outbox kind: %d", kind)
		}
	}
}
