package outbox

import (
	"context"
	"fmt"
	"time"
)

// Status is the delivery state stored in the outbox table.
type Status string

const (
	StatusCreated    Status = "CREATED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusSuccess    Status = "SUCCESS"
)

type Kind int

const (
	KindSnapshotChanged Kind = 1
)

// String is the metric and log label of the kind.
func (k Kind) String() string {
	switch k {
	case KindSnapshotChanged:
		return "snapshot_changed"
	default:
		return fmt.Sprintf("kind_%d", int(k))
	}
}

// TraceContext is the W3C context captured when a message was enqueued.
type TraceContext struct {
	Parent  string
	State   string
	Baggage string
}

// TraceContextFromMap reads the W3C header names used by text map propagators.
func TraceContextFromMap(m map[string]string) TraceContext {
	return TraceContext{Parent: m["traceparent"], State: m["tracestate"], Baggage: m["baggage"]}
}

func (t TraceContext) Map() map[string]string {
	m := make(map[string]string, 3)
	if t.Parent != "" {
		m["traceparent"] = t.Parent
	}
	if t.State != "" {
		m["tracestate"] = t.State
	}
	if t.Baggage != "" {
		m["baggage"] = t.Baggage
	}
	return m
}

// Message is one pending snapshot notification. IdempotencyKey is derived
// from the payload, so re-enqueueing the same change is a no-op.
type Message struct {
	IdempotencyKey string
	Kind           Kind
	Data           []byte
	Status         Status
	Trace          TraceContext
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Repository interface {
	// Enqueue joins the transaction carried by ctx when there is one.
	Enqueue(ctx context.Context, key string, kind Kind, data []byte) error
	// PickBatch claims up to batch messages; claims older than inProgressTTL are retaken.
	PickBatch(ctx context.Context, batch int, inProgressTTL time.Duration) ([]Message, error)
	MarkSuccess(ctx context.Context, keys []string) error
}

type KindHandler func(ctx context.Context, data []byte) error

type GlobalHandler func(kind Kind) (KindHandler, error)
