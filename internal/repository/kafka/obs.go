package kafka

import (
	"context"
	"sort"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
)

const (
	HeaderContentType = "content-type"
	HeaderEventType   = "event-type"
)

// messageHeaders builds the headers of one event: the W3C context of ctx,
// the JSON content type and, when set, the event type.
func messageHeaders(ctx context.Context, eventType string) []kafka.Header {
	hdrs := mapCarrierHeaders{}
	otel.GetTextMapPropagator().Inject(ctx, hdrs)
	hdrs.Set(HeaderContentType, "application/json")
	if eventType != "" {
		hdrs.Set(HeaderEventType, eventType)
	}
	return hdrs.ToKafka()
}

type mapCarrierHeaders map[string]string

func (m mapCarrierHeaders) Get(k string) string { return m[k] }
func (m mapCarrierHeaders) Set(k, v string)     { m[k] = v }
func (m mapCarrierHeaders) Keys() []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

func (m mapCarrierHeaders) ToKafka() []kafka.Header {
	hs := make([]kafka.Header, 0, len(m))
	for _, k := range m.Keys() {
		hs = append(hs, kafka.Header{Key: k, Value: []byte(m[k])})
	}
	return hs
}
