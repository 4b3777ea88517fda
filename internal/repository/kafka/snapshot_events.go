package kafka

import (
	"context"

	"github.com/NordCoder/ProjectEye/internal/domain/snapshot"
)

var _ snapshot.ChangePublisher = (*SnapshotEvents)(nil)

const EventSnapshotChanged = "snapshot.changed"

type SnapshotEvents struct {
	P *Producer
}

func NewSnapshotEvents(p *Producer) *SnapshotEvents { return &SnapshotEvents{P: p} }

// PublishChanged keys by kind:id so all changes of one entity land on one partition.
func (e *SnapshotEvents) PublishChanged(ctx context.Context, ev snapshot.ChangedEvent) error {
	return e.P.PublishJSON(ctx, EventSnapshotChanged, []byte(ev.Key()), ev)
}
