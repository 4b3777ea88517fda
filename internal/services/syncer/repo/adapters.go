package repo

import (
	"context"
	"fmt"

	domainoutbox "github.com/NordCoder/ProjectEye/internal/domain/outbox"
	"github.com/NordCoder/ProjectEye/internal/domain/snapshot"
	"github.com/NordCoder/ProjectEye/internal/outbox"
)

type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Enqueuer interface {
	Enqueue(ctx context.Context, key string, kind domainoutbox.Kind, data []byte) error
}

// Snapshots stores a snapshot and, when its hash moved, the matching
// outbox message in one transaction.
type Snapshots struct {
	R  snapshot.Repo
	O  Enqueuer
	Tx Transactor
}

func (a Snapshots) Save(ctx context.Context, s snapshot.Snapshot) (bool, error) {
	var changed bool
	err := a.Tx.WithTx(ctx, func(ctx context.Context) error {
		prev, moved, err := a.R.Upsert(ctx, s)
		changed = moved
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		key, data, err := outbox.SnapshotChangedMessage(s.Changed(prev))
		if err != nil {
			return err
		}
		return a.O.Enqueue(ctx, key, domainoutbox.KindSnapshotChanged, data)
	})
	if err != nil {
		return false, fmt.Errorf("save snapshot %s: %w", s.Key(), err)
	}
	return changed, nil
}
