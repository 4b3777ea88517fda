package snapshot

import "context"

type Repo interface {
	// Upsert stores s and returns the hash it replaced ("" for a new key)
	// and whether the hash moved.
	Upsert(ctx context.Context, s Snapshot) (prevHash string, changed bool, err error)
	Get(ctx context.Context, kind Kind, externalID string) (*Snapshot, error)
}

type ChangePublisher interface {
	PublishChanged(ctx context.Context, ev ChangedEvent) error
}
