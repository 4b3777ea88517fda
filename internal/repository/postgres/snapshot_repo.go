package postgres

import (
	"context"
	"fmt"

	"github.com/NordCoder/ProjectEye/internal/domain/snapshot"
)

var _ snapshot.Repo = (*SnapshotRepo)(nil)

type SnapshotRepo struct{ db *DB }

func NewSnapshotRepo(db *DB) *SnapshotRepo { return &SnapshotRepo{db: db} }

const (
	// prev reads the row before the upsert touches it; NULL means a new key.
	qSnapshotUpsert = `
WITH prev AS (
   SELECT hash FROM snapshots WHERE kind = $1 AND external_id = $2 FOR UPDATE
)
INSERT INTO snapshots (kind, external_id, hash, payload, fetched_at, changed_at)
VALUES ($1, $2, $3, $4, $5, $5)
ON CONFLICT (kind, external_id) DO UPDATE
SET hash       = EXCLUDED.hash,
    payload    = EXCLUDED.payload,
    fetched_at = EXCLUDED.fetched_at,
    changed_at = CASE WHEN snapshots.hash = EXCLUDED.hash THEN snapshots.changed_at ELSE EXCLUDED.fetched_at END
RETURNING (SELECT hash FROM prev);`

	qSnapshotGet = `
SELECT kind, external_id, hash, payload, fetched_at
FROM snapshots
WHERE kind = $1 AND external_id = $2;`
)

func (r *SnapshotRepo) Upsert(ctx context.Context, s snapshot.Snapshot) (string, bool, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var prev *string
	err := r.db.execQueryer(ctx).
		QueryRow(ctx, qSnapshotUpsert, string(s.Kind), s.ExternalID, s.Hash, []byte(s.Payload), s.FetchedAt).
		Scan(&prev)
	if err != nil {
		return "", false, fmt.Errorf("snapshot upsert %s: %w", s.Key(), err)
	}
	if prev == nil {
		return "", true, nil
	}
	return *prev, *prev != s.Hash, nil
}

func (r *SnapshotRepo) Get(ctx context.Context, kind snapshot.Kind, externalID string) (*snapshot.Snapshot, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var (
		s       snapshot.Snapshot
		k       string
		payload []byte
	)
	err := r.db.execQueryer(ctx).
		QueryRow(ctx, qSnapshotGet, string(kind), externalID).
		Scan(&k, &s.ExternalID, &s.Hash, &payload, &s.FetchedAt)
	if err != nil {
		return nil, queryErr("snapshot get", err, ErrNotFound)
	}
	s.Kind = snapshot.Kind(k)
	s.Payload = payload
	return &s, nil
}
