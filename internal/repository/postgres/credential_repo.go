package postgres

import (
	"context"
	"fmt"

	"github.com/NordCoder/ProjectEye/internal/tokenstore"
)

var _ tokenstore.Store = (*CredentialRepo)(nil)

// CredentialRepo is a token store backed by the credentials table. Each
// namespace holds an independent credential pair.
type CredentialRepo struct {
	db        *DB
	namespace string
}

func NewCredentialRepo(db *DB, namespace string) *CredentialRepo {
	if namespace == "" {
		namespace = "default"
	}
	return &CredentialRepo{db: db, namespace: namespace}
}

const (
	qCredGet = `SELECT value FROM credentials WHERE namespace = $1 AND key = $2;`

	qCredSet = `
INSERT INTO credentials (namespace, key, value, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (namespace, key) DO UPDATE
SET value = EXCLUDED.value, updated_at = now();`

	qCredDelete = `DELETE FROM credentials WHERE namespace = $1 AND key = ANY($2);`
)

func (r *CredentialRepo) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var v string
	if err := r.db.execQueryer(ctx).QueryRow(ctx, qCredGet, r.namespace, key).Scan(&v); err != nil {
		return "", queryErr("credential get "+key, err, tokenstore.ErrNotFound)
	}
	return v, nil
}

func (r *CredentialRepo) Set(ctx context.Context, key, value string) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.execQueryer(ctx).Exec(ctx, qCredSet, r.namespace, key, value); err != nil {
		return fmt.Errorf("credential set %s: %w", key, err)
	}
	return nil
}

func (r *CredentialRepo) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.execQueryer(ctx).Exec(ctx, qCredDelete, r.namespace, keys); err != nil {
		return fmt.Errorf("credential delete: %w", err)
	}
	return nil
}
