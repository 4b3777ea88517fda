// Package tokenstore persists the API credential pair.
package tokenstore

import (
	"context"
	"errors"
)

const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

var ErrNotFound = errors.New("tokenstore: key not found")

// Store is a small key/value contract over secure storage. Values are
// opaque strings.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Pair is a convenience over Store for the fixed credential keys.
type Pair struct {
	S Store
}

func (p Pair) Load(ctx context.Context, key string) (string, error) {
	v, err := p.S.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return v, err
}

func (p Pair) Save(ctx context.Context, access, refresh string) error {
	if err := p.S.Set(ctx, KeyAccessToken, access); err != nil {
		return err
	}
	return p.S.Set(ctx, KeyRefreshToken, refresh)
}

func (p Pair) Clear(ctx context.Context) error {
	return p.S.Delete(ctx, KeyAccessToken, KeyRefreshToken)
}
