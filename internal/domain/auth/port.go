package auth

import "context"

// TokenKeeper owns the persisted credential pair.
type TokenKeeper interface {
	SetTokens(ctx context.Context, access, refresh string) error
	GetAccessToken(ctx context.Context) (string, error)
	GetRefreshToken(ctx context.Context) (string, error)
	ClearTokens(ctx context.Context) error
}
