package projecteye

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/NordCoder/ProjectEye/internal/apiclient"
	"github.com/NordCoder/ProjectEye/internal/domain/auth"
)

var ErrNoTokens = errors.New("server returned no tokens")

type AuthService struct {
	d      Doer
	tokens auth.TokenKeeper
}

func NewAuthService(d Doer, tokens auth.TokenKeeper) *AuthService {
	return &AuthService{d: d, tokens: tokens}
}

func (s *AuthService) Login(ctx context.Context, in auth.LoginInput) (*auth.User, error) {
	if in.Role != "" && !in.Role.Valid() {
		return nil, fmt.Errorf("login: unknown role %q", in.Role)
	}
	sess, err := call[auth.Session](ctx, s.d, http.MethodPost, "/auth/login", in, apiclient.WithoutAuth())
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return s.persist(ctx, sess)
}

func (s *AuthService) Register(ctx context.Context, in auth.RegisterInput) (*auth.User, error) {
	if !in.Role.Valid() {
		return nil, fmt.Errorf("register: unknown role %q", in.Role)
	}
	sess, err := call[auth.Session](ctx, s.d, http.MethodPost, "/auth/register", in, apiclient.WithoutAuth())
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return s.persist(ctx, sess)
}

func (s *AuthService) persist(ctx context.Context, sess auth.Session) (*auth.User, error) {
	if sess.Tokens.AccessToken == "" || sess.Tokens.RefreshToken == "" {
		return nil, ErrNoTokens
	}
	if err := s.tokens.SetTokens(ctx, sess.Tokens.AccessToken, sess.Tokens.RefreshToken); err != nil {
		return nil, err
	}
	u := sess.User
	return &u, nil
}

// Logout revokes the refresh token server-side and always clears the local
// pair; the server error, if any, is returned after clearing. When the
// logout call itself rotated the pair (expired access token), the body named
// the old refresh token, so the rotated one is revoked with a second call.
func (s *AuthService) Logout(ctx context.Context) error {
	refresh, err := s.tokens.GetRefreshToken(ctx)
	var callErr error
	if err == nil && refresh != "" {
		callErr = s.revoke(ctx, refresh)
		if rotated, rerr := s.tokens.GetRefreshToken(ctx); rerr == nil && rotated != "" && rotated != refresh {
			callErr = s.revoke(ctx, rotated)
		}
	}
	if err := s.tokens.ClearTokens(ctx); err != nil {
		return err
	}
	if callErr != nil {
		return fmt.Errorf("logout: %w", callErr)
	}
	if err != nil {
		return fmt.Errorf("logout: read refresh token: %w", err)
	}
	return nil
}

func (s *AuthService) revoke(ctx context.Context, refresh string) error {
	return s.d.Do(ctx, http.MethodPost, "/auth/logout", map[string]string{"refreshToken": refresh}, nil)
}

func (s *AuthService) Me(ctx context.Context) (*auth.User, error) {
	u, err := call[auth.User](ctx, s.d, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	return &u, nil
}
