package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/NordCoder/ProjectEye/internal/obs"
	"go.uber.org/zap"
)

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	Data struct {
		Tokens struct {
			AccessToken  string `json:"accessToken"`
			RefreshToken string `json:"refreshToken"`
		} `json:"tokens"`
	} `json:"data"`
}

var errMalformedRefresh = errors.New("refresh response has no tokens")

// refreshTokens exchanges the stored refresh token for a new pair. It only
// runs in the lead request. The call is detached from the lead's
// cancellation because waiters depend on its outcome.
func (c *Client) refreshTokens(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.Timeout)
	defer cancel()
	log := obs.WithTrace(ctx, c.log)

	access, refresh, err := c.callRefresh(ctx)
	if err == nil {
		err = c.SetTokens(ctx, access, refresh)
		if err != nil {
			err = &RefreshFailure{Err: err}
		}
	}
	if err != nil {
		clientRefreshes.WithLabelValues("failed").Inc()
		if cerr := c.ClearTokens(ctx); cerr != nil {
			log.Error("clear tokens after failed refresh", zap.Error(cerr))
		}
		log.Warn("token refresh failed", zap.Error(err))
		return "", err
	}

	clientRefreshes.WithLabelValues("ok").Inc()
	log.Info("token refreshed", zap.Int("access_len", len(access)))
	return access, nil
}

func (c *Client) callRefresh(ctx context.Context) (string, string, error) {
	stored, err := c.GetRefreshToken(ctx)
	if err != nil {
		return "", "", &RefreshFailure{Err: fmt.Errorf("read refresh token: %w", err)}
	}
	if stored == "" {
		return "", "", &RefreshFailure{Err: ErrNoRefreshToken}
	}

	req, err := newRequest(http.MethodPost, c.cfg.RefreshPath, refreshRequest{RefreshToken: stored}, []RequestOption{WithoutAuth()})
	if err != nil {
		return "", "", &RefreshFailure{Err: err}
	}
	at := attempt{n: 1, req: req}
	resp, err := c.send(ctx, &at, "")
	if err != nil {
		return "", "", &RefreshFailure{Err: err}
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return "", "", &RefreshFailure{Status: resp.Status, Err: &HTTPError{Status: resp.Status, Body: resp.Body}}
	}

	var out refreshResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return "", "", &RefreshFailure{Status: resp.Status, Err: fmt.Errorf("decode refresh response: %w", err)}
	}
	t := out.Data.Tokens
	if t.AccessToken == "" || t.RefreshToken == "" {
		return "", "", &RefreshFailure{Status: resp.Status, Err: errMalformedRefresh}
	}
	return t.AccessToken, t.RefreshToken, nil
}
