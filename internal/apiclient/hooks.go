package apiclient

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestHook runs on every outgoing attempt after the bearer token has
// been attached.
type RequestHook func(ctx context.Context, req *http.Request) error

const HeaderRequestID = "X-Request-ID"

// RequestIDHook sets a fresh X-Request-ID unless the caller supplied one.
func RequestIDHook() RequestHook {
	return func(_ context.Context, req *http.Request) error {
		if req.Header.Get(HeaderRequestID) == "" {
			req.Header.Set(HeaderRequestID, uuid.NewString())
		}
		return nil
	}
}

func UserAgentHook(userAgent string) RequestHook {
	return func(_ context.Context, req *http.Request) error {
		if userAgent != "" {
			req.Header.Set("User-Agent", userAgent)
		}
		return nil
	}
}

func setBearer(req *http.Request, token string) {
	if token == "" {
		req.Header.Del("Authorization")
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}
