package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		IssuedAt:  jwt.NewNumericDate(exp.Add(-15 * time.Minute)),
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return tok
}

func newBackend(t *testing.T, access string) *httptest.Server {
	t.Helper()
	data := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": v})
	}
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+access {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			h(w, r)
		}
	}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
			var in struct{ Email, Password string }
			_ = json.NewDecoder(r.Body).Decode(&in)
			if in.Password != "hunter2" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			data(w, map[string]any{
				"user":   map[string]any{"id": "u1", "email": in.Email, "role": "manager"},
				"tokens": map[string]any{"accessToken": access, "refreshToken": "R1"},
			})
		})
		r.Post("/auth/logout", authed(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		r.Get("/auth/me", authed(func(w http.ResponseWriter, r *http.Request) {
			data(w, map[string]any{"id": "u1", "email": "ana@site.io", "role": "manager"})
		}))
		r.Get("/projects", authed(func(w http.ResponseWriter, r *http.Request) {
			data(w, []map[string]any{{"id": "p1", "name": "Harbor Bridge", "status": r.URL.Query().Get("status")}})
		}))
		r.Get("/projects/{id}/financial/summary", authed(func(w http.ResponseWriter, r *http.Request) {
			data(w, map[string]any{"projectId": chi.URLParam(r, "id"), "budget": 1000, "totalExpense": 250})
		}))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, base, storePath string, args ...string) (string, error) {
	t.Helper()
	return runApp(t, newApp(), base, storePath, args...)
}

func runApp(t *testing.T, a *app, base, storePath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(a)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--base-url", base, "--store", "file", "--store-path", storePath, "--log-level", "error"}, args...))
	err := a.run(context.Background(), cmd)
	return out.String(), err
}

func TestCLI_SessionLifecycle(t *testing.T) {
	t.Setenv("PROJECTEYE_STORE_PASSPHRASE", "correct horse")
	t.Setenv("PROJECTEYE_PASSWORD", "hunter2")

	access := signed(t, "u1", time.Now().Add(15*time.Minute))
	srv := newBackend(t, access)
	base := srv.URL + "/api"
	store := filepath.Join(t.TempDir(), "credentials")

	out, err := run(t, base, store, "login", "--email", "ana@site.io", "--role", "manager")
	require.NoError(t, err)
	require.Contains(t, out, `"id": "u1"`)

	out, err = run(t, base, store, "whoami")
	require.NoError(t, err)
	require.Contains(t, out, "ana@site.io")

	out, err = run(t, base, store, "token", "status")
	require.NoError(t, err)
	var info tokenInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	require.True(t, info.Present)
	require.True(t, info.HasRefresh)
	require.False(t, info.Expired)
	require.Equal(t, "u1", info.Subject)

	out, err = run(t, base, store, "projects", "list", "--status", "active")
	require.NoError(t, err)
	require.Contains(t, out, `"status": "active"`)

	out, err = run(t, base, store, "transactions", "summary", "p1")
	require.NoError(t, err)
	require.Contains(t, out, `"remaining": 750`)

	_, err = run(t, base, store, "logout")
	require.NoError(t, err)

	out, err = run(t, base, store, "token", "status")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	require.False(t, info.Present)
}

func TestCLI_WrongPassword(t *testing.T) {
	t.Setenv("PROJECTEYE_STORE_PASSPHRASE", "pw")
	t.Setenv("PROJECTEYE_PASSWORD", "nope")

	srv := newBackend(t, "A1")
	_, err := run(t, srv.URL+"/api", filepath.Join(t.TempDir(), "c"), "login", "--email", "x@y.io")
	require.Error(t, err)
}

func TestCLI_FailedCommandStillClosesStore(t *testing.T) {
	t.Setenv("PROJECTEYE_STORE_PASSPHRASE", "pw")

	srv := newBackend(t, "A1")
	a := newApp()
	closed := 0
	a.closers = append(a.closers, func() error { closed++; return nil })

	_, err := runApp(t, a, srv.URL+"/api", filepath.Join(t.TempDir(), "c"), "projects", "list")
	require.Error(t, err)
	require.Equal(t, 1, closed)
	require.Nil(t, a.closers)
}

func TestInspectToken(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	info, err := inspectToken("", now)
	require.NoError(t, err)
	require.False(t, info.Present)

	info, err = inspectToken(signed(t, "u7", now.Add(-time.Minute)), now)
	require.NoError(t, err)
	require.True(t, info.Expired)
	require.True(t, now.Add(-time.Minute).Equal(*info.ExpiresAt))

	info, err = inspectToken(signed(t, "u7", now.Add(10*time.Minute)), now)
	require.NoError(t, err)
	require.False(t, info.Expired)
	require.EqualValues(t, 600, info.ExpiresInSec)

	_, err = inspectToken("not-a-jwt", now)
	require.Error(t, err)
}
