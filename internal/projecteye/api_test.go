package projecteye

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/NordCoder/ProjectEye/internal/apiclient"
	"github.com/NordCoder/ProjectEye/internal/domain/auth"
	"github.com/NordCoder/ProjectEye/internal/domain/financial"
	"github.com/NordCoder/ProjectEye/internal/domain/milestone"
	"github.com/NordCoder/ProjectEye/internal/domain/project"
	"github.com/NordCoder/ProjectEye/internal/domain/team"
	"github.com/NordCoder/ProjectEye/internal/tokenstore"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type backend struct {
	mu      sync.Mutex
	valid   string
	revoked []string
	// logoutStatus is what an authorized logout answers; zero means 500.
	logoutStatus int
	calls   map[string]int
	lastReq map[string]*http.Request
	bodies  map[string]map[string]any
}

func writeData(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": v})
}

func (b *backend) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		b.calls[key]++
		b.lastReq[key] = r.Clone(context.Background())
		b.bodies[key] = body
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *backend) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		ok := r.Header.Get("Authorization") == "Bearer "+b.valid
		b.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func newBackend(t *testing.T) (*backend, *API, *apiclient.Client) {
	t.Helper()
	b := &backend{
		valid:   "A1",
		calls:   map[string]int{},
		lastReq: map[string]*http.Request{},
		bodies:  map[string]map[string]any{},
	}

	r := chi.NewRouter()
	r.Use(b.track)
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
			writeData(w, auth.Session{
				User:   auth.User{ID: "u1", Name: "Ana", Email: "ana@site.io", Role: auth.RoleManager},
				Tokens: auth.TokenPair{AccessToken: "A1", RefreshToken: "R1"},
			})
		})
		r.Post("/auth/register", func(w http.ResponseWriter, r *http.Request) {
			writeData(w, auth.Session{User: auth.User{ID: "u2", Role: auth.RoleOwner}})
		})
		r.Post("/auth/logout", b.authed(func(w http.ResponseWriter, r *http.Request) {
			b.mu.Lock()
			// track has already consumed the body.
			rt, _ := b.bodies["POST /api/auth/logout"]["refreshToken"].(string)
			b.revoked = append(b.revoked, rt)
			status := b.logoutStatus
			b.mu.Unlock()
			if status == 0 {
				status = http.StatusInternalServerError
			}
			w.WriteHeader(status)
		}))
		r.Post("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
			b.mu.Lock()
			b.valid = "A2"
			b.mu.Unlock()
			writeData(w, map[string]any{"tokens": auth.TokenPair{AccessToken: "A2", RefreshToken: "R2"}})
		})
		r.Get("/auth/me", b.authed(func(w http.ResponseWriter, r *http.Request) {
			writeData(w, auth.User{ID: "u1", Role: auth.RoleManager})
		}))
		r.Get("/projects", b.authed(func(w http.ResponseWriter, r *http.Request) {
			writeData(w, []project.Project{{ID: "p1", Name: "Harbor Bridge", Status: project.StatusActive, Budget: 5_000_000_00}})
		}))
		r.Get("/projects/{id}", b.authed(func(w http.ResponseWriter, r *http.Request) {
			writeData(w, project.Project{ID: chi.URLParam(r, "id"), Name: "Harbor Bridge"})
		}))
		r.Delete("/projects/{id}", b.authed(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		r.Get("/projects/{id}/milestones", b.authed(func(w http.ResponseWriter, r *http.Request) {
			writeData(w, []milestone.Milestone{{ID: "m1", ProjectID: chi.URLParam(r, "id"), Status: milestone.StatusDelayed}})
		}))
		r.Patch("/milestones/{id}", b.authed(func(w http.ResponseWriter, r *http.Request) {
			writeData(w, milestone.Milestone{ID: chi.URLParam(r, "id"), Status: milestone.StatusCompleted})
		}))
		r.Get("/projects/{id}/team", b.authed(func(w http.ResponseWriter, r *http.Request) {
			writeData(w, []team.Member{{ID: "tm1", Role: auth.RoleContractor}})
		}))
		r.Post("/projects/{id}/team", b.authed(func(w http.ResponseWriter, r *http.Request) {
			writeData(w, team.Member{ID: "tm2", Role: auth.RoleViewer})
		}))
		r.Delete("/projects/{id}/team/{memberID}", b.authed(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		r.Post("/projects/{id}/transactions", b.authed(func(w http.ResponseWriter, r *http.Request) {
			writeData(w, financial.Transaction{ID: "t1", Kind: financial.KindExpense, Amount: 125_00})
		}))
		r.Get("/projects/{id}/financial/summary", b.authed(func(w http.ResponseWriter, r *http.Request) {
			writeData(w, financial.Summary{ProjectID: chi.URLParam(r, "id"), Budget: 1000, TotalExpense: 1200})
		}))
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c, err := apiclient.New(apiclient.Config{BaseURL: srv.URL + "/api"}, tokenstore.NewMemory(),
		apiclient.WithHTTPClient(srv.Client()),
		apiclient.WithLogger(zaptest.NewLogger(t)),
	)
	require.NoError(t, err)
	return b, New(c), c
}

func (b *backend) count(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[key]
}

func (b *backend) req(key string) *http.Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastReq[key]
}

func TestAuth_LoginPersistsTokens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b, api, c := newBackend(t)

	u, err := api.Auth.Login(ctx, auth.LoginInput{Email: "ana@site.io", Password: "pw", Role: auth.RoleManager})
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)
	require.Equal(t, auth.RoleManager, u.Role)

	require.Empty(t, b.req("POST /api/auth/login").Header.Get("Authorization"))
	access, _ := c.GetAccessToken(ctx)
	refresh, _ := c.GetRefreshToken(ctx)
	require.Equal(t, "A1", access)
	require.Equal(t, "R1", refresh)

	me, err := api.Auth.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "u1", me.ID)
}

func TestAuth_LoginRejectsUnknownRole(t *testing.T) {
	t.Parallel()
	b, api, _ := newBackend(t)

	_, err := api.Auth.Login(context.Background(), auth.LoginInput{Email: "x", Role: "admin"})
	require.Error(t, err)
	require.Zero(t, b.count("POST /api/auth/login"))
}

func TestAuth_RegisterWithoutTokens(t *testing.T) {
	t.Parallel()
	_, api, _ := newBackend(t)

	_, err := api.Auth.Register(context.Background(), auth.RegisterInput{Name: "Bo", Email: "bo@x.io", Password: "pw", Role: auth.RoleOwner})
	require.ErrorIs(t, err, ErrNoTokens)
}

func TestAuth_LogoutClearsEvenOnServerError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b, api, c := newBackend(t)
	require.NoError(t, c.SetTokens(ctx, "A1", "R1"))

	err := api.Auth.Logout(ctx)
	require.Error(t, err)
	require.Equal(t, http.StatusInternalServerError, apiclient.StatusCode(err))

	b.mu.Lock()
	require.Equal(t, "R1", b.bodies["POST /api/auth/logout"]["refreshToken"])
	b.mu.Unlock()

	access, _ := c.GetAccessToken(ctx)
	require.Empty(t, access)
}

func TestAuth_LogoutAfterRotationRevokesCurrentToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b, api, c := newBackend(t)
	b.mu.Lock()
	b.logoutStatus = http.StatusNoContent
	b.mu.Unlock()
	require.NoError(t, c.SetTokens(ctx, "A0-expired", "R1"))

	require.NoError(t, api.Auth.Logout(ctx))
	require.Equal(t, 1, b.count("POST /api/auth/refresh"))

	b.mu.Lock()
	revoked := append([]string(nil), b.revoked...)
	b.mu.Unlock()
	require.Equal(t, []string{"R1", "R2"}, revoked)

	refresh, _ := c.GetRefreshToken(ctx)
	require.Empty(t, refresh)
}

func TestAuth_LogoutWithoutSession(t *testing.T) {
	t.Parallel()
	b, api, _ := newBackend(t)

	require.NoError(t, api.Auth.Logout(context.Background()))
	require.Zero(t, b.count("POST /api/auth/logout"))
}

func TestProjects_ListRefreshesTransparently(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b, api, c := newBackend(t)
	require.NoError(t, c.SetTokens(ctx, "A0-expired", "R1"))

	list, err := api.Projects.List(ctx, project.ListParams{Status: project.StatusActive, Page: 2, Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Harbor Bridge", list[0].Name)

	require.Equal(t, 2, b.count("GET /api/projects"))
	require.Equal(t, 1, b.count("POST /api/auth/refresh"))
	last := b.req("GET /api/projects")
	require.Equal(t, "Bearer A2", last.Header.Get("Authorization"))
	require.Equal(t, "active", last.URL.Query().Get("status"))
	require.Equal(t, "2", last.URL.Query().Get("page"))
	require.Equal(t, "10", last.URL.Query().Get("limit"))
}

func TestProjects_GetAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, api, c := newBackend(t)
	require.NoError(t, c.SetTokens(ctx, "A1", "R1"))

	p, err := api.Projects.Get(ctx, "p 42")
	require.NoError(t, err)
	require.Equal(t, "p 42", p.ID)

	require.NoError(t, api.Projects.Delete(ctx, "p1"))

	_, err = api.Projects.Create(ctx, project.CreateInput{})
	require.Error(t, err)
}

func TestMilestones(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, api, c := newBackend(t)
	require.NoError(t, c.SetTokens(ctx, "A1", "R1"))

	ms, err := api.Milestones.List(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, ms, 1)
	require.Equal(t, "p1", ms[0].ProjectID)

	m, err := api.Milestones.UpdateStatus(ctx, "m1", milestone.StatusCompleted)
	require.NoError(t, err)
	require.Equal(t, milestone.StatusCompleted, m.Status)
}

func TestTeam(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b, api, c := newBackend(t)
	require.NoError(t, c.SetTokens(ctx, "A1", "R1"))

	members, err := api.Team.List(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, members, 1)

	_, err = api.Team.Add(ctx, "p1", team.AddInput{Email: "x@y.io", Role: "boss"})
	require.Error(t, err)
	require.Zero(t, b.count("POST /api/projects/p1/team"))

	m, err := api.Team.Add(ctx, "p1", team.AddInput{Email: "x@y.io", Role: auth.RoleViewer})
	require.NoError(t, err)
	require.Equal(t, "tm2", m.ID)

	require.NoError(t, api.Team.Remove(ctx, "p1", "tm2"))
	require.Equal(t, 1, b.count("DELETE /api/projects/p1/team/tm2"))
}

func TestFinancial(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, api, c := newBackend(t)
	require.NoError(t, c.SetTokens(ctx, "A1", "R1"))

	_, err := api.Financial.AddTransaction(ctx, "p1", financial.CreateInput{Kind: financial.KindExpense, Amount: 0})
	require.Error(t, err)
	_, err = api.Financial.AddTransaction(ctx, "p1", financial.CreateInput{Kind: "refund", Amount: 10})
	require.Error(t, err)

	tx, err := api.Financial.AddTransaction(ctx, "p1", financial.CreateInput{Kind: financial.KindExpense, Category: "concrete", Amount: 125_00})
	require.NoError(t, err)
	require.Equal(t, int64(125_00), tx.Amount)

	sum, err := api.Financial.Summary(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "p1", sum.ProjectID)
	require.Equal(t, int64(-200), sum.Remaining())
}
