package projecteye

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/NordCoder/ProjectEye/internal/apiclient"
	"github.com/NordCoder/ProjectEye/internal/domain/auth"
	"github.com/NordCoder/ProjectEye/internal/domain/project"
	"github.com/NordCoder/ProjectEye/internal/domain/team"
	"github.com/NordCoder/ProjectEye/internal/tokenstore"
	"github.com/stretchr/testify/require"
)

// cannedDoer answers every call with the same data envelope.
type cannedDoer struct {
	data  any
	calls []string
}

func (d *cannedDoer) Do(_ context.Context, method, path string, _, out any, _ ...apiclient.RequestOption) error {
	d.calls = append(d.calls, method+" "+path)
	if out == nil {
		return nil
	}
	raw, err := json.Marshal(map[string]any{"data": d.data})
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

type memKeeper struct{ p tokenstore.Pair }

func (k memKeeper) SetTokens(ctx context.Context, a, r string) error { return k.p.Save(ctx, a, r) }
func (k memKeeper) GetAccessToken(ctx context.Context) (string, error) {
	return k.p.Load(ctx, tokenstore.KeyAccessToken)
}
func (k memKeeper) GetRefreshToken(ctx context.Context) (string, error) {
	return k.p.Load(ctx, tokenstore.KeyRefreshToken)
}
func (k memKeeper) ClearTokens(ctx context.Context) error { return k.p.Clear(ctx) }

func TestServices_OverAnyDoer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	d := &cannedDoer{data: []team.Member{{ID: "tm1", Role: auth.RoleViewer}}}
	members, err := NewTeamService(d).List(ctx, "p/1")
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.NoError(t, NewTeamService(d).Remove(ctx, "p/1", "tm1"))
	require.Equal(t, []string{
		http.MethodGet + " /projects/p%2F1/team",
		http.MethodDelete + " /projects/p%2F1/team/tm1",
	}, d.calls)

	ms := &cannedDoer{data: []any{}}
	_, err = NewMilestoneService(ms).List(ctx, "p1")
	require.NoError(t, err)
	_, err = NewFinancialService(ms).Transactions(ctx, "p1")
	require.NoError(t, err)
	_, err = NewProjectService(ms).List(ctx, project.ListParams{})
	require.NoError(t, err)
	require.Len(t, ms.calls, 3)

	keeper := memKeeper{p: tokenstore.Pair{S: tokenstore.NewMemory()}}
	sess := &cannedDoer{data: auth.Session{
		User:   auth.User{ID: "u1", Role: auth.RoleOwner},
		Tokens: auth.TokenPair{AccessToken: "A", RefreshToken: "R"},
	}}
	u, err := NewAuthService(sess, keeper).Login(ctx, auth.LoginInput{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)
	r, _ := keeper.GetRefreshToken(ctx)
	require.Equal(t, "R", r)
}
