// Package projecteye exposes typed wrappers over the ProjectEye REST API.
// Each service is a fixed method and path on top of apiclient.Client.
package projecteye

import (
	"context"
	"net/url"

	"github.com/NordCoder/ProjectEye/internal/apiclient"
)

// Doer is the subset of apiclient.Client the services need.
type Doer interface {
	Do(ctx context.Context, method, path string, in, out any, opts ...apiclient.RequestOption) error
}

type envelope[T any] struct {
	Data T `json:"data"`
}

func call[T any](ctx context.Context, d Doer, method, path string, in any, opts ...apiclient.RequestOption) (T, error) {
	var env envelope[T]
	if err := d.Do(ctx, method, path, in, &env, opts...); err != nil {
		var zero T
		return zero, err
	}
	return env.Data, nil
}

func seg(id string) string { return url.PathEscape(id) }

type API struct {
	Auth       *AuthService
	Projects   *ProjectService
	Milestones *MilestoneService
	Team       *TeamService
	Financial  *FinancialService
}

func New(c *apiclient.Client) *API {
	return &API{
		Auth:       NewAuthService(c, c),
		Projects:   NewProjectService(c),
		Milestones: NewMilestoneService(c),
		Team:       NewTeamService(c),
		Financial:  NewFinancialService(c),
	}
}
