package projecteye

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/NordCoder/ProjectEye/internal/apiclient"
	"github.com/NordCoder/ProjectEye/internal/domain/project"
)

type ProjectService struct{ d Doer }

var _ project.Source = (*ProjectService)(nil)

func NewProjectService(d Doer) *ProjectService { return &ProjectService{d: d} }

func (s *ProjectService) List(ctx context.Context, p project.ListParams) ([]project.Project, error) {
	q := url.Values{}
	if p.Status != "" {
		q.Set("status", string(p.Status))
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	out, err := call[[]project.Project](ctx, s.d, http.MethodGet, "/projects", nil, apiclient.WithQuery(q))
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return out, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*project.Project, error) {
	out, err := call[project.Project](ctx, s.d, http.MethodGet, "/projects/"+seg(id), nil)
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	return &out, nil
}

func (s *ProjectService) Create(ctx context.Context, in project.CreateInput) (*project.Project, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("create project: empty name")
	}
	out, err := call[project.Project](ctx, s.d, http.MethodPost, "/projects", in)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return &out, nil
}

func (s *ProjectService) Update(ctx context.Context, id string, in project.UpdateInput) (*project.Project, error) {
	out, err := call[project.Project](ctx, s.d, http.MethodPatch, "/projects/"+seg(id), in)
	if err != nil {
		return nil, fmt.Errorf("update project %s: %w", id, err)
	}
	return &out, nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.d.Do(ctx, http.MethodDelete, "/projects/"+seg(id), nil, nil); err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	return nil
}
