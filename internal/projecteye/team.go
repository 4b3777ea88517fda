package projecteye

import (
	"context"
	"fmt"
	"net/http"

	"github.com/NordCoder/ProjectEye/internal/domain/team"
)

type TeamService struct{ d Doer }

var _ team.Source = (*TeamService)(nil)

func NewTeamService(d Doer) *TeamService { return &TeamService{d: d} }

func (s *TeamService) List(ctx context.Context, projectID string) ([]team.Member, error) {
	out, err := call[[]team.Member](ctx, s.d, http.MethodGet, "/projects/"+seg(projectID)+"/team", nil)
	if err != nil {
		return nil, fmt.Errorf("list team: %w", err)
	}
	return out, nil
}

func (s *TeamService) Add(ctx context.Context, projectID string, in team.AddInput) (*team.Member, error) {
	if !in.Role.Valid() {
		return nil, fmt.Errorf("add member: unknown role %q", in.Role)
	}
	out, err := call[team.Member](ctx, s.d, http.MethodPost, "/projects/"+seg(projectID)+"/team", in)
	if err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	return &out, nil
}

func (s *TeamService) Remove(ctx context.Context, projectID, memberID string) error {
	if err := s.d.Do(ctx, http.MethodDelete, "/projects/"+seg(projectID)+"/team/"+seg(memberID), nil, nil); err != nil {
		return fmt.Errorf("remove member %s: %w", memberID, err)
	}
	return nil
}
