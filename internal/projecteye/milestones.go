package projecteye

import (
	"context"
	"fmt"
	"net/http"

	"github.com/NordCoder/ProjectEye/internal/domain/milestone"
)

type MilestoneService struct{ d Doer }

var _ milestone.Source = (*MilestoneService)(nil)

func NewMilestoneService(d Doer) *MilestoneService { return &MilestoneService{d: d} }

func (s *MilestoneService) List(ctx context.Context, projectID string) ([]milestone.Milestone, error) {
	out, err := call[[]milestone.Milestone](ctx, s.d, http.MethodGet, "/projects/"+seg(projectID)+"/milestones", nil)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	return out, nil
}

func (s *MilestoneService) Create(ctx context.Context, projectID string, in milestone.CreateInput) (*milestone.Milestone, error) {
	out, err := call[milestone.Milestone](ctx, s.d, http.MethodPost, "/projects/"+seg(projectID)+"/milestones", in)
	if err != nil {
		return nil, fmt.Errorf("create milestone: %w", err)
	}
	return &out, nil
}

func (s *MilestoneService) UpdateStatus(ctx context.Context, id string, st milestone.Status) (*milestone.Milestone, error) {
	out, err := call[milestone.Milestone](ctx, s.d, http.MethodPatch, "/milestones/"+seg(id), map[string]milestone.Status{"status": st})
	if err != nil {
		return nil, fmt.Errorf("update milestone %s: %w", id, err)
	}
	return &out, nil
}
