package milestone

import "context"

type Source interface {
	List(ctx context.Context, projectID string) ([]Milestone, error)
}
