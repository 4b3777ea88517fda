package team

import "context"

type Source interface {
	List(ctx context.Context, projectID string) ([]Member, error)
}
