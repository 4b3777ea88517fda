package project

import "context"

type Source interface {
	List(ctx context.Context, p ListParams) ([]Project, error)
	Get(ctx context.Context, id string) (*Project, error)
}
