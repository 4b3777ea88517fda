package financial

import "context"

type Source interface {
	Summary(ctx context.Context, projectID string) (*Summary, error)
}
