package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("not found")

// queryErr maps pgx.ErrNoRows to notFound and wraps everything else with op.
func queryErr(op string, err, notFound error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
