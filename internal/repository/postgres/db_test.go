package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func TestPoolConfig(t *testing.T) {
	t.Parallel()

	pcfg, err := poolConfig(Config{
		URL:            "postgres://u:p@localhost:5432/projecteye",
		AppName:        "projecteye-syncer",
		MaxConns:       7,
		ConnectTimeout: 2 * time.Second,
	})
	require.NoError(t, err)
	require.EqualValues(t, 7, pcfg.MaxConns)
	require.Equal(t, 2*time.Second, pcfg.ConnConfig.ConnectTimeout)
	require.Equal(t, "projecteye-syncer", pcfg.ConnConfig.RuntimeParams["application_name"])

	_, err = poolConfig(Config{URL: "postgres://localhost:notaport/projecteye"})
	require.Error(t, err)
}

func TestQueryErr(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, queryErr("snapshot get", pgx.ErrNoRows, ErrNotFound), ErrNotFound)

	boom := errors.New("conn reset")
	err := queryErr("snapshot get", boom, ErrNotFound)
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrNotFound)
	require.Contains(t, err.Error(), "snapshot get")
}
