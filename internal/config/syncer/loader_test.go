package syncer_config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "http://localhost:3000/api", cfg.API.BaseURL)
	require.Equal(t, 30*time.Second, cfg.API.Timeout)
	require.Equal(t, "/auth/refresh", cfg.API.RefreshPath)
	require.Equal(t, "postgres", cfg.Store.Driver)
	require.Equal(t, "syncer", cfg.Store.Namespace)
	require.Equal(t, time.Minute, cfg.Sync.Interval)
	require.Equal(t, 4, cfg.Sync.Concurrency)
	require.Equal(t, 2, cfg.Outbox.Workers)
	require.Equal(t, 100, cfg.Outbox.BatchSize)
	require.Equal(t, "projecteye.snapshots", cfg.Kafka.Topic)
	require.Equal(t, []string{"localhost:9094"}, cfg.Kafka.Brokers)
	require.Equal(t, 2*time.Second, cfg.DB.QueryTimeout)
	require.EqualValues(t, 10, cfg.DB.MaxConns)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "syncer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: https://eye.example.com/api
sync:
  interval: 15s
  concurrency: 8
kafka:
  topic: eye.changes
`), 0o600))
	t.Setenv("SYNC_CONCURRENCY", "2")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://eye.example.com/api", cfg.API.BaseURL)
	require.Equal(t, 15*time.Second, cfg.Sync.Interval)
	require.Equal(t, 2, cfg.Sync.Concurrency)
	require.Equal(t, "eye.changes", cfg.Kafka.Topic)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("STORE_DRIVER", "floppy")
	_, err := Load("")
	require.Error(t, err)
}
