package syncer_config

import (
	"strings"

	common "github.com/NordCoder/ProjectEye/internal/config/common"
	"github.com/spf13/viper"
)

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		_ = v.ReadInConfig()
	}

	common.SetDefaults(v, "projecteye-syncer")
	v.SetDefault("store.driver", common.DriverPostgres)
	v.SetDefault("store.namespace", "syncer")

	v.SetDefault("kafka.brokers", []string{"localhost:9094"})
	v.SetDefault("kafka.topic", "projecteye.snapshots")
	v.SetDefault("kafka.partitions", 3)
	v.SetDefault("kafka.replication_factor", 1)
	v.SetDefault("kafka.ensure_topic", true)

	v.SetDefault("sync.interval", "1m")
	v.SetDefault("sync.concurrency", 4)
	v.SetDefault("sync.page_limit", 100)

	v.SetDefault("outbox.workers", 2)
	v.SetDefault("outbox.batch_size", 100)
	v.SetDefault("outbox.wait", "1s")
	v.SetDefault("outbox.in_progress_ttl", "30s")

	v.SetDefault("server.metrics_addr", ":8090")
	v.SetDefault("server.graceful_timeout", "10s")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.DB.URL == "" {
		return nil, common.ErrConfig("db.url is empty")
	}
	if cfg.Sync.Interval <= 0 {
		return nil, common.ErrConfig("sync.interval must be positive")
	}
	if cfg.Sync.Concurrency <= 0 {
		cfg.Sync.Concurrency = 1
	}
	if err := cfg.Store.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
