package syncer_config

import (
	"time"

	common "github.com/NordCoder/ProjectEye/internal/config/common"
	pg "github.com/NordCoder/ProjectEye/internal/repository/postgres"
)

type Kafka struct {
	Brokers           []string `mapstructure:"brokers"`
	Topic             string   `mapstructure:"topic"`
	Partitions        int      `mapstructure:"partitions"`
	ReplicationFactor int      `mapstructure:"replication_factor"`
	EnsureTopic       bool     `mapstructure:"ensure_topic"`
}

type Sync struct {
	Interval    time.Duration `mapstructure:"interval"`
	Concurrency int           `mapstructure:"concurrency"`
	PageLimit   int           `mapstructure:"page_limit"`
}

type Outbox struct {
	Workers       int           `mapstructure:"workers"`
	BatchSize     int           `mapstructure:"batch_size"`
	Wait          time.Duration `mapstructure:"wait"`
	InProgressTTL time.Duration `mapstructure:"in_progress_ttl"`
}

type Server struct {
	MetricsAddr     string        `mapstructure:"metrics_addr"`
	GracefulTimeout time.Duration `mapstructure:"graceful_timeout"`
}

type Config struct {
	App    common.App   `mapstructure:"app"`
	Log    common.Log   `mapstructure:"log"`
	OTEL   common.OTEL  `mapstructure:"otel"`
	API    common.API   `mapstructure:"api"`
	Store  common.Store `mapstructure:"store"`
	DB     pg.Config    `mapstructure:"db"`
	Kafka  Kafka        `mapstructure:"kafka"`
	Sync   Sync         `mapstructure:"sync"`
	Outbox Outbox       `mapstructure:"outbox"`
	Server Server       `mapstructure:"server"`
}
