package main

import (
	"context"
	"flag"
	"log"
	"time"

	config "github.com/NordCoder/ProjectEye/internal/config/syncer"
	"github.com/NordCoder/ProjectEye/internal/obs"
	kafkaRepo "github.com/NordCoder/ProjectEye/internal/repository/kafka"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// kafka-init creates the snapshot events topic and waits until every
// partition has a leader. It reads the same config as the syncer.
func main() {
	configPath := flag.String("config", "config/syncer.yaml", "path to the yaml config")
	wait := flag.Duration("wait", 30*time.Second, "how long to wait for the topic")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	l, err := obs.NewLogger(cfg.Log.AsLoggerConfig(cfg.App))
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), *wait+10*time.Second)
	defer cancel()

	err = kafkaRepo.EnsureTopic(ctx, cfg.Kafka.Brokers, kafkaRepo.TopicSpec{
		Name:              cfg.Kafka.Topic,
		NumPartitions:     cfg.Kafka.Partitions,
		ReplicationFactor: cfg.Kafka.ReplicationFactor,
		MaxWait:           *wait,
		Strict:            true,
	}, l)
	if err != nil {
		l.Fatal("ensure topic", zap.String("topic", cfg.Kafka.Topic), zap.Error(err))
	}
	l.Info("kafka-init ok", zap.String("topic", cfg.Kafka.Topic))
}
