package main

import (
	"context"
	"time"

	config "github.com/NordCoder/ProjectEye/internal/config/syncer"
	kafkaRepo "github.com/NordCoder/ProjectEye/internal/repository/kafka"
	"go.uber.org/zap"
)

func initKafka(ctx context.Context, cfg *config.Config, logger *zap.Logger) *kafkaRepo.Producer {
	if cfg.Kafka.EnsureTopic {
		ectx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		err := kafkaRepo.EnsureTopic(ectx, cfg.Kafka.Brokers, kafkaRepo.TopicSpec{
			Name:              cfg.Kafka.Topic,
			NumPartitions:     cfg.Kafka.Partitions,
			ReplicationFactor: cfg.Kafka.ReplicationFactor,
		}, logger)
		if err != nil {
			logger.Warn("ensure topic failed, relying on auto-create", zap.Error(err))
		}
	}
	return kafkaRepo.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic).WithLogger(logger)
}
