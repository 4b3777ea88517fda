package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/NordCoder/ProjectEye/internal/bootstrap"
	config "github.com/NordCoder/ProjectEye/internal/config/syncer"
	"github.com/NordCoder/ProjectEye/internal/obs"
	"github.com/NordCoder/ProjectEye/internal/obs/retry"
	"github.com/NordCoder/ProjectEye/internal/outbox"
	kafkaRepo "github.com/NordCoder/ProjectEye/internal/repository/kafka"
	pg "github.com/NordCoder/ProjectEye/internal/repository/postgres"
	"github.com/NordCoder/ProjectEye/internal/services/syncer"
	"github.com/NordCoder/ProjectEye/internal/services/syncer/repo"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/syncer.yaml", "path to the yaml config")
	flag.Parse()

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	// logger
	l, err := initLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()
	l.Info("starting syncer",
		zap.String("api", cfg.API.BaseURL),
		zap.String("store", cfg.Store.Driver),
		zap.Duration("interval", cfg.Sync.Interval),
		zap.String("topic", cfg.Kafka.Topic),
	)

	// otel
	otelShutdown, err := initOTel(ctx, cfg)
	if err != nil {
		l.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelShutdown(context.Background()) }()

	// db
	db, err := pg.New(ctx, cfg.DB)
	if err != nil {
		l.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// credentials and api
	store, closeStore, err := bootstrap.OpenTokenStore(ctx, cfg.Store, db, l)
	if err != nil {
		l.Fatal("token store", zap.Error(err))
	}
	defer func() { _ = closeStore() }()

	_, api, err := bootstrap.NewAPI(cfg.API, store, l)
	if err != nil {
		l.Fatal("api client", zap.Error(err))
	}

	// kafka
	producer := initKafka(ctx, cfg, l)
	defer func() { _ = producer.Close() }()

	// metrics server
	ms := obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, db.Health, l)

	// wiring
	outboxRepo := pg.NewOutboxRepo(db)
	tx := pg.NewTransactor(db, l)
	uc := syncer.NewUC(
		syncer.Sources{
			Projects:   api.Projects,
			Milestones: api.Milestones,
			Team:       api.Team,
			Financial:  api.Financial,
		},
		repo.Snapshots{R: pg.NewSnapshotRepo(db), O: outboxRepo, Tx: tx},
		syncer.Config{
			Interval:    cfg.Sync.Interval,
			Concurrency: cfg.Sync.Concurrency,
			PageLimit:   cfg.Sync.PageLimit,
		},
		l,
	)
	runner := syncer.New(l, uc)

	ob := outbox.NewOutboxRunner(l, outboxRepo,
		outbox.MakeGlobalOutboxHandler(kafkaRepo.NewSnapshotEvents(producer), retry.DefaultPublishPolicy(l)),
		outbox.Config{
			Workers:       cfg.Outbox.Workers,
			BatchSize:     cfg.Outbox.BatchSize,
			WaitTime:      cfg.Outbox.Wait,
			InProgressTTL: cfg.Outbox.InProgressTTL,
		},
	)

	// run
	ob.Start(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- runner.Run(ctx) }()

	l.Info("syncer started")

	select {
	case <-ctx.Done():
	case err = <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			l.Error("runner error", zap.Error(err))
		}
	}
	stop()

	// graceful shutdown
	shCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	done := make(chan struct{})
	go func() { ob.Wait(); close(done) }()
	select {
	case <-done:
	case <-shCtx.Done():
		l.Warn("outbox workers did not stop in time")
	}
	_ = ms.Shutdown(shCtx)
	l.Info("bye")
}
