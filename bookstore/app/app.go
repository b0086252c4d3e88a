package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Astemirdum/bookstore-service/bookstore/config"
	"github.com/Astemirdum/bookstore-service/bookstore/internal/handler"
	"github.com/Astemirdum/bookstore-service/bookstore/internal/queue"
	"github.com/Astemirdum/bookstore-service/bookstore/internal/repository"
	"github.com/Astemirdum/bookstore-service/bookstore/internal/server"
	"github.com/Astemirdum/bookstore-service/bookstore/internal/service"
	"github.com/Astemirdum/bookstore-service/bookstore/migrations"
	"github.com/Astemirdum/bookstore-service/pkg/circuit_breaker"
	"github.com/Astemirdum/bookstore-service/pkg/kafka"
	"github.com/Astemirdum/bookstore-service/pkg/logger"
	"github.com/Astemirdum/bookstore-service/pkg/postgres"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "bookstore")
	defer log.Sync() //nolint:errcheck

	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %w", err)
	}
	defer db.Close()

	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo books %w", err)
	}

	enqueuer, closeEnqueuer, err := newEnqueuer(cfg, log)
	if err != nil {
		return fmt.Errorf("enqueuer %w", err)
	}
	defer closeEnqueuer()

	svc := service.NewService(repo, enqueuer, cfg.Events.Topic, log)
	h := handler.New(svc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gg, ctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		log.Info("http server start ON: ",
			zap.String("addr", net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
		return srv.Run()
	})
	gg.Go(func() error {
		<-ctx.Done()
		log.Debug("Graceful shutdown", zap.NamedError("cause", context.Cause(ctx)))

		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Stop(closeCtx)
	})

	if err = gg.Wait(); err != nil {
		return fmt.Errorf("server %w", err)
	}
	log.Info("Graceful shutdown finished")
	return nil
}

func newEnqueuer(cfg *config.Config, log *zap.Logger) (queue.Enqueuer, func(), error) {
	if !cfg.Events.Enabled {
		log.Info("book events disabled")
		return queue.NewNopEnqueuer(), func() {}, nil
	}
	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka.NewProducer %w", err)
	}
	const (
		recordLength     = 20
		openTimeout      = 10 * time.Second
		percentile       = 0.5
		recoveryRequests = 3
	)
	cb := circuit_breaker.New(recordLength, openTimeout, percentile, recoveryRequests)
	closeFn := func() {
		if err := producer.Close(); err != nil {
			log.Error("producer.Close", zap.Error(err))
		}
	}
	return queue.NewEnqueuer(producer, cb), closeFn, nil
}
