package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"mitmail/internal/config"
	"mitmail/internal/handler"
	"mitmail/internal/httpserver"
	"mitmail/internal/mq"
	"mitmail/internal/service/identity"
	"mitmail/internal/service/messaging"
	"mitmail/internal/store"
	"mitmail/internal/store/filestore"
	"mitmail/internal/store/pgstore"
	"mitmail/internal/store/redistore"
	"mitmail/pkg/logger"
)

func main() {
	// Load config
	cfg := config.Load()

	zlog := logger.NewLogger()
	defer zlog.Sync()

	ctx := context.Background()

	// Init storage backend
	st, err := newStore(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("Store initialization failed", zap.Error(err))
	}
	defer st.Close()

	// Init RabbitMQ publisher (optional)
	var publisher *mq.Publisher
	if cfg.MQ.URL != "" {
		publisher, err = mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			log.Fatalf("failed to init publisher: %v", err)
		}
		defer publisher.Close()
	}

	// Init services
	identityService := identity.NewService(st, publisher, zlog)
	messagingService := messaging.NewService(st, publisher, zlog)

	// Init handlers
	userHandler := handler.NewUserHandler(identityService)
	personHandler := handler.NewPersonHandler(identityService, messagingService)
	messageHandler := handler.NewMessageHandler(messagingService)

	// Router
	router := httpserver.NewRouter(userHandler, personHandler, messageHandler, identityService, st, publisher)

	zlog.Info("Starting API server",
		zap.String("port", cfg.Server.Port),
		zap.String("storage_backend", cfg.Storage.Backend),
	)

	if err := router.Run(cfg.Server.Port); err != nil {
		zlog.Fatal("server start failed", zap.Error(err))
	}
}

func newStore(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (store.Store, error) {
	switch cfg.Storage.Backend {
	case "postgres":
		st, err := pgstore.New(ctx, cfg.DB, zlog)
		if err != nil {
			return nil, err
		}
		if err := st.Setup(ctx); err != nil {
			st.Close()
			return nil, err
		}
		return st, nil
	case "redis":
		return redistore.New(ctx, cfg.Redis)
	default:
		return filestore.Open(cfg.Storage.DataDir, zlog)
	}
}
