package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eaglebank/internal/config"
	"eaglebank/internal/handler"
	"eaglebank/internal/infrastructure/cache"
	"eaglebank/internal/infrastructure/database"
	"eaglebank/internal/infrastructure/mq"
	"eaglebank/internal/job"
	"eaglebank/internal/repository"
	"eaglebank/internal/service"
	"eaglebank/pkg/idgen"
	"eaglebank/pkg/logging"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig("config/config.yaml")

	logger, err := logging.NewLogger(os.Getenv("LOG_LEVEL"))
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	db := database.InitMySQL(&cfg.MySQL)
	redisClient := cache.InitRedis(&cfg.Redis)
	mq.InitKafka(&cfg.Kafka)
	defer mq.CloseKafka()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outboxSender := job.NewOutboxSender(db, cfg, logger)
	go outboxSender.Start(ctx)

	ids := idgen.Default()
	accountCache := cache.NewAccountCache(redisClient,
		time.Duration(cfg.Business.AccountCacheTTLSeconds)*time.Second)

	store := repository.NewStore(db)
	transactionService := service.NewTransactionService(store, accountCache, ids,
		cfg.Kafka.Topic.TransactionPosted, logger)
	accountService := service.NewAccountService(db, accountCache, ids, logger)
	userService := service.NewUserService(db, ids, logger)
	authService := service.NewAuthService(db, cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute, logger)

	h := handler.NewHandler(transactionService, accountService, userService, authService, logger)
	router := handler.SetupRouter(h, cfg.Auth.JWTSecret, logger)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	logger.Info("server stopped")
}
