package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"Gin_postgres_redis_task_api/app"
	"Gin_postgres_redis_task_api/config"
	"Gin_postgres_redis_task_api/routes"

	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()
	cfg := config.MustLoad()

	application := app.MustNew(cfg)
	defer application.Close()
	logger := application.Logger

	r := application.Router
	s := routes.RegisterRoutes(r, application)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.BootstrapFirstAdmin(ctx, cfg, s.Repo, logger); err != nil {
		logger.Fatal("bootstrap admin", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
