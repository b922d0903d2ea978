package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/joho/godotenv"

	"github.com/Virenishere/backend-assignment-portal/internal/auth"
	"github.com/Virenishere/backend-assignment-portal/internal/config"
	"github.com/Virenishere/backend-assignment-portal/internal/crypto"
	"github.com/Virenishere/backend-assignment-portal/internal/db"
	internalgrpc "github.com/Virenishere/backend-assignment-portal/internal/grpc"
	internalhttp "github.com/Virenishere/backend-assignment-portal/internal/http"
	"github.com/Virenishere/backend-assignment-portal/internal/logging"
	"github.com/Virenishere/backend-assignment-portal/internal/service"
)

func main() {
	// A missing .env is fine, the process environment still applies.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New("assignment-portal", cfg.LogLevel, cfg.LogConcise)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// run serves until ctx is done or a listener fails. Everything it opens is closed before it returns.
func run(ctx context.Context, cfg config.Config, logger *httplog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store, err := db.OpenStore(ctx, cfg, logger.Logger)
	if err != nil {
		return fmt.Errorf("store setup failed: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Warn("store close error", "error", err)
		}
	}()

	var revoker auth.Revoker = auth.NopRevoker{}
	redisClient, err := db.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		revoker = auth.NewRedisRevoker(redisClient)
	} else {
		logger.Warn("REDIS_ADDR not set, logout will not revoke tokens")
	}

	tokens, err := auth.NewTokens(cfg.UserJWTSecret, cfg.AdminJWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("token setup failed: %w", err)
	}

	svc := service.New(store, crypto.NewHasher(cfg.BcryptCost), tokens, cfg.DBTimeout)
	server := internalhttp.NewServer(cfg, svc, revoker, logger)

	httpLis, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("http listen on %s failed: %w", cfg.HTTPAddr, err)
	}
	httpServer := &http.Server{
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 2)

	if cfg.GRPCAddr != "" {
		grpcLis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			httpLis.Close()
			return fmt.Errorf("grpc listen on %s failed: %w", cfg.GRPCAddr, err)
		}
		health := internalgrpc.NewHealthServer(svc, logger.Logger)
		grpcServer := internalgrpc.NewServer(health)
		go health.Run(ctx, cfg.HealthProbeEach)
		go func() {
			logger.Info("grpc health listening", "addr", grpcLis.Addr().String())
			if err := grpcServer.Serve(grpcLis); err != nil {
				serveErr <- fmt.Errorf("grpc server: %w", err)
			}
		}()
		defer grpcServer.GracefulStop()
	}

	go func() {
		logger.Info("assignment-portal listening", "addr", httpLis.Addr().String(), "store", cfg.StoreDriver)
		if err := httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serveErr:
	}
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	return runErr
}
