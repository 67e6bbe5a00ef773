package main

import (
	"context"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/16navigabraham/Tipjar/internal/app"
	"github.com/16navigabraham/Tipjar/internal/config"
	grpcHandler "github.com/16navigabraham/Tipjar/internal/handler/grpc"
	httpHandler "github.com/16navigabraham/Tipjar/internal/handler/http"
	"github.com/16navigabraham/Tipjar/internal/infrastructure/blockchain"
	"github.com/16navigabraham/Tipjar/pkg/logging"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the config file")
	flag.Parse()

	cfg, err := config.GetConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Log.Level)
	logger.Info("starting", "app", cfg.App.Name, "version", cfg.App.Version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	tipjar, err := app.New(ctx, cfg, blockchain.AutoApprove{}, reg, logger)
	if err != nil {
		logger.Error("failed to initialize", "err", err)
		os.Exit(1)
	}
	defer tipjar.Close(context.Background())

	// Warm the price cache so the first leaderboard request has USD values.
	tipjar.Prices.Refresh(ctx)

	auth, err := initAuth(ctx, cfg.Auth)
	if err != nil {
		logger.Error("failed to initialize auth", "err", err)
		tipjar.Close(context.Background())
		os.Exit(1)
	}

	grpcServer := initGRPCServer(cfg, tipjar, logger)
	go func() {
		lis, err := net.Listen("tcp", cfg.GRPC.Port)
		if err != nil {
			logger.Error("failed to listen", "addr", cfg.GRPC.Port, "err", err)
			stop()
			return
		}

		logger.Info("gRPC server listening", "addr", cfg.GRPC.Port)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("failed to serve gRPC", "err", err)
			stop()
		}
	}()

	httpServer := initHTTPServer(cfg, tipjar, auth, reg, logger)
	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTP.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to serve HTTP", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down servers")

	grpcServer.GracefulStop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "err", err)
	}

	logger.Info("servers stopped")
}

func initAuth(ctx context.Context, cfg config.Auth) (*httpHandler.Authenticator, error) {
	switch {
	case !cfg.Enabled:
		return nil, nil
	case len(cfg.JWKSURLs) > 0:
		return httpHandler.NewJWKSAuthenticator(ctx, cfg.JWKSURLs, cfg.Issuer, cfg.Audience)
	default:
		return httpHandler.NewHMACAuthenticator(cfg.HMACSecret, cfg.Issuer, cfg.Audience), nil
	}
}

func initGRPCServer(cfg *config.Config, tipjar *app.App, logger *slog.Logger) *grpc.Server {
	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))

	grpcHandler.Register(grpcServer, grpcHandler.NewTipsHandler(tipjar.Queries, tipjar.Resolver, logger).
		WithDefaultLimit(cfg.Tips.LeaderboardSize))

	if cfg.GRPC.EnableReflection {
		reflection.Register(grpcServer)
	}

	return grpcServer
}

func initHTTPServer(cfg *config.Config, tipjar *app.App, auth *httpHandler.Authenticator, reg *prometheus.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	handler := httpHandler.NewTipsHTTPHandler(tipjar.Orchestrator, tipjar.Queries, tipjar.Resolver, tipjar.Tokens, auth, logger).
		WithDefaultLimit(cfg.Tips.LeaderboardSize)
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	return &http.Server{
		Addr:              cfg.HTTP.Port,
		Handler:           mux,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
	}
}
