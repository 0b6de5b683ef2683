// Server runs the account API over gRPC and HTTP.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	accountservice "authify/backend/internal/account/service"
	"authify/backend/internal/audit"
	audithandler "authify/backend/internal/audit/handler"
	"authify/backend/internal/config"
	"authify/backend/internal/devotp"
	healthhandler "authify/backend/internal/health/handler"
	httphandler "authify/backend/internal/http/handler"
	identityservice "authify/backend/internal/identity/service"
	"authify/backend/internal/logging"
	"authify/backend/internal/metrics"
	"authify/backend/internal/otp"
	"authify/backend/internal/security"
	"authify/backend/internal/server"
	"authify/backend/internal/telemetry"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := newDependencies(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	defer deps.close()

	now := func() time.Time { return time.Now().UTC() }
	tokens, err := security.NewTokenProvider([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.JWTAudience, now)
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}
	hasher := security.NewHasher(cfg.BcryptCost)
	m := metrics.New()
	auditLogger := audit.NewLogger(deps.auditRepo, nil, logger)

	auth := identityservice.NewAuthService(deps.accounts, hasher, tokens, deps.notifier,
		identityservice.WithAuditLogger(auditLogger),
		identityservice.WithEventEmitter(deps.emitter),
		identityservice.WithMetrics(m),
		identityservice.WithLogger(logger),
	)
	accounts := accountservice.NewAccountService(deps.accounts, hasher, otp.NewGenerator(now), deps.notifier,
		accountservice.WithAuditLogger(auditLogger),
		accountservice.WithEventEmitter(deps.emitter),
		accountservice.WithMetrics(m),
		accountservice.WithLogger(logger),
	)
	health := healthhandler.NewServer(deps.pingers)

	var devStore devotp.Store
	if deps.devStore != nil {
		devStore = deps.devStore
		logger.Warn("dev OTP mode enabled: codes are not mailed and are readable at /dev/otp")
	}

	grpcServer := server.NewGRPCServer(server.Options{Tokens: tokens, Limiter: deps.limiter, Emitter: deps.emitter})
	server.RegisterServices(grpcServer, server.Deps{Auth: auth, Accounts: accounts, Health: health, DevOTPStore: devStore})

	httpServer := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httphandler.NewRouter(httphandler.RouterConfig{
			Auth:        httphandler.NewAuthHandler(auth, accounts, security.NewCookieManager(cfg.CookieDomain, cfg.CookieSecure)),
			Tokens:      tokens,
			Limiter:     deps.limiter,
			Health:      health,
			Metrics:     m.Handler(),
			Activity:    audithandler.ActivityHandler(deps.auditRepo),
			DevOTPStore: devStore,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}

	serveErr := make(chan error, 2)
	go func() {
		logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
		serveErr <- grpcServer.Serve(lis)
	}()
	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		logger.Error("server failed", "error", err)
	}

	logger.Info("shutting down servers...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}
	grpcServer.GracefulStop()

	drainCtx, cancel := context.WithTimeout(context.Background(), telemetry.ShutdownDrainDuration)
	defer cancel()
	if err := telemetry.Drain(drainCtx); err != nil {
		logger.Warn("telemetry drain incomplete", "error", err)
	}
	logger.Info("servers stopped")
}
