package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/codex-grpc-onboarding/internal/adapters/creditscore"
	"github.com/ogurasousui/codex-grpc-onboarding/internal/adapters/grpc/handler"
	"github.com/ogurasousui/codex-grpc-onboarding/internal/adapters/repository/postgres"
	"github.com/ogurasousui/codex-grpc-onboarding/internal/core/company"
	"github.com/ogurasousui/codex-grpc-onboarding/internal/core/customer"
	"github.com/ogurasousui/codex-grpc-onboarding/internal/core/onboarding"
	"github.com/ogurasousui/codex-grpc-onboarding/internal/platform/clock"
	"github.com/ogurasousui/codex-grpc-onboarding/internal/platform/config"
	pg "github.com/ogurasousui/codex-grpc-onboarding/internal/platform/db/postgres"
	"github.com/ogurasousui/codex-grpc-onboarding/internal/platform/logger"
	"github.com/ogurasousui/codex-grpc-onboarding/internal/platform/metrics"
	"github.com/ogurasousui/codex-grpc-onboarding/internal/platform/redis"
	"github.com/ogurasousui/codex-grpc-onboarding/internal/platform/server"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.PathFromEnv())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	dbPool, err := pg.NewPool(ctx, cfg.Database, log.Named("postgres"))
	if err != nil {
		return fmt.Errorf("initialize database pool: %w", err)
	}
	defer dbPool.Close()

	m := metrics.New()
	if err := m.RegisterDBPool(pg.PoolStats(dbPool)); err != nil {
		return err
	}
	sysClock := clock.System{}
	txManager := pg.NewTransactionManager(dbPool)

	companyRepo := postgres.NewCompanyRepository(dbPool)
	companySvc := company.NewService(companyRepo, sysClock, txManager)

	customerRepo := postgres.NewCustomerRepository(dbPool)
	customerSvc := customer.NewService(customerRepo)

	creditClient, err := creditscore.NewClient(cfg.CreditScore.Address, cfg.CreditScore.Timeout)
	if err != nil {
		return err
	}
	defer func() { _ = creditClient.Close() }()

	var creditLookup onboarding.CreditScoreLookup = creditClient
	if cfg.Redis.Enabled() {
		cache, err := redis.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer func() { _ = cache.Close() }()

		creditLookup = creditscore.NewCachedLookup(creditClient, cache, cfg.Redis.TTL, log.Named("credit_cache"), m)
		log.Info("credit limit cache enabled", zap.Duration("ttl", cfg.Redis.TTL))
	}

	onboardingSvc, err := onboarding.NewService(sysClock, companySvc, creditLookup, customerRepo)
	if err != nil {
		return fmt.Errorf("build onboarding service: %w", err)
	}

	if cfg.Metrics.ListenAddr != "" {
		go func() {
			log.Info("metrics endpoint listening", zap.String("addr", cfg.Metrics.ListenAddr))
			if err := m.Serve(ctx, cfg.Metrics.ListenAddr); err != nil {
				log.Error("metrics endpoint stopped", zap.Error(err))
			}
		}()
	}

	grpcServer := server.New(cfg.Server.ListenAddr, server.Services{
		Onboarding: handler.NewOnboardingGrpcHandler(onboardingSvc, m, log.Named("onboarding")),
		Company:    handler.NewCompanyGrpcHandler(companySvc),
		Customer:   handler.NewCustomerGrpcHandler(customerSvc),
	}, log.Named("grpc"), m)

	if err := grpcServer.Run(ctx); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}

	log.Info("server stopped")
	return nil
}
