package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"dsledger/internal/compliance"
	compliancemetrics "dsledger/internal/compliance/metrics"
	idemmw "dsledger/internal/idempotency/middleware"
	idemmemory "dsledger/internal/idempotency/store/memory"
	idemredis "dsledger/internal/idempotency/store/redis"
	jwttoken "dsledger/internal/jwt_token"
	"dsledger/internal/ledger"
	ledgerhandler "dsledger/internal/ledger/handler"
	ledgermetrics "dsledger/internal/ledger/metrics"
	"dsledger/internal/platform/config"
	"dsledger/internal/platform/httpserver"
	"dsledger/internal/platform/logger"
	"dsledger/internal/platform/metrics"
	"dsledger/internal/platform/redis"
	ratelimitmw "dsledger/internal/ratelimit/middleware"
	ratelimitmodels "dsledger/internal/ratelimit/models"
	"dsledger/internal/ratelimit/store/bucket"
	httptransport "dsledger/internal/transport/http"
	"dsledger/pkg/platform/audit/publisher"
)

const shutdownTimeout = 10 * time.Second

// serve wires the ledger, its audit pipeline and the HTTP API, and runs them
// until SIGINT or SIGTERM.
func serve(parent context.Context, cfg config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.New(cfg.LogLevel)
	if cfg.Token.Owner == (common.Address{}) {
		return errors.New("LEDGER_OWNER is required")
	}

	policy := compliance.DefaultPolicy()
	if cfg.PolicyFile != "" {
		p, err := config.ReadPolicyFile(cfg.PolicyFile, cfg.Token.Decimals)
		if err != nil {
			return fmt.Errorf("loading policy: %w", err)
		}
		policy = p
	}

	reg := metrics.New(version)
	checks := map[string]httptransport.HealthCheck{}

	pipeline, err := buildAuditPipeline(ctx, cfg, log, reg)
	if err != nil {
		return err
	}
	defer pipeline.Close()
	for name, check := range pipeline.checks {
		checks[name] = check
	}

	pub := publisher.NewPublisher(pipeline.store,
		publisher.WithAsyncBuffer(cfg.AuditBuffer),
		publisher.WithLogger(log),
	)
	// Closed before the pipeline so queued events reach the store.
	defer pub.Close()

	l, err := ledger.New(cfg.Token.Owner,
		ledger.WithLogger(log),
		ledger.WithMetrics(ledgermetrics.NewWithRegisterer(reg)),
		ledger.WithComplianceOption(compliance.WithMetrics(compliancemetrics.NewWithRegisterer(reg))),
		ledger.WithAuditPublisher(pub),
		ledger.WithPolicy(policy),
		ledger.WithMetadata(ledger.Metadata{
			Name:     cfg.Token.Name,
			Symbol:   cfg.Token.Symbol,
			Decimals: cfg.Token.Decimals,
		}),
	)
	if err != nil {
		return fmt.Errorf("creating ledger: %w", err)
	}

	var (
		idemStore idemmw.Store            = idemmemory.New()
		buckets   ratelimitmw.BucketStore = bucket.NewInMemoryBucketStore()
	)
	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		idemStore = idemredis.New(redisClient.Client)
		buckets = bucket.NewRedisBucketStore(redisClient.Client)
		checks["redis"] = redisClient.Health
	} else {
		log.Warn("REDIS_URL not set; idempotency keys and rate limits are kept in memory")
	}
	limiter := ratelimitmw.New(buckets, log,
		ratelimitmw.WithLimit(ratelimitmodels.ClassRead, ratelimitmodels.Limit{Requests: cfg.RateLimit.ReadPerMinute, Window: time.Minute}),
		ratelimitmw.WithLimit(ratelimitmodels.ClassWrite, ratelimitmodels.Limit{Requests: cfg.RateLimit.WritePerMinute, Window: time.Minute}),
		ratelimitmw.WithRegisterer(reg),
	)

	jwtSvc := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, cfg.Server.JWTAudience)
	router := httptransport.NewRouter(httptransport.Deps{
		Logger:       log,
		Validator:    jwttoken.NewJWTServiceAdapter(jwtSvc),
		Ledger:       ledgerhandler.New(l, pub, log),
		RateLimit:    limiter.RateLimit,
		Idempotency:  idemmw.New(idemStore, cfg.IdempotencyTTL, log).Handler,
		Metrics:      reg.Handler(),
		HealthChecks: checks,
	})
	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting ledger API",
			"addr", cfg.Server.Addr,
			"owner", cfg.Token.Owner.Hex(),
			"symbol", cfg.Token.Symbol,
			"version", version,
		)
		return httpserver.Run(gctx, srv, shutdownTimeout)
	})
	if pipeline.relay != nil {
		g.Go(func() error {
			return pipeline.relay.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("ledger stopped with error", "error", err)
		return err
	}
	log.Info("ledger stopped")
	return nil
}
