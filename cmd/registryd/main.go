package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"reliefregistry/internal/audit"
	"reliefregistry/internal/identity"
	"reliefregistry/internal/ledger"
	"reliefregistry/internal/platform/config"
	"reliefregistry/internal/platform/httpserver"
	"reliefregistry/internal/platform/logger"
	platformredis "reliefregistry/internal/platform/redis"
	"reliefregistry/internal/registry"
	registrymetrics "reliefregistry/internal/registry/metrics"
	"reliefregistry/internal/registry/service"
	registrystore "reliefregistry/internal/registry/store"
	httptransport "reliefregistry/internal/transport/http"

	dErrors "reliefregistry/pkg/domain-errors"
)

// main wires the registry core to its collaborators and runs the ops
// surface and the audit worker. Business rules live in the internal
// packages; this stays assembly only.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	storeCfg := registrystore.Config{
		MaxSubmissions: cfg.MaxSubmissions,
		Fee:            cfg.SubmissionFee,
	}

	var st registrystore.Store
	if cfg.PostgresURL != "" {
		pg, err := registrystore.NewPostgres(ctx, cfg.PostgresURL, storeCfg)
		if err != nil {
			log.Error("postgres store init failed", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		st = pg
		log.Info("using postgres store")
	} else {
		st = registrystore.NewMemory(storeCfg)
		log.Info("using in-memory store")
	}

	if cfg.RedisURL != "" {
		rdb, err := platformredis.New(ctx, cfg.RedisURL)
		if err != nil {
			log.Error("redis init failed", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		st = registrystore.NewFingerprintCache(st, rdb, log)
		log.Info("fingerprint cache enabled")
	}

	roster := identity.NewRoster()
	if cfg.RegistrarSigningKey != "" && len(cfg.RegistrarCredentials) > 0 {
		verifier := identity.NewCredentialVerifier(cfg.RegistrarSigningKey, "relief-registrar")
		seeded, err := identity.SeedRoster(roster, verifier, cfg.RegistrarCredentials)
		if err != nil {
			log.Warn("some registration credentials were rejected", "error", err)
		}
		log.Info("roster seeded from credentials", "registered", seeded)
	}

	fees := ledger.NewMemory()

	var sink audit.Sink
	if len(cfg.KafkaBrokers) > 0 {
		ks, err := audit.NewKafkaSink(ctx, cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			log.Error("kafka audit sink init failed", "error", err)
			os.Exit(1)
		}
		defer ks.Close()
		sink = ks
		log.Info("audit events flowing to kafka", "topic", cfg.AuditTopic)
	} else {
		sink = audit.NewMemorySink()
	}
	publisher := audit.NewPublisher(256)
	worker := audit.NewWorker(sink, publisher.Inbox())

	promReg := prometheus.NewRegistry()
	m := registrymetrics.New(promReg)

	clock := registry.NewIntervalClock(time.Second)
	svc := service.New(st, roster, fees, clock,
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithAudit(publisher),
	)

	if cfg.Authority != "" {
		err := svc.SetAuthority(ctx, registry.Address(cfg.Authority))
		switch {
		case err == nil:
			log.Info("authority configured from environment", "authority", cfg.Authority)
		case dErrors.HasCode(err, dErrors.CodeAuthorityAlreadySet):
			// durable store already carries the authority; the write-once
			// rule makes the env value a no-op
		default:
			log.Error("authority bootstrap failed", "error", err)
			os.Exit(1)
		}
	}

	handler := httptransport.NewHandler(svc, fees, log)
	srv := httpserver.New(cfg.OpsAddr, httptransport.NewRouter(handler, promReg))

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		log.Info("ops surface listening", "addr", cfg.OpsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("registryd exited", "error", err)
		os.Exit(1)
	}
}
