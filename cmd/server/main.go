package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	"pathway/internal/audit"
	jwttoken "pathway/internal/jwt_token"
	"pathway/internal/platform/config"
	"pathway/internal/platform/httpserver"
	"pathway/internal/platform/logger"
	platformmetrics "pathway/internal/platform/metrics"
	platformredis "pathway/internal/platform/redis"
	profilehandler "pathway/internal/profile/handler"
	profilemetrics "pathway/internal/profile/metrics"
	"pathway/internal/profile/service"
	"pathway/internal/profile/store"
	"pathway/internal/questionnaire/controller"
	questionnairehandler "pathway/internal/questionnaire/handler"
	"pathway/internal/remote"
	"pathway/internal/report"
	httptransport "pathway/internal/transport/http"
	"pathway/pkg/ratelimit"
)

// main wires dependencies and runs the server and audit worker until a
// shutdown signal. Business logic lives in the internal service packages.
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Profile storage: postgres when configured, redis as the draft-store
	// alternative, in-memory otherwise.
	var (
		profileStore store.Store
		checkers     []httptransport.HealthChecker
	)
	switch {
	case cfg.PostgresDSN != "":
		db, err := sql.Open("pgx", cfg.PostgresDSN)
		if err != nil {
			log.Error("failed to open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("postgres ping failed", "error", err)
			os.Exit(1)
		}
		pg := store.NewPostgres(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Error("failed to ensure postgres schema", "error", err)
			os.Exit(1)
		}
		profileStore = pg
		checkers = append(checkers, dbChecker{db})
		log.Info("using postgres profile store")
	case cfg.Redis.URL != "":
		redisClient, err := platformredis.New(cfg.Redis)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		profileStore = store.NewRedis(redisClient.Client, cfg.Redis.DraftTTL)
		checkers = append(checkers, redisChecker{redisClient})
		log.Info("using redis profile store", "draft_ttl", cfg.Redis.DraftTTL)
	default:
		profileStore = store.NewInMemory()
		log.Warn("using in-memory profile store, data will not survive restarts")
	}

	// Audit trail: kafka sink when brokers are configured, in-memory otherwise.
	publisher := audit.NewPublisher(256)
	var sink audit.Sink
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("failed to connect to kafka", "error", err)
			os.Exit(1)
		}
		defer kafkaSink.Close()
		sink = kafkaSink
		log.Info("audit events going to kafka", "topic", cfg.Kafka.Topic)
	} else {
		sink = audit.NewInMemoryStore()
		log.Info("audit events kept in memory")
	}
	worker := audit.NewWorker(sink, publisher.Inbox(), log)

	// Account service client for profile hydration.
	var remoteClient remote.ProfileClient
	if cfg.RemoteProfile.BaseURL != "" {
		remoteClient = remote.NewHTTPProfileClient(cfg.RemoteProfile.BaseURL, cfg.RemoteProfile.Timeout)
	} else {
		remoteClient = &remote.MockProfileClient{Latency: 100 * time.Millisecond}
	}

	profMetrics := profilemetrics.New()
	transportMetrics := platformmetrics.New()

	profiles := service.NewService(profileStore, remoteClient, publisher, profMetrics, log)
	questionnaire := controller.New(profiles, controller.Config{
		SubmitDelay: cfg.SubmitDelay,
		EnableSave:  cfg.EnableSave,
	}, log)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	jwtValidator := jwttoken.NewJWTServiceAdapter(jwtService)
	limiter := ratelimit.NewSlidingWindow(cfg.MutationLimit, cfg.MutationWin)

	router := httptransport.NewRouter(checkers,
		profilehandler.New(profiles, questionnaire, log, transportMetrics, jwtValidator, limiter),
		questionnairehandler.New(questionnaire, log, transportMetrics, jwtValidator),
		report.NewHandler(profiles, log, transportMetrics, jwtValidator),
	)

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return worker.Run(gctx)
	})
	g.Go(func() error {
		log.Info("starting pathway server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

type dbChecker struct {
	db *sql.DB
}

func (c dbChecker) Name() string { return "postgres" }

func (c dbChecker) Healthy() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return c.db.PingContext(ctx) == nil
}

type redisChecker struct {
	client *platformredis.Client
}

func (c redisChecker) Name() string { return "redis" }

func (c redisChecker) Healthy() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return c.client.Health(ctx) == nil
}
