package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	httpapi "orgdesk/internal/http"
	jwttoken "orgdesk/internal/jwt_token"
	"orgdesk/internal/onboarding/adapters"
	onboardinghandler "orgdesk/internal/onboarding/handler"
	onboardingmetrics "orgdesk/internal/onboarding/metrics"
	onboarding "orgdesk/internal/onboarding/service"
	"orgdesk/internal/platform/config"
	"orgdesk/internal/platform/httpserver"
	"orgdesk/internal/platform/kafka"
	"orgdesk/internal/platform/logger"
	"orgdesk/internal/platform/metrics"
	"orgdesk/internal/platform/postgres"
	"orgdesk/internal/platform/redis"
	ratelimitmetrics "orgdesk/internal/ratelimit/metrics"
	ratelimit "orgdesk/internal/ratelimit/middleware"
	ratelimitmodels "orgdesk/internal/ratelimit/models"
	ratelimitstore "orgdesk/internal/ratelimit/store"
	staffhandler "orgdesk/internal/staff/handler"
	staffmetrics "orgdesk/internal/staff/metrics"
	staffservice "orgdesk/internal/staff/service"
	staffstore "orgdesk/internal/staff/store"
	"orgdesk/internal/verification/challenge"
	"orgdesk/internal/verification/providers"
	id "orgdesk/pkg/domain"
	"orgdesk/pkg/platform/audit"
	"orgdesk/pkg/platform/audit/publisher"
	kafkasink "orgdesk/pkg/platform/audit/sink/kafka"
	auditmemory "orgdesk/pkg/platform/audit/store/memory"
	auditpostgres "orgdesk/pkg/platform/audit/store/postgres"
	"orgdesk/pkg/platform/circuit"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFile string
	root := &cobra.Command{
		Use:          "orgdesk",
		Short:        "Organisation admin console backend",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file")

	load := func() (config.Config, *slog.Logger, error) {
		cfg, err := config.Load(envFile)
		if err != nil {
			return config.Config{}, nil, err
		}
		return cfg, logger.New(cfg.Environment, cfg.LogLevel), nil
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			pool, err := postgres.NewPool(cmd.Context(), cfg.Postgres)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := postgres.Migrate(cmd.Context(), pool); err != nil {
				return err
			}
			log.InfoContext(cmd.Context(), "migrations applied")
			return nil
		},
	})

	var tenant, user, role string
	var ttl time.Duration
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := load()
			if err != nil {
				return err
			}
			if cfg.RegulatedMode() {
				return fmt.Errorf("token minting is disabled in %s", cfg.Environment)
			}
			tenantID, err := id.ParseTenantID(tenant)
			if err != nil {
				return fmt.Errorf("invalid --tenant: %w", err)
			}
			userID := id.UserID(uuid.New())
			if user != "" {
				if userID, err = id.ParseUserID(user); err != nil {
					return fmt.Errorf("invalid --user: %w", err)
				}
			}
			jwtService := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
			token, err := jwtService.GenerateAccessToken(userID, tenantID, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	tokenCmd.Flags().StringVar(&tenant, "tenant", "", "tenant id")
	tokenCmd.Flags().StringVar(&user, "user", "", "operator id (random when empty)")
	tokenCmd.Flags().StringVar(&role, "role", "admin", "operator role")
	tokenCmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("tenant")
	root.AddCommand(tokenCmd)

	return root
}

// infra holds the optional backing services. Nil members fall back to
// in-memory implementations.
type infra struct {
	pool  *pgxpool.Pool
	db    *sql.DB
	redis *redis.Client
	kafka *kgo.Client
}

func (i *infra) close() {
	if i.kafka != nil {
		i.kafka.Close()
	}
	if i.redis != nil {
		_ = i.redis.Close()
	}
	if i.db != nil {
		_ = i.db.Close()
	}
	if i.pool != nil {
		i.pool.Close()
	}
}

func connect(ctx context.Context, cfg config.Config, log *slog.Logger) (*infra, error) {
	in := &infra{}
	if cfg.Postgres.URL != "" {
		pool, err := postgres.NewPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		in.pool = pool
		if err := postgres.Migrate(ctx, pool); err != nil {
			in.close()
			return nil, err
		}
		db, err := sql.Open("postgres", cfg.Postgres.URL)
		if err != nil {
			in.close()
			return nil, fmt.Errorf("postgres: open audit db: %w", err)
		}
		in.db = db
	} else {
		log.WarnContext(ctx, "postgres not configured, using in-memory stores")
	}

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		in.close()
		return nil, err
	}
	in.redis = rc

	kc, err := kafka.NewClient(cfg.Kafka)
	if err != nil {
		in.close()
		return nil, err
	}
	if kc != nil {
		in.kafka = kc
		if err := kafka.EnsureTopics(ctx, kc, cfg.Kafka); err != nil {
			in.close()
			return nil, err
		}
	}
	return in, nil
}

func serve(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	in, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer in.close()

	var auditStore audit.Store = auditmemory.NewInMemoryStore()
	var staffStore staffservice.Store = staffstore.NewInMemory()
	if in.pool != nil {
		auditStore = auditpostgres.New(in.db)
		staffStore = staffstore.NewPostgres(in.pool)
	}
	pubOpts := []publisher.Option{publisher.WithLogger(log), publisher.WithAsyncBuffer(256)}
	if in.kafka != nil {
		pubOpts = append(pubOpts, publisher.WithSink(kafkasink.New(in.kafka, cfg.Kafka.AuditTopic)))
	}
	auditPublisher := publisher.NewPublisher(auditStore, pubOpts...)
	defer auditPublisher.Close()

	staff := staffservice.New(staffStore,
		staffservice.WithLogger(log),
		staffservice.WithAuditPublisher(auditPublisher),
		staffservice.WithMetrics(staffmetrics.New()),
	)

	var challengeStore challenge.Store = challenge.NewInMemoryStore()
	if in.redis != nil {
		challengeStore = challenge.NewRedisStore(in.redis.Client)
	}
	var sender challenge.Sender = challenge.NewLogSender(log)
	if in.kafka != nil {
		sender = challenge.NewKafkaSender(in.kafka, cfg.Kafka.NotificationTopic)
	}
	challenges := challenge.NewService(challengeStore, sender,
		challenge.WithTTL(cfg.Verification.ChallengeTTL),
		challenge.WithMaxAttempts(cfg.Verification.MaxAttempts),
		challenge.WithLogger(log),
		challenge.WithMetrics(challenge.NewMetrics()),
	)

	documents := providers.NewVerifier(
		documentProvider(cfg.Verification, providers.DocumentPAN),
		documentProvider(cfg.Verification, providers.DocumentAadhaar),
		providers.WithLogger(log),
		providers.WithMetrics(providers.NewMetrics()),
		providers.WithBreakerOptions(
			circuit.WithFailureThreshold(cfg.Verification.BreakerFailures),
			circuit.WithSuccessThreshold(cfg.Verification.BreakerSuccesses),
			circuit.WithCooldown(cfg.Verification.BreakerCooldown),
		),
	)

	directory := adapters.NewStaffDirectory(staff)
	wizards := onboarding.New(onboarding.Ports{
		Lookup:    directory,
		Directory: directory,
		Reader:    directory,
		Email:     adapters.NewEmailVerifier(challenges),
		Phone:     adapters.NewPhoneVerifier(challenges),
		Documents: documents,
	},
		onboarding.WithLogger(log),
		onboarding.WithMetrics(onboardingmetrics.New()),
		onboarding.WithAuditPublisher(auditPublisher),
		onboarding.WithIdleTTL(cfg.Onboarding.SessionTTL),
		onboarding.WithDebounceWindow(cfg.Onboarding.AvailabilityDebounce),
	)

	var limiterStore ratelimit.Store
	var memoryLimiter *ratelimitstore.InMemory
	if in.redis != nil {
		limiterStore = ratelimitstore.NewRedis(in.redis.Client)
	} else {
		memoryLimiter = ratelimitstore.NewInMemory()
		limiterStore = memoryLimiter
	}
	limiter := ratelimit.New(limiterStore, log,
		ratelimit.WithDisabled(!cfg.RateLimit.Enabled),
		ratelimit.WithMetrics(ratelimitmetrics.New()),
		ratelimit.WithLimit(ratelimitmodels.ClassChallenge, ratelimitmodels.Limit{
			Requests: cfg.RateLimit.ChallengeRequests, Window: cfg.RateLimit.ChallengeWindow,
		}),
		ratelimit.WithLimit(ratelimitmodels.ClassWrite, ratelimitmodels.Limit{
			Requests: cfg.RateLimit.WriteRequests, Window: cfg.RateLimit.WriteWindow,
		}),
	)

	jwtService := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
	router := httpapi.NewRouter(httpapi.Deps{
		Logger:         log,
		Metrics:        metrics.New(),
		Gatherer:       prometheus.DefaultGatherer,
		JWTValidator:   jwttoken.NewJWTServiceAdapter(jwtService),
		AllowedRoles:   cfg.Auth.AllowedRoles,
		RequestTimeout: cfg.Server.WriteTimeout,
		HealthChecks:   healthChecks(in, documents),
		Handlers: []httpapi.Registrar{
			staffhandler.New(staff, log),
			onboardinghandler.New(wizards, log,
				onboardinghandler.WithWriteLimit(limiter.RateLimit(ratelimitmodels.ClassWrite)),
				onboardinghandler.WithChallengeLimit(limiter.RateLimit(ratelimitmodels.ClassChallenge)),
			),
		},
	})
	srv := httpserver.New(cfg.Server, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.InfoContext(gctx, "starting orgdesk", "addr", cfg.Server.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		err := wizards.StartCleanup(gctx, cfg.Onboarding.SweepInterval)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	if memoryLimiter != nil {
		window := max(cfg.RateLimit.ChallengeWindow, cfg.RateLimit.WriteWindow)
		g.Go(func() error {
			err := memoryLimiter.StartSweep(gctx, cfg.Onboarding.SweepInterval, window)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.InfoContext(shutdownCtx, "shutting down")
		err := srv.Shutdown(shutdownCtx)
		wizards.Shutdown(shutdownCtx)
		return err
	})
	return g.Wait()
}

func documentProvider(cfg config.VerificationConfig, doc providers.DocumentType) providers.Provider {
	if cfg.DocumentBaseURL == "" {
		return providers.NewSandboxProvider(doc)
	}
	return providers.NewHTTPProvider(string(doc)+"-http", doc, cfg.DocumentBaseURL, cfg.DocumentAPIKey,
		cfg.DocumentTimeout, providers.WithMaxRetries(cfg.DocumentMaxRetries))
}

func healthChecks(in *infra, documents *providers.Verifier) []httpapi.HealthCheck {
	checks := []httpapi.HealthCheck{{Name: "document_providers", Check: documents.Health}}
	if in.pool != nil {
		checks = append(checks, httpapi.HealthCheck{Name: "postgres", Check: in.pool.Ping})
	}
	if in.redis != nil {
		checks = append(checks, httpapi.HealthCheck{Name: "redis", Check: in.redis.Health})
	}
	if in.kafka != nil {
		checks = append(checks, httpapi.HealthCheck{Name: "kafka", Check: in.kafka.Ping})
	}
	return checks
}
