package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ignite/audience-subscribe/internal/api"
	"github.com/ignite/audience-subscribe/internal/config"
	"github.com/ignite/audience-subscribe/internal/emailcheck"
	"github.com/ignite/audience-subscribe/internal/events"
	"github.com/ignite/audience-subscribe/internal/mailchimp"
	"github.com/ignite/audience-subscribe/internal/pkg/httpclient"
	"github.com/ignite/audience-subscribe/internal/pkg/logger"
	"github.com/ignite/audience-subscribe/internal/pkg/ratelimit"
	"github.com/ignite/audience-subscribe/internal/repository/postgres"
	"github.com/ignite/audience-subscribe/internal/service/subscription"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		logger.Default().WithError(err).Fatal("Failed to load config")
	}

	log := logger.New(logger.Options{Level: cfg.Log.Level, RedactPII: cfg.Log.RedactPIIEnabled()})
	logger.SetDefault(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Mailchimp.APIKey == "" {
		log.Warn("MAILCHIMP_API_KEY not set, every operation will answer missing credentials")
	}

	validator := emailcheck.NewValidator(newResolver(cfg.DNS, log), log)

	mc := mailchimp.NewClient(cfg.Mailchimp)
	mc.SetHTTPClient(httpclient.NewLoggingClient(httpclient.New(cfg.Mailchimp.Timeout()), log))

	db := openEventDB(ctx, cfg.Database.URL, log)
	if db != nil {
		defer db.Close()
	}

	var sinks []events.Sink
	if db != nil {
		sinks = append(sinks, postgres.NewEventRepo(db))
	}
	if cfg.Events.SQSQueueURL != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Events.Region))
		if err != nil {
			log.WithError(err).Warn("AWS config for event publisher failed, SQS events disabled")
		} else {
			sinks = append(sinks, events.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.Events.SQSQueueURL))
			log.WithField("queue", cfg.Events.SQSQueueURL).Info("SQS event publisher enabled")
		}
	}

	opts := []subscription.Option{subscription.WithLogger(log)}
	if fanout := events.NewFanout(log, sinks...); fanout.Len() > 0 {
		opts = append(opts, subscription.WithEventSink(fanout))
	}

	svc := subscription.NewService(mc, validator, subscription.Settings{
		APIKey:       cfg.Mailchimp.APIKey,
		AudienceID:   cfg.Mailchimp.AudienceID,
		LegacyListID: cfg.Mailchimp.ListID,
		DoubleOptIn:  cfg.Mailchimp.DoubleOptInEnabled(),
	}, opts...)

	pages, err := api.NewPages(cfg.Server.TemplatesDir)
	if err != nil {
		log.WithError(err).Fatal("Failed to load result template")
	}

	handlers := api.NewHandlers(svc, pages, log)
	handlers.SetMetrics(api.NewMetrics(prometheus.DefaultRegisterer))

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		limiter, err := ratelimit.NewLimiterFromURL(cfg.Redis.URL, "audience:ratelimit:", cfg.RateLimit.RequestsPerMinute, time.Minute)
		if err != nil {
			log.WithError(err).Warn("Redis connection failed, rate limiting disabled")
		} else {
			defer limiter.Close()
			handlers.SetRateLimiter(limiter)
			redisClient = limiter.Client()
			log.WithField("requests_per_minute", limiter.Limit()).Info("Rate limiting enabled")
		}
	}

	router := api.SetupRoutes(handlers, api.RouteOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Gatherer:       prometheus.DefaultGatherer,
		Health:         api.NewHealthChecker(db, redisClient),
		TrustProxy:     cfg.Server.TrustProxy,
	})
	server := api.NewServer(cfg.Server, router)

	// Setup graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := server.Addr()
		log.WithField("addr", addr).Info("Starting server")
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server error")
		}
	}()

	<-done
	log.Info("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown error")
	}
	log.Info("Server stopped")
}

func newResolver(cfg config.DNSConfig, log logrus.FieldLogger) emailcheck.Resolver {
	if cfg.Nameserver != "" {
		log.WithField("nameserver", cfg.Nameserver).Info("Email domains resolved against configured nameserver")
		return emailcheck.NewNameserverResolver(cfg.Nameserver, cfg.Timeout(), log)
	}
	return emailcheck.NewSystemResolver(cfg.Timeout())
}

// openEventDB connects to the event log database. Failures disable the
// Postgres sink rather than stopping the server.
func openEventDB(ctx context.Context, url string, log logrus.FieldLogger) *sql.DB {
	if url == "" {
		log.Info("DATABASE_URL not set, Postgres event log disabled")
		return nil
	}

	db, err := sql.Open("postgres", url)
	if err != nil {
		log.WithError(err).Warn("Failed to open event database")
		return nil
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.WithError(err).Warn("Event database ping failed, Postgres event log disabled")
		_ = db.Close()
		return nil
	}

	log.Info("Postgres event log enabled")
	return db
}
