package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"authify/backend/internal/account/repository"
	auditrepo "authify/backend/internal/audit/repository"
	"authify/backend/internal/config"
	"authify/backend/internal/db"
	"authify/backend/internal/devotp"
	healthhandler "authify/backend/internal/health/handler"
	"authify/backend/internal/notify"
	"authify/backend/internal/ratelimit"
	"authify/backend/internal/telemetry"
	otelsetup "authify/backend/internal/telemetry/otel"
	"authify/backend/internal/telemetry/producer"
)

// dependencies are the infrastructure clients selected by configuration.
type dependencies struct {
	accounts  repository.Repository
	auditRepo auditrepo.Repository
	notifier  notify.Notifier
	devStore  *devotp.MemoryStore
	limiter   ratelimit.Limiter
	emitter   telemetry.EventEmitter
	pingers   map[string]healthhandler.Pinger
	closers   []func(context.Context) error
}

func (d *dependencies) close() {
	ctx := context.Background()
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](ctx); err != nil {
			slog.Warn("shutdown: close failed", "error", err)
		}
	}
}

func newDependencies(ctx context.Context, cfg *config.Config, log *slog.Logger) (*dependencies, error) {
	d := &dependencies{pingers: map[string]healthhandler.Pinger{}}
	steps := []func(context.Context, *config.Config, *slog.Logger) error{
		d.openStore,
		d.openNotifier,
		d.openLimiter,
		d.openTelemetry,
	}
	for _, step := range steps {
		if err := step(ctx, cfg, log); err != nil {
			d.close()
			return nil, err
		}
	}
	return d, nil
}

func (d *dependencies) openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	d.auditRepo = auditrepo.NewMemoryRepository()
	switch cfg.StoreDriver {
	case config.StorePostgres:
		sqlDB, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		d.closers = append(d.closers, func(context.Context) error { return sqlDB.Close() })
		d.accounts = repository.NewPostgresRepository(sqlDB)
		d.auditRepo = auditrepo.NewPostgresRepository(sqlDB)
		d.pingers["postgres"] = sqlDB
	case config.StoreMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return fmt.Errorf("mongo: %w", err)
		}
		d.closers = append(d.closers, client.Disconnect)
		if err := client.Ping(ctx, nil); err != nil {
			return fmt.Errorf("mongo ping: %w", err)
		}
		repo := repository.NewMongoRepository(client.Database(cfg.MongoDatabase))
		if err := repo.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("mongo indexes: %w", err)
		}
		d.accounts = repo
		d.pingers["mongo"] = healthhandler.PingerFunc(func(ctx context.Context) error { return client.Ping(ctx, nil) })
	default:
		log.Warn("using in-memory account store; data is lost on restart")
		d.accounts = repository.NewMemoryRepository()
	}
	return nil
}

func (d *dependencies) openNotifier(_ context.Context, cfg *config.Config, log *slog.Logger) error {
	if cfg.OTPReturnToClient {
		if cfg.IsProduction() {
			return errors.New("dev OTP mode is not allowed in production")
		}
		d.devStore = devotp.NewMemoryStore()
		d.notifier = notify.NewDevNotifier(log, d.devStore)
		return nil
	}
	n, err := notify.NewSMTPNotifier(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
		FromName: cfg.MailFromName,
	}, log)
	if err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	d.notifier = n
	return nil
}

func (d *dependencies) openLimiter(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	if cfg.OTPRateLimit == 0 {
		d.limiter = ratelimit.Noop{}
		return nil
	}
	policy := ratelimit.Policy{Limit: cfg.OTPRateLimit, Window: cfg.OTPRateWindow}
	if cfg.RedisURL == "" {
		d.limiter = ratelimit.NewMemoryLimiter(policy)
		return nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis url: %w", err)
	}
	client := redis.NewClient(opts)
	d.closers = append(d.closers, func(context.Context) error { return client.Close() })
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable at startup; rate limiter fails open until it recovers", "error", err)
	}
	d.limiter = ratelimit.NewRedisLimiter(client, "authify:rl:", policy)
	d.pingers["redis"] = healthhandler.PingerFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() })
	return nil
}

func (d *dependencies) openTelemetry(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	providers, err := otelsetup.NewProviders(ctx, otelsetup.Config{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: "authify",
		Insecure:    cfg.OTLPInsecure,
	})
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	providers.SetGlobal()
	d.closers = append(d.closers, providers.Shutdown)

	emitters := []telemetry.EventEmitter{otelsetup.NewEventEmitter(providers.LoggerProvider)}
	if brokers := cfg.TelemetryKafkaBrokersList(); len(brokers) > 0 {
		p := producer.NewKafkaProducer(brokers, cfg.TelemetryKafkaTopic)
		d.closers = append(d.closers, func(context.Context) error { return p.Close() })
		emitters = append(emitters, p)
		log.Info("publishing account events to kafka", "topic", cfg.TelemetryKafkaTopic)
	}
	d.emitter = telemetry.Multi(emitters...)
	return nil
}
