package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"verigate/internal/gateways/billing"
	"verigate/internal/gateways/documents"
	"verigate/internal/gateways/events"
	"verigate/internal/gateways/notify"
	"verigate/internal/platform/config"
	platformredis "verigate/internal/platform/redis"
	"verigate/internal/store/memory"
	"verigate/internal/store/postgres"
	"verigate/internal/verification/resilience"
	"verigate/internal/verification/service"
	"verigate/pkg/attrs"
	"verigate/pkg/platform/circuit"
)

// infra holds the connections opened at startup. Optional backends stay
// nil when not configured and their consumers fall back.
type infra struct {
	db     *sql.DB
	redis  *platformredis.Client
	kafka  *events.KafkaPublisher
	store  service.Datastore
	logger *slog.Logger
}

func openInfra(ctx context.Context, cfg config.Config, logger *slog.Logger) (*infra, error) {
	in := &infra{logger: logger}

	if cfg.Database.URL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory store")
		in.store = memory.New()
	} else {
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		in.db = db
		store := postgres.New(db)
		if cfg.Database.Migrate {
			if err := store.Migrate(ctx); err != nil {
				in.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		in.store = store
	}

	rc, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		in.Close()
		return nil, err
	}
	in.redis = rc

	if len(cfg.Kafka.Brokers) > 0 {
		pub, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		if err != nil {
			in.Close()
			return nil, err
		}
		in.kafka = pub
		if err := pub.EnsureTopic(ctx, cfg.Kafka.Partitions, cfg.Kafka.ReplicationFactor); err != nil {
			logger.Warn("could not ensure kafka topic", "topic", pub.Topic(), attrs.Error, err)
		}
	}
	return in, nil
}

// documents returns the S3 store when a bucket is configured. Without one,
// evidence calls report unavailable rather than pretending to succeed.
func (in *infra) documents(ctx context.Context, cfg config.S3, logger *slog.Logger) documents.Store {
	if cfg.Bucket == "" {
		logger.Warn("S3_BUCKET not set, document storage unavailable")
		return documents.Unavailable{}
	}
	client, err := documents.NewS3Client(ctx, documents.S3Config{
		Bucket:          cfg.Bucket,
		Region:          cfg.Region,
		Endpoint:        cfg.Endpoint,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
	})
	if err != nil {
		logger.Error("s3 client unavailable", attrs.Error, err)
		return documents.Unavailable{}
	}
	var index documents.KeyIndex = documents.NewMemoryKeyIndex()
	if in.redis != nil {
		index = documents.NewRedisKeyIndex(in.redis.Client)
	} else {
		logger.Warn("REDIS_URL not set, document keys are kept in process memory")
	}
	return documents.NewS3Store(client, cfg.Bucket, index, documents.WithLogger(logger))
}

func (in *infra) publisher() events.Publisher {
	if in.kafka == nil {
		return events.Noop{}
	}
	return in.kafka
}

// ready pings the backing stores that were configured.
func (in *infra) ready(ctx context.Context) error {
	if in.db != nil {
		if err := in.db.PingContext(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if in.redis != nil {
		if err := in.redis.Health(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

func (in *infra) Close() {
	if in.kafka != nil {
		in.kafka.Close()
	}
	if in.redis != nil {
		if err := in.redis.Close(); err != nil {
			in.logger.Warn("closing redis", attrs.Error, err)
		}
	}
	if in.db != nil {
		if err := in.db.Close(); err != nil {
			in.logger.Warn("closing database", attrs.Error, err)
		}
	}
}

func newNotifier(cfg config.Config, exec *resilience.Executor, logger *slog.Logger) notify.Gateway {
	if cfg.SendGrid.APIKey == "" {
		return notify.Unavailable{}
	}
	sg := notify.NewSendGrid(notify.SendGridConfig{
		APIKey:      cfg.SendGrid.APIKey,
		FromEmail:   cfg.SendGrid.FromEmail,
		FromName:    cfg.SendGrid.FromName,
		ReplyTo:     cfg.SendGrid.ReplyTo,
		TemplateIDs: cfg.SendGrid.TemplateIDs,
	}, exec, logger)
	breaker := circuit.New("sendgrid",
		circuit.WithFailureThreshold(cfg.Notify.FailureThreshold),
		circuit.WithSuccessThreshold(cfg.Notify.SuccessThreshold),
		circuit.WithCooldown(cfg.Notify.Cooldown),
	)
	return notify.NewBreaker(sg, breaker, logger)
}

func newUsageMeter(cfg config.Razorpay, exec *resilience.Executor, logger *slog.Logger) billing.Gateway {
	if cfg.KeyID == "" {
		return billing.Unavailable{}
	}
	return billing.NewRazorpay(billing.RazorpayConfig{KeyID: cfg.KeyID, KeySecret: cfg.KeySecret}, exec, logger)
}
