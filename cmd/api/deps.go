package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/medibook-api/internal/config"
	"github.com/jwalitptl/medibook-api/internal/email"
	"github.com/jwalitptl/medibook-api/internal/repository"
	"github.com/jwalitptl/medibook-api/internal/repository/memory"
	"github.com/jwalitptl/medibook-api/internal/repository/mongodb"
	"github.com/jwalitptl/medibook-api/internal/repository/postgres"
	"github.com/jwalitptl/medibook-api/pkg/logger"
	"github.com/jwalitptl/medibook-api/pkg/messaging"
	"github.com/jwalitptl/medibook-api/pkg/messaging/redis"
)

const devJWTSecret = "medibook-development-secret"

// memoryBrokerBuffer bounds each SSE subscriber queue.
const memoryBrokerBuffer = 32

func loadConfig(path string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), err
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	}).With().Str("service", cfg.App.Name).Logger()

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("jwt secret not set, using the development secret")
		cfg.JWT.Secret = devJWTSecret
	}
	return cfg, log, nil
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repository.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		client, err := mongodb.Connect(ctx, mongoConfig(cfg))
		if err != nil {
			return nil, err
		}
		if err := mongodb.EnsureIndexes(ctx, client.Database(cfg.Database.Mongo.Database)); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Database.Mongo.Database).Msg("connected to mongo")
		return mongodb.NewStore(client, cfg.Database.Mongo.Database), nil

	case config.DriverPostgres:
		db, err := postgres.NewDB(postgresConfig(cfg))
		if err != nil {
			return nil, err
		}
		log.Info().Str("database", cfg.Database.Postgres.Name).Msg("connected to postgres")
		return postgres.NewStore(db), nil

	case config.DriverMemory:
		log.Warn().Msg("using the in-memory store, data is lost on restart")
		return memory.NewStore(), nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
}

func mongoConfig(cfg *config.Config) mongodb.Config {
	return mongodb.Config{
		URI:            cfg.Database.Mongo.URI,
		Database:       cfg.Database.Mongo.Database,
		ConnectTimeout: cfg.Database.Mongo.ConnectTimeout,
	}
}

func postgresConfig(cfg *config.Config) postgres.Config {
	pg := cfg.Database.Postgres
	return postgres.Config{
		Host:            pg.Host,
		Port:            pg.Port,
		User:            pg.User,
		Password:        pg.Password,
		Name:            pg.Name,
		SSLMode:         pg.SSLMode,
		MaxOpenConns:    pg.MaxOpenConns,
		MaxIdleConns:    pg.MaxIdleConns,
		ConnMaxLifetime: pg.ConnMaxLifetime,
	}
}

// openBroker uses Redis when a URL is configured so several API instances share
// the live relay.
func openBroker(cfg *config.Config, log zerolog.Logger) (messaging.Broker, error) {
	if cfg.Redis.URL == "" {
		return messaging.NewMemoryBroker(memoryBrokerBuffer), nil
	}
	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, log)
	if err != nil {
		return nil, err
	}
	log.Info().Msg("connected to redis")
	return broker, nil
}

func newMailer(cfg *config.Config, log zerolog.Logger) email.Mailer {
	if !cfg.SMTP.Enabled() {
		log.Warn().Msg("smtp host not set, notification emails are disabled")
		return email.Disabled{}
	}
	return email.NewSMTPMailer(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		FromName: cfg.SMTP.FromName,
	}, log)
}
