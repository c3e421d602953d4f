// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/stratasite/internal/app/system/contentcache"
	"github.com/dalemusser/stratasite/internal/app/system/indexes"
	"github.com/dalemusser/stratasite/internal/app/system/mailer"
	"github.com/dalemusser/stratasite/internal/app/system/seeding"
	"github.com/dalemusser/stratasite/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// ConnectDB connects to MongoDB and, when configured, Redis.
//
// WAFFLE calls this after configuration is loaded but before EnsureSchema and
// Startup. The returned DBDeps are passed to every later hook.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	// Configure MongoDB connection pool
	poolCfg := wafflemongo.DefaultPoolConfig()
	if appCfg.MongoMaxPoolSize > 0 {
		poolCfg.MaxPoolSize = appCfg.MongoMaxPoolSize
	}
	if appCfg.MongoMinPoolSize > 0 {
		poolCfg.MinPoolSize = appCfg.MongoMinPoolSize
	}

	client, err := wafflemongo.ConnectWithPool(ctx, appCfg.MongoURI, appCfg.MongoDatabase, poolCfg)
	if err != nil {
		return DBDeps{}, err
	}

	db := client.Database(appCfg.MongoDatabase)

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", poolCfg.MaxPoolSize),
		zap.Uint64("min_pool_size", poolCfg.MinPoolSize),
	)

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: db,
		ContentCache:  contentcache.Nop{},
	}

	// Published-content cache
	if appCfg.RedisURL != "" {
		rdb, err := contentcache.Connect(ctx, appCfg.RedisURL)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return DBDeps{}, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		deps.Redis = rdb
		deps.ContentCache = contentcache.New(rdb, appCfg.ContentCacheTTL)
		logger.Info("connected to Redis content cache", zap.Duration("ttl", appCfg.ContentCacheTTL))
	} else {
		logger.Info("content cache disabled (no redis_url)")
	}

	// Initialize email mailer
	deps.Mailer = mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		User:     appCfg.MailSMTPUser,
		Pass:     appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	}, logger)
	logger.Info("initialized email mailer",
		zap.String("host", appCfg.MailSMTPHost),
		zap.Int("port", appCfg.MailSMTPPort),
	)

	return deps, nil
}

// EnsureSchema attaches collection validators, creates indexes and seeds the
// default pages.
//
// The context has a timeout based on coreCfg.IndexBootTimeout.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	// Validators run first so indexes are created on existing collections.
	logger.Info("ensuring collections and validators")
	if err := validators.EnsureAll(ctx, db); err != nil {
		logger.Error("failed to ensure validators", zap.Error(err))
		return err
	}

	logger.Info("ensuring database indexes")
	if err := indexes.EnsureAll(ctx, db); err != nil {
		logger.Error("failed to ensure indexes", zap.Error(err))
		return err
	}

	logger.Info("seeding default pages")
	if err := seeding.SeedAll(ctx, db, logger); err != nil {
		logger.Error("failed to seed default data", zap.Error(err))
		return err
	}

	logger.Info("database schema ensured successfully")
	return nil
}
