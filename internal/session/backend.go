package session

import (
	"context"
	"fmt"

	"github.com/fdg312/fitplan/internal/blob"
	"github.com/fdg312/fitplan/internal/config"
	"github.com/fdg312/fitplan/internal/dbmigrate"
	"github.com/fdg312/fitplan/internal/storage"
	"github.com/fdg312/fitplan/internal/storage/blobkv"
	"github.com/fdg312/fitplan/internal/storage/memory"
	"github.com/fdg312/fitplan/internal/storage/postgres"
	"github.com/fdg312/fitplan/internal/storage/redis"
	"github.com/fdg312/fitplan/internal/storage/sqlite"
)

// openBackends opens the key-value backend selected by KV_MODE and the blob
// store used for report publishing. The blob store is nil in local mode.
func openBackends(ctx context.Context, cfg *config.Config, logger Logger) (storage.KV, blob.Store, error) {
	blobStore, blobMode, err := blob.NewBlobStore(ctx, cfg.Blob, logger)
	if err != nil {
		return nil, nil, err
	}

	switch cfg.KVMode {
	case config.KVModePostgres:
		if cfg.RunMigrationsOnStartup {
			dbURL, source, warning, err := dbmigrate.SelectDatabaseURL(cfg, false)
			if err != nil {
				return nil, nil, fmt.Errorf("startup migrations: %w", err)
			}
			if warning != "" {
				logf(logger, "WARN migrations: %s", warning)
			}
			logf(logger, "INFO migrations: command=up using=%s", source)
			if err := dbmigrate.Run(ctx, "up", dbURL, ""); err != nil {
				return nil, nil, fmt.Errorf("startup migrations failed: %w", err)
			}
		}
		kv, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		logf(logger, "INFO storage: kv=postgres")
		return kv, blobStore, nil

	case config.KVModeRedis:
		kv, err := redis.New(ctx, redis.Options{
			URL:      cfg.Redis.URL,
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, nil, err
		}
		logf(logger, "INFO storage: kv=redis prefix=%s", cfg.Redis.Prefix)
		return kv, blobStore, nil

	case config.KVModeSQLite:
		kv, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logf(logger, "INFO storage: kv=sqlite path=%s", cfg.SQLitePath)
		return kv, blobStore, nil

	case config.KVModeS3:
		if blobStore == nil {
			return nil, nil, fmt.Errorf("KV_MODE=s3 requires an S3 blob store (blob mode=%s)", blobMode)
		}
		logf(logger, "INFO storage: kv=s3 prefix=%s", cfg.KVS3Prefix)
		return blobkv.New(blobStore, cfg.KVS3Prefix), blobStore, nil

	default:
		logf(logger, "INFO storage: kv=memory")
		return memory.New(), blobStore, nil
	}
}

func logf(logger Logger, format string, v ...any) {
	if logger == nil {
		return
	}
	logger.Printf(format, v...)
}
