package blob

import (
	"context"
	"fmt"
	"strings"

	appcfg "github.com/fdg312/fitplan/internal/config"
)

type Logger interface {
	Printf(format string, v ...any)
}

// NewBlobStore builds a blob store using mode local|s3|auto. Local mode
// returns a nil store: reports are then only returned in memory.
func NewBlobStore(ctx context.Context, cfg appcfg.BlobConfig, logger Logger) (Store, string, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = appcfg.BlobModeLocal
	}

	switch mode {
	case appcfg.BlobModeLocal:
		logf(logger, "INFO blob: mode=local (forced)")
		return nil, appcfg.BlobModeLocal, nil

	case appcfg.BlobModeAuto:
		if !cfg.S3.IsConfigured() {
			level, code, msg := cfg.S3.Diagnostics()
			logf(logger, "%s blob.s3: code=%s %s", level, code, msg)
			logf(logger, "INFO blob.s3: %s", cfg.S3.DiagnosticsSummary())
			logf(logger, "INFO blob: mode=local (auto, S3 not configured)")
			return nil, appcfg.BlobModeLocal, nil
		}

		logf(logger, "INFO blob.s3: code=s3_ready %s", cfg.S3.DiagnosticsSummary())
		store, err := newS3FromConfig(ctx, cfg.S3)
		if err != nil {
			logf(logger, "WARN blob.s3: init_failed=%q, fallback=local", err.Error())
			return nil, appcfg.BlobModeLocal, nil
		}

		logf(logger, "INFO blob: mode=s3 (auto, configured)")
		return store, appcfg.BlobModeS3, nil

	case appcfg.BlobModeS3:
		if !cfg.S3.IsConfigured() {
			missing := cfg.S3.MissingRequired()
			logf(logger, "FATAL blob.s3: code=s3_config_incomplete missing=%v", missing)
			logf(logger, "FATAL blob.s3: %s", cfg.S3.DiagnosticsSummary())
			return nil, "", fmt.Errorf("BLOB_MODE=s3 requested but missing required config: %s", strings.Join(missing, ", "))
		}

		logf(logger, "INFO blob.s3: code=s3_ready %s", cfg.S3.DiagnosticsSummary())
		store, err := newS3FromConfig(ctx, cfg.S3)
		if err != nil {
			logf(logger, "FATAL blob.s3: init_failed=%v", err)
			return nil, "", fmt.Errorf("BLOB_MODE=s3 init failed: %w", err)
		}

		logf(logger, "INFO blob: mode=s3 (forced)")
		return store, appcfg.BlobModeS3, nil

	default:
		return nil, "", fmt.Errorf("unsupported blob mode: %s", mode)
	}
}

func newS3FromConfig(ctx context.Context, c appcfg.S3Config) (*S3Store, error) {
	return NewS3Store(ctx, c.Endpoint, c.Region, c.Bucket, c.AccessKeyID, c.SecretAccessKey)
}

func logf(logger Logger, format string, v ...any) {
	if logger == nil {
		return
	}
	logger.Printf(format, v...)
}
