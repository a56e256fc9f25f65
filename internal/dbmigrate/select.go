package dbmigrate

import (
	"fmt"

	"github.com/fdg312/fitplan/internal/config"
)

// SelectDatabaseURL picks the URL used for DDL on kv_items.
// Priority: DIRECT > DATABASE_URL > POOLED (the last one with a warning).
// With requireDirect only DATABASE_URL_DIRECT is accepted.
func SelectDatabaseURL(cfg *config.Config, requireDirect bool) (dbURL string, source string, warning string, err error) {
	switch {
	case cfg.DatabaseURLDirect != "":
		return cfg.DatabaseURLDirect, "DATABASE_URL_DIRECT", "", nil
	case requireDirect:
		return "", "", "", fmt.Errorf("DATABASE_URL_DIRECT is required for DDL/migrations")
	case cfg.DatabaseURLRaw != "":
		return cfg.DatabaseURLRaw, "DATABASE_URL", "", nil
	case cfg.DatabaseURLPooled != "":
		return cfg.DatabaseURLPooled, "DATABASE_URL_POOLED", "running DDL through a pooled connection; set DATABASE_URL_DIRECT", nil
	}

	return "", "", "", fmt.Errorf("no database URL configured (set DATABASE_URL_DIRECT or DATABASE_URL)")
}
