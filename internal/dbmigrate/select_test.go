package dbmigrate

import (
	"context"
	"testing"

	"github.com/fdg312/fitplan/internal/config"
)

func TestSelectDatabaseURL(t *testing.T) {
	tests := []struct {
		name          string
		cfg           config.Config
		requireDirect bool
		wantURL       string
		wantSource    string
		wantWarning   bool
		wantErr       bool
	}{
		{
			name: "direct wins",
			cfg: config.Config{
				DatabaseURLDirect: "postgres://direct",
				DatabaseURLRaw:    "postgres://url",
				DatabaseURLPooled: "postgres://pooled",
			},
			wantURL:    "postgres://direct",
			wantSource: "DATABASE_URL_DIRECT",
		},
		{
			name:       "falls back to DATABASE_URL",
			cfg:        config.Config{DatabaseURLRaw: "postgres://url", DatabaseURLPooled: "postgres://pooled"},
			wantURL:    "postgres://url",
			wantSource: "DATABASE_URL",
		},
		{
			name:        "pooled with warning",
			cfg:         config.Config{DatabaseURLPooled: "postgres://pooled"},
			wantURL:     "postgres://pooled",
			wantSource:  "DATABASE_URL_POOLED",
			wantWarning: true,
		},
		{
			name:          "require direct",
			cfg:           config.Config{DatabaseURLRaw: "postgres://url"},
			requireDirect: true,
			wantErr:       true,
		},
		{
			name:    "nothing configured",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			dbURL, source, warning, err := SelectDatabaseURL(&cfg, tt.requireDirect)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if dbURL != tt.wantURL || source != tt.wantSource {
				t.Fatalf("got dbURL=%q source=%q, want %q %q", dbURL, source, tt.wantURL, tt.wantSource)
			}
			if (warning != "") != tt.wantWarning {
				t.Fatalf("unexpected warning state: %q", warning)
			}
		})
	}
}

func TestRunRejectsEmptyURL(t *testing.T) {
	if err := Run(context.Background(), "up", "", ""); err == nil {
		t.Fatal("expected error for empty database URL")
	}
}
