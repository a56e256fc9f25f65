package ai

import (
	"strings"

	"github.com/fdg312/fitplan/internal/config"
)

const (
	ModeMock   = config.AIModeMock
	ModeOpenAI = config.AIModeOpenAI
)

type Logger interface {
	Printf(format string, v ...any)
}

// NewProvider builds the provider selected by AI_MODE and wraps it with the
// client-side rate limit when AI_RATE_LIMIT_RPS > 0.
func NewProvider(cfg *config.Config, logger Logger) Provider {
	mode := strings.ToLower(strings.TrimSpace(cfg.AIMode))
	if mode == "" {
		mode = ModeMock
	}

	var p Provider
	switch mode {
	case ModeOpenAI:
		p = NewOpenAIProvider(cfg)
	default:
		mode = ModeMock
		p = NewMockProvider()
	}

	if logger != nil {
		logger.Printf("INFO ai: provider=%s timeout=%ds rate_limit_rps=%.2f", mode, cfg.AITimeoutSeconds, cfg.AIRateLimitRPS)
	}

	return NewRateLimited(p, cfg.AIRateLimitRPS, cfg.AIRateLimitBurst)
}
