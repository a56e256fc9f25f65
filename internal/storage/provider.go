package storage

import (
	"context"
	"encoding/json"
	"errors"
)

type Logger interface {
	Printf(format string, v ...any)
}

// Provider is the boundary the services talk to. Read failures are logged
// and reported as "no data"; write failures are logged and reported as
// false so callers keep their in-memory state.
type Provider struct {
	kv     KV
	logger Logger
}

func NewProvider(kv KV, logger Logger) *Provider {
	return &Provider{kv: kv, logger: logger}
}

// GetItem returns the raw value, or found=false on a missing key or error.
func (p *Provider) GetItem(ctx context.Context, key string) (string, bool) {
	value, found, err := p.kv.GetItem(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			p.logf("WARN storage: get key=%s failed: %v", key, err)
		}
		return "", false
	}
	return value, found
}

func (p *Provider) SetItem(ctx context.Context, key, value string) bool {
	if err := p.kv.SetItem(ctx, key, value); err != nil {
		p.logf("WARN storage: set key=%s failed: %v", key, err)
		return false
	}
	return true
}

func (p *Provider) RemoveItem(ctx context.Context, key string) bool {
	if err := p.kv.RemoveItem(ctx, key); err != nil {
		p.logf("WARN storage: remove key=%s failed: %v", key, err)
		return false
	}
	return true
}

// GetJSON decodes the stored value into v. A corrupt value is logged and
// treated like a missing one.
func (p *Provider) GetJSON(ctx context.Context, key string, v any) bool {
	raw, found := p.GetItem(ctx, key)
	if !found || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		p.logf("WARN storage: decode key=%s failed: %v", key, err)
		return false
	}
	return true
}

func (p *Provider) SetJSON(ctx context.Context, key string, v any) bool {
	raw, err := json.Marshal(v)
	if err != nil {
		p.logf("WARN storage: encode key=%s failed: %v", key, err)
		return false
	}
	return p.SetItem(ctx, key, string(raw))
}

func (p *Provider) Close() error {
	return p.kv.Close()
}

func (p *Provider) logf(format string, v ...any) {
	if p.logger == nil {
		return
	}
	p.logger.Printf(format, v...)
}
