// Package profiles owns the user profile and the daily targets derived
// from it, including manual target edits.
package profiles

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fdg312/fitplan/internal/i18n"
	"github.com/fdg312/fitplan/internal/nutrition"
	"github.com/fdg312/fitplan/internal/storage"
)

var (
	ErrInvalidProfile = errors.New("profile rejected")
	ErrInvalidTargets = errors.New("invalid targets")
	ErrNoProfile      = errors.New("no profile")
)

type Logger interface {
	Printf(format string, v ...any)
}

// PlanClearer drops the currently displayed meal plan.
type PlanClearer interface {
	ClearCurrent()
}

// Service holds the profile and the effective targets. Targets are derived
// on every profile change; a manual edit overrides them until the next
// profile change.
type Service struct {
	store   *storage.Provider
	plans   PlanClearer
	printer *i18n.Printer
	logger  Logger

	mu      sync.RWMutex
	profile *nutrition.UserProfile
	targets *nutrition.Targets
}

func NewService(store *storage.Provider, plans PlanClearer, printer *i18n.Printer, logger Logger) *Service {
	return &Service{store: store, plans: plans, printer: printer, logger: logger}
}

// Load restores the stored profile, derives its targets and applies a stored
// manual override on top.
func (s *Service) Load(ctx context.Context) {
	var profile nutrition.UserProfile
	if !s.store.GetJSON(ctx, storage.KeyUserProfile, &profile) {
		return
	}

	targets, err := nutrition.ComputeTargets(profile)
	if err != nil {
		s.logf("WARN profiles: stored profile unusable: %v", err)
		return
	}

	var override nutrition.Targets
	if s.store.GetJSON(ctx, storage.KeyNutritionTargets, &override) {
		targets = override
	}

	s.mu.Lock()
	s.profile = &profile
	s.targets = &targets
	s.mu.Unlock()

	s.logf("INFO profiles: loaded profile goal=%s calories=%d", profile.Goal, targets.Calories)
}

// Profile returns a copy of the current profile, or nil.
func (s *Service) Profile() *nutrition.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

// Targets returns the effective targets.
func (s *Service) Targets() (nutrition.Targets, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.targets == nil {
		return nutrition.Targets{}, false
	}
	return *s.targets, true
}

// SaveProfile validates p, derives targets and replaces the profile. Any
// manual override is dropped.
func (s *Service) SaveProfile(ctx context.Context, p nutrition.UserProfile) (nutrition.Targets, error) {
	if err := p.Validate(); err != nil {
		return nutrition.Targets{}, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	targets, err := nutrition.ComputeTargets(p)
	if err != nil {
		return nutrition.Targets{}, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}

	s.mu.Lock()
	s.profile = &p
	s.targets = &targets
	s.mu.Unlock()

	if s.store.SetJSON(ctx, storage.KeyUserProfile, p) {
		s.store.RemoveItem(ctx, storage.KeyNutritionTargets)
	}
	s.logf("INFO profiles: saved profile goal=%s calories=%d protein=%d carbs=%d fat=%d",
		p.Goal, targets.Calories, targets.Protein, targets.Carbs, targets.Fat)
	return targets, nil
}

// UpdateTargets applies a manual edit when its macros agree with its
// calories. Otherwise nothing changes and the result carries the advisory
// message and a corrected record the caller may offer instead.
func (s *Service) UpdateTargets(ctx context.Context, t nutrition.Targets) (nutrition.ValidationResult, error) {
	if t.Calories <= 0 || t.Protein < 0 || t.Carbs < 0 || t.Fat < 0 || t.Fiber < 0 {
		return nutrition.ValidationResult{}, fmt.Errorf("%w: calories must be positive and macros non-negative", ErrInvalidTargets)
	}

	s.mu.RLock()
	hasProfile := s.profile != nil
	s.mu.RUnlock()
	if !hasProfile {
		return nutrition.ValidationResult{}, ErrNoProfile
	}

	res := nutrition.Validate(t, s.printer)
	if !res.Valid {
		s.logf("INFO profiles: targets edit rejected calories=%d macro_calories=%d", t.Calories, t.MacroCalories())
		return res, nil
	}

	s.mu.Lock()
	s.targets = &t
	s.mu.Unlock()

	s.store.SetJSON(ctx, storage.KeyNutritionTargets, t)
	s.logf("INFO profiles: targets updated calories=%d", t.Calories)
	return res, nil
}

// DeleteProfile forgets the profile, its targets and the displayed plan.
// Plans stored per date are kept.
func (s *Service) DeleteProfile(ctx context.Context) {
	s.mu.Lock()
	s.profile = nil
	s.targets = nil
	s.mu.Unlock()

	s.store.RemoveItem(ctx, storage.KeyUserProfile)
	s.store.RemoveItem(ctx, storage.KeyNutritionTargets)
	if s.plans != nil {
		s.plans.ClearCurrent()
	}
	s.logf("INFO profiles: profile deleted")
}

func (s *Service) logf(format string, v ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Printf(format, v...)
}
