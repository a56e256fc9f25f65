// Package dayplans keeps the selected-date cursor and the meal plan stored
// for each calendar date.
package dayplans

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fdg312/fitplan/internal/dates"
	"github.com/fdg312/fitplan/internal/mealplans"
	"github.com/fdg312/fitplan/internal/storage"
)

var ErrInvalidDate = errors.New("invalid date")

type Logger interface {
	Printf(format string, v ...any)
}

// Service holds the cursor and the plan displayed for it. One plan per date;
// a new plan for a date replaces the stored one.
type Service struct {
	store  *storage.Provider
	logger Logger

	mu       sync.RWMutex
	selected string
	current  *mealplans.DailyMealPlan
}

// NewService starts with the cursor on today's date (per now).
func NewService(store *storage.Provider, logger Logger, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, logger: logger, selected: dates.Today(now())}
}

// Load restores the stored cursor (if any) and the plan for it.
func (s *Service) Load(ctx context.Context) {
	if stored, found := s.store.GetItem(ctx, storage.KeySelectedDate); found {
		stored = strings.TrimSpace(stored)
		if _, err := dates.Parse(stored); err == nil {
			s.mu.Lock()
			s.selected = stored
			s.mu.Unlock()
		} else {
			s.logf("WARN dayplans: ignoring stored selectedDate=%q", stored)
		}
	}
	s.loadPlan(ctx, s.SelectedDate())
}

func (s *Service) SelectedDate() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// CurrentPlan returns a copy of the plan for the selected date, or nil.
func (s *Service) CurrentPlan() *mealplans.DailyMealPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	plan := *s.current
	plan.Meals = append([]mealplans.Meal(nil), s.current.Meals...)
	return &plan
}

// SetSelectedDate moves the cursor, persists it and loads the plan stored
// for the new date. It returns that plan (nil when there is none).
func (s *Service) SetSelectedDate(ctx context.Context, date string) (*mealplans.DailyMealPlan, error) {
	if _, err := dates.Parse(date); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	s.mu.Lock()
	s.selected = date
	s.mu.Unlock()

	s.store.SetItem(ctx, storage.KeySelectedDate, date)
	s.loadPlan(ctx, date)
	return s.CurrentPlan(), nil
}

// NavigateDay shifts the cursor by offset calendar days.
func (s *Service) NavigateDay(ctx context.Context, offset int) (*mealplans.DailyMealPlan, error) {
	next, err := dates.Shift(s.SelectedDate(), offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return s.SetSelectedDate(ctx, next)
}

// SetCurrentMealPlan stamps plan with the selected date, stores it under that
// date and makes it current. A nil plan only clears the in-memory plan.
func (s *Service) SetCurrentMealPlan(ctx context.Context, plan *mealplans.DailyMealPlan) {
	if plan == nil {
		s.ClearCurrent()
		return
	}

	s.mu.Lock()
	dated := *plan
	dated.Meals = append([]mealplans.Meal(nil), plan.Meals...)
	dated.Date = s.selected
	s.current = &dated
	date := s.selected
	s.mu.Unlock()

	if s.store.SetJSON(ctx, storage.MealPlanKey(date), dated) {
		s.store.SetItem(ctx, storage.KeySelectedDate, date)
		s.logf("INFO dayplans: stored plan date=%s meals=%d", date, len(dated.Meals))
	}
}

// PlanForDate reads the stored plan for any date without moving the cursor.
func (s *Service) PlanForDate(ctx context.Context, date string) (*mealplans.DailyMealPlan, bool) {
	var plan mealplans.DailyMealPlan
	if !s.store.GetJSON(ctx, storage.MealPlanKey(date), &plan) || plan.Meals == nil {
		return nil, false
	}
	return &plan, true
}

// ClearCurrent drops the displayed plan; stored plans stay.
func (s *Service) ClearCurrent() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

func (s *Service) loadPlan(ctx context.Context, date string) {
	plan, found := s.PlanForDate(ctx, date)
	if found {
		s.logf("INFO dayplans: loaded plan date=%s meals=%d", date, len(plan.Meals))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// курсор мог сдвинуться, пока шло чтение
	if s.selected != date {
		return
	}
	s.current = plan
}

func (s *Service) logf(format string, v ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Printf(format, v...)
}
