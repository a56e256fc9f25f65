// Package session builds the service graph once per app session and
// orchestrates the operations that span several services.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fdg312/fitplan/internal/ai"
	"github.com/fdg312/fitplan/internal/blob"
	"github.com/fdg312/fitplan/internal/calories"
	"github.com/fdg312/fitplan/internal/config"
	"github.com/fdg312/fitplan/internal/dayplans"
	"github.com/fdg312/fitplan/internal/i18n"
	"github.com/fdg312/fitplan/internal/mealplans"
	"github.com/fdg312/fitplan/internal/meallog"
	"github.com/fdg312/fitplan/internal/nutrition"
	"github.com/fdg312/fitplan/internal/profiles"
	"github.com/fdg312/fitplan/internal/reports"
	"github.com/fdg312/fitplan/internal/storage"
	"github.com/fdg312/fitplan/internal/workouts"
)

var (
	ErrNoCurrentPlan = errors.New("no meal plan for the selected date")
	ErrMealNotFound  = errors.New("meal not found in the current plan")
	// ErrDateChanged is returned when the selected date moved while a plan
	// was being generated; the result is dropped.
	ErrDateChanged = errors.New("selected date changed during generation")
)

type Logger interface {
	Printf(format string, v ...any)
}

// Deps are the already opened collaborators of a session.
type Deps struct {
	KV           storage.KV
	AI           ai.Provider
	Blob         blob.Store // nil keeps reports in memory
	Printer      *i18n.Printer
	Logger       Logger
	Now          func() time.Time
	MaxRangeDays int
	PresignTTL   int
}

// Session owns the services. Screens use the services directly for plain
// reads and the methods below for operations that span services.
type Session struct {
	Profiles *profiles.Service
	Days     *dayplans.Service
	MealLogs *meallog.Service
	Workouts *workouts.Service
	Calories *calories.Service
	Reports  *reports.Service

	store      *storage.Provider
	meals      *mealplans.Generator
	workoutGen *workouts.Generator
	printer    *i18n.Printer
	logger     Logger

	mu    sync.Mutex
	draft calories.Draft
}

// New opens the configured backends and builds the session.
func New(ctx context.Context, cfg *config.Config, logger Logger) (*Session, error) {
	kv, blobStore, err := openBackends(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	presignTTL := 0
	if blobStore != nil {
		presignTTL = cfg.Blob.S3.PresignTTLSeconds
	}

	return NewWithDeps(Deps{
		KV:           kv,
		AI:           ai.NewProvider(cfg, logger),
		Blob:         blobStore,
		Printer:      i18n.NewPrinter(cfg.Locale),
		Logger:       logger,
		MaxRangeDays: cfg.ReportsMaxRangeDays,
		PresignTTL:   presignTTL,
	}), nil
}

func NewWithDeps(d Deps) *Session {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Printer == nil {
		d.Printer = i18n.Default()
	}

	store := storage.NewProvider(d.KV, d.Logger)
	days := dayplans.NewService(store, d.Logger, d.Now)
	mealLogs := meallog.NewService(store, d.Logger, d.Now)
	workoutSvc := workouts.NewService(store, d.Logger, d.Now)
	profileSvc := profiles.NewService(store, days, d.Printer, d.Logger)

	return &Session{
		Profiles: profileSvc,
		Days:     days,
		MealLogs: mealLogs,
		Workouts: workoutSvc,
		Calories: calories.NewService(d.AI, store, d.Printer, d.Logger),
		Reports: reports.NewService(mealLogs, workoutSvc, profileSvc, reports.Options{
			BlobStore:    d.Blob,
			MaxRangeDays: d.MaxRangeDays,
			PresignTTL:   d.PresignTTL,
			Logger:       d.Logger,
			Now:          d.Now,
		}),

		store:      store,
		meals:      mealplans.NewGenerator(d.AI, d.Printer, d.Logger),
		workoutGen: workouts.NewGenerator(d.AI, d.Printer, d.Logger, d.Now),
		printer:    d.Printer,
		logger:     d.Logger,
	}
}

// Load restores everything persisted by an earlier session.
func (s *Session) Load(ctx context.Context) {
	s.Profiles.Load(ctx)
	s.Days.Load(ctx)
	s.MealLogs.Load(ctx)
	s.Workouts.Load(ctx)
	if draft, ok := s.Calories.LoadDraft(ctx); ok {
		s.mu.Lock()
		s.draft = draft
		s.mu.Unlock()
	}
	logf(s.logger, "INFO session: loaded selected_date=%s", s.Days.SelectedDate())
}

// Draft is the calorie screen draft restored by Load.
func (s *Session) Draft() calories.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// ============================================================================
// Meal plans
// ============================================================================

// GenerateMealPlan generates a plan for the selected date and makes it the
// stored plan of that date.
func (s *Session) GenerateMealPlan(ctx context.Context) (*mealplans.DailyMealPlan, error) {
	profile, targets, err := s.profileAndTargets()
	if err != nil {
		return nil, err
	}

	date := s.Days.SelectedDate()
	plan, err := s.meals.GenerateDailyPlan(ctx, profile, targets, date)
	if err != nil {
		return nil, err
	}
	if s.Days.SelectedDate() != date {
		return nil, ErrDateChanged
	}

	s.Days.SetCurrentMealPlan(ctx, &plan)
	return s.Days.CurrentPlan(), nil
}

// RegenerateMeal swaps one meal of the current plan for a freshly generated
// one of the same type. The plan totals become the plain sum of the meals.
func (s *Session) RegenerateMeal(ctx context.Context, mealID string) (mealplans.Meal, error) {
	current := s.Days.CurrentPlan()
	if current == nil {
		return mealplans.Meal{}, fmt.Errorf("%w: %s", ErrNoCurrentPlan, s.printer.Sprintf(i18n.NoCurrentPlan))
	}
	idx := current.MealIndex(mealID)
	if idx < 0 {
		return mealplans.Meal{}, fmt.Errorf("%w: %s", ErrMealNotFound, mealID)
	}
	profile, targets, err := s.profileAndTargets()
	if err != nil {
		return mealplans.Meal{}, err
	}

	meal, err := s.meals.RegenerateMeal(ctx, current.Meals[idx], targets, profile)
	if err != nil {
		return mealplans.Meal{}, err
	}
	if s.Days.SelectedDate() != current.Date {
		return mealplans.Meal{}, ErrDateChanged
	}

	updated, ok := mealplans.ReplaceMeal(*current, mealID, meal)
	if !ok {
		return mealplans.Meal{}, fmt.Errorf("%w: %s", ErrMealNotFound, mealID)
	}
	s.Days.SetCurrentMealPlan(ctx, &updated)
	return meal, nil
}

// ============================================================================
// Logging
// ============================================================================

// LogMeal records meal as eaten on the selected date.
func (s *Session) LogMeal(ctx context.Context, meal mealplans.Meal) (meallog.MealLog, error) {
	return s.MealLogs.LogMeal(ctx, meal, s.Days.SelectedDate())
}

// IsMealLoggedToday checks the selected date, not the wall clock.
func (s *Session) IsMealLoggedToday(mealID string) bool {
	return s.MealLogs.IsMealLogged(mealID, s.Days.SelectedDate())
}

// ============================================================================
// Workouts
// ============================================================================

// GenerateWorkoutPlan generates a plan, stores it and makes it current.
func (s *Session) GenerateWorkoutPlan(ctx context.Context, input workouts.WorkoutInput) (workouts.WorkoutPlan, error) {
	plan, err := s.workoutGen.GeneratePlan(ctx, input)
	if err != nil {
		return workouts.WorkoutPlan{}, err
	}
	return s.Workouts.SavePlan(ctx, plan), nil
}

// ============================================================================
// Calories
// ============================================================================

// AnalyzeCalories runs the breakdown and keeps texts and result as the draft.
func (s *Session) AnalyzeCalories(ctx context.Context, texts calories.MealTexts) (calories.DayBreakdown, error) {
	result, err := s.Calories.Analyze(ctx, texts)
	if err != nil {
		return calories.DayBreakdown{}, err
	}
	draft := calories.Draft{MealTexts: texts, Result: &result}
	s.mu.Lock()
	s.draft = draft
	s.mu.Unlock()
	s.Calories.SaveDraft(ctx, draft)
	return result, nil
}

func (s *Session) Close() error {
	return s.store.Close()
}

func (s *Session) profileAndTargets() (*nutrition.UserProfile, nutrition.Targets, error) {
	profile := s.Profiles.Profile()
	targets, ok := s.Profiles.Targets()
	if profile == nil || !ok {
		return nil, nutrition.Targets{}, fmt.Errorf("%w: %s", mealplans.ErrNoProfile, s.printer.Sprintf(i18n.ProfileRequired))
	}
	return profile, targets, nil
}
