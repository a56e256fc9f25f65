package workouts

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/fitplan/internal/storage"
	"github.com/google/uuid"
)

const defaultExerciseLogLimit = 5

type Logger interface {
	Printf(format string, v ...any)
}

// Service holds workout plans (newest first), the selected plan and the
// workout logs (newest first). Every change is written through to storage;
// a failed write is logged and memory is kept.
type Service struct {
	store  *storage.Provider
	logger Logger
	now    func() time.Time

	mu        sync.RWMutex
	plans     []WorkoutPlan
	currentID string
	logs      []WorkoutLog
}

func NewService(store *storage.Provider, logger Logger, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, logger: logger, now: now}
}

// Load restores plans, the selected plan id and the logs. Without a stored
// selection the newest plan is current.
func (s *Service) Load(ctx context.Context) {
	var plans []WorkoutPlan
	if !s.store.GetJSON(ctx, storage.KeyWorkoutPlans, &plans) {
		plans = nil
	}
	var logs []WorkoutLog
	if !s.store.GetJSON(ctx, storage.KeyWorkoutLogs, &logs) {
		logs = nil
	}
	currentID, _ := s.store.GetItem(ctx, storage.KeyCurrentWorkout)

	s.mu.Lock()
	s.plans = plans
	s.logs = logs
	s.currentID = ""
	if s.indexOf(currentID) >= 0 {
		s.currentID = currentID
	} else if len(plans) > 0 {
		s.currentID = plans[0].ID
	}
	s.mu.Unlock()

	s.logf("INFO workouts: loaded plans=%d logs=%d", len(plans), len(logs))
}

// ============================================================================
// Plans
// ============================================================================

// SavePlan prepends plan and makes it current.
func (s *Service) SavePlan(ctx context.Context, plan WorkoutPlan) WorkoutPlan {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = s.now().UTC()
	}

	s.mu.Lock()
	s.plans = append([]WorkoutPlan{plan}, s.plans...)
	s.currentID = plan.ID
	plans := s.copyPlans()
	s.mu.Unlock()

	s.persistPlans(ctx, plans, plan.ID)
	return plan
}

// DeletePlan removes a plan. If it was current, the newest remaining plan
// becomes current.
func (s *Service) DeletePlan(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrPlanNotFound, id)
	}
	s.plans = append(s.plans[:idx:idx], s.plans[idx+1:]...)
	if s.currentID == id {
		s.currentID = ""
		if len(s.plans) > 0 {
			s.currentID = s.plans[0].ID
		}
	}
	plans := s.copyPlans()
	currentID := s.currentID
	s.mu.Unlock()

	s.persistPlans(ctx, plans, currentID)
	return nil
}

func (s *Service) SelectPlan(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.indexOf(id) < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrPlanNotFound, id)
	}
	s.currentID = id
	s.mu.Unlock()

	s.store.SetItem(ctx, storage.KeyCurrentWorkout, id)
	return nil
}

func (s *Service) Plans() []WorkoutPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyPlans()
}

// CurrentPlan returns the selected plan or nil.
func (s *Service) CurrentPlan() *WorkoutPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOf(s.currentID)
	if idx < 0 {
		return nil
	}
	plan := s.plans[idx]
	return &plan
}

func (s *Service) persistPlans(ctx context.Context, plans []WorkoutPlan, currentID string) {
	if !s.store.SetJSON(ctx, storage.KeyWorkoutPlans, plans) {
		return
	}
	if currentID == "" {
		s.store.RemoveItem(ctx, storage.KeyCurrentWorkout)
	} else {
		s.store.SetItem(ctx, storage.KeyCurrentWorkout, currentID)
	}
	s.logf("INFO workouts: stored plans=%d current=%s", len(plans), currentID)
}

// ============================================================================
// Logs
// ============================================================================

// SaveWorkoutLog assigns an id (and a date when missing) and prepends the log.
func (s *Service) SaveWorkoutLog(ctx context.Context, entry WorkoutLog) WorkoutLog {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Date.IsZero() {
		entry.Date = s.now().UTC()
	}
	if entry.Sets == nil {
		entry.Sets = []ExerciseSet{}
	}

	s.mu.Lock()
	s.logs = append([]WorkoutLog{entry}, s.logs...)
	logs := append([]WorkoutLog(nil), s.logs...)
	s.mu.Unlock()

	if s.store.SetJSON(ctx, storage.KeyWorkoutLogs, logs) {
		s.logf("INFO workouts: logged exercise=%q week=%d day=%d", entry.ExerciseName, entry.WeekNumber, entry.DayNumber)
	}
	return entry
}

func (s *Service) Logs() []WorkoutLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]WorkoutLog(nil), s.logs...)
}

// GetExerciseLogs returns up to limit logs of one exercise, newest date
// first. limit <= 0 means the default of 5.
func (s *Service) GetExerciseLogs(exerciseName string, limit int) []WorkoutLog {
	if limit <= 0 {
		limit = defaultExerciseLogLimit
	}
	logs := s.exerciseLogs(exerciseName, false)
	if len(logs) > limit {
		logs = logs[:limit]
	}
	return logs
}

func (s *Service) GetLastExerciseLog(exerciseName string) (WorkoutLog, bool) {
	logs := s.exerciseLogs(exerciseName, false)
	if len(logs) == 0 {
		return WorkoutLog{}, false
	}
	return logs[0], true
}

// exerciseLogs filters by exercise name and sorts by date, keeping insertion
// order for equal dates.
func (s *Service) exerciseLogs(exerciseName string, completedOnly bool) []WorkoutLog {
	s.mu.RLock()
	out := make([]WorkoutLog, 0)
	for _, l := range s.logs {
		if l.ExerciseName != exerciseName || (completedOnly && !l.Completed) {
			continue
		}
		out = append(out, l)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

func (s *Service) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, p := range s.plans {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) copyPlans() []WorkoutPlan {
	out := make([]WorkoutPlan, len(s.plans))
	copy(out, s.plans)
	return out
}

func (s *Service) logf(format string, v ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Printf(format, v...)
}
