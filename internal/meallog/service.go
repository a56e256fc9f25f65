package meallog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fdg312/fitplan/internal/dates"
	"github.com/fdg312/fitplan/internal/mealplans"
	"github.com/fdg312/fitplan/internal/nutrition"
	"github.com/fdg312/fitplan/internal/storage"
)

type Logger interface {
	Printf(format string, v ...any)
}

// Service keeps the append-only meal log list in memory and mirrors every
// change to the mealLogs key. A failed write is logged; memory is kept.
type Service struct {
	store  *storage.Provider
	logger Logger
	now    func() time.Time

	mu        sync.RWMutex
	logs      []MealLog
	lastStamp time.Time
}

func NewService(store *storage.Provider, logger Logger, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, logger: logger, now: now}
}

// Load replaces the in-memory list with the stored one. Missing or
// unreadable data leaves an empty list.
func (s *Service) Load(ctx context.Context) {
	var logs []MealLog
	if !s.store.GetJSON(ctx, storage.KeyMealLogs, &logs) {
		logs = nil
	}

	s.mu.Lock()
	s.logs = logs
	for _, l := range logs {
		if ts, err := time.Parse(TimestampLayout, l.Timestamp); err == nil && ts.After(s.lastStamp) {
			s.lastStamp = ts
		}
	}
	s.mu.Unlock()

	s.logf("INFO meallog: loaded %d logs", len(logs))
}

// LogMeal appends a snapshot of meal attributed to date. Logging the same
// meal twice gives two entries.
func (s *Service) LogMeal(ctx context.Context, meal mealplans.Meal, date string) (MealLog, error) {
	if _, err := dates.Parse(date); err != nil {
		return MealLog{}, err
	}

	s.mu.Lock()
	stamp := s.nextStamp()
	timestamp := stamp.Format(TimestampLayout)
	entry := MealLog{
		ID:        fmt.Sprintf("%s-%s", meal.ID, timestamp),
		MealID:    meal.ID,
		MealName:  meal.Name,
		MealType:  meal.Type,
		Date:      date,
		Timestamp: timestamp,
		Nutrition: meal.Nutrition,
	}
	s.logs = append(s.logs, entry)
	snapshot := s.copyLogs()
	s.mu.Unlock()

	if s.store.SetJSON(ctx, storage.KeyMealLogs, snapshot) {
		s.logf("INFO meallog: logged meal=%s date=%s", meal.ID, date)
	}
	return entry, nil
}

// UnlogMeal hard-deletes the log with the given id.
func (s *Service) UnlogMeal(ctx context.Context, logID string) error {
	s.mu.Lock()
	idx := -1
	for i, l := range s.logs {
		if l.ID == logID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrLogNotFound, logID)
	}
	s.logs = append(s.logs[:idx:idx], s.logs[idx+1:]...)
	snapshot := s.copyLogs()
	s.mu.Unlock()

	if s.store.SetJSON(ctx, storage.KeyMealLogs, snapshot) {
		s.logf("INFO meallog: unlogged %s", logID)
	}
	return nil
}

// Logs returns a copy of every log in insertion order.
func (s *Service) Logs() []MealLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLogs()
}

// GetDailyLog returns the logs whose date equals date and their sum.
func (s *Service) GetDailyLog(date string) DailyLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := DailyLog{Date: date, Meals: []MealLog{}}
	for _, l := range s.logs {
		if l.Date != date {
			continue
		}
		out.Meals = append(out.Meals, l)
		out.TotalNutrition = out.TotalNutrition.Add(l.Nutrition)
	}
	return out
}

// IsMealLogged reports whether meal mealID has a log on date.
func (s *Service) IsMealLogged(mealID, date string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.logs {
		if l.MealID == mealID && l.Date == date {
			return true
		}
	}
	return false
}

// WeekSummary covers Monday..Sunday of the week containing date. Days
// without logs are present with zero values.
func (s *Service) WeekSummary(date string) (WeekSummary, error) {
	start, err := dates.MondayOf(date)
	if err != nil {
		return WeekSummary{}, err
	}
	end, err := dates.Shift(start, 6)
	if err != nil {
		return WeekSummary{}, err
	}
	days, err := s.summarize(start, end)
	if err != nil {
		return WeekSummary{}, err
	}

	out := WeekSummary{WeekStart: start, WeekEnd: end, Days: days}
	for _, d := range days {
		out.Total = out.Total.Add(d.Nutrition)
	}
	return out, nil
}

func (s *Service) MonthSummary(year int, month time.Month) (MonthSummary, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := dates.Format(first)
	end := dates.Format(first.AddDate(0, 0, dates.DaysInMonth(year, month)-1))

	days, err := s.summarize(start, end)
	if err != nil {
		return MonthSummary{}, err
	}

	out := MonthSummary{Year: year, Month: month, Days: days}
	for _, d := range days {
		if d.MealsLogged > 0 {
			out.DaysLogged++
		}
	}
	return out, nil
}

func (s *Service) Progress(date string, targets nutrition.Targets) Progress {
	consumed := s.GetDailyLog(date).TotalNutrition
	return Progress{
		Date:     date,
		Consumed: consumed,
		Targets:  targets,
		Calories: fraction(consumed.Calories, targets.Calories),
		Protein:  fraction(consumed.Protein, targets.Protein),
		Carbs:    fraction(consumed.Carbs, targets.Carbs),
		Fat:      fraction(consumed.Fat, targets.Fat),
		Fiber:    fraction(consumed.Fiber, targets.Fiber),
	}
}

func (s *Service) summarize(from, to string) ([]DaySummary, error) {
	days, err := dates.Range(from, to)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(days))
	out := make([]DaySummary, len(days))
	for i, d := range days {
		out[i].Date = d
		index[d] = i
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.logs {
		i, ok := index[l.Date]
		if !ok {
			continue
		}
		out[i].MealsLogged++
		out[i].Nutrition = out[i].Nutrition.Add(l.Nutrition)
	}
	return out, nil
}

// nextStamp keeps timestamps strictly increasing at millisecond precision so
// two logs of one meal never share an id. Caller holds mu.
func (s *Service) nextStamp() time.Time {
	stamp := s.now().UTC().Truncate(time.Millisecond)
	if !stamp.After(s.lastStamp) {
		stamp = s.lastStamp.Add(time.Millisecond)
	}
	s.lastStamp = stamp
	return stamp
}

func (s *Service) copyLogs() []MealLog {
	out := make([]MealLog, len(s.logs))
	copy(out, s.logs)
	return out
}

func (s *Service) logf(format string, v ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Printf(format, v...)
}

func fraction(consumed, target int) float64 {
	if target <= 0 {
		return 0
	}
	f := float64(consumed) / float64(target)
	if f > 1 {
		return 1
	}
	if f < 0 {
		return 0
	}
	return f
}
