package meallog

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/fdg312/fitplan/internal/mealplans"
	"github.com/fdg312/fitplan/internal/nutrition"
	"github.com/fdg312/fitplan/internal/storage"
	"github.com/fdg312/fitplan/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenKV struct {
	*memory.MemoryStorage
}

func (b brokenKV) SetItem(ctx context.Context, key, value string) error {
	return errors.New("disk full")
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func meal(id string, mealType mealplans.MealType, n nutrition.Targets) mealplans.Meal {
	return mealplans.Meal{ID: id, Name: "Meal " + id, Type: mealType, Nutrition: n}
}

var oats = nutrition.Targets{Calories: 350, Protein: 13, Carbs: 60, Fat: 7, Fiber: 8}

func newService(kv storage.KV, now time.Time) *Service {
	return NewService(storage.NewProvider(kv, nil), nil, fixedClock(now))
}

func TestLogThenUnlog(t *testing.T) {
	ctx := context.Background()
	s := newService(memory.New(), time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC))

	entry, err := s.LogMeal(ctx, meal("m1", mealplans.MealBreakfast, oats), "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "m1-2024-03-01T08:30:00.000Z", entry.ID)
	assert.Equal(t, "Meal m1", entry.MealName)

	require.Len(t, s.GetDailyLog("2024-03-01").Meals, 1)

	require.NoError(t, s.UnlogMeal(ctx, entry.ID))

	day := s.GetDailyLog("2024-03-01")
	assert.Empty(t, day.Meals)
	assert.Equal(t, nutrition.Targets{}, day.TotalNutrition)
}

func TestLoggingTwiceCountsTwice(t *testing.T) {
	ctx := context.Background()
	s := newService(memory.New(), time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC))

	first, err := s.LogMeal(ctx, meal("m1", mealplans.MealBreakfast, oats), "2024-03-01")
	require.NoError(t, err)
	second, err := s.LogMeal(ctx, meal("m1", mealplans.MealBreakfast, oats), "2024-03-01")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "2024-03-01T08:30:00.001Z", second.Timestamp)

	day := s.GetDailyLog("2024-03-01")
	assert.Len(t, day.Meals, 2)
	assert.Equal(t, oats.Add(oats), day.TotalNutrition)
}

func TestDailyLogFiltersByDate(t *testing.T) {
	ctx := context.Background()
	s := newService(memory.New(), time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC))

	lunch := nutrition.Targets{Calories: 700, Protein: 50, Carbs: 70, Fat: 25, Fiber: 10}
	_, err := s.LogMeal(ctx, meal("m1", mealplans.MealBreakfast, oats), "2024-03-01")
	require.NoError(t, err)
	_, err = s.LogMeal(ctx, meal("m2", mealplans.MealLunch, lunch), "2024-03-02")
	require.NoError(t, err)

	assert.Equal(t, oats, s.GetDailyLog("2024-03-01").TotalNutrition)
	assert.Equal(t, lunch, s.GetDailyLog("2024-03-02").TotalNutrition)
	assert.True(t, s.IsMealLogged("m1", "2024-03-01"))
	assert.False(t, s.IsMealLogged("m1", "2024-03-02"))
}

func TestSnapshotSurvivesMealEdits(t *testing.T) {
	ctx := context.Background()
	s := newService(memory.New(), time.Now())

	m := meal("m1", mealplans.MealDinner, oats)
	_, err := s.LogMeal(ctx, m, "2024-03-01")
	require.NoError(t, err)

	m.Name = "Renamed"
	m.Nutrition.Calories = 9

	got := s.GetDailyLog("2024-03-01").Meals[0]
	assert.Equal(t, "Meal m1", got.MealName)
	assert.Equal(t, 350, got.Nutrition.Calories)
}

func TestUnlogUnknown(t *testing.T) {
	s := newService(memory.New(), time.Now())
	err := s.UnlogMeal(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrLogNotFound)
}

func TestLogMealRejectsBadDate(t *testing.T) {
	s := newService(memory.New(), time.Now())
	_, err := s.LogMeal(context.Background(), meal("m1", mealplans.MealSnack, oats), "03/01/2024")
	assert.Error(t, err)
	assert.Empty(t, s.Logs())
}

func TestPersistenceAndLoad(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	now := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)

	s := newService(kv, now)
	first, err := s.LogMeal(ctx, meal("m1", mealplans.MealBreakfast, oats), "2024-03-01")
	require.NoError(t, err)

	raw, found, err := kv.GetItem(ctx, storage.KeyMealLogs)
	require.NoError(t, err)
	require.True(t, found)
	assert.Contains(t, raw, `"mealId":"m1"`)

	restored := newService(kv, now)
	restored.Load(ctx)
	require.Len(t, restored.Logs(), 1)

	// same wall clock after a restart still yields a fresh id
	again, err := restored.LogMeal(ctx, meal("m1", mealplans.MealBreakfast, oats), "2024-03-01")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, again.ID)
}

func TestWriteFailureKeepsMemory(t *testing.T) {
	var buf bytes.Buffer
	s := NewService(storage.NewProvider(brokenKV{memory.New()}, log.New(&buf, "", 0)), nil, time.Now)

	_, err := s.LogMeal(context.Background(), meal("m1", mealplans.MealBreakfast, oats), "2024-03-01")
	require.NoError(t, err)

	assert.Len(t, s.GetDailyLog("2024-03-01").Meals, 1)
	assert.Contains(t, buf.String(), "WARN storage: set key=mealLogs failed")
}

func TestLoadWithCorruptData(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	require.NoError(t, kv.SetItem(ctx, storage.KeyMealLogs, "{not json"))

	s := newService(kv, time.Now())
	s.Load(ctx)
	assert.Empty(t, s.Logs())
}

func TestWeekSummary(t *testing.T) {
	ctx := context.Background()
	s := newService(memory.New(), time.Now())

	_, err := s.LogMeal(ctx, meal("m1", mealplans.MealBreakfast, oats), "2024-02-26")
	require.NoError(t, err)
	_, err = s.LogMeal(ctx, meal("m2", mealplans.MealBreakfast, oats), "2024-03-03")
	require.NoError(t, err)
	_, err = s.LogMeal(ctx, meal("m3", mealplans.MealBreakfast, oats), "2024-03-04")
	require.NoError(t, err)

	week, err := s.WeekSummary("2024-02-29")
	require.NoError(t, err)

	assert.Equal(t, "2024-02-26", week.WeekStart)
	assert.Equal(t, "2024-03-03", week.WeekEnd)
	require.Len(t, week.Days, 7)
	assert.Equal(t, 1, week.Days[0].MealsLogged)
	assert.Equal(t, 0, week.Days[3].MealsLogged)
	assert.Equal(t, "2024-02-29", week.Days[3].Date)
	assert.Equal(t, 1, week.Days[6].MealsLogged)
	assert.Equal(t, oats.Add(oats), week.Total)
}

func TestMonthSummary(t *testing.T) {
	ctx := context.Background()
	s := newService(memory.New(), time.Now())

	for _, d := range []string{"2024-02-01", "2024-02-29", "2024-02-29", "2024-03-01"} {
		_, err := s.LogMeal(ctx, meal("m", mealplans.MealLunch, oats), d)
		require.NoError(t, err)
	}

	month, err := s.MonthSummary(2024, time.February)
	require.NoError(t, err)
	require.Len(t, month.Days, 29)
	assert.Equal(t, 2, month.DaysLogged)
	assert.Equal(t, 2, month.Days[28].MealsLogged)
}

func TestProgress(t *testing.T) {
	ctx := context.Background()
	s := newService(memory.New(), time.Now())

	_, err := s.LogMeal(ctx, meal("m1", mealplans.MealBreakfast, oats), "2024-03-01")
	require.NoError(t, err)

	p := s.Progress("2024-03-01", nutrition.Targets{Calories: 700, Protein: 10, Carbs: 120, Fat: 0, Fiber: 16})
	assert.InDelta(t, 0.5, p.Calories, 1e-9)
	assert.Equal(t, 1.0, p.Protein)
	assert.InDelta(t, 0.5, p.Carbs, 1e-9)
	assert.Equal(t, 0.0, p.Fat)
	assert.InDelta(t, 0.5, p.Fiber, 1e-9)
}
