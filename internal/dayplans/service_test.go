package dayplans

import (
	"context"
	"testing"
	"time"

	"github.com/fdg312/fitplan/internal/mealplans"
	"github.com/fdg312/fitplan/internal/nutrition"
	"github.com/fdg312/fitplan/internal/storage"
	"github.com/fdg312/fitplan/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock(date string) func() time.Time {
	t, _ := time.Parse("2006-01-02", date)
	return func() time.Time { return t.Add(10 * time.Hour) }
}

func samplePlan(id string) *mealplans.DailyMealPlan {
	meals := []mealplans.Meal{
		{ID: id + "-b", Name: "Oats", Type: mealplans.MealBreakfast, Nutrition: nutrition.Targets{Calories: 350, Protein: 13, Carbs: 60, Fat: 7, Fiber: 8}},
	}
	return &mealplans.DailyMealPlan{ID: id, Date: "1999-01-01", Meals: meals, TotalNutrition: mealplans.SumMeals(meals)}
}

func TestDefaultsToToday(t *testing.T) {
	s := NewService(storage.NewProvider(memory.New(), nil), nil, clock("2024-03-01"))
	assert.Equal(t, "2024-03-01", s.SelectedDate())
	assert.Nil(t, s.CurrentPlan())
}

func TestSetCurrentMealPlanStampsSelectedDate(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	s := NewService(storage.NewProvider(kv, nil), nil, clock("2024-03-01"))

	s.SetCurrentMealPlan(ctx, samplePlan("p1"))

	current := s.CurrentPlan()
	require.NotNil(t, current)
	assert.Equal(t, "2024-03-01", current.Date)

	stored, found := s.PlanForDate(ctx, "2024-03-01")
	require.True(t, found)
	assert.Equal(t, "p1", stored.ID)
	assert.Equal(t, "2024-03-01", stored.Date)

	cursor, found, err := kv.GetItem(ctx, storage.KeySelectedDate)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "2024-03-01", cursor)
}

func TestNewPlanReplacesStoredOne(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	s := NewService(storage.NewProvider(kv, nil), nil, clock("2024-03-01"))

	s.SetCurrentMealPlan(ctx, samplePlan("p1"))
	s.SetCurrentMealPlan(ctx, samplePlan("p2"))

	stored, found := s.PlanForDate(ctx, "2024-03-01")
	require.True(t, found)
	assert.Equal(t, "p2", stored.ID)
	raw, found, err := kv.GetItem(ctx, "mealPlan:2024-03-01")
	require.NoError(t, err)
	require.True(t, found)
	assert.Contains(t, raw, `"id":"p2"`)
	assert.NotContains(t, raw, `"id":"p1"`)
}

func TestNavigateDayAcrossLeapDay(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewProvider(memory.New(), nil), nil, clock("2024-03-01"))

	_, err := s.SetSelectedDate(ctx, "2024-02-29")
	require.NoError(t, err)
	s.SetCurrentMealPlan(ctx, samplePlan("leap"))

	_, err = s.SetSelectedDate(ctx, "2024-03-01")
	require.NoError(t, err)
	assert.Nil(t, s.CurrentPlan())

	plan, err := s.NavigateDay(ctx, -1)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", s.SelectedDate())
	require.NotNil(t, plan)
	assert.Equal(t, "leap", plan.ID)

	_, err = s.NavigateDay(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-02", s.SelectedDate())
	assert.Nil(t, s.CurrentPlan())
}

func TestNavigateDayAcrossYear(t *testing.T) {
	s := NewService(storage.NewProvider(memory.New(), nil), nil, clock("2023-12-31"))
	_, err := s.NavigateDay(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", s.SelectedDate())
}

func TestSetSelectedDateRejectsGarbage(t *testing.T) {
	s := NewService(storage.NewProvider(memory.New(), nil), nil, clock("2024-03-01"))
	_, err := s.SetSelectedDate(context.Background(), "2024-02-30")
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Equal(t, "2024-03-01", s.SelectedDate())
}

func TestLoadRestoresCursorAndPlan(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()

	first := NewService(storage.NewProvider(kv, nil), nil, clock("2024-03-01"))
	_, err := first.SetSelectedDate(ctx, "2024-02-20")
	require.NoError(t, err)
	first.SetCurrentMealPlan(ctx, samplePlan("p1"))

	second := NewService(storage.NewProvider(kv, nil), nil, clock("2024-03-05"))
	second.Load(ctx)

	assert.Equal(t, "2024-02-20", second.SelectedDate())
	require.NotNil(t, second.CurrentPlan())
	assert.Equal(t, "p1", second.CurrentPlan().ID)
}

func TestLoadIgnoresBadCursor(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	require.NoError(t, kv.SetItem(ctx, storage.KeySelectedDate, "yesterday"))

	s := NewService(storage.NewProvider(kv, nil), nil, clock("2024-03-01"))
	s.Load(ctx)
	assert.Equal(t, "2024-03-01", s.SelectedDate())
}

func TestClearCurrentKeepsStoredPlan(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewProvider(memory.New(), nil), nil, clock("2024-03-01"))
	s.SetCurrentMealPlan(ctx, samplePlan("p1"))

	s.ClearCurrent()
	assert.Nil(t, s.CurrentPlan())

	_, found := s.PlanForDate(ctx, "2024-03-01")
	assert.True(t, found)
}
