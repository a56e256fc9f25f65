package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MockProvider answers every schema deterministically from req.Meta.
// Used in local mode and by the smoke runner; no network.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Generate(ctx context.Context, req GenerateRequest) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	var payload any
	switch req.Schema {
	case SchemaDailyMealPlan:
		payload = mockMealPlan(req.Meta)
	case SchemaMeal:
		payload = mockMeal(req.Meta)
	case SchemaWorkoutPlan:
		payload = mockWorkoutPlan(req.Meta)
	case SchemaCalorieBreakdown:
		payload = mockCalorieBreakdown(req.Meta)
	default:
		return nil, fmt.Errorf("%w: unknown schema %q", ErrGenerationFailed, req.Schema)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return raw, nil
}

// Доли калорий по приёмам пищи.
var mockMealShares = map[string]float64{
	"breakfast": 0.30,
	"lunch":     0.40,
	"dinner":    0.25,
	"snack":     0.05,
}

var mockMealNames = map[string]string{
	"breakfast": "Foul medames with eggs",
	"lunch":     "Chicken kabsa",
	"dinner":    "Grilled fish with tabbouleh",
	"snack":     "Greek yogurt with dates",
}

func mockMealTypes(n int) []string {
	switch {
	case n <= 1:
		return []string{"lunch"}
	case n == 2:
		return []string{"breakfast", "dinner"}
	case n == 3:
		return []string{"breakfast", "lunch", "dinner"}
	}
	types := []string{"breakfast", "lunch", "dinner"}
	for i := 3; i < n; i++ {
		types = append(types, "snack")
	}
	return types
}

func mockMealPlan(meta map[string]string) map[string]any {
	types := mockMealTypes(metaInt(meta, MetaMealsPerDay, 4))

	var weight float64
	for _, t := range types {
		weight += mockMealShares[t]
	}

	meals := make([]map[string]any, 0, len(types))
	// snack goes first so the caller has to order the meals
	for i := len(types) - 1; i >= 0; i-- {
		t := types[i]
		meals = append(meals, mockMealObject(fmt.Sprintf("mock-%s-%d", t, i+1), t, meta, mockMealShares[t]/weight))
	}

	return map[string]any{
		"id":    "mock-plan",
		"date":  meta[MetaDate],
		"meals": meals,
		"totalNutrition": map[string]any{
			"calories": metaInt(meta, MetaCalories, 2000),
			"protein":  metaInt(meta, MetaProtein, 125),
			"carbs":    metaInt(meta, MetaCarbs, 225),
			"fat":      metaInt(meta, MetaFat, 67),
			"fiber":    metaInt(meta, MetaFiber, 28),
		},
	}
}

// mockMeal answers a single-meal request; the Meta targets are already the
// meal's own share.
func mockMeal(meta map[string]string) map[string]any {
	t := meta[MetaMealType]
	if _, ok := mockMealShares[t]; !ok {
		t = "snack"
	}
	meal := mockMealObject("mock-"+t+"-alt", t, meta, 1)
	meal["name"] = "Fresh " + t + " bowl"
	return meal
}

func mockMealObject(id, mealType string, meta map[string]string, share float64) map[string]any {
	protein := mockRound(float64(metaInt(meta, MetaProtein, 125)) * share)
	carbs := mockRound(float64(metaInt(meta, MetaCarbs, 225)) * share)
	fat := mockRound(float64(metaInt(meta, MetaFat, 67)) * share)
	return map[string]any{
		"id":           id,
		"name":         mockMealNames[mealType],
		"type":         mealType,
		"ingredients":  []string{"olive oil", "seasonal vegetables"},
		"instructions": []string{"Prepare the ingredients.", "Cook and serve."},
		"nutrition": map[string]any{
			"calories": protein*4 + carbs*4 + fat*9,
			"protein":  protein,
			"carbs":    carbs,
			"fat":      fat,
			"fiber":    mockRound(float64(metaInt(meta, MetaFiber, 28)) * share),
		},
		"prepTime": 20,
		"servings": 1,
	}
}

var mockExercises = []map[string]any{
	{"name": "Push-ups", "nameAr": "تمرين الضغط", "reps": "8-10", "videoUrl": "https://www.youtube.com/watch?v=IODxDxX7oi4"},
	{"name": "Bodyweight Squats", "nameAr": "سكوات بوزن الجسم", "reps": "12-15", "videoUrl": "https://www.youtube.com/watch?v=aclHkVaku9U"},
	{"name": "Plank", "nameAr": "بلانك", "reps": "30-45s", "videoUrl": "https://www.youtube.com/watch?v=pSHjTRCQxIw"},
	{"name": "Lunges", "nameAr": "الطعنات", "reps": "10-12", "videoUrl": "https://www.youtube.com/watch?v=QOVaHwm-Q6U"},
}

func mockWorkoutPlan(meta map[string]string) map[string]any {
	daysPerWeek := metaInt(meta, MetaDaysPerWeek, 3)
	weeks := metaInt(meta, MetaPlanWeeks, 4)

	days := make([]map[string]any, 0, daysPerWeek*weeks)
	for week := 1; week <= weeks; week++ {
		for day := 1; day <= daysPerWeek; day++ {
			exercises := make([]map[string]any, 0, 3)
			for i := 0; i < 3; i++ {
				ex := mockExercises[(day+i)%len(mockExercises)]
				exercises = append(exercises, map[string]any{
					"name":     ex["name"],
					"nameAr":   ex["nameAr"],
					"sets":     3,
					"reps":     ex["reps"],
					"restTime": "90s",
					"videoUrl": ex["videoUrl"],
				})
			}
			days = append(days, map[string]any{
				"day":             day,
				"week":            week,
				"dayName":         fmt.Sprintf("Week %d - Day %d", week, day),
				"dayNameAr":       fmt.Sprintf("الأسبوع %d - اليوم %d", week, day),
				"focus":           "Full Body",
				"focusAr":         "الجسم كامل",
				"weeklyIntensity": fmt.Sprintf("%d%%", 60+5*((week-1)%4)),
				"exercises":       exercises,
			})
		}
	}
	return map[string]any{"plan": days}
}

func mockCalorieBreakdown(meta map[string]string) map[string]any {
	out := map[string]any{}
	total := map[string]int{}
	for _, mealType := range []string{"breakfast", "lunch", "dinner", "snack"} {
		text := strings.TrimSpace(meta[mealType])
		if text == "" {
			continue
		}
		items := []map[string]any{}
		totals := map[string]int{}
		for _, name := range splitFoods(text) {
			items = append(items, map[string]any{
				"name": name, "quantity": 1, "unit": "serving",
				"calories": 150, "protein": 8, "carbs": 15, "fat": 6,
			})
			totals["calories"] += 150
			totals["protein"] += 8
			totals["carbs"] += 15
			totals["fat"] += 6
		}
		for k, v := range totals {
			total[k] += v
		}
		out[mealType] = map[string]any{"items": items, "totals": totals}
	}
	out["total"] = map[string]int{
		"calories": total["calories"],
		"protein":  total["protein"],
		"carbs":    total["carbs"],
		"fat":      total["fat"],
	}
	out["notes"] = "Mock estimate: every item counts as one standard serving."
	return out
}

func splitFoods(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '،' || r == '+' || r == '\n'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func metaInt(meta map[string]string, key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(meta[key]))
	if err != nil {
		return fallback
	}
	return v
}

func mockRound(x float64) int {
	return int(math.Floor(x + 0.5))
}
