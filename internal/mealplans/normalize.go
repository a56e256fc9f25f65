package mealplans

import (
	"sort"
	"strings"

	"github.com/fdg312/fitplan/internal/nutrition"
	"github.com/google/uuid"
)

const (
	defaultServings = 1
	defaultPrepTime = 15
)

// Пороги, после которых разница с целями уходит в последний приём пищи.
const (
	reconcileCalories = 5
	reconcileProtein  = 2
	reconcileCarbs    = 2
	reconcileFat      = 1
)

// Normalize turns an untrusted generated plan into a DailyMealPlan:
// meals are put in canonical order, a meal whose stated calories are more
// than CalorieTolerance away from its macros gets the macro figure, and the
// remaining gap to targets is pushed onto the last meal as a whole.
// TotalNutrition is always the exact per-field sum of the returned meals.
func Normalize(raw RawPlan, targets nutrition.Targets) (DailyMealPlan, error) {
	if err := raw.Validate(); err != nil {
		return DailyMealPlan{}, err
	}

	meals := make([]Meal, len(raw.Meals))
	for i, rm := range raw.Meals {
		meals[i] = buildMeal(rm)
	}

	sort.SliceStable(meals, func(i, j int) bool {
		return meals[i].Type.rank() < meals[j].Type.rank()
	})

	for i := range meals {
		meals[i].Nutrition = CorrectCalories(meals[i].Nutrition)
	}

	delta := targets.Sub(SumMeals(meals))
	if needsReconcile(delta) {
		last := len(meals) - 1
		meals[last].Nutrition = meals[last].Nutrition.Add(delta)
	}

	id := raw.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}

	return DailyMealPlan{
		ID:             id,
		Date:           raw.Date,
		Meals:          meals,
		TotalNutrition: SumMeals(meals),
	}, nil
}

// CorrectCalories trusts the macros over a stated calorie figure that is off
// by more than the tolerance.
func CorrectCalories(n nutrition.Targets) nutrition.Targets {
	if !nutrition.Consistent(n) {
		n.Calories = n.MacroCalories()
	}
	return n
}

func needsReconcile(d nutrition.Targets) bool {
	return abs(d.Calories) > reconcileCalories ||
		abs(d.Protein) > reconcileProtein ||
		abs(d.Carbs) > reconcileCarbs ||
		abs(d.Fat) > reconcileFat
}

// buildMeal applies ids and defaults; nutrition is rounded but not corrected.
func buildMeal(rm RawMeal) Meal {
	m := Meal{
		ID:           strings.TrimSpace(rm.ID),
		Name:         strings.TrimSpace(rm.Name),
		Type:         MealType(strings.ToLower(strings.TrimSpace(rm.Type))),
		Ingredients:  nonNil(rm.Ingredients),
		Instructions: nonNil(rm.Instructions),
		PrepTime:     defaultPrepTime,
		Servings:     defaultServings,
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if rm.Nutrition != nil {
		m.Nutrition = rm.Nutrition.targets()
	}
	if rm.PrepTime != nil {
		m.PrepTime = roundPtr(rm.PrepTime)
	}
	if rm.Servings != nil && roundPtr(rm.Servings) >= 1 {
		m.Servings = roundPtr(rm.Servings)
	}
	return m
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
