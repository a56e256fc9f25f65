package mealplans

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/fdg312/fitplan/internal/nutrition"
)

var (
	ErrMalformedPlan = errors.New("malformed meal plan")
	ErrNoProfile     = errors.New("profile is required")
)

// ============================================================================
// Meal types
// ============================================================================

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

var mealTypeOrder = map[MealType]int{
	MealBreakfast: 0,
	MealLunch:     1,
	MealDinner:    2,
	MealSnack:     3,
}

// Known reports whether t is one of the four canonical meal types.
func (t MealType) Known() bool {
	_, ok := mealTypeOrder[t]
	return ok
}

// rank: unknown types go after snack
func (t MealType) rank() int {
	if r, ok := mealTypeOrder[t]; ok {
		return r
	}
	return len(mealTypeOrder)
}

// ============================================================================
// Models
// ============================================================================

type Meal struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Type         MealType          `json:"type"`
	Ingredients  []string          `json:"ingredients"`
	Instructions []string          `json:"instructions"`
	Nutrition    nutrition.Targets `json:"nutrition"`
	PrepTime     int               `json:"prepTime"`
	Servings     int               `json:"servings"`
}

type DailyMealPlan struct {
	ID             string            `json:"id"`
	Date           string            `json:"date"`
	Meals          []Meal            `json:"meals"`
	TotalNutrition nutrition.Targets `json:"totalNutrition"`
}

// MealIndex returns the position of the meal with the given id, or -1.
func (p DailyMealPlan) MealIndex(id string) int {
	for i, m := range p.Meals {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// SumMeals is the field-by-field sum of the meals' nutrition.
func SumMeals(meals []Meal) nutrition.Targets {
	var total nutrition.Targets
	for _, m := range meals {
		total = total.Add(m.Nutrition)
	}
	return total
}

// Raw converts a plan back to the untrusted input shape, e.g. to run it
// through Normalize again.
func (p DailyMealPlan) Raw() RawPlan {
	meals := make([]RawMeal, len(p.Meals))
	for i, m := range p.Meals {
		meals[i] = m.raw()
	}
	total := rawNutrition(p.TotalNutrition)
	return RawPlan{ID: p.ID, Date: p.Date, Meals: meals, TotalNutrition: &total}
}

func (m Meal) raw() RawMeal {
	n := rawNutrition(m.Nutrition)
	prep := float64(m.PrepTime)
	servings := float64(m.Servings)
	return RawMeal{
		ID:           m.ID,
		Name:         m.Name,
		Type:         string(m.Type),
		Ingredients:  append([]string(nil), m.Ingredients...),
		Instructions: append([]string(nil), m.Instructions...),
		Nutrition:    &n,
		PrepTime:     &prep,
		Servings:     &servings,
	}
}

func rawNutrition(t nutrition.Targets) RawNutrition {
	f := func(v int) *float64 {
		x := float64(v)
		return &x
	}
	return RawNutrition{
		Calories: f(t.Calories),
		Protein:  f(t.Protein),
		Carbs:    f(t.Carbs),
		Fat:      f(t.Fat),
		Fiber:    f(t.Fiber),
	}
}

// ============================================================================
// Generator output (untrusted)
// ============================================================================

// RawNutrition keeps the numbers as sent by the generator. Pointers tell a
// missing field apart from zero.
type RawNutrition struct {
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Carbs    *float64 `json:"carbs"`
	Fat      *float64 `json:"fat"`
	Fiber    *float64 `json:"fiber"`
}

type RawMeal struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Type         string        `json:"type"`
	Ingredients  []string      `json:"ingredients"`
	Instructions []string      `json:"instructions"`
	Nutrition    *RawNutrition `json:"nutrition"`
	PrepTime     *float64      `json:"prepTime"`
	Servings     *float64      `json:"servings"`
}

type RawPlan struct {
	ID             string        `json:"id"`
	Date           string        `json:"date"`
	Meals          []RawMeal     `json:"meals"`
	TotalNutrition *RawNutrition `json:"totalNutrition"`
}

// DecodePlan parses and validates a generated daily plan.
func DecodePlan(data []byte) (RawPlan, error) {
	var raw RawPlan
	if err := json.Unmarshal(data, &raw); err != nil {
		return RawPlan{}, fmt.Errorf("%w: %v", ErrMalformedPlan, err)
	}
	if err := raw.Validate(); err != nil {
		return RawPlan{}, err
	}
	for i, m := range raw.Meals {
		if err := m.checkAmounts(); err != nil {
			return RawPlan{}, fmt.Errorf("%w: meal[%d]: %v", ErrMalformedPlan, i, err)
		}
	}
	return raw, nil
}

// DecodeMeal parses and validates a single generated meal.
func DecodeMeal(data []byte) (RawMeal, error) {
	var raw RawMeal
	if err := json.Unmarshal(data, &raw); err != nil {
		return RawMeal{}, fmt.Errorf("%w: %v", ErrMalformedPlan, err)
	}
	if err := raw.Validate(); err != nil {
		return RawMeal{}, fmt.Errorf("%w: meal: %v", ErrMalformedPlan, err)
	}
	if err := raw.checkAmounts(); err != nil {
		return RawMeal{}, fmt.Errorf("%w: meal: %v", ErrMalformedPlan, err)
	}
	return raw, nil
}

func (r RawPlan) Validate() error {
	if len(r.Meals) == 0 {
		return fmt.Errorf("%w: meals is required and must not be empty", ErrMalformedPlan)
	}
	for i, m := range r.Meals {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("%w: meal[%d]: %v", ErrMalformedPlan, i, err)
		}
	}
	return nil
}

// Validate checks the shape of a meal: required fields present and every
// number finite. Signs are checked only when decoding generated output,
// since reconciliation may leave the last meal below zero.
func (m RawMeal) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(m.Type) == "" {
		return fmt.Errorf("type is required")
	}
	if m.Nutrition == nil {
		return fmt.Errorf("nutrition is required")
	}
	for _, f := range m.Nutrition.fields() {
		if f.v == nil {
			return fmt.Errorf("nutrition.%s is required", f.name)
		}
		if math.IsNaN(*f.v) || math.IsInf(*f.v, 0) {
			return fmt.Errorf("nutrition.%s must be a finite number", f.name)
		}
	}
	if m.PrepTime != nil && (math.IsNaN(*m.PrepTime) || math.IsInf(*m.PrepTime, 0)) {
		return fmt.Errorf("prepTime must be a finite number")
	}
	return nil
}

// checkAmounts rejects negative figures in generated output. Call after Validate.
func (m RawMeal) checkAmounts() error {
	for _, f := range m.Nutrition.fields() {
		if *f.v < 0 {
			return fmt.Errorf("nutrition.%s must be a non-negative number", f.name)
		}
	}
	if m.PrepTime != nil && *m.PrepTime < 0 {
		return fmt.Errorf("prepTime must be non-negative")
	}
	return nil
}

type namedAmount struct {
	name string
	v    *float64
}

func (n RawNutrition) fields() []namedAmount {
	return []namedAmount{
		{"calories", n.Calories},
		{"protein", n.Protein},
		{"carbs", n.Carbs},
		{"fat", n.Fat},
		{"fiber", n.Fiber},
	}
}

func (n RawNutrition) targets() nutrition.Targets {
	return nutrition.Targets{
		Calories: roundPtr(n.Calories),
		Protein:  roundPtr(n.Protein),
		Carbs:    roundPtr(n.Carbs),
		Fat:      roundPtr(n.Fat),
		Fiber:    roundPtr(n.Fiber),
	}
}

func roundPtr(v *float64) int {
	if v == nil {
		return 0
	}
	return int(math.Floor(*v + 0.5))
}
