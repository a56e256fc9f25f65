package mealplans

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fdg312/fitplan/internal/ai"
	"github.com/fdg312/fitplan/internal/i18n"
	"github.com/fdg312/fitplan/internal/nutrition"
	"github.com/google/uuid"
)

type Logger interface {
	Printf(format string, v ...any)
}

// GenerationError carries the localized message shown to the user. It
// matches both ai.ErrGenerationFailed and the underlying cause.
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *GenerationError) Unwrap() []error {
	return []error{ai.ErrGenerationFailed, e.Err}
}

// Доля дневных целей на один приём пищи при перегенерации.
var mealTypeRatios = map[MealType]float64{
	MealBreakfast: 0.30,
	MealLunch:     0.40,
	MealDinner:    0.25,
	MealSnack:     0.05,
}

// Generator asks the generative provider for plans and meals and returns
// them normalized. It holds no state.
type Generator struct {
	provider ai.Provider
	printer  *i18n.Printer
	logger   Logger
}

func NewGenerator(provider ai.Provider, printer *i18n.Printer, logger Logger) *Generator {
	return &Generator{provider: provider, printer: printer, logger: logger}
}

// GenerateDailyPlan builds a full day of meals for date. Targets are scaled
// to be calorie-consistent before they are requested and reconciled against.
func (g *Generator) GenerateDailyPlan(ctx context.Context, profile *nutrition.UserProfile, targets nutrition.Targets, date string) (DailyMealPlan, error) {
	if profile == nil {
		return DailyMealPlan{}, ErrNoProfile
	}

	scaled := nutrition.ScaleToCalories(targets)
	meta := targetsMeta(scaled)
	meta[ai.MetaMealsPerDay] = strconv.Itoa(profile.MealsPerDay)
	meta[ai.MetaDate] = date

	g.logf("INFO mealplans: generating plan date=%s calories=%d meals=%d", date, scaled.Calories, profile.MealsPerDay)

	data, err := g.provider.Generate(ctx, ai.GenerateRequest{
		Schema:   ai.SchemaDailyMealPlan,
		Messages: []ai.Message{ai.TextMessage(ai.RoleUser, planPrompt(*profile, scaled))},
		Meta:     meta,
	})
	if err != nil {
		return DailyMealPlan{}, g.fail(i18n.MealPlanFailed, err)
	}

	raw, err := DecodePlan(data)
	if err != nil {
		return DailyMealPlan{}, g.fail(i18n.MealPlanFailed, err)
	}

	plan, err := Normalize(raw, scaled)
	if err != nil {
		return DailyMealPlan{}, g.fail(i18n.MealPlanFailed, err)
	}
	plan.Date = date

	g.logf("INFO mealplans: plan ready id=%s meals=%d calories=%d", plan.ID, len(plan.Meals), plan.TotalNutrition.Calories)
	return plan, nil
}

// RegenerateMeal asks for a replacement of meal sized to its type's share of
// the daily targets. The result keeps the meal type and gets a fresh id.
func (g *Generator) RegenerateMeal(ctx context.Context, meal Meal, targets nutrition.Targets, profile *nutrition.UserProfile) (Meal, error) {
	if profile == nil {
		return Meal{}, ErrNoProfile
	}

	share := MealShare(meal.Type, targets)
	meta := targetsMeta(share)
	meta[ai.MetaMealType] = string(meal.Type)

	g.logf("INFO mealplans: regenerating meal id=%s type=%s calories=%d", meal.ID, meal.Type, share.Calories)

	data, err := g.provider.Generate(ctx, ai.GenerateRequest{
		Schema:   ai.SchemaMeal,
		Messages: []ai.Message{ai.TextMessage(ai.RoleUser, mealPrompt(meal, *profile, share))},
		Meta:     meta,
	})
	if err != nil {
		return Meal{}, g.fail(i18n.MealFailed, err)
	}

	raw, err := DecodeMeal(data)
	if err != nil {
		return Meal{}, g.fail(i18n.MealFailed, err)
	}

	out := buildMeal(raw)
	out.ID = uuid.NewString()
	out.Type = meal.Type
	out.Nutrition = CorrectCalories(out.Nutrition)
	return out, nil
}

// MealShare is the part of the daily targets one meal of type t should
// cover. Unknown types get the snack share.
func MealShare(t MealType, targets nutrition.Targets) nutrition.Targets {
	ratio, ok := mealTypeRatios[t]
	if !ok {
		ratio = mealTypeRatios[MealSnack]
	}
	scale := func(v int) int { return roundFloat(float64(v) * ratio) }
	return nutrition.Targets{
		Calories: scale(targets.Calories),
		Protein:  scale(targets.Protein),
		Carbs:    scale(targets.Carbs),
		Fat:      scale(targets.Fat),
		Fiber:    scale(targets.Fiber),
	}
}

// ReplaceMeal puts replacement at the position of the meal with id and
// recomputes the totals as a plain sum. The plan is copied.
func ReplaceMeal(plan DailyMealPlan, id string, replacement Meal) (DailyMealPlan, bool) {
	idx := plan.MealIndex(id)
	if idx < 0 {
		return plan, false
	}
	meals := append([]Meal(nil), plan.Meals...)
	meals[idx] = replacement
	plan.Meals = meals
	plan.TotalNutrition = SumMeals(meals)
	return plan, true
}

func (g *Generator) fail(key string, err error) error {
	g.logf("WARN mealplans: generation failed: %v", err)
	return &GenerationError{Message: g.printer.Sprintf(key), Err: err}
}

func (g *Generator) logf(format string, v ...any) {
	if g.logger == nil {
		return
	}
	g.logger.Printf(format, v...)
}

func targetsMeta(t nutrition.Targets) map[string]string {
	return map[string]string{
		ai.MetaCalories: strconv.Itoa(t.Calories),
		ai.MetaProtein:  strconv.Itoa(t.Protein),
		ai.MetaCarbs:    strconv.Itoa(t.Carbs),
		ai.MetaFat:      strconv.Itoa(t.Fat),
		ai.MetaFiber:    strconv.Itoa(t.Fiber),
	}
}

func planPrompt(p nutrition.UserProfile, t nutrition.Targets) string {
	var b strings.Builder
	b.WriteString("You are a nutritionist. Build a one-day meal plan for this user.\n\n")
	writeProfile(&b, p)
	fmt.Fprintf(&b, "- meals per day: %d\n\n", p.MealsPerDay)
	writeTargets(&b, "Daily targets", t)
	b.WriteString("\nRules:\n")
	b.WriteString("1. Compute every meal's nutrition from its actual ingredients.\n")
	b.WriteString("2. calories = protein*4 + carbs*4 + fat*9 for every meal.\n")
	b.WriteString("3. Split the day as breakfast 30%, lunch 40%, dinner 25%, snack 5% (if any).\n")
	b.WriteString("4. Avoid restricted foods and allergens and respect the health conditions.\n")
	b.WriteString("5. Keep recipes simple and give realistic preparation times.\n")
	return b.String()
}

func mealPrompt(m Meal, p nutrition.UserProfile, t nutrition.Targets) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a nutritionist. Suggest a different %s to replace the current one.\n\n", m.Type)
	fmt.Fprintf(&b, "Current meal: %s\n", m.Name)
	fmt.Fprintf(&b, "- ingredients: %s\n", orNone(m.Ingredients))
	fmt.Fprintf(&b, "- instructions: %s\n\n", orNone(m.Instructions))
	writeProfile(&b, p)
	b.WriteString("\n")
	writeTargets(&b, "Targets for the new meal", t)
	b.WriteString("\nThe new meal must be clearly different and calories must equal protein*4 + carbs*4 + fat*9.\n")
	return b.String()
}

func writeProfile(b *strings.Builder, p nutrition.UserProfile) {
	diet := string(p.DietType)
	if diet == "" {
		diet = string(nutrition.DietBalanced)
	}
	b.WriteString("User:\n")
	fmt.Fprintf(b, "- age: %d, weight: %.1f kg, height: %.1f cm, gender: %s\n", p.Age, p.Weight, p.Height, p.Gender)
	fmt.Fprintf(b, "- activity: %s, goal: %s, diet: %s\n", p.ActivityLevel, p.Goal, diet)
	fmt.Fprintf(b, "- restrictions: %s\n", orNone(p.DietaryRestrictions))
	fmt.Fprintf(b, "- allergies: %s\n", orNone(p.Allergies))
	fmt.Fprintf(b, "- health conditions: %s\n", orNone(p.HealthConditions))
	fmt.Fprintf(b, "- disliked foods: %s\n", orNone(p.DislikedFoods))
	fmt.Fprintf(b, "- preferred cuisines: %s\n", orNone(p.PreferredCuisines))
}

func writeTargets(b *strings.Builder, title string, t nutrition.Targets) {
	fmt.Fprintf(b, "%s: calories %d, protein %dg, carbs %dg, fat %dg, fiber %dg\n", title, t.Calories, t.Protein, t.Carbs, t.Fat, t.Fiber)
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func roundFloat(x float64) int {
	return roundPtr(&x)
}
