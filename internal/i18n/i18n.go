// Package i18n renders user-facing messages in the configured locale.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	MacrosMismatch        = "macros.mismatch"
	MealPlanFailed        = "generate.meal_plan.failed"
	MealFailed            = "generate.meal.failed"
	WorkoutPlanFailed     = "generate.workout_plan.failed"
	CalorieAnalysisFailed = "generate.calories.failed"
	ProfileRequired       = "profile.required"
	NoCurrentPlan         = "plan.none"
)

var supported = []language.Tag{language.English, language.Arabic}

var matcher = language.NewMatcher(supported)

var cat = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))

	set := func(tag language.Tag, key, msg string) {
		if err := b.SetString(tag, key, msg); err != nil {
			panic(err)
		}
	}

	set(language.English, MacrosMismatch, "Calories (%d) do not match macros (%d kcal). Suggested: protein %dg, carbs %dg, fat %dg.")
	set(language.English, MealPlanFailed, "Failed to generate the meal plan. Please try again.")
	set(language.English, MealFailed, "Failed to regenerate the meal. Please try again.")
	set(language.English, WorkoutPlanFailed, "Failed to generate the workout plan. Please try again.")
	set(language.English, CalorieAnalysisFailed, "Could not analyse the meals. Please try again.")
	set(language.English, ProfileRequired, "Please set up your profile first.")
	set(language.English, NoCurrentPlan, "There is no meal plan for the selected day.")

	set(language.Arabic, MacrosMismatch, "السعرات الحرارية (%d) لا تتوافق مع الماكروز (%d). المقترح: بروتين %d جم، كربوهيدرات %d جم، دهون %d جم.")
	set(language.Arabic, MealPlanFailed, "فشل في توليد خطة الوجبات. يرجى المحاولة مرة أخرى.")
	set(language.Arabic, MealFailed, "فشل في إعادة توليد الوجبة. يرجى المحاولة مرة أخرى.")
	set(language.Arabic, WorkoutPlanFailed, "فشل في توليد برنامج التمرين. يرجى المحاولة مرة أخرى.")
	set(language.Arabic, CalorieAnalysisFailed, "تعذر تحليل الوجبات. يرجى المحاولة مرة أخرى.")
	set(language.Arabic, ProfileRequired, "يرجى إعداد الملف الشخصي أولاً")
	set(language.Arabic, NoCurrentPlan, "لا توجد خطة وجبات لليوم المحدد.")

	return b
}

// Printer formats messages for one locale.
type Printer struct {
	tag language.Tag
	p   *message.Printer
}

// NewPrinter picks the closest supported locale ("ar-EG" → ar, unknown → en).
func NewPrinter(locale string) *Printer {
	tag := language.English
	if l := strings.TrimSpace(locale); l != "" {
		if parsed, err := language.Parse(l); err == nil {
			_, idx, conf := matcher.Match(parsed)
			if conf != language.No {
				tag = supported[idx]
			}
		}
	}
	return &Printer{tag: tag, p: message.NewPrinter(tag, message.Catalog(cat))}
}

// Default is the English printer.
func Default() *Printer {
	return NewPrinter("en")
}

func (p *Printer) Locale() string {
	return p.tag.String()
}

func (p *Printer) Sprintf(key string, args ...any) string {
	if p == nil {
		return Default().Sprintf(key, args...)
	}
	return p.p.Sprintf(key, args...)
}
