package nutrition

import (
	"github.com/fdg312/fitplan/internal/i18n"
)

// CalorieTolerance is the allowed gap between stated calories and
// protein*4 + carbs*4 + fat*9.
const CalorieTolerance = 50

// ValidationResult is the outcome of Validate. Corrected is set only when
// Valid is false.
type ValidationResult struct {
	Valid     bool     `json:"valid"`
	Message   string   `json:"message,omitempty"`
	Corrected *Targets `json:"corrected,omitempty"`
}

// Consistent reports whether the macros add up to the calories within
// CalorieTolerance.
func Consistent(t Targets) bool {
	return abs(t.MacroCalories()-t.Calories) <= CalorieTolerance
}

// Validate checks the calorie/macro identity and, when it is off, offers a
// share-preserving rescale: every macro keeps its share of the macro
// calories and is re-expressed against the stated calories. Calories and
// fiber are never changed.
//
// With no macro calories at all there are no shares to keep, so the
// balanced split is used instead.
func Validate(t Targets, p *i18n.Printer) ValidationResult {
	macroCals := t.MacroCalories()
	if abs(macroCals-t.Calories) <= CalorieTolerance {
		return ValidationResult{Valid: true}
	}

	var proteinShare, carbsShare, fatShare float64
	if macroCals > 0 {
		proteinShare = float64(t.Protein*kcalPerGramProtein) / float64(macroCals)
		carbsShare = float64(t.Carbs*kcalPerGramCarbs) / float64(macroCals)
		fatShare = float64(t.Fat*kcalPerGramFat) / float64(macroCals)
	} else {
		s := dietSplits[DietBalanced]
		proteinShare, carbsShare, fatShare = s.Protein, s.Carbs, s.Fat
	}

	cals := float64(t.Calories)
	corrected := Targets{
		Calories: t.Calories,
		Protein:  round(cals * proteinShare / kcalPerGramProtein),
		Carbs:    round(cals * carbsShare / kcalPerGramCarbs),
		Fat:      round(cals * fatShare / kcalPerGramFat),
		Fiber:    t.Fiber,
	}

	return ValidationResult{
		Valid: false,
		Message: p.Sprintf(i18n.MacrosMismatch,
			t.Calories, macroCals, corrected.Protein, corrected.Carbs, corrected.Fat),
		Corrected: &corrected,
	}
}

// ScaleToCalories rescales protein, carbs and fat so their calories match
// t.Calories before targets are handed to the generator. Targets without
// macro calories are returned as is.
func ScaleToCalories(t Targets) Targets {
	macroCals := t.MacroCalories()
	if macroCals == 0 {
		return t
	}
	factor := float64(t.Calories) / float64(macroCals)
	return Targets{
		Calories: t.Calories,
		Protein:  round(float64(t.Protein) * factor),
		Carbs:    round(float64(t.Carbs) * factor),
		Fat:      round(float64(t.Fat) * factor),
		Fiber:    t.Fiber,
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
