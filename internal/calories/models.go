package calories

import (
	"math"
)

// Macros are the rounded, non-negative figures of one food item or meal.
type Macros struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
}

func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Protein:  m.Protein + o.Protein,
		Carbs:    m.Carbs + o.Carbs,
		Fat:      m.Fat + o.Fat,
	}
}

type FoodItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Macros
}

type MealBreakdown struct {
	Items  []FoodItem `json:"items"`
	Totals Macros     `json:"totals"`
}

// DayBreakdown is the analysed day. A meal is nil when its text was empty.
type DayBreakdown struct {
	Breakfast *MealBreakdown `json:"breakfast,omitempty"`
	Lunch     *MealBreakdown `json:"lunch,omitempty"`
	Dinner    *MealBreakdown `json:"dinner,omitempty"`
	Snack     *MealBreakdown `json:"snack,omitempty"`
	Total     Macros         `json:"total"`
	Notes     string         `json:"notes,omitempty"`
}

// MealTexts is the free text typed for each meal.
type MealTexts struct {
	Breakfast string `json:"breakfastText"`
	Lunch     string `json:"lunchText"`
	Dinner    string `json:"dinnerText"`
	Snack     string `json:"snackText"`
}

func (m MealTexts) Empty() bool {
	return isBlank(m.Breakfast) && isBlank(m.Lunch) && isBlank(m.Dinner) && isBlank(m.Snack)
}

// Draft is what the calorie screen keeps between sessions.
type Draft struct {
	MealTexts
	Result *DayBreakdown `json:"result"`
}

// ============================================================================
// Raw AI result
// ============================================================================

type rawMacros struct {
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Carbs    *float64 `json:"carbs"`
	Fat      *float64 `json:"fat"`
}

func (r rawMacros) sanitize() Macros {
	return Macros{
		Calories: safeNumber(r.Calories),
		Protein:  safeNumber(r.Protein),
		Carbs:    safeNumber(r.Carbs),
		Fat:      safeNumber(r.Fat),
	}
}

type rawItem struct {
	Name     string   `json:"name"`
	Quantity *float64 `json:"quantity"`
	Unit     string   `json:"unit"`
	rawMacros
}

type rawMeal struct {
	Items  []rawItem  `json:"items"`
	Totals *rawMacros `json:"totals"`
}

type rawDay struct {
	Breakfast *rawMeal   `json:"breakfast"`
	Lunch     *rawMeal   `json:"lunch"`
	Dinner    *rawMeal   `json:"dinner"`
	Snack     *rawMeal   `json:"snack"`
	Total     *rawMacros `json:"total"`
	Notes     string     `json:"notes"`
}

// safeNumber: missing or non-finite → 0, rounded half up, never negative.
func safeNumber(v *float64) int {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0
	}
	return int(math.Max(0, math.Floor(*v+0.5)))
}

func safeQuantity(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
		return 0
	}
	return *v
}
