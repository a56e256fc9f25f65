package nutrition

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidProfile = errors.New("invalid profile")

// ============================================================================
// Enums
// ============================================================================

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

type Goal string

const (
	GoalLose     Goal = "lose"
	GoalMaintain Goal = "maintain"
	GoalGain     Goal = "gain"
)

type WeightLossMode string

const (
	WeightLossStandard   WeightLossMode = "standard"
	WeightLossAggressive WeightLossMode = "aggressive"
)

type DietType string

const (
	DietKeto                DietType = "keto"
	DietLowCarb             DietType = "low_carb"
	DietLowFat              DietType = "low_fat"
	DietHighProtein         DietType = "high_protein"
	DietBalanced            DietType = "balanced"
	DietIntermittentFasting DietType = "intermittent_fasting"
	DietMediterranean       DietType = "mediterranean"
	DietPaleo               DietType = "paleo"
	DietVegan               DietType = "vegan"
	DietVegetarian          DietType = "vegetarian"
)

// ============================================================================
// Models
// ============================================================================

// UserProfile is the biometric profile plus preference lists. The lists are
// passed through to the generator verbatim and never affect the arithmetic.
type UserProfile struct {
	Age                 int            `json:"age"`
	Weight              float64        `json:"weight"`
	Height              float64        `json:"height"`
	Gender              Gender         `json:"gender"`
	ActivityLevel       ActivityLevel  `json:"activityLevel"`
	Goal                Goal           `json:"goal"`
	WeightLossMode      WeightLossMode `json:"weightLossMode,omitempty"`
	BodyFatPercent      *float64       `json:"bodyFatPercent,omitempty"`
	MealsPerDay         int            `json:"mealsPerDay"`
	DietType            DietType       `json:"dietType,omitempty"`
	DietaryRestrictions []string       `json:"dietaryRestrictions"`
	Allergies           []string       `json:"allergies"`
	HealthConditions    []string       `json:"healthConditions"`
	DislikedFoods       []string       `json:"dislikedFoods"`
	PreferredCuisines   []string       `json:"preferredCuisines"`
}

// Targets are daily nutrition targets. The same shape is used for meal
// nutrition, plan totals and log sums.
type Targets struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
	Fiber    int `json:"fiber"`
}

// MacroCalories is protein*4 + carbs*4 + fat*9.
func (t Targets) MacroCalories() int {
	return t.Protein*4 + t.Carbs*4 + t.Fat*9
}

// Add returns the field-by-field sum.
func (t Targets) Add(o Targets) Targets {
	return Targets{
		Calories: t.Calories + o.Calories,
		Protein:  t.Protein + o.Protein,
		Carbs:    t.Carbs + o.Carbs,
		Fat:      t.Fat + o.Fat,
		Fiber:    t.Fiber + o.Fiber,
	}
}

// Sub returns t - o field by field.
func (t Targets) Sub(o Targets) Targets {
	return Targets{
		Calories: t.Calories - o.Calories,
		Protein:  t.Protein - o.Protein,
		Carbs:    t.Carbs - o.Carbs,
		Fat:      t.Fat - o.Fat,
		Fiber:    t.Fiber - o.Fiber,
	}
}

// Sum adds up any number of nutrition records.
func Sum(items ...Targets) Targets {
	var total Targets
	for _, it := range items {
		total = total.Add(it)
	}
	return total
}

// ============================================================================
// Validation (profile form)
// ============================================================================

// Validate applies the profile form ranges. ComputeTargets itself only
// needs positive age, weight and height.
func (p UserProfile) Validate() error {
	if p.Age < 16 || p.Age > 100 {
		return fmt.Errorf("%w: age must be between 16 and 100", ErrInvalidProfile)
	}
	if p.Weight < 20 || p.Weight > 300 {
		return fmt.Errorf("%w: weight must be between 20 and 300 kg", ErrInvalidProfile)
	}
	if p.Height < 100 || p.Height > 250 {
		return fmt.Errorf("%w: height must be between 100 and 250 cm", ErrInvalidProfile)
	}
	if p.BodyFatPercent != nil && (*p.BodyFatPercent < 3 || *p.BodyFatPercent > 60) {
		return fmt.Errorf("%w: bodyFatPercent must be between 3 and 60", ErrInvalidProfile)
	}
	if p.MealsPerDay < 1 || p.MealsPerDay > 8 {
		return fmt.Errorf("%w: mealsPerDay must be between 1 and 8", ErrInvalidProfile)
	}
	if _, err := bmrOffset(p.Gender); err != nil {
		return err
	}
	if _, err := activityMultiplier(p.ActivityLevel); err != nil {
		return err
	}
	switch p.Goal {
	case GoalLose, GoalMaintain, GoalGain:
	default:
		return fmt.Errorf("%w: unknown goal %q", ErrInvalidProfile, p.Goal)
	}
	switch p.WeightLossMode {
	case "", WeightLossStandard, WeightLossAggressive:
	default:
		return fmt.Errorf("%w: unknown weightLossMode %q", ErrInvalidProfile, p.WeightLossMode)
	}
	if p.DietType != "" {
		if _, ok := dietSplits[p.DietType]; !ok {
			return fmt.Errorf("%w: unknown dietType %q", ErrInvalidProfile, p.DietType)
		}
	}
	return nil
}

// round matches the half-up rounding used for every derived figure.
func round(x float64) int {
	return int(math.Floor(x + 0.5))
}
