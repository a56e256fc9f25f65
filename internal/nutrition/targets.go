package nutrition

import (
	"fmt"
	"math"
)

const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9

	minFiberGrams         = 25
	fiberGramsPer1000     = 14
	calorieSurplusDeficit = 500
	aggressiveFactor      = 0.70
)

// macroSplit is the protein/fat/carbs share of calories for a diet type.
type macroSplit struct {
	Protein float64
	Fat     float64
	Carbs   float64
}

var dietSplits = map[DietType]macroSplit{
	DietKeto:                {Protein: 0.25, Fat: 0.70, Carbs: 0.05},
	DietLowCarb:             {Protein: 0.30, Fat: 0.50, Carbs: 0.20},
	DietHighProtein:         {Protein: 0.40, Fat: 0.25, Carbs: 0.35},
	DietLowFat:              {Protein: 0.30, Fat: 0.20, Carbs: 0.50},
	DietBalanced:            {Protein: 0.25, Fat: 0.30, Carbs: 0.45},
	DietIntermittentFasting: {Protein: 0.30, Fat: 0.30, Carbs: 0.40},
	DietMediterranean:       {Protein: 0.20, Fat: 0.35, Carbs: 0.45},
	DietPaleo:               {Protein: 0.30, Fat: 0.40, Carbs: 0.30},
	DietVegan:               {Protein: 0.20, Fat: 0.25, Carbs: 0.55},
	DietVegetarian:          {Protein: 0.25, Fat: 0.30, Carbs: 0.45},
}

var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary:  1.2,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityActive:     1.725,
	ActivityVeryActive: 1.9,
}

func activityMultiplier(level ActivityLevel) (float64, error) {
	m, ok := activityMultipliers[level]
	if !ok {
		return 0, fmt.Errorf("%w: unknown activityLevel %q", ErrInvalidProfile, level)
	}
	return m, nil
}

func bmrOffset(g Gender) (float64, error) {
	switch g {
	case GenderMale:
		return 5, nil
	case GenderFemale:
		return -161, nil
	default:
		return 0, fmt.Errorf("%w: unknown gender %q", ErrInvalidProfile, g)
	}
}

func splitFor(d DietType) macroSplit {
	if s, ok := dietSplits[d]; ok {
		return s
	}
	return dietSplits[DietBalanced]
}

// BMR is the Mifflin-St Jeor basal metabolic rate.
func BMR(p UserProfile) (float64, error) {
	offset, err := bmrOffset(p.Gender)
	if err != nil {
		return 0, err
	}
	return 10*p.Weight + 6.25*p.Height - 5*float64(p.Age) + offset, nil
}

// TDEE is BMR scaled by the activity multiplier.
func TDEE(p UserProfile) (float64, error) {
	bmr, err := BMR(p)
	if err != nil {
		return 0, err
	}
	m, err := activityMultiplier(p.ActivityLevel)
	if err != nil {
		return 0, err
	}
	return bmr * m, nil
}

// ComputeTargets derives daily targets from a profile. Protein is fixed
// first (lean-mass based when body fat is known), the remaining calories
// are then split between fat and carbs by the diet's ratio.
func ComputeTargets(p UserProfile) (Targets, error) {
	if p.Age <= 0 {
		return Targets{}, fmt.Errorf("%w: age must be positive", ErrInvalidProfile)
	}
	if p.Weight <= 0 || math.IsNaN(p.Weight) {
		return Targets{}, fmt.Errorf("%w: weight must be positive", ErrInvalidProfile)
	}
	if p.Height <= 0 || math.IsNaN(p.Height) {
		return Targets{}, fmt.Errorf("%w: height must be positive", ErrInvalidProfile)
	}

	tdee, err := TDEE(p)
	if err != nil {
		return Targets{}, err
	}

	var calories int
	switch p.Goal {
	case GoalLose:
		if p.WeightLossMode == WeightLossAggressive {
			calories = round(tdee * aggressiveFactor)
		} else {
			calories = round(tdee - calorieSurplusDeficit)
		}
	case GoalGain:
		calories = round(tdee + calorieSurplusDeficit)
	case GoalMaintain:
		calories = round(tdee)
	default:
		return Targets{}, fmt.Errorf("%w: unknown goal %q", ErrInvalidProfile, p.Goal)
	}

	split := splitFor(p.DietType)

	var protein int
	if bf := p.BodyFatPercent; bf != nil && *bf > 0 && *bf < 60 {
		lbm := p.Weight * (1 - *bf/100)
		perKg := 1.8
		if p.Goal == GoalLose && p.WeightLossMode == WeightLossAggressive {
			perKg = 2.2
		}
		protein = round(lbm * perKg)
	} else {
		protein = round(float64(calories) * split.Protein / kcalPerGramProtein)
	}

	remaining := math.Max(0, float64(calories-protein*kcalPerGramProtein))
	fatShare := split.Fat / (split.Fat + split.Carbs)
	carbsShare := split.Carbs / (split.Fat + split.Carbs)

	fiber := math.Max(minFiberGrams, float64(calories)/1000*fiberGramsPer1000)

	return Targets{
		Calories: calories,
		Protein:  protein,
		Fat:      round(remaining * fatShare / kcalPerGramFat),
		Carbs:    round(remaining * carbsShare / kcalPerGramCarbs),
		Fiber:    round(fiber),
	}, nil
}
