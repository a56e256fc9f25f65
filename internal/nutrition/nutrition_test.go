package nutrition

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/fdg312/fitplan/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func baseProfile() UserProfile {
	return UserProfile{
		Age:           30,
		Weight:        80,
		Height:        180,
		Gender:        GenderMale,
		ActivityLevel: ActivityModerate,
		Goal:          GoalMaintain,
		DietType:      DietBalanced,
		MealsPerDay:   4,
	}
}

func TestComputeTargetsMaintainScenario(t *testing.T) {
	got, err := ComputeTargets(baseProfile())
	require.NoError(t, err)

	assert.Equal(t, Targets{Calories: 2759, Protein: 172, Fat: 92, Carbs: 311, Fiber: 39}, got)
}

func TestComputeTargetsGoals(t *testing.T) {
	tests := []struct {
		name    string
		profile func() UserProfile
		want    Targets
	}{
		{
			name: "female lose standard",
			profile: func() UserProfile {
				return UserProfile{
					Age: 25, Weight: 60, Height: 165,
					Gender: GenderFemale, ActivityLevel: ActivityLight,
					Goal: GoalLose, WeightLossMode: WeightLossStandard,
				}
			},
			want: Targets{Calories: 1350, Protein: 84, Fat: 45, Carbs: 152, Fiber: 25},
		},
		{
			name: "aggressive cut with body fat on keto",
			profile: func() UserProfile {
				return UserProfile{
					Age: 40, Weight: 100, Height: 180,
					Gender: GenderMale, ActivityLevel: ActivitySedentary,
					Goal: GoalLose, WeightLossMode: WeightLossAggressive,
					BodyFatPercent: floatPtr(30), DietType: DietKeto,
				}
			},
			want: Targets{Calories: 1621, Protein: 154, Fat: 104, Carbs: 17, Fiber: 25},
		},
		{
			name: "gain",
			profile: func() UserProfile {
				p := baseProfile()
				p.Goal = GoalGain
				return p
			},
			want: Targets{Calories: 3259, Protein: 204, Fat: 109, Carbs: 366, Fiber: 46},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeTargets(tt.profile())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeTargetsBodyFatOutOfRangeUsesPercentSplit(t *testing.T) {
	p := baseProfile()
	p.BodyFatPercent = floatPtr(60)

	got, err := ComputeTargets(p)
	require.NoError(t, err)
	assert.Equal(t, 172, got.Protein)

	p.BodyFatPercent = floatPtr(20)
	got, err = ComputeTargets(p)
	require.NoError(t, err)
	assert.Equal(t, 115, got.Protein) // 80 * 0.8 * 1.8
}

func TestComputeTargetsUnknownDietFallsBackToBalanced(t *testing.T) {
	p := baseProfile()
	p.DietType = ""
	got, err := ComputeTargets(p)
	require.NoError(t, err)

	p.DietType = DietVegetarian
	veg, err := ComputeTargets(p)
	require.NoError(t, err)

	assert.Equal(t, got, veg)
}

func TestComputeTargetsDeterministic(t *testing.T) {
	p := baseProfile()
	first, err := ComputeTargets(p)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := ComputeTargets(p)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestComputeTargetsRejectsIncompleteProfile(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *UserProfile)
	}{
		{"zero age", func(p *UserProfile) { p.Age = 0 }},
		{"negative weight", func(p *UserProfile) { p.Weight = -1 }},
		{"missing height", func(p *UserProfile) { p.Height = 0 }},
		{"unknown gender", func(p *UserProfile) { p.Gender = "" }},
		{"unknown activity", func(p *UserProfile) { p.ActivityLevel = "couch" }},
		{"unknown goal", func(p *UserProfile) { p.Goal = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := baseProfile()
			tt.mutate(&p)
			_, err := ComputeTargets(p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidProfile))
		})
	}
}

func TestProfileValidate(t *testing.T) {
	assert.NoError(t, baseProfile().Validate())

	p := baseProfile()
	p.Age = 15
	assert.ErrorIs(t, p.Validate(), ErrInvalidProfile)

	p = baseProfile()
	p.BodyFatPercent = floatPtr(2)
	assert.ErrorIs(t, p.Validate(), ErrInvalidProfile)

	p = baseProfile()
	p.DietType = "carnivore"
	assert.ErrorIs(t, p.Validate(), ErrInvalidProfile)

	p = baseProfile()
	p.MealsPerDay = 0
	assert.ErrorIs(t, p.Validate(), ErrInvalidProfile)
}

func TestValidateWithinTolerance(t *testing.T) {
	res := Validate(Targets{Calories: 2000, Protein: 150, Carbs: 200, Fat: 67, Fiber: 30}, i18n.Default())
	assert.True(t, res.Valid)
	assert.Nil(t, res.Corrected)
	assert.Empty(t, res.Message)
}

func TestValidateShareRescale(t *testing.T) {
	in := Targets{Calories: 2000, Protein: 100, Carbs: 100, Fat: 100, Fiber: 30}
	res := Validate(in, i18n.Default())

	require.False(t, res.Valid)
	require.NotNil(t, res.Corrected)
	assert.Equal(t, Targets{Calories: 2000, Protein: 118, Carbs: 118, Fat: 118, Fiber: 30}, *res.Corrected)
	assert.Contains(t, res.Message, "Calories (")
}

func TestValidateZeroMacrosUsesBalancedSplit(t *testing.T) {
	res := Validate(Targets{Calories: 2000, Fiber: 30}, i18n.Default())

	require.False(t, res.Valid)
	require.NotNil(t, res.Corrected)
	assert.Equal(t, Targets{Calories: 2000, Protein: 125, Carbs: 225, Fat: 67, Fiber: 30}, *res.Corrected)
}

func TestValidateCorrectedIsConsistent(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		in := Targets{
			Calories: 800 + r.Intn(3500),
			Protein:  r.Intn(300),
			Carbs:    r.Intn(500),
			Fat:      r.Intn(200),
			Fiber:    r.Intn(60),
		}
		res := Validate(in, i18n.Default())
		if res.Valid {
			assert.Nil(t, res.Corrected)
			continue
		}
		require.NotNil(t, res.Corrected)
		c := *res.Corrected
		assert.Equal(t, in.Calories, c.Calories)
		assert.Equal(t, in.Fiber, c.Fiber)
		// each macro can be off by half a gram after rounding
		assert.LessOrEqual(t, abs(c.MacroCalories()-c.Calories), 9, "input %+v corrected %+v", in, c)
		assert.True(t, Consistent(c))
	}
}

func TestScaleToCalories(t *testing.T) {
	got := ScaleToCalories(Targets{Calories: 2000, Protein: 100, Carbs: 100, Fat: 100, Fiber: 30})
	assert.Equal(t, Targets{Calories: 2000, Protein: 118, Carbs: 118, Fat: 118, Fiber: 30}, got)

	zero := Targets{Calories: 2000, Fiber: 25}
	assert.Equal(t, zero, ScaleToCalories(zero))
}

func TestSum(t *testing.T) {
	got := Sum(
		Targets{Calories: 100, Protein: 1, Carbs: 2, Fat: 3, Fiber: 4},
		Targets{Calories: 200, Protein: 10, Carbs: 20, Fat: 30, Fiber: 40},
	)
	assert.Equal(t, Targets{Calories: 300, Protein: 11, Carbs: 22, Fat: 33, Fiber: 44}, got)
	assert.Equal(t, Targets{}, Sum())
}
