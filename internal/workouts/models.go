package workouts

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrPlanNotFound = errors.New("workout plan not found")
	ErrInvalidInput = errors.New("invalid workout input")
)

// ============================================================================
// Enums
// ============================================================================

type FitnessLevel string

const (
	LevelBeginner     FitnessLevel = "beginner"
	LevelIntermediate FitnessLevel = "intermediate"
	LevelAdvanced     FitnessLevel = "advanced"
)

type Goal string

const (
	GoalMuscleBuilding     Goal = "muscle_building"
	GoalFatLoss            Goal = "fat_loss"
	GoalFitnessImprovement Goal = "fitness_improvement"
	GoalStrength           Goal = "strength"
	GoalEndurance          Goal = "endurance"
	GoalFlexibility        Goal = "flexibility"
)

type Location string

const (
	LocationHome Location = "home"
	LocationGym  Location = "gym"
)

type Equipment string

const (
	EquipmentBodyweight     Equipment = "bodyweight"
	EquipmentResistanceBand Equipment = "resistance_band"
	EquipmentDumbbells      Equipment = "dumbbells"
	EquipmentGym            Equipment = "gym_equipment"
)

type ExperienceDuration string

const (
	ExperienceUnder3Months ExperienceDuration = "less_than_3_months"
	Experience3To6Months   ExperienceDuration = "3_to_6_months"
	Experience6To12Months  ExperienceDuration = "6_to_12_months"
	Experience1To2Years    ExperienceDuration = "1_to_2_years"
	ExperienceOver2Years   ExperienceDuration = "more_than_2_years"
)

// Injury names a condition the plan must work around.
type Injury string

var knownInjuries = map[Injury]bool{
	"cervical_disc_herniation": true, "lumbar_disc_herniation": true,
	"inguinal_hernia": true, "umbilical_hernia": true,
	"shoulder_dislocation": true, "rotator_cuff_tear": true,
	"shoulder_impingement": true, "biceps_tendonitis": true,
	"knee_osteoarthritis": true, "acl_tear": true, "mcl_tear": true,
	"meniscus_tear": true, "patellar_tendonitis": true,
	"lower_back_pain": true, "sciatica": true, "spondylolisthesis": true,
	"wrist_sprain": true, "carpal_tunnel": true, "ankle_sprain": true,
	"achilles_tendonitis": true, "plantar_fasciitis": true,
	"tennis_elbow": true, "golfers_elbow": true,
	"hip_bursitis": true, "hip_labral_tear": true, "groin_strain": true,
}

// ============================================================================
// Models
// ============================================================================

type WorkoutInput struct {
	Age                int                `json:"age"`
	Weight             float64            `json:"weight"`
	Height             float64            `json:"height"`
	ExperienceDuration ExperienceDuration `json:"experienceDuration"`
	Level              FitnessLevel       `json:"level"`
	Goals              []Goal             `json:"goals"`
	DaysPerWeek        int                `json:"daysPerWeek"`
	PlanDuration       int                `json:"planDuration"` // months, 1..3
	Location           Location           `json:"location"`
	Equipment          []Equipment        `json:"equipment"`
	Injuries           []Injury           `json:"injuries"`
}

// Weeks is the plan length in weeks (four per month).
func (in WorkoutInput) Weeks() int {
	return in.PlanDuration * 4
}

type Exercise struct {
	Name           string   `json:"name"`
	NameAr         string   `json:"nameAr"`
	Sets           int      `json:"sets"`
	Reps           string   `json:"reps"`
	RestTime       string   `json:"restTime"`
	VideoURL       string   `json:"videoUrl"`
	Notes          string   `json:"notes,omitempty"`
	InjuryWarnings []string `json:"injuryWarnings,omitempty"`
}

type WorkoutDay struct {
	Day             int        `json:"day"`
	Week            int        `json:"week"`
	DayName         string     `json:"dayName"`
	DayNameAr       string     `json:"dayNameAr"`
	Focus           string     `json:"focus"`
	FocusAr         string     `json:"focusAr"`
	Exercises       []Exercise `json:"exercises"`
	WeeklyIntensity string     `json:"weeklyIntensity,omitempty"`
}

type WorkoutPlan struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId,omitempty"`
	Input     WorkoutInput `json:"input"`
	Plan      []WorkoutDay `json:"plan"`
	CreatedAt time.Time    `json:"createdAt"`
}

type ExerciseSet struct {
	SetNumber int     `json:"setNumber"`
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
	Completed bool    `json:"completed"`
}

// WorkoutLog records one exercise of one plan day. WeekNumber is taken as
// recorded and never recomputed from Date.
type WorkoutLog struct {
	ID             string        `json:"id"`
	WorkoutPlanID  string        `json:"workoutPlanId"`
	DayNumber      int           `json:"dayNumber"`
	WeekNumber     int           `json:"weekNumber"`
	ExerciseName   string        `json:"exerciseName"`
	ExerciseNameAr string        `json:"exerciseNameAr"`
	Sets           []ExerciseSet `json:"sets"`
	Date           time.Time     `json:"date"`
	Notes          string        `json:"notes,omitempty"`
	Completed      bool          `json:"completed"`
}

type WeeklyStats struct {
	Week               int     `json:"week"`
	CompletedExercises int     `json:"completedExercises"`
	TotalExercises     int     `json:"totalExercises"`
	CompletionRate     float64 `json:"completionRate"` // percent
}

type WorkoutStats struct {
	TotalWorkouts      int           `json:"totalWorkouts"`
	TotalSets          int           `json:"totalSets"`
	TotalReps          int           `json:"totalReps"`
	TotalWeight        float64       `json:"totalWeight"`
	CompletedExercises int           `json:"completedExercises"`
	WeeklyStats        []WeeklyStats `json:"weeklyStats"`
}

type ProgressPoint struct {
	Date        time.Time `json:"date"`
	MaxWeight   float64   `json:"maxWeight"`
	TotalVolume float64   `json:"totalVolume"`
	Sets        int       `json:"sets"`
	AvgReps     int       `json:"avgReps"`
}

type ExerciseProgress struct {
	ExerciseName   string          `json:"exerciseName"`
	ExerciseNameAr string          `json:"exerciseNameAr"`
	History        []ProgressPoint `json:"history"`
}

// ============================================================================
// Validation
// ============================================================================

func (in WorkoutInput) Validate() error {
	if in.Age <= 0 || in.Weight <= 0 || in.Height <= 0 {
		return fmt.Errorf("%w: age, weight and height must be positive", ErrInvalidInput)
	}
	if in.DaysPerWeek < 1 || in.DaysPerWeek > 7 {
		return fmt.Errorf("%w: daysPerWeek must be 1-7", ErrInvalidInput)
	}
	if in.PlanDuration < 1 || in.PlanDuration > 3 {
		return fmt.Errorf("%w: planDuration must be 1-3 months", ErrInvalidInput)
	}
	switch in.Level {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
	default:
		return fmt.Errorf("%w: unknown level %q", ErrInvalidInput, in.Level)
	}
	switch in.Location {
	case LocationHome, LocationGym:
	default:
		return fmt.Errorf("%w: unknown location %q", ErrInvalidInput, in.Location)
	}
	switch in.ExperienceDuration {
	case ExperienceUnder3Months, Experience3To6Months, Experience6To12Months, Experience1To2Years, ExperienceOver2Years:
	default:
		return fmt.Errorf("%w: unknown experienceDuration %q", ErrInvalidInput, in.ExperienceDuration)
	}
	if len(in.Goals) == 0 {
		return fmt.Errorf("%w: at least one goal is required", ErrInvalidInput)
	}
	for i, g := range in.Goals {
		switch g {
		case GoalMuscleBuilding, GoalFatLoss, GoalFitnessImprovement, GoalStrength, GoalEndurance, GoalFlexibility:
		default:
			return fmt.Errorf("%w: goals[%d]: unknown goal %q", ErrInvalidInput, i, g)
		}
	}
	for i, e := range in.Equipment {
		switch e {
		case EquipmentBodyweight, EquipmentResistanceBand, EquipmentDumbbells, EquipmentGym:
		default:
			return fmt.Errorf("%w: equipment[%d]: unknown equipment %q", ErrInvalidInput, i, e)
		}
	}
	for i, inj := range in.Injuries {
		if !knownInjuries[inj] {
			return fmt.Errorf("%w: injuries[%d]: unknown injury %q", ErrInvalidInput, i, inj)
		}
	}
	return nil
}
