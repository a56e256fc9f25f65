package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/fdg312/fitplan/internal/ai"
	"github.com/fdg312/fitplan/internal/i18n"
	"github.com/google/uuid"
)

var errMalformedPlan = errors.New("malformed workout plan")

// GenerationError carries the localized message for a failed generation and
// matches ai.ErrGenerationFailed.
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

type Generator struct {
	provider ai.Provider
	printer  *i18n.Printer
	logger   Logger
	now      func() time.Time
}

func NewGenerator(provider ai.Provider, printer *i18n.Printer, logger Logger, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{provider: provider, printer: printer, logger: logger, now: now}
}

// GeneratePlan requests a multi-week plan for input. A plan with fewer days
// than weeks*daysPerWeek is accepted with a warning.
func (g *Generator) GeneratePlan(ctx context.Context, input WorkoutInput) (WorkoutPlan, error) {
	if err := input.Validate(); err != nil {
		return WorkoutPlan{}, err
	}

	expected := input.Weeks() * input.DaysPerWeek
	g.logf("INFO workouts: generating plan weeks=%d days_per_week=%d", input.Weeks(), input.DaysPerWeek)

	data, err := g.provider.Generate(ctx, ai.GenerateRequest{
		Schema:   ai.SchemaWorkoutPlan,
		Messages: []ai.Message{ai.TextMessage(ai.RoleUser, workoutPrompt(input))},
		Meta: map[string]string{
			ai.MetaDaysPerWeek: strconv.Itoa(input.DaysPerWeek),
			ai.MetaPlanWeeks:   strconv.Itoa(input.Weeks()),
		},
	})
	if err != nil {
		return WorkoutPlan{}, g.fail(err)
	}

	days, err := decodeDays(data)
	if err != nil {
		return WorkoutPlan{}, g.fail(err)
	}
	if len(days) < expected {
		g.logf("WARN workouts: plan has %d days, expected %d", len(days), expected)
	}

	return WorkoutPlan{
		ID:        uuid.NewString(),
		Input:     input,
		Plan:      days,
		CreatedAt: g.now().UTC(),
	}, nil
}

func (g *Generator) fail(err error) error {
	g.logf("WARN workouts: generation failed: %v", err)
	return &GenerationError{Message: g.printer.Sprintf(i18n.WorkoutPlanFailed), Err: err}
}

func (g *Generator) logf(format string, v ...any) {
	if g.logger == nil {
		return
	}
	g.logger.Printf(format, v...)
}

// ============================================================================
// Decoding
// ============================================================================

type rawExercise struct {
	Name           string   `json:"name"`
	NameAr         string   `json:"nameAr"`
	Sets           *float64 `json:"sets"`
	Reps           string   `json:"reps"`
	RestTime       string   `json:"restTime"`
	VideoURL       string   `json:"videoUrl"`
	Notes          string   `json:"notes"`
	InjuryWarnings []string `json:"injuryWarnings"`
}

type rawDay struct {
	Day             *float64      `json:"day"`
	Week            *float64      `json:"week"`
	DayName         string        `json:"dayName"`
	DayNameAr       string        `json:"dayNameAr"`
	Focus           string        `json:"focus"`
	FocusAr         string        `json:"focusAr"`
	Exercises       []rawExercise `json:"exercises"`
	WeeklyIntensity string        `json:"weeklyIntensity"`
}

func decodeDays(data []byte) ([]WorkoutDay, error) {
	var raw struct {
		Plan []rawDay `json:"plan"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedPlan, err)
	}
	if len(raw.Plan) == 0 {
		return nil, fmt.Errorf("%w: plan is empty", errMalformedPlan)
	}

	days := make([]WorkoutDay, 0, len(raw.Plan))
	for i, d := range raw.Plan {
		day, err := d.toDay()
		if err != nil {
			return nil, fmt.Errorf("%w: plan[%d]: %v", errMalformedPlan, i, err)
		}
		days = append(days, day)
	}
	return days, nil
}

func (d rawDay) toDay() (WorkoutDay, error) {
	day, week := roundNum(d.Day), roundNum(d.Week)
	if day < 1 {
		return WorkoutDay{}, fmt.Errorf("day must be >= 1")
	}
	if week < 1 {
		return WorkoutDay{}, fmt.Errorf("week must be >= 1")
	}
	if len(d.Exercises) == 0 {
		return WorkoutDay{}, fmt.Errorf("exercises is required")
	}

	exercises := make([]Exercise, 0, len(d.Exercises))
	for i, e := range d.Exercises {
		if strings.TrimSpace(e.Name) == "" {
			return WorkoutDay{}, fmt.Errorf("exercises[%d]: name is required", i)
		}
		sets := roundNum(e.Sets)
		if sets < 1 {
			return WorkoutDay{}, fmt.Errorf("exercises[%d]: sets must be >= 1", i)
		}
		exercises = append(exercises, Exercise{
			Name:           strings.TrimSpace(e.Name),
			NameAr:         e.NameAr,
			Sets:           sets,
			Reps:           e.Reps,
			RestTime:       e.RestTime,
			VideoURL:       e.VideoURL,
			Notes:          e.Notes,
			InjuryWarnings: e.InjuryWarnings,
		})
	}

	return WorkoutDay{
		Day:             day,
		Week:            week,
		DayName:         d.DayName,
		DayNameAr:       d.DayNameAr,
		Focus:           d.Focus,
		FocusAr:         d.FocusAr,
		Exercises:       exercises,
		WeeklyIntensity: d.WeeklyIntensity,
	}, nil
}

func roundNum(v *float64) int {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0
	}
	return int(math.Floor(*v + 0.5))
}

func workoutPrompt(in WorkoutInput) string {
	var b strings.Builder
	b.WriteString("You are a certified strength coach. Build a progressive training program.\n\n")
	fmt.Fprintf(&b, "- age: %d, weight: %.1f kg, height: %.1f cm\n", in.Age, in.Weight, in.Height)
	fmt.Fprintf(&b, "- experience: %s, level: %s\n", in.ExperienceDuration, in.Level)
	fmt.Fprintf(&b, "- goals: %s\n", joinOrNone(in.Goals))
	fmt.Fprintf(&b, "- location: %s, equipment: %s\n", in.Location, joinOrNone(in.Equipment))
	fmt.Fprintf(&b, "- injuries: %s\n\n", joinOrNone(in.Injuries))
	fmt.Fprintf(&b, "Create all %d days (%d weeks x %d days per week). ", in.Weeks()*in.DaysPerWeek, in.Weeks(), in.DaysPerWeek)
	fmt.Fprintf(&b, "The last element must be {\"day\": %d, \"week\": %d}. ", in.DaysPerWeek, in.Weeks())
	b.WriteString("Increase the load every week, give a weeklyIntensity for each day, ")
	b.WriteString("avoid exercises that aggravate the listed injuries and add injuryWarnings where relevant. ")
	b.WriteString("Provide English and Arabic names for days, focus and exercises.\n")
	return b.String()
}

func joinOrNone[T ~string](items []T) string {
	if len(items) == 0 {
		return "none"
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = string(it)
	}
	return strings.Join(parts, ", ")
}
