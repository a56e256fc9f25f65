package ai

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrGenerationFailed wraps every failure of the generative call: transport,
// timeout, rate limit or an unusable response.
var ErrGenerationFailed = errors.New("generation failed")

// Provider returns a JSON object conforming to req.Schema. The caller owns
// decoding and validation of the result.
type Provider interface {
	Generate(ctx context.Context, req GenerateRequest) (json.RawMessage, error)
}

type Schema string

const (
	SchemaCalorieBreakdown Schema = "calorie_breakdown"
	SchemaDailyMealPlan    Schema = "daily_meal_plan"
	SchemaMeal             Schema = "meal"
	SchemaWorkoutPlan      Schema = "workout_plan"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"

	PartText  = "text"
	PartImage = "image"
)

// Meta keys. Structured hints sent along with the prompt; the mock provider
// builds its answer from them, remote providers ignore them.
const (
	MetaCalories    = "calories"
	MetaProtein     = "protein"
	MetaCarbs       = "carbs"
	MetaFat         = "fat"
	MetaFiber       = "fiber"
	MetaMealType    = "meal_type"
	MetaMealsPerDay = "meals_per_day"
	MetaDaysPerWeek = "days_per_week"
	MetaPlanWeeks   = "plan_weeks"
	MetaDate        = "date"
)

type ContentPart struct {
	Type     string
	Text     string
	ImageURL string
}

type Message struct {
	Role    string
	Content []ContentPart
}

// TextMessage is a message with a single text part.
func TextMessage(role, text string) Message {
	return Message{Role: role, Content: []ContentPart{{Type: PartText, Text: text}}}
}

type GenerateRequest struct {
	Schema   Schema
	Messages []Message
	Meta     map[string]string
}
