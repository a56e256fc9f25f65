package meallog

import (
	"errors"
	"time"

	"github.com/fdg312/fitplan/internal/mealplans"
	"github.com/fdg312/fitplan/internal/nutrition"
)

var ErrLogNotFound = errors.New("meal log not found")

// TimestampLayout is the ISO instant stored on every log (UTC, millis).
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// MealLog is a "meal eaten" event. Name, type and nutrition are snapshots
// taken at logging time and never recomputed.
type MealLog struct {
	ID        string             `json:"id"`
	MealID    string             `json:"mealId"`
	MealName  string             `json:"mealName"`
	MealType  mealplans.MealType `json:"mealType"`
	Date      string             `json:"date"`
	Timestamp string             `json:"timestamp"`
	Nutrition nutrition.Targets  `json:"nutrition"`
}

// DailyLog is derived from the log list on demand; it is never stored.
type DailyLog struct {
	Date           string            `json:"date"`
	Meals          []MealLog         `json:"meals"`
	TotalNutrition nutrition.Targets `json:"totalNutrition"`
}

type DaySummary struct {
	Date        string            `json:"date"`
	MealsLogged int               `json:"mealsLogged"`
	Nutrition   nutrition.Targets `json:"nutrition"`
}

type WeekSummary struct {
	WeekStart string            `json:"weekStart"`
	WeekEnd   string            `json:"weekEnd"`
	Days      []DaySummary      `json:"days"`
	Total     nutrition.Targets `json:"total"`
}

type MonthSummary struct {
	Year       int          `json:"year"`
	Month      time.Month   `json:"month"`
	Days       []DaySummary `json:"days"`
	DaysLogged int          `json:"daysLogged"`
}

// Progress compares one day's consumption with the targets. Each fraction
// is consumed/target capped at 1; a zero target gives 0.
type Progress struct {
	Date     string            `json:"date"`
	Consumed nutrition.Targets `json:"consumed"`
	Targets  nutrition.Targets `json:"targets"`
	Calories float64           `json:"calories"`
	Protein  float64           `json:"protein"`
	Carbs    float64           `json:"carbs"`
	Fat      float64           `json:"fat"`
	Fiber    float64           `json:"fiber"`
}
