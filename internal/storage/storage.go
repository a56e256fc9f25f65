package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by backends that report a missing key as an error
// (object stores). The Provider maps it to "no data".
var ErrNotFound = errors.New("key not found")

// KV - асинхронное key-value хранилище: строковые ключи и строковые значения.
// Сериализация (JSON) - ответственность вызывающего.
type KV interface {
	// GetItem возвращает значение по ключу; found=false если ключа нет
	GetItem(ctx context.Context, key string) (value string, found bool, err error)

	// SetItem сохраняет значение (перезаписывает существующее)
	SetItem(ctx context.Context, key string, value string) error

	// RemoveItem удаляет ключ; отсутствие ключа не ошибка
	RemoveItem(ctx context.Context, key string) error

	// Close закрывает соединение (для Postgres/Redis/SQLite)
	Close() error
}

// Persisted keys.
const (
	KeyUserProfile      = "userProfile"
	KeyNutritionTargets = "nutritionTargets"
	KeySelectedDate     = "selectedDate"
	KeyMealLogs         = "mealLogs"
	KeyWorkoutPlans     = "workout_plans"
	KeyWorkoutLogs      = "workout_logs"
	KeyCurrentWorkout   = "currentWorkoutPlanId"
	KeyCaloriesDraft    = "calories_draft_v1"

	mealPlanPrefix = "mealPlan:"
)

// MealPlanKey is the per-date meal plan key.
func MealPlanKey(date string) string {
	return mealPlanPrefix + date
}
