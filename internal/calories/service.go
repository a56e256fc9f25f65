// Package calories estimates calories and macros from free-text meal
// descriptions and keeps the screen's draft.
package calories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fdg312/fitplan/internal/ai"
	"github.com/fdg312/fitplan/internal/i18n"
	"github.com/fdg312/fitplan/internal/storage"
)

var ErrNothingToAnalyze = errors.New("all meal texts are empty")

type Logger interface {
	Printf(format string, v ...any)
}

// AnalysisError carries the localized message for a failed analysis and
// matches ai.ErrGenerationFailed.
type AnalysisError struct {
	Message string
	Err     error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AnalysisError) Unwrap() []error {
	return []error{ai.ErrGenerationFailed, e.Err}
}

type Service struct {
	provider ai.Provider
	store    *storage.Provider
	printer  *i18n.Printer
	logger   Logger
}

func NewService(provider ai.Provider, store *storage.Provider, printer *i18n.Printer, logger Logger) *Service {
	return &Service{provider: provider, store: store, printer: printer, logger: logger}
}

// Analyze asks the provider for a per-item breakdown of the typed meals.
// Empty meals are neither sent nor kept in the result. Every number is
// sanitized; the day total falls back to the sum of the meals when the
// provider leaves it out.
func (s *Service) Analyze(ctx context.Context, texts MealTexts) (DayBreakdown, error) {
	if texts.Empty() {
		return DayBreakdown{}, ErrNothingToAnalyze
	}

	meta := map[string]string{}
	for mealType, text := range texts.byType() {
		if !isBlank(text) {
			meta[mealType] = strings.TrimSpace(text)
		}
	}

	data, err := s.provider.Generate(ctx, ai.GenerateRequest{
		Schema:   ai.SchemaCalorieBreakdown,
		Messages: []ai.Message{ai.TextMessage(ai.RoleUser, analysisPrompt(texts))},
		Meta:     meta,
	})
	if err != nil {
		return DayBreakdown{}, s.fail(err)
	}

	var raw rawDay
	if err := json.Unmarshal(data, &raw); err != nil {
		return DayBreakdown{}, s.fail(fmt.Errorf("decode breakdown: %w", err))
	}

	out := DayBreakdown{Notes: strings.TrimSpace(raw.Notes)}
	if !isBlank(texts.Breakfast) {
		out.Breakfast = normalizeMeal(raw.Breakfast)
	}
	if !isBlank(texts.Lunch) {
		out.Lunch = normalizeMeal(raw.Lunch)
	}
	if !isBlank(texts.Dinner) {
		out.Dinner = normalizeMeal(raw.Dinner)
	}
	if !isBlank(texts.Snack) {
		out.Snack = normalizeMeal(raw.Snack)
	}

	if raw.Total != nil {
		out.Total = raw.Total.sanitize()
	} else {
		for _, m := range []*MealBreakdown{out.Breakfast, out.Lunch, out.Dinner, out.Snack} {
			if m != nil {
				out.Total = out.Total.Add(m.Totals)
			}
		}
	}

	s.logf("INFO calories: analysed calories=%d protein=%d carbs=%d fat=%d",
		out.Total.Calories, out.Total.Protein, out.Total.Carbs, out.Total.Fat)
	return out, nil
}

// ============================================================================
// Draft
// ============================================================================

func (s *Service) SaveDraft(ctx context.Context, d Draft) bool {
	return s.store.SetJSON(ctx, storage.KeyCaloriesDraft, d)
}

// LoadDraft returns the stored draft; found=false when there is none or it
// cannot be decoded.
func (s *Service) LoadDraft(ctx context.Context) (Draft, bool) {
	var d Draft
	if !s.store.GetJSON(ctx, storage.KeyCaloriesDraft, &d) {
		return Draft{}, false
	}
	return d, true
}

func (s *Service) ClearDraft(ctx context.Context) bool {
	return s.store.RemoveItem(ctx, storage.KeyCaloriesDraft)
}

// ============================================================================
// Helpers
// ============================================================================

func normalizeMeal(raw *rawMeal) *MealBreakdown {
	meal := &MealBreakdown{Items: []FoodItem{}}
	if raw == nil {
		return meal
	}
	for _, it := range raw.Items {
		meal.Items = append(meal.Items, FoodItem{
			Name:     strings.TrimSpace(it.Name),
			Quantity: safeQuantity(it.Quantity),
			Unit:     strings.TrimSpace(it.Unit),
			Macros:   it.rawMacros.sanitize(),
		})
	}
	if raw.Totals != nil {
		meal.Totals = raw.Totals.sanitize()
	} else {
		for _, it := range meal.Items {
			meal.Totals = meal.Totals.Add(it.Macros)
		}
	}
	return meal
}

func (m MealTexts) byType() map[string]string {
	return map[string]string{
		"breakfast": m.Breakfast,
		"lunch":     m.Lunch,
		"dinner":    m.Dinner,
		"snack":     m.Snack,
	}
}

func analysisPrompt(m MealTexts) string {
	var b strings.Builder
	b.WriteString("Analyse today's meal descriptions (they may be written in Arabic). ")
	b.WriteString("Extract every food item with its quantity and unit, then estimate calories and macros ")
	b.WriteString("from general nutrition knowledge.\n\n")
	fmt.Fprintf(&b, "Breakfast: %s\n", orDash(m.Breakfast))
	fmt.Fprintf(&b, "Lunch: %s\n", orDash(m.Lunch))
	fmt.Fprintf(&b, "Dinner: %s\n", orDash(m.Dinner))
	fmt.Fprintf(&b, "Snack: %s\n\n", orDash(m.Snack))
	b.WriteString("Leave a meal out if it was not described. The daily total is the sum of the meals.\n")
	return b.String()
}

func orDash(s string) string {
	if isBlank(s) {
		return "-"
	}
	return strings.TrimSpace(s)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func (s *Service) fail(err error) error {
	s.logf("WARN calories: analysis failed: %v", err)
	return &AnalysisError{Message: s.printer.Sprintf(i18n.CalorieAnalysisFailed), Err: err}
}

func (s *Service) logf(format string, v ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Printf(format, v...)
}
