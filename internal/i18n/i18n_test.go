package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPrinterLocaleMatching(t *testing.T) {
	assert.Equal(t, "en", NewPrinter("").Locale())
	assert.Equal(t, "en", NewPrinter("fr").Locale())
	assert.Equal(t, "en", NewPrinter("not a locale").Locale())
	assert.Equal(t, "ar", NewPrinter("ar").Locale())
	assert.Equal(t, "ar", NewPrinter("ar-EG").Locale())
}

func TestSprintfEnglish(t *testing.T) {
	p := NewPrinter("en")
	assert.Equal(t, "Please set up your profile first.", p.Sprintf(ProfileRequired))
	assert.Equal(t,
		"Calories (900) do not match macros (980 kcal). Suggested: protein 50g, carbs 100g, fat 36g.",
		p.Sprintf(MacrosMismatch, 900, 980, 50, 100, 36),
	)
}

func TestSprintfArabicDiffersFromEnglish(t *testing.T) {
	ar := NewPrinter("ar").Sprintf(WorkoutPlanFailed)
	en := NewPrinter("en").Sprintf(WorkoutPlanFailed)
	assert.NotEmpty(t, ar)
	assert.NotEqual(t, en, ar)
}

func TestNilPrinterFallsBackToEnglish(t *testing.T) {
	var p *Printer
	assert.Equal(t, "Please set up your profile first.", p.Sprintf(ProfileRequired))
}
