package reports

import (
	"errors"
	"time"

	"github.com/fdg312/fitplan/internal/nutrition"
	"github.com/fdg312/fitplan/internal/workouts"
)

type Format string

const (
	FormatPDF Format = "pdf"
	FormatCSV Format = "csv"
)

func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv"
}

var (
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidDate      = errors.New("invalid date format")
	ErrInvalidDateRange = errors.New("from date must not be after to date")
	ErrRangeTooLarge    = errors.New("date range too large")
)

// Request selects an inclusive date range (YYYY-MM-DD) and an output format.
type Request struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Format Format `json:"format"`
}

// DayRow is one calendar day of the report. Days without logs are kept
// with zero figures.
type DayRow struct {
	Date        string            `json:"date"`
	MealsLogged int               `json:"mealsLogged"`
	Consumed    nutrition.Targets `json:"consumed"`
	Targets     nutrition.Targets `json:"targets"`
}

// Summary is the data a report is rendered from.
type Summary struct {
	From       string                `json:"from"`
	To         string                `json:"to"`
	Days       []DayRow              `json:"days"`
	DaysLogged int                   `json:"daysLogged"`
	Consumed   nutrition.Targets     `json:"consumed"`
	HasTargets bool                  `json:"hasTargets"`
	Workouts   workouts.WorkoutStats `json:"workouts"`
}

// Report is a rendered report. ObjectKey and DownloadURL are set only when
// the report was published to the blob store.
type Report struct {
	ID          string    `json:"id"`
	Format      Format    `json:"format"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	SizeBytes   int64     `json:"sizeBytes"`
	ObjectKey   string    `json:"objectKey,omitempty"`
	DownloadURL string    `json:"downloadUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	Data        []byte    `json:"-"`
}
