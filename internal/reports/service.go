// Package reports exports the meal log history and workout statistics as
// PDF or CSV, optionally publishing the file to the blob store.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/fdg312/fitplan/internal/blob"
	"github.com/fdg312/fitplan/internal/dates"
	"github.com/fdg312/fitplan/internal/meallog"
	"github.com/fdg312/fitplan/internal/nutrition"
	"github.com/fdg312/fitplan/internal/workouts"
	"github.com/google/uuid"
)

type Logger interface {
	Printf(format string, v ...any)
}

// MealLogs is the read side of the meal log.
type MealLogs interface {
	GetDailyLog(date string) meallog.DailyLog
}

type WorkoutStats interface {
	GetWorkoutStats() workouts.WorkoutStats
}

type TargetsSource interface {
	Targets() (nutrition.Targets, bool)
}

// Service builds reports. A nil blob store keeps reports in memory only.
type Service struct {
	meals        MealLogs
	workouts     WorkoutStats
	targets      TargetsSource
	blobStore    blob.Store
	maxRangeDays int
	presignTTL   int
	logger       Logger
	now          func() time.Time
}

type Options struct {
	BlobStore    blob.Store
	MaxRangeDays int
	PresignTTL   int // seconds
	Logger       Logger
	Now          func() time.Time
}

func NewService(meals MealLogs, workoutStats WorkoutStats, targets TargetsSource, opts Options) *Service {
	if opts.MaxRangeDays <= 0 {
		opts.MaxRangeDays = 93
	}
	if opts.PresignTTL <= 0 {
		opts.PresignTTL = 900
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		meals:        meals,
		workouts:     workoutStats,
		targets:      targets,
		blobStore:    opts.BlobStore,
		maxRangeDays: opts.MaxRangeDays,
		presignTTL:   opts.PresignTTL,
		logger:       opts.Logger,
		now:          opts.Now,
	}
}

// CreateReport validates the request, renders the report and, with a blob
// store configured, uploads it and attaches a presigned download URL.
func (s *Service) CreateReport(ctx context.Context, req Request) (*Report, error) {
	summary, err := s.Summarize(req)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch req.Format {
	case FormatPDF:
		data, err = renderPDF(summary)
	case FormatCSV:
		data, err = renderCSV(summary)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	report := &Report{
		ID:        uuid.NewString(),
		Format:    req.Format,
		From:      req.From,
		To:        req.To,
		SizeBytes: int64(len(data)),
		CreatedAt: s.now().UTC(),
		Data:      data,
	}

	if s.blobStore != nil {
		key := fmt.Sprintf("reports/%s_%s_%s.%s", req.From, req.To, report.ID, req.Format)
		if _, err := s.blobStore.PutObject(ctx, key, data, req.Format.ContentType()); err != nil {
			return nil, fmt.Errorf("failed to upload to S3: %w", err)
		}
		url, err := s.blobStore.PresignGet(ctx, key, s.presignTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
		}
		report.ObjectKey = key
		report.DownloadURL = url
	}

	s.logf("INFO reports: created format=%s from=%s to=%s size=%d published=%t",
		req.Format, req.From, req.To, report.SizeBytes, report.ObjectKey != "")
	return report, nil
}

// Summarize collects the per-day rows (gap-filled) and the workout stats.
func (s *Service) Summarize(req Request) (Summary, error) {
	if req.Format != FormatPDF && req.Format != FormatCSV {
		return Summary{}, ErrInvalidFormat
	}
	if _, err := dates.Parse(req.From); err != nil {
		return Summary{}, ErrInvalidDate
	}
	if _, err := dates.Parse(req.To); err != nil {
		return Summary{}, ErrInvalidDate
	}
	days, err := dates.Range(req.From, req.To)
	if err != nil {
		return Summary{}, ErrInvalidDateRange
	}
	if len(days) > s.maxRangeDays {
		return Summary{}, fmt.Errorf("%w: %d days, max %d", ErrRangeTooLarge, len(days), s.maxRangeDays)
	}

	out := Summary{From: req.From, To: req.To, Days: make([]DayRow, 0, len(days))}

	var targets nutrition.Targets
	if s.targets != nil {
		targets, out.HasTargets = s.targets.Targets()
	}

	for _, date := range days {
		log := s.meals.GetDailyLog(date)
		row := DayRow{
			Date:        date,
			MealsLogged: len(log.Meals),
			Consumed:    log.TotalNutrition,
			Targets:     targets,
		}
		if row.MealsLogged > 0 {
			out.DaysLogged++
		}
		out.Consumed = out.Consumed.Add(row.Consumed)
		out.Days = append(out.Days, row)
	}

	if s.workouts != nil {
		out.Workouts = s.workouts.GetWorkoutStats()
	} else {
		out.Workouts.WeeklyStats = []workouts.WeeklyStats{}
	}
	return out, nil
}

func (s *Service) logf(format string, v ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Printf(format, v...)
}
