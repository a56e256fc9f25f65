package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/fitplan/internal/calories"
	"github.com/fdg312/fitplan/internal/config"
	"github.com/fdg312/fitplan/internal/dates"
	"github.com/fdg312/fitplan/internal/nutrition"
	"github.com/fdg312/fitplan/internal/reports"
	"github.com/fdg312/fitplan/internal/session"
	"github.com/fdg312/fitplan/internal/workouts"
)

// Smoke runs one full day of the app against the configured backends:
// profile, meal plan, meal swap, logging, workout plan, calorie breakdown
// and a report. Use AI_MODE=mock for an offline run.
func main() {
	cfg := config.Load()
	printBanner(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	s, err := session.New(ctx, cfg, log.Default())
	if err != nil {
		log.Fatalf("FATAL smoke: %v", err)
	}
	defer s.Close()
	s.Load(ctx)

	today := dates.Today(time.Now())
	var mealID string

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Save profile", func() error {
			t, err := s.Profiles.SaveProfile(ctx, nutrition.UserProfile{
				Age: 30, Weight: 80, Height: 180,
				Gender:        nutrition.GenderMale,
				ActivityLevel: nutrition.ActivityModerate,
				Goal:          nutrition.GoalMaintain,
				DietType:      nutrition.DietBalanced,
				MealsPerDay:   4,
			})
			if err != nil {
				return err
			}
			fmt.Printf("(calories=%d) ", t.Calories)
			return nil
		}},
		{"Select today", func() error {
			_, err := s.Days.SetSelectedDate(ctx, today)
			return err
		}},
		{"Generate meal plan", func() error {
			plan, err := s.GenerateMealPlan(ctx)
			if err != nil {
				return err
			}
			if len(plan.Meals) == 0 {
				return fmt.Errorf("plan has no meals")
			}
			mealID = plan.Meals[0].ID
			fmt.Printf("(meals=%d calories=%d) ", len(plan.Meals), plan.TotalNutrition.Calories)
			return nil
		}},
		{"Regenerate first meal", func() error {
			meal, err := s.RegenerateMeal(ctx, mealID)
			if err != nil {
				return err
			}
			mealID = meal.ID
			return nil
		}},
		{"Log meal", func() error {
			plan := s.Days.CurrentPlan()
			if plan == nil {
				return fmt.Errorf("no current plan")
			}
			idx := plan.MealIndex(mealID)
			if idx < 0 {
				return fmt.Errorf("meal %s not in plan", mealID)
			}
			if _, err := s.LogMeal(ctx, plan.Meals[idx]); err != nil {
				return err
			}
			if !s.IsMealLoggedToday(mealID) {
				return fmt.Errorf("meal %s not reported as logged", mealID)
			}
			return nil
		}},
		{"Generate workout plan", func() error {
			plan, err := s.GenerateWorkoutPlan(ctx, workouts.WorkoutInput{
				Age: 30, Weight: 80, Height: 180,
				ExperienceDuration: workouts.Experience6To12Months,
				Level:              workouts.LevelIntermediate,
				Goals:              []workouts.Goal{workouts.GoalMuscleBuilding},
				DaysPerWeek:        3,
				PlanDuration:       1,
				Location:           workouts.LocationGym,
				Equipment:          []workouts.Equipment{workouts.EquipmentGym},
			})
			if err != nil {
				return err
			}
			fmt.Printf("(days=%d) ", len(plan.Plan))
			return nil
		}},
		{"Analyze calories", func() error {
			res, err := s.AnalyzeCalories(ctx, calories.MealTexts{Breakfast: "2 eggs, toast", Dinner: "rice, chicken"})
			if err != nil {
				return err
			}
			fmt.Printf("(calories=%d) ", res.Total.Calories)
			return nil
		}},
		{"Create report (CSV)", func() error {
			from, _ := dates.Shift(today, -6)
			report, err := s.Reports.CreateReport(ctx, reports.Request{From: from, To: today, Format: reports.FormatCSV})
			if err != nil {
				return err
			}
			fmt.Printf("(bytes=%d url=%s) ", report.SizeBytes, nonEmptyOrDash(report.DownloadURL))
			return nil
		}},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("SMOKE TEST FAILED")
		os.Exit(1)
	}
	fmt.Println("ALL SMOKE STEPS PASSED")
}

func printBanner(cfg *config.Config) {
	log.Println("========== FitPlan smoke ==========")
	log.Printf("  env              = %s", cfg.Env)
	log.Printf("  locale           = %s", cfg.Locale)

	log.Println("---- storage ----")
	log.Printf("  kv_mode          = %s", cfg.KVMode)
	switch cfg.KVMode {
	case config.KVModePostgres:
		log.Printf("  runtime_url      = %s", describeDBURL(cfg.DatabaseURL, cfg.DatabaseURLPooled))
		log.Printf("  direct           = %s", setOrNot(cfg.DatabaseURLDirect))
		log.Printf("  migrations_on_startup = %t", cfg.RunMigrationsOnStartup)
	case config.KVModeRedis:
		log.Printf("  redis_url        = %s", setOrNot(cfg.Redis.URL))
		log.Printf("  redis_addr       = %s", nonEmptyOrDash(cfg.Redis.Addr))
		log.Printf("  redis_prefix     = %s", cfg.Redis.Prefix)
	case config.KVModeSQLite:
		log.Printf("  sqlite_path      = %s", cfg.SQLitePath)
	case config.KVModeS3:
		log.Printf("  kv_s3_prefix     = %s", cfg.KVS3Prefix)
	}

	log.Println("---- blob ----")
	log.Printf("  blob_mode        = %s", cfg.Blob.Mode)
	if cfg.Blob.Mode != config.BlobModeLocal {
		log.Printf("  s3: %s", cfg.Blob.S3.DiagnosticsSummary())
	}
	log.Printf("  reports_max_range_days = %d", cfg.ReportsMaxRangeDays)

	log.Println("---- ai ----")
	log.Printf("  ai_mode          = %s", cfg.AIMode)
	log.Printf("  ai_timeout       = %ds", cfg.AITimeoutSeconds)
	log.Printf("  ai_rate_limit    = %.2f rps (burst %d)", cfg.AIRateLimitRPS, cfg.AIRateLimitBurst)
	if cfg.AIMode == config.AIModeOpenAI {
		log.Printf("  openai_model     = %s", cfg.OpenAIModel)
		log.Printf("  openai_api_key   = %s", setOrNot(cfg.OpenAIAPIKey))
		log.Printf("  openai_base_url  = %s", nonEmptyOrDash(cfg.OpenAIBaseURL))
	}
	log.Println("===================================")
}

// ---- helpers (no secrets) ----

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

func nonEmptyOrDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

func describeDBURL(runtime, pooled string) string {
	if runtime == "" {
		return "not set"
	}
	if pooled != "" && runtime == pooled {
		return "set (via DATABASE_URL_POOLED)"
	}
	return "set"
}
