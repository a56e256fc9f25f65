package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/fdg312/fitplan/internal/nutrition"
	"github.com/jung-kurt/gofpdf"
)

// renderCSV writes one line per day, then the workout totals and the
// weekly completion rows.
func renderCSV(s Summary) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"date", "meals_logged",
		"calories", "protein_g", "carbs_g", "fat_g", "fiber_g",
		"target_calories", "target_protein_g", "target_carbs_g", "target_fat_g", "target_fiber_g",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, d := range s.Days {
		row := []string{d.Date, strconv.Itoa(d.MealsLogged)}
		row = append(row, targetCells(d.Consumed)...)
		if s.HasTargets {
			row = append(row, targetCells(d.Targets)...)
		} else {
			row = append(row, "", "", "", "", "")
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	// Workout section
	ws := s.Workouts
	rows := [][]string{
		{},
		{"workout_total_workouts", strconv.Itoa(ws.TotalWorkouts)},
		{"workout_total_sets", strconv.Itoa(ws.TotalSets)},
		{"workout_total_reps", strconv.Itoa(ws.TotalReps)},
		{"workout_total_weight_kg", formatWeight(ws.TotalWeight)},
		{"week", "completed_exercises", "total_exercises", "completion_rate_pct"},
	}
	for _, wk := range ws.WeeklyStats {
		rows = append(rows, []string{
			strconv.Itoa(wk.Week),
			strconv.Itoa(wk.CompletedExercises),
			strconv.Itoa(wk.TotalExercises),
			strconv.FormatFloat(wk.CompletionRate, 'f', 1, 64),
		})
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderPDF uses the core Helvetica font, so only Latin text is written:
// dates, numbers and fixed English labels.
func renderPDF(s Summary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Nutrition & Training Report")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s - %s", s.From, s.To))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	lines := []string{
		fmt.Sprintf("Days with logged meals: %d of %d", s.DaysLogged, len(s.Days)),
		fmt.Sprintf("Average calories on logged days: %s", average(s.Consumed.Calories, s.DaysLogged)),
		fmt.Sprintf("Average protein on logged days: %s g", average(s.Consumed.Protein, s.DaysLogged)),
		fmt.Sprintf("Completed workouts: %d", s.Workouts.TotalWorkouts),
		fmt.Sprintf("Completed sets: %d, reps: %d, volume: %s kg",
			s.Workouts.TotalSets, s.Workouts.TotalReps, formatWeight(s.Workouts.TotalWeight)),
	}
	for _, l := range lines {
		pdf.Cell(0, 6, l)
		pdf.Ln(5)
	}
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Daily log")
	pdf.Ln(8)
	drawDaysTable(pdf, s)

	if len(s.Workouts.WeeklyStats) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 14)
		pdf.Cell(0, 8, "Weekly completion")
		pdf.Ln(8)
		drawWeeksTable(pdf, s)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func drawDaysTable(pdf *gofpdf.Fpdf, s Summary) {
	pdf.SetFont("Helvetica", "", 8)

	headers := []string{"Date", "Meals", "kcal", "Target", "Protein", "Carbs", "Fat", "Fiber"}
	for i, h := range headers {
		ln := 0
		if i == len(headers)-1 {
			ln = 1
		}
		pdf.CellFormat(22, 6, h, "1", ln, "C", false, 0, "")
	}

	for _, d := range s.Days {
		target := ""
		if s.HasTargets {
			target = strconv.Itoa(d.Targets.Calories)
		}
		cells := []string{
			d.Date,
			strconv.Itoa(d.MealsLogged),
			strconv.Itoa(d.Consumed.Calories),
			target,
			strconv.Itoa(d.Consumed.Protein),
			strconv.Itoa(d.Consumed.Carbs),
			strconv.Itoa(d.Consumed.Fat),
			strconv.Itoa(d.Consumed.Fiber),
		}
		for i, c := range cells {
			ln := 0
			if i == len(cells)-1 {
				ln = 1
			}
			pdf.CellFormat(22, 6, c, "1", ln, "C", false, 0, "")
		}
	}
}

func drawWeeksTable(pdf *gofpdf.Fpdf, s Summary) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(30, 6, "Week", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Completed", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Total", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Rate", "1", 1, "C", false, 0, "")

	for _, wk := range s.Workouts.WeeklyStats {
		pdf.CellFormat(30, 6, strconv.Itoa(wk.Week), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, strconv.Itoa(wk.CompletedExercises), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, strconv.Itoa(wk.TotalExercises), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.0f%%", wk.CompletionRate), "1", 1, "C", false, 0, "")
	}
}

func targetCells(t nutrition.Targets) []string {
	return []string{
		strconv.Itoa(t.Calories),
		strconv.Itoa(t.Protein),
		strconv.Itoa(t.Carbs),
		strconv.Itoa(t.Fat),
		strconv.Itoa(t.Fiber),
	}
}

func average(total, days int) string {
	if days == 0 {
		return "no data"
	}
	return strconv.Itoa(total / days)
}

func formatWeight(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
