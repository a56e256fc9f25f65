package workouts

import (
	"math"
	"sort"
)

// GetWorkoutStats totals completed sets over all logs. Weekly rows are keyed
// by the week number recorded on each log.
func (s *Service) GetWorkoutStats() WorkoutStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := WorkoutStats{WeeklyStats: []WeeklyStats{}}
	weeks := map[int]*WeeklyStats{}

	for _, l := range s.logs {
		if l.Completed {
			stats.TotalWorkouts++
			stats.CompletedExercises++
		}
		for _, set := range l.Sets {
			if !set.Completed {
				continue
			}
			stats.TotalSets++
			stats.TotalReps += set.Reps
			stats.TotalWeight += float64(set.Reps) * set.Weight
		}

		w, ok := weeks[l.WeekNumber]
		if !ok {
			w = &WeeklyStats{Week: l.WeekNumber}
			weeks[l.WeekNumber] = w
		}
		w.TotalExercises++
		if l.Completed {
			w.CompletedExercises++
		}
	}

	for _, w := range weeks {
		if w.TotalExercises > 0 {
			w.CompletionRate = float64(w.CompletedExercises) / float64(w.TotalExercises) * 100
		}
		stats.WeeklyStats = append(stats.WeeklyStats, *w)
	}
	sort.Slice(stats.WeeklyStats, func(i, j int) bool {
		return stats.WeeklyStats[i].Week < stats.WeeklyStats[j].Week
	})
	return stats
}

// GetExerciseProgress lists completed logs of one exercise, oldest first,
// with per-session figures over the completed sets.
func (s *Service) GetExerciseProgress(exerciseName string) ExerciseProgress {
	logs := s.exerciseLogs(exerciseName, true)
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Date.Before(logs[j].Date)
	})

	out := ExerciseProgress{ExerciseName: exerciseName, History: []ProgressPoint{}}
	if len(logs) > 0 {
		out.ExerciseNameAr = logs[0].ExerciseNameAr
	}

	for _, l := range logs {
		point := ProgressPoint{Date: l.Date}
		reps := 0
		for _, set := range l.Sets {
			if !set.Completed {
				continue
			}
			point.Sets++
			reps += set.Reps
			point.TotalVolume += float64(set.Reps) * set.Weight
			point.MaxWeight = math.Max(point.MaxWeight, set.Weight)
		}
		if point.Sets > 0 {
			point.AvgReps = int(math.Floor(float64(reps)/float64(point.Sets) + 0.5))
		}
		out.History = append(out.History, point)
	}
	return out
}
