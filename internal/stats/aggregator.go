// Package stats recomputes a user's derived numeric snapshot from source
// records. Nothing here is persisted; drifting counters are avoided by always
// deriving from the underlying event stream.
package stats

import (
	"math"
	"time"

	"qlo-rating-service/internal/domain"
	"qlo-rating-service/internal/streak"
)

// Sources bundles the raw records a snapshot is derived from. Document and
// folder counts come from the external library service; they are read-only
// inputs here.
type Sources struct {
	Quizzes       []domain.QuizRecord
	Beefs         []domain.BeefRecord
	DocumentCount int
	FolderCount   int
}

// Aggregate computes the full stats snapshot for one user as of the given
// time. Rank and percentile are attached separately by the caller, since they
// need the whole population.
func Aggregate(user domain.UserRatingState, src Sources, asOf time.Time, streakWindowDays int) domain.StatsSnapshot {
	snap := domain.StatsSnapshot{
		UserID:        user.UserID,
		Seq:           user.Seq,
		QLO:           user.QLO,
		TotalScore:    user.TotalScore,
		DocumentCount: src.DocumentCount,
		FolderCount:   src.FolderCount,
	}

	activity := make(map[string]struct{}, len(src.Quizzes)+len(src.Beefs))
	var scoreSum float64
	for _, q := range src.Quizzes {
		snap.QuizCount++
		scoreSum += q.ScorePercent
		snap.HardCorrect += q.HardCorrect
		if q.Perfect() {
			snap.PerfectScores++
		}
		if q.DurationMs > 0 && (snap.FastestTimeMs == 0 || q.DurationMs < snap.FastestTimeMs) {
			snap.FastestTimeMs = q.DurationMs
		}
		if q.Category != "" {
			if snap.CategoryDepth == nil {
				snap.CategoryDepth = make(map[string]int)
			}
			correct := int(math.Round(q.ScorePercent / 100 * float64(q.TotalQuestions)))
			snap.CategoryDepth[q.Category] += correct
		}
		activity[streak.DayKey(q.CompletedAt)] = struct{}{}
	}
	snap.CategoryBreadth = len(snap.CategoryDepth)
	if snap.QuizCount > 0 {
		snap.Accuracy = scoreSum / float64(snap.QuizCount)
	}

	for _, b := range src.Beefs {
		if b.Won() {
			snap.BeefWins++
		}
		activity[streak.DayKey(b.FinishedAt)] = struct{}{}
	}

	streaks := streak.Compute(activity, asOf, streakWindowDays)
	snap.DailyStreakDays = streaks.Current
	snap.AverageStreak = streaks.Average

	return snap
}
