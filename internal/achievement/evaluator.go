// Package achievement evaluates the static criteria catalog against a user's
// derived stats snapshot.
package achievement

import (
	"qlo-rating-service/internal/domain"
)

// TriggerType names the event that prompted an evaluation pass.
type TriggerType string

const (
	TriggerQuizCompleted   TriggerType = "quiz_completed"
	TriggerBeefFinalized   TriggerType = "beef_finalized"
	TriggerResourceChanged TriggerType = "resource_changed"
)

// Trigger carries the event context some criteria need (e.g. completion time).
type Trigger struct {
	Type        TriggerType
	TimeSpentMs int64
}

// Evaluate returns the active definitions that newly qualify for the given
// snapshot, excluding keys already present in granted. It is a pure function
// of its inputs: no I/O, no randomness, so evaluating the same snapshot twice
// always yields the same set. Actually granting (at most once per user and
// key) is the caller's job.
func Evaluate(definitions []domain.AchievementDefinition, stats domain.StatsSnapshot, trigger Trigger, granted map[string]bool) []domain.AchievementDefinition {
	var qualifying []domain.AchievementDefinition
	for _, def := range definitions {
		if !def.IsActive || granted[def.Key] {
			continue
		}
		if qualifies(def.Criteria, stats, trigger) {
			qualifying = append(qualifying, def)
		}
	}
	return qualifying
}

func qualifies(c domain.Criteria, stats domain.StatsSnapshot, trigger Trigger) bool {
	switch c.Type {
	case domain.CriteriaQuizCount:
		return compare(int64(stats.QuizCount), c.Target, operatorOr(c, domain.OpGreaterOrEqual))
	case domain.CriteriaPerfectScore:
		return compare(int64(stats.PerfectScores), c.Target, operatorOr(c, domain.OpGreaterOrEqual))
	case domain.CriteriaQuizTime:
		// Only meaningful against the quiz that just finished.
		if trigger.Type != TriggerQuizCompleted || trigger.TimeSpentMs <= 0 {
			return false
		}
		return compare(trigger.TimeSpentMs, c.Target*1000, operatorOr(c, domain.OpLessThan))
	case domain.CriteriaBeefWins:
		return compare(int64(stats.BeefWins), c.Target, operatorOr(c, domain.OpGreaterOrEqual))
	case domain.CriteriaDocumentCount:
		return compare(int64(stats.DocumentCount), c.Target, operatorOr(c, domain.OpGreaterOrEqual))
	case domain.CriteriaFolderCount:
		return compare(int64(stats.FolderCount), c.Target, operatorOr(c, domain.OpGreaterOrEqual))
	case domain.CriteriaUserID:
		// Early-adopter cohort: sequential account number at or below target.
		if stats.Seq <= 0 {
			return false
		}
		return compare(stats.Seq, c.Target, operatorOr(c, domain.OpLessOrEqual))
	case domain.CriteriaDailyStreak:
		return compare(int64(stats.DailyStreakDays), c.Target, operatorOr(c, domain.OpGreaterOrEqual))
	case domain.CriteriaHardCorrect:
		return compare(int64(stats.HardCorrect), c.Target, operatorOr(c, domain.OpGreaterOrEqual))
	}
	// Unrecognized criteria never qualify.
	return false
}

func operatorOr(c domain.Criteria, fallback domain.Operator) domain.Operator {
	if c.Operator == "" {
		return fallback
	}
	return c.Operator
}

func compare(value, target int64, op domain.Operator) bool {
	switch op {
	case domain.OpGreaterOrEqual:
		return value >= target
	case domain.OpLessThan:
		return value < target
	case domain.OpLessOrEqual:
		return value <= target
	}
	return false
}
