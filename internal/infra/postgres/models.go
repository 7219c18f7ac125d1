package postgres

import (
	"time"

	"github.com/uptrace/bun"

	"qlo-rating-service/internal/domain"
)

type userRatingRow struct {
	bun.BaseModel `bun:"table:user_rating_states,alias:urs"`

	UserID           string    `bun:"user_id,pk"`
	Seq              int64     `bun:"seq"`
	DisplayName      string    `bun:"display_name"`
	QLO              int       `bun:"qlo"`
	TotalScore       int       `bun:"total_score"`
	TotalQuizzes     int       `bun:"total_quizzes"`
	TotalBeefWins    int       `bun:"total_beef_wins"`
	AverageAccuracy  float64   `bun:"average_accuracy"`
	WinStreak        int       `bun:"win_streak"`
	LongestWinStreak int       `bun:"longest_win_streak"`
	Country          string    `bun:"country"`
	County           string    `bun:"county"`
	City             string    `bun:"city"`
	CreatedAt        time.Time `bun:"created_at"`
}

func (r userRatingRow) toDomain() domain.UserRatingState {
	return domain.UserRatingState{
		UserID:           r.UserID,
		Seq:              r.Seq,
		DisplayName:      r.DisplayName,
		QLO:              r.QLO,
		TotalScore:       r.TotalScore,
		TotalQuizzes:     r.TotalQuizzes,
		TotalBeefWins:    r.TotalBeefWins,
		AverageAccuracy:  r.AverageAccuracy,
		WinStreak:        r.WinStreak,
		LongestWinStreak: r.LongestWinStreak,
		Country:          r.Country,
		County:           r.County,
		City:             r.City,
		CreatedAt:        r.CreatedAt,
	}
}

func ratingRowFromDomain(s domain.UserRatingState) userRatingRow {
	return userRatingRow{
		UserID:           s.UserID,
		Seq:              s.Seq,
		DisplayName:      s.DisplayName,
		QLO:              s.QLO,
		TotalScore:       s.TotalScore,
		TotalQuizzes:     s.TotalQuizzes,
		TotalBeefWins:    s.TotalBeefWins,
		AverageAccuracy:  s.AverageAccuracy,
		WinStreak:        s.WinStreak,
		LongestWinStreak: s.LongestWinStreak,
		Country:          s.Country,
		County:           s.County,
		City:             s.City,
		CreatedAt:        s.CreatedAt,
	}
}

type historyRow struct {
	bun.BaseModel `bun:"table:qlo_history,alias:qh"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    string    `bun:"user_id"`
	QLO       int       `bun:"qlo"`
	ChangedAt time.Time `bun:"changed_at"`
	Source    string    `bun:"source"`
	Note      string    `bun:"note"`
}

type quizRecordRow struct {
	bun.BaseModel `bun:"table:quiz_records,alias:qr"`

	ID             int64     `bun:"id,pk,autoincrement"`
	UserID         string    `bun:"user_id"`
	Category       string    `bun:"category"`
	ScorePercent   float64   `bun:"score_percent"`
	TotalQuestions int       `bun:"total_questions"`
	HardCorrect    int       `bun:"hard_correct"`
	DurationMs     int64     `bun:"duration_ms"`
	CompletedAt    time.Time `bun:"completed_at"`
}

type beefRecordRow struct {
	bun.BaseModel `bun:"table:beef_records,alias:br"`

	ID                int64     `bun:"id,pk,autoincrement"`
	UserID            string    `bun:"user_id"`
	FinishingPosition int       `bun:"finishing_position"`
	FinishedAt        time.Time `bun:"finished_at"`
}

type definitionRow struct {
	bun.BaseModel `bun:"table:achievement_definitions,alias:ad"`

	Key              string `bun:"key,pk"`
	Name             string `bun:"name"`
	Description      string `bun:"description"`
	Category         string `bun:"category"`
	Rarity           string `bun:"rarity"`
	CriteriaType     string `bun:"criteria_type"`
	CriteriaTarget   int64  `bun:"criteria_target"`
	CriteriaOperator string `bun:"criteria_operator"`
	PointsReward     int    `bun:"points_reward"`
	IsActive         bool   `bun:"is_active"`
	IsHidden         bool   `bun:"is_hidden"`
}

func (r definitionRow) toDomain() domain.AchievementDefinition {
	return domain.AchievementDefinition{
		Key:         r.Key,
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Rarity:      domain.Rarity(r.Rarity),
		Criteria: domain.Criteria{
			Type:     domain.CriteriaType(r.CriteriaType),
			Target:   r.CriteriaTarget,
			Operator: domain.Operator(r.CriteriaOperator),
		},
		PointsReward: r.PointsReward,
		IsActive:     r.IsActive,
		IsHidden:     r.IsHidden,
	}
}

func definitionRowFromDomain(d domain.AchievementDefinition) definitionRow {
	return definitionRow{
		Key:              d.Key,
		Name:             d.Name,
		Description:      d.Description,
		Category:         d.Category,
		Rarity:           string(d.Rarity),
		CriteriaType:     string(d.Criteria.Type),
		CriteriaTarget:   d.Criteria.Target,
		CriteriaOperator: string(d.Criteria.Operator),
		PointsReward:     d.PointsReward,
		IsActive:         d.IsActive,
		IsHidden:         d.IsHidden,
	}
}

type grantRow struct {
	bun.BaseModel `bun:"table:user_achievement_grants,alias:uag"`

	ID             string    `bun:"id,pk"`
	UserID         string    `bun:"user_id"`
	AchievementKey string    `bun:"achievement_key"`
	UnlockedAt     time.Time `bun:"unlocked_at"`
	UnlockData     string    `bun:"unlock_data"`
}

func (r grantRow) toDomain() domain.UserAchievementGrant {
	return domain.UserAchievementGrant{
		ID:             r.ID,
		UserID:         r.UserID,
		AchievementKey: r.AchievementKey,
		UnlockedAt:     r.UnlockedAt,
		UnlockData:     r.UnlockData,
	}
}
