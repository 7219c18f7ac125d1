package achievement

import "qlo-rating-service/internal/domain"

// DefaultCatalog is the seed achievement catalog. Definitions are created once
// and read-only afterward; the seed command upserts them with
// ON CONFLICT DO NOTHING so re-seeding is safe.
func DefaultCatalog() []domain.AchievementDefinition {
	return []domain.AchievementDefinition{
		{
			Key: "first_quiz", Name: "Getting Started", Description: "Complete your first quiz.",
			Category: "progress", Rarity: domain.RarityCommon,
			Criteria:     domain.Criteria{Type: domain.CriteriaQuizCount, Target: 1},
			PointsReward: 10, IsActive: true,
		},
		{
			Key: "quiz_10", Name: "Warming Up", Description: "Complete 10 quizzes.",
			Category: "progress", Rarity: domain.RarityCommon,
			Criteria:     domain.Criteria{Type: domain.CriteriaQuizCount, Target: 10},
			PointsReward: 25, IsActive: true,
		},
		{
			Key: "quiz_100", Name: "Centurion", Description: "Complete 100 quizzes.",
			Category: "progress", Rarity: domain.RarityRare,
			Criteria:     domain.Criteria{Type: domain.CriteriaQuizCount, Target: 100},
			PointsReward: 100, IsActive: true,
		},
		{
			Key: "perfect_1", Name: "Flawless", Description: "Score 100% on a quiz.",
			Category: "skill", Rarity: domain.RarityUncommon,
			Criteria:     domain.Criteria{Type: domain.CriteriaPerfectScore, Target: 1},
			PointsReward: 25, IsActive: true,
		},
		{
			Key: "perfect_25", Name: "Perfectionist", Description: "Score 100% on 25 quizzes.",
			Category: "skill", Rarity: domain.RarityEpic,
			Criteria:     domain.Criteria{Type: domain.CriteriaPerfectScore, Target: 25},
			PointsReward: 150, IsActive: true,
		},
		{
			Key: "speedrun_60", Name: "Speedrunner", Description: "Finish a quiz in under a minute.",
			Category: "skill", Rarity: domain.RarityRare,
			Criteria:     domain.Criteria{Type: domain.CriteriaQuizTime, Target: 60, Operator: domain.OpLessThan},
			PointsReward: 50, IsActive: true,
		},
		{
			Key: "beef_first_blood", Name: "First Blood", Description: "Win your first beef.",
			Category: "social", Rarity: domain.RarityUncommon,
			Criteria:     domain.Criteria{Type: domain.CriteriaBeefWins, Target: 1},
			PointsReward: 25, IsActive: true,
		},
		{
			Key: "beef_champion", Name: "Beef Champion", Description: "Win 50 beefs.",
			Category: "social", Rarity: domain.RarityLegendary,
			Criteria:     domain.Criteria{Type: domain.CriteriaBeefWins, Target: 50},
			PointsReward: 250, IsActive: true,
		},
		{
			Key: "librarian", Name: "Librarian", Description: "Upload 10 documents.",
			Category: "library", Rarity: domain.RarityCommon,
			Criteria:     domain.Criteria{Type: domain.CriteriaDocumentCount, Target: 10},
			PointsReward: 25, IsActive: true,
		},
		{
			Key: "organizer", Name: "Organizer", Description: "Create 5 folders.",
			Category: "library", Rarity: domain.RarityCommon,
			Criteria:     domain.Criteria{Type: domain.CriteriaFolderCount, Target: 5},
			PointsReward: 15, IsActive: true,
		},
		{
			Key: "early_adopter", Name: "Early Adopter", Description: "One of the first 1000 accounts.",
			Category: "special", Rarity: domain.RarityLegendary,
			Criteria:     domain.Criteria{Type: domain.CriteriaUserID, Target: 1000, Operator: domain.OpLessOrEqual},
			PointsReward: 100, IsActive: true, IsHidden: true,
		},
		{
			Key: "streak_7", Name: "One Week Strong", Description: "Stay active 7 days in a row.",
			Category: "habit", Rarity: domain.RarityUncommon,
			Criteria:     domain.Criteria{Type: domain.CriteriaDailyStreak, Target: 7},
			PointsReward: 50, IsActive: true,
		},
		{
			Key: "streak_30", Name: "Iron Habit", Description: "Stay active 30 days in a row.",
			Category: "habit", Rarity: domain.RarityEpic,
			Criteria:     domain.Criteria{Type: domain.CriteriaDailyStreak, Target: 30},
			PointsReward: 200, IsActive: true,
		},
		{
			Key: "hard_hitter", Name: "Hard Hitter", Description: "Answer 50 hard questions correctly.",
			Category: "skill", Rarity: domain.RarityRare,
			Criteria:     domain.Criteria{Type: domain.CriteriaHardCorrect, Target: 50},
			PointsReward: 100, IsActive: true,
		},
	}
}
