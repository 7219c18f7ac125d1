package app

import (
	"context"

	"qlo-rating-service/internal/domain"
)

// RatingRepository stores per-user rating state (in-memory, Postgres, etc).
type RatingRepository interface {
	Get(ctx context.Context, userID string) (domain.UserRatingState, error)
	// Create persists a new state and assigns its sequential account number.
	Create(ctx context.Context, state domain.UserRatingState) (domain.UserRatingState, error)
	Save(ctx context.Context, state domain.UserRatingState) error
}

// HistoryRepository appends to the immutable QLO audit log.
type HistoryRepository interface {
	Append(ctx context.Context, entry domain.QLOHistoryEntry) error
	ListByUser(ctx context.Context, userID string) ([]domain.QLOHistoryEntry, error)
}

// RecordRepository stores the immutable quiz and beef source records the
// aggregator derives snapshots from.
type RecordRepository interface {
	AddQuiz(ctx context.Context, rec domain.QuizRecord) error
	AddBeef(ctx context.Context, rec domain.BeefRecord) error
	QuizzesByUser(ctx context.Context, userID string) ([]domain.QuizRecord, error)
	BeefsByUser(ctx context.Context, userID string) ([]domain.BeefRecord, error)
	// CategoryPlays counts how many quizzes the user has recorded in a category.
	CategoryPlays(ctx context.Context, userID, category string) (int, error)
}

// AchievementRepository serves the definition catalog and the grant log.
type AchievementRepository interface {
	ActiveDefinitions(ctx context.Context) ([]domain.AchievementDefinition, error)
	Definitions(ctx context.Context) ([]domain.AchievementDefinition, error)
	GrantedKeys(ctx context.Context, userID string) (map[string]bool, error)
	// Grant unlocks an achievement at most once per (user, key); a repeat
	// attempt reports AlreadyUnlocked rather than an error.
	Grant(ctx context.Context, grant domain.UserAchievementGrant) (domain.GrantResult, error)
	GrantsByUser(ctx context.Context, userID string) ([]domain.UserAchievementGrant, error)
}

// ResourceCounter exposes read-only document/folder counts owned by the
// external library service.
type ResourceCounter interface {
	DocumentCount(ctx context.Context, userID string) (int, error)
	FolderCount(ctx context.Context, userID string) (int, error)
}

// PopulationRepository returns the fully ranked population for a metric,
// ordered and annotated with true global ranks.
type PopulationRepository interface {
	Ranked(ctx context.Context, metric domain.Metric, filter domain.LeaderboardFilter) ([]domain.RankedEntry, error)
}

// NoopResourceCounter reports zero counts; used when the library service is
// not wired in (demo mode, tests).
type NoopResourceCounter struct{}

func (NoopResourceCounter) DocumentCount(context.Context, string) (int, error) { return 0, nil }
func (NoopResourceCounter) FolderCount(context.Context, string) (int, error)   { return 0, nil }
