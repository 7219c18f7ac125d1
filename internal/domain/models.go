package domain

import "time"

// BaselineQLO is the rating every account starts at.
const BaselineQLO = 5000

// UserRatingState holds a user's skill rating and the denormalized rolling
// counters shown on their profile. All mutations go through the app layer so
// the counters cannot drift from the underlying event stream.
type UserRatingState struct {
	UserID           string    `json:"userId"`
	Seq              int64     `json:"seq"` // sequential account number, assigned at creation
	DisplayName      string    `json:"displayName"`
	QLO              int       `json:"qlo"`
	TotalScore       int       `json:"totalScore"`
	TotalQuizzes     int       `json:"totalQuizzes"`
	TotalBeefWins    int       `json:"totalBeefWins"`
	AverageAccuracy  float64   `json:"averageAccuracy"`
	WinStreak        int       `json:"winStreak"`
	LongestWinStreak int       `json:"longestWinStreak"`
	Country          string    `json:"country,omitempty"`
	County           string    `json:"county,omitempty"`
	City             string    `json:"city,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// RatingSource tags the event that produced a history entry.
type RatingSource string

const (
	SourceQuiz RatingSource = "quiz"
)

// QLOHistoryEntry is one row of the append-only rating audit log.
// Entries are never mutated or deleted; ordering is ChangedAt ascending.
type QLOHistoryEntry struct {
	UserID    string       `json:"userId"`
	QLO       int          `json:"qlo"`
	ChangedAt time.Time    `json:"changedAt"`
	Source    RatingSource `json:"source"`
	Note      string       `json:"note,omitempty"`
}

// Rarity grades an achievement definition.
type Rarity string

const (
	RarityCommon    Rarity = "COMMON"
	RarityUncommon  Rarity = "UNCOMMON"
	RarityRare      Rarity = "RARE"
	RarityEpic      Rarity = "EPIC"
	RarityLegendary Rarity = "LEGENDARY"
)

// CriteriaType selects the predicate an achievement is judged by.
type CriteriaType string

const (
	CriteriaQuizCount     CriteriaType = "QUIZ_COUNT"
	CriteriaPerfectScore  CriteriaType = "PERFECT_SCORE"
	CriteriaQuizTime      CriteriaType = "QUIZ_TIME"
	CriteriaBeefWins      CriteriaType = "BEEF_WINS"
	CriteriaDocumentCount CriteriaType = "DOCUMENT_COUNT"
	CriteriaFolderCount   CriteriaType = "FOLDER_COUNT"
	CriteriaUserID        CriteriaType = "USER_ID"
	CriteriaDailyStreak   CriteriaType = "DAILY_STREAK"
	CriteriaHardCorrect   CriteriaType = "HARD_CORRECT"
)

// Operator is the closed set of comparisons a criteria may use.
// OpGreaterOrEqual is the default when a definition leaves it empty.
type Operator string

const (
	OpGreaterOrEqual Operator = "gte"
	OpLessThan       Operator = "lt"
	OpLessOrEqual    Operator = "lte"
)

// Criteria is the typed predicate descriptor on a definition.
type Criteria struct {
	Type     CriteriaType `json:"type"`
	Target   int64        `json:"target"`
	Operator Operator     `json:"operator,omitempty"`
}

// AchievementDefinition is one entry of the static, seed-once catalog.
type AchievementDefinition struct {
	Key          string   `json:"key"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Rarity       Rarity   `json:"rarity"`
	Criteria     Criteria `json:"criteria"`
	PointsReward int      `json:"pointsReward"`
	IsActive     bool     `json:"isActive"`
	IsHidden     bool     `json:"isHidden"`
}

// UserAchievementGrant records one unlock. Unique on (UserID, AchievementKey);
// immutable once written.
type UserAchievementGrant struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	AchievementKey string    `json:"achievementKey"`
	UnlockedAt     time.Time `json:"unlockedAt"`
	UnlockData     string    `json:"unlockData,omitempty"`
}

// GrantResult reports the outcome of an unlock attempt. A repeat grant is a
// success with AlreadyUnlocked set, never an error.
type GrantResult struct {
	Success         bool `json:"success"`
	AlreadyUnlocked bool `json:"alreadyUnlocked"`
}

// RankedEntry is one row of a fully ordered population. Rank is the entry's
// true position in the full ordering (ties share a rank) and is never
// renumbered relative to a displayed subset.
type RankedEntry struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName,omitempty"`
	MetricValue int64  `json:"metricValue"`
	Rank        int    `json:"rank"`
}

// QuizRecord is the immutable source record of one completed quiz.
type QuizRecord struct {
	UserID         string    `json:"userId"`
	Category       string    `json:"category,omitempty"`
	ScorePercent   float64   `json:"scorePercent"`
	TotalQuestions int       `json:"totalQuestions"`
	HardCorrect    int       `json:"hardCorrect"`
	DurationMs     int64     `json:"durationMs"`
	CompletedAt    time.Time `json:"completedAt"`
}

// Perfect reports whether the quiz was answered flawlessly.
func (r QuizRecord) Perfect() bool { return r.ScorePercent >= 100 }

// BeefRecord is the immutable source record of one head-to-head participation.
type BeefRecord struct {
	UserID            string    `json:"userId"`
	FinishingPosition int       `json:"finishingPosition"`
	FinishedAt        time.Time `json:"finishedAt"`
}

// Won reports whether the participation was a beef win.
func (r BeefRecord) Won() bool { return r.FinishingPosition == 1 }

// StatsSnapshot is the derived numeric view of a user, recomputed on demand
// from source records.
type StatsSnapshot struct {
	UserID          string         `json:"userId"`
	Seq             int64          `json:"seq"`
	QuizCount       int            `json:"quizCount"`
	PerfectScores   int            `json:"perfectScores"`
	FastestTimeMs   int64          `json:"fastestTimeMs,omitempty"`
	BeefWins        int            `json:"beefWins"`
	DocumentCount   int            `json:"documentCount"`
	FolderCount     int            `json:"folderCount"`
	DailyStreakDays int            `json:"dailyStreakDays"`
	AverageStreak   float64        `json:"averageStreak"`
	HardCorrect     int            `json:"hardCorrect"`
	Accuracy        float64        `json:"accuracy"`
	TotalScore      int            `json:"totalScore"`
	CategoryBreadth int            `json:"categoryBreadth"`
	CategoryDepth   map[string]int `json:"categoryDepth,omitempty"`
	QLO             int            `json:"qlo"`
	Rank            int            `json:"rank,omitempty"`
	Percentile      int            `json:"percentile,omitempty"`
	TotalUsers      int            `json:"totalUsers,omitempty"`
}

// QuizCompletedEvent is the inbound signal emitted when a quiz is scored.
type QuizCompletedEvent struct {
	UserID         string    `json:"userId"`
	ScorePercent   float64   `json:"scorePercent"`
	Category       string    `json:"category,omitempty"`
	TotalQuestions int       `json:"totalQuestions"`
	HardCorrect    int       `json:"hardCorrect"`
	DurationMs     int64     `json:"durationMs"`
	Timestamp      time.Time `json:"timestamp"`
}

// BeefFinalizedEvent is the inbound signal emitted when a beef match settles.
type BeefFinalizedEvent struct {
	UserID            string    `json:"userId"`
	FinishingPosition int       `json:"finishingPosition"`
	Timestamp         time.Time `json:"timestamp"`
}

// Metric names a leaderboard ordering column.
type Metric string

const (
	MetricQLO        Metric = "qlo"
	MetricTotalScore Metric = "totalScore"
	MetricBeefWins   Metric = "beefWins"
)

// LeaderboardFilter narrows the ranked population.
type LeaderboardFilter struct {
	GroupID string `json:"groupId,omitempty"`
	Country string `json:"country,omitempty"`
	County  string `json:"county,omitempty"`
	City    string `json:"city,omitempty"`
}

// LeaderboardView is the windowed payload returned to clients. ViewerRank is
// nil when the viewer is not part of the population.
type LeaderboardView struct {
	Displayed  []RankedEntry `json:"displayed"`
	ViewerRank *int          `json:"viewerRank"`
	TotalCount int           `json:"totalCount"`
	Metric     Metric        `json:"metric"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}
