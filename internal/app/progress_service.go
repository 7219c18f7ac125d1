package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"qlo-rating-service/internal/achievement"
	"qlo-rating-service/internal/domain"
	"qlo-rating-service/internal/leaderboard"
	"qlo-rating-service/internal/rating"
	"qlo-rating-service/internal/stats"
	"qlo-rating-service/internal/streak"
)

// Deps bundles the repositories a ProgressService needs.
type Deps struct {
	Ratings      RatingRepository
	History      HistoryRepository
	Records      RecordRepository
	Achievements AchievementRepository
	Resources    ResourceCounter
	Population   PopulationRepository
}

// ProgressService owns the competitive-progress pipeline: rating updates,
// achievement checks, streaks, stats reads and leaderboard windows. Every
// denormalized counter on UserRatingState is mutated here and nowhere else.
type ProgressService struct {
	deps         Deps
	hub          *hub
	now          func() time.Time
	streakWindow int
}

// Option tweaks service construction.
type Option func(*ProgressService)

// WithClock injects a deterministic clock for tests.
func WithClock(now func() time.Time) Option {
	return func(s *ProgressService) { s.now = now }
}

// WithStreakWindow overrides the rolling streak window.
func WithStreakWindow(days int) Option {
	return func(s *ProgressService) { s.streakWindow = days }
}

func NewProgressService(deps Deps, opts ...Option) *ProgressService {
	if deps.Resources == nil {
		deps.Resources = NoopResourceCounter{}
	}
	s := &ProgressService{
		deps:         deps,
		hub:          newHub(),
		now:          time.Now,
		streakWindow: streak.DefaultWindowDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateUser registers rating state for a fresh account at the baseline QLO.
func (s *ProgressService) CreateUser(ctx context.Context, userID, displayName, country, county, city string) (domain.UserRatingState, error) {
	if userID == "" {
		return domain.UserRatingState{}, fmt.Errorf("missing user id")
	}
	state := domain.UserRatingState{
		UserID:      userID,
		DisplayName: displayName,
		QLO:         domain.BaselineQLO,
		Country:     country,
		County:      county,
		City:        city,
		CreatedAt:   s.now(),
	}
	return s.deps.Ratings.Create(ctx, state)
}

// HandleQuizCompleted records the quiz and runs the competitive side effects.
// Recording is the only step that can fail the call; the rating update,
// history append and achievement check are best-effort and never propagate,
// since the user's quiz score must be preserved regardless.
func (s *ProgressService) HandleQuizCompleted(ctx context.Context, ev domain.QuizCompletedEvent) error {
	if ev.UserID == "" {
		return fmt.Errorf("quiz event missing user id")
	}
	when := ev.Timestamp
	if when.IsZero() {
		when = s.now()
	}

	priorPlays, err := s.deps.Records.CategoryPlays(ctx, ev.UserID, ev.Category)
	if err != nil {
		log.Printf("category plays lookup failed for %s: %v", ev.UserID, err)
		priorPlays = 0
	}

	rec := domain.QuizRecord{
		UserID:         ev.UserID,
		Category:       ev.Category,
		ScorePercent:   ev.ScorePercent,
		TotalQuestions: ev.TotalQuestions,
		HardCorrect:    ev.HardCorrect,
		DurationMs:     ev.DurationMs,
		CompletedAt:    when,
	}
	if err := s.deps.Records.AddQuiz(ctx, rec); err != nil {
		return fmt.Errorf("record quiz: %w", err)
	}

	s.applyQuizRating(ctx, ev, priorPlays, when)
	s.checkAchievements(ctx, ev.UserID, achievement.Trigger{
		Type:        achievement.TriggerQuizCompleted,
		TimeSpentMs: ev.DurationMs,
	})
	s.broadcastLeaderboards(ctx)
	return nil
}

// HandleBeefFinalized records a head-to-head result and updates win counters.
func (s *ProgressService) HandleBeefFinalized(ctx context.Context, ev domain.BeefFinalizedEvent) error {
	if ev.UserID == "" {
		return fmt.Errorf("beef event missing user id")
	}
	when := ev.Timestamp
	if when.IsZero() {
		when = s.now()
	}

	rec := domain.BeefRecord{
		UserID:            ev.UserID,
		FinishingPosition: ev.FinishingPosition,
		FinishedAt:        when,
	}
	if err := s.deps.Records.AddBeef(ctx, rec); err != nil {
		return fmt.Errorf("record beef: %w", err)
	}

	s.applyBeefOutcome(ctx, ev.UserID, rec.Won())
	s.checkAchievements(ctx, ev.UserID, achievement.Trigger{Type: achievement.TriggerBeefFinalized})
	s.broadcastLeaderboards(ctx)
	return nil
}

// applyQuizRating is the single authoritative mutation path for the quiz
// counters and the QLO rating. A missing user record is skipped silently:
// rating is a side effect of quiz completion, never a requirement of it.
func (s *ProgressService) applyQuizRating(ctx context.Context, ev domain.QuizCompletedEvent, priorPlays int, when time.Time) {
	state, err := s.deps.Ratings.Get(ctx, ev.UserID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			log.Printf("rating update skipped for %s: %v", ev.UserID, err)
		}
		return
	}

	state.TotalQuizzes++
	state.TotalScore += int(math.Round(ev.ScorePercent))
	state.AverageAccuracy += (ev.ScorePercent - state.AverageAccuracy) / float64(state.TotalQuizzes)

	upd := rating.ComputeUpdate(state.QLO, ev.ScorePercent, ev.Category, priorPlays, ev.TotalQuestions)
	state.QLO = upd.NewQLO

	if err := s.deps.Ratings.Save(ctx, state); err != nil {
		log.Printf("rating save failed for %s: %v", ev.UserID, err)
		return
	}

	// History is an audit convenience: fire-and-forget, log on failure.
	entry := domain.QLOHistoryEntry{
		UserID:    ev.UserID,
		QLO:       upd.NewQLO,
		ChangedAt: when,
		Source:    domain.SourceQuiz,
		Note:      upd.Note,
	}
	if err := s.deps.History.Append(ctx, entry); err != nil {
		log.Printf("qlo history append failed for %s: %v", ev.UserID, err)
	}
}

func (s *ProgressService) applyBeefOutcome(ctx context.Context, userID string, won bool) {
	state, err := s.deps.Ratings.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			log.Printf("beef counters skipped for %s: %v", userID, err)
		}
		return
	}

	if won {
		state.TotalBeefWins++
		state.WinStreak++
		if state.WinStreak > state.LongestWinStreak {
			state.LongestWinStreak = state.WinStreak
		}
	} else {
		state.WinStreak = 0
	}

	if err := s.deps.Ratings.Save(ctx, state); err != nil {
		log.Printf("beef counters save failed for %s: %v", userID, err)
	}
}

// checkAchievements evaluates the catalog and grants anything newly earned.
// Failures are logged and swallowed: an achievement check is never user-fatal.
func (s *ProgressService) checkAchievements(ctx context.Context, userID string, trig achievement.Trigger) {
	defs, err := s.deps.Achievements.ActiveDefinitions(ctx)
	if err != nil {
		log.Printf("achievement check skipped for %s: %v", userID, err)
		return
	}
	granted, err := s.deps.Achievements.GrantedKeys(ctx, userID)
	if err != nil {
		log.Printf("achievement check skipped for %s: %v", userID, err)
		return
	}
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			log.Printf("achievement check skipped for %s: %v", userID, err)
		}
		return
	}

	for _, def := range achievement.Evaluate(defs, snap, trig, granted) {
		grant := domain.UserAchievementGrant{
			ID:             uuid.NewString(),
			UserID:         userID,
			AchievementKey: def.Key,
			UnlockedAt:     s.now(),
		}
		res, err := s.deps.Achievements.Grant(ctx, grant)
		if err != nil {
			log.Printf("grant %s to %s failed: %v", def.Key, userID, err)
			continue
		}
		if res.AlreadyUnlocked {
			continue
		}
		log.Printf("user %s unlocked achievement %s", userID, def.Key)
	}
}

// snapshot recomputes the derived stats snapshot from source records.
func (s *ProgressService) snapshot(ctx context.Context, userID string) (domain.StatsSnapshot, error) {
	state, err := s.deps.Ratings.Get(ctx, userID)
	if err != nil {
		return domain.StatsSnapshot{}, err
	}
	quizzes, err := s.deps.Records.QuizzesByUser(ctx, userID)
	if err != nil {
		return domain.StatsSnapshot{}, fmt.Errorf("load quiz records: %w", err)
	}
	beefs, err := s.deps.Records.BeefsByUser(ctx, userID)
	if err != nil {
		return domain.StatsSnapshot{}, fmt.Errorf("load beef records: %w", err)
	}
	docs, err := s.deps.Resources.DocumentCount(ctx, userID)
	if err != nil {
		log.Printf("document count unavailable for %s: %v", userID, err)
	}
	folders, err := s.deps.Resources.FolderCount(ctx, userID)
	if err != nil {
		log.Printf("folder count unavailable for %s: %v", userID, err)
	}

	src := stats.Sources{
		Quizzes:       quizzes,
		Beefs:         beefs,
		DocumentCount: docs,
		FolderCount:   folders,
	}
	return stats.Aggregate(state, src, s.now(), s.streakWindow), nil
}

// UserStats returns the derived snapshot with rank and percentile attached
// from the same ordering the leaderboard uses. Unknown users are a
// caller-visible error.
func (s *ProgressService) UserStats(ctx context.Context, userID string) (domain.StatsSnapshot, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return domain.StatsSnapshot{}, err
	}

	ranked, err := s.deps.Population.Ranked(ctx, domain.MetricQLO, domain.LeaderboardFilter{})
	if err != nil {
		// Rank decoration is non-essential; the snapshot itself still serves.
		log.Printf("population ranking unavailable: %v", err)
		return snap, nil
	}
	if rank, pct, ok := leaderboard.Standing(ranked, userID); ok {
		snap.Rank = rank
		snap.Percentile = pct
		snap.TotalUsers = len(ranked)
	}
	return snap, nil
}

// History returns the user's append-only rating audit log.
func (s *ProgressService) History(ctx context.Context, userID string) ([]domain.QLOHistoryEntry, error) {
	if _, err := s.deps.Ratings.Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.deps.History.ListByUser(ctx, userID)
}

// LeaderboardQuery names the ordering metric, optional filters and viewer.
type LeaderboardQuery struct {
	Metric   domain.Metric
	Filter   domain.LeaderboardFilter
	ViewerID string
}

// Leaderboard computes the windowed view over the current population
// snapshot. It is a pure read: concurrent rating updates may or may not be
// reflected.
func (s *ProgressService) Leaderboard(ctx context.Context, q LeaderboardQuery) (domain.LeaderboardView, error) {
	if q.Metric == "" {
		q.Metric = domain.MetricQLO
	}
	ranked, err := s.deps.Population.Ranked(ctx, q.Metric, q.Filter)
	if err != nil {
		return domain.LeaderboardView{}, err
	}
	view := leaderboard.Window(ranked, q.ViewerID)
	view.Metric = q.Metric
	view.UpdatedAt = s.now()
	return view, nil
}

// AchievementStatus pairs a catalog definition with a user's unlock state.
type AchievementStatus struct {
	Definition domain.AchievementDefinition `json:"definition"`
	Unlocked   bool                         `json:"unlocked"`
	UnlockedAt *time.Time                   `json:"unlockedAt,omitempty"`
}

// Achievements lists the catalog with the user's unlock status. Hidden
// definitions only appear once unlocked.
func (s *ProgressService) Achievements(ctx context.Context, userID string) ([]AchievementStatus, error) {
	if _, err := s.deps.Ratings.Get(ctx, userID); err != nil {
		return nil, err
	}
	defs, err := s.deps.Achievements.Definitions(ctx)
	if err != nil {
		return nil, err
	}
	grants, err := s.deps.Achievements.GrantsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	unlockedAt := make(map[string]time.Time, len(grants))
	for _, g := range grants {
		unlockedAt[g.AchievementKey] = g.UnlockedAt
	}

	out := make([]AchievementStatus, 0, len(defs))
	for _, def := range defs {
		at, unlocked := unlockedAt[def.Key]
		if def.IsHidden && !unlocked {
			continue
		}
		status := AchievementStatus{Definition: def, Unlocked: unlocked}
		if unlocked {
			t := at
			status.UnlockedAt = &t
		}
		out = append(out, status)
	}
	return out, nil
}

// Subscribe streams leaderboard windows for a metric/filter/viewer
// combination. The caller must invoke cancel to avoid leaks.
func (s *ProgressService) Subscribe(ctx context.Context, q LeaderboardQuery) (<-chan domain.LeaderboardView, func(), error) {
	initial, err := s.Leaderboard(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.hub.subscribe(q)
	ch <- initial
	return ch, cancel, nil
}

// broadcastLeaderboards refreshes every active subscription. Each subscriber
// gets its own window since the viewer slot differs per viewer.
func (s *ProgressService) broadcastLeaderboards(ctx context.Context) {
	for _, sub := range s.hub.subscriptions() {
		view, err := s.Leaderboard(ctx, sub.query)
		if err != nil {
			log.Printf("leaderboard broadcast failed for metric %s: %v", sub.query.Metric, err)
			continue
		}
		sub.push(view)
	}
}
