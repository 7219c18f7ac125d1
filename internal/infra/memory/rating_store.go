package memory

import (
	"context"
	"sync"

	"qlo-rating-service/internal/domain"
	"qlo-rating-service/internal/leaderboard"
)

// RatingStore is an in-memory implementation of app.RatingRepository and
// app.PopulationRepository (useful for tests/demos).
type RatingStore struct {
	mu      sync.RWMutex
	states  map[string]domain.UserRatingState
	nextSeq int64
	groups  map[string]map[string]bool
}

func NewRatingStore() *RatingStore {
	return &RatingStore{
		states: make(map[string]domain.UserRatingState),
		groups: make(map[string]map[string]bool),
	}
}

func (s *RatingStore) Get(_ context.Context, userID string) (domain.UserRatingState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[userID]
	if !ok {
		return domain.UserRatingState{}, domain.ErrUserNotFound
	}
	return state, nil
}

func (s *RatingStore) Create(_ context.Context, state domain.UserRatingState) (domain.UserRatingState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.states[state.UserID]; ok {
		return domain.UserRatingState{}, domain.ErrUserExists
	}
	s.nextSeq++
	state.Seq = s.nextSeq
	s.states[state.UserID] = state
	return state, nil
}

func (s *RatingStore) Save(_ context.Context, state domain.UserRatingState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.states[state.UserID]; !ok {
		return domain.ErrUserNotFound
	}
	s.states[state.UserID] = state
	return nil
}

// AddGroupMember registers a user in a leaderboard group.
func (s *RatingStore) AddGroupMember(groupID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.groups[groupID]
	if !ok {
		members = make(map[string]bool)
		s.groups[groupID] = members
	}
	members[userID] = true
}

// Ranked returns the filtered population fully ordered by the metric, with
// true global ranks assigned.
func (s *RatingStore) Ranked(_ context.Context, metric domain.Metric, filter domain.LeaderboardFilter) ([]domain.RankedEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var members map[string]bool
	if filter.GroupID != "" {
		var ok bool
		members, ok = s.groups[filter.GroupID]
		if !ok {
			return nil, domain.ErrGroupNotFound
		}
	}

	entries := make([]domain.RankedEntry, 0, len(s.states))
	for _, state := range s.states {
		if members != nil && !members[state.UserID] {
			continue
		}
		if filter.Country != "" && state.Country != filter.Country {
			continue
		}
		if filter.County != "" && state.County != filter.County {
			continue
		}
		if filter.City != "" && state.City != filter.City {
			continue
		}
		value, err := metricValue(state, metric)
		if err != nil {
			return nil, err
		}
		entries = append(entries, domain.RankedEntry{
			UserID:      state.UserID,
			DisplayName: state.DisplayName,
			MetricValue: value,
		})
	}
	return leaderboard.Rank(entries), nil
}

func metricValue(state domain.UserRatingState, metric domain.Metric) (int64, error) {
	switch metric {
	case domain.MetricQLO:
		return int64(state.QLO), nil
	case domain.MetricTotalScore:
		return int64(state.TotalScore), nil
	case domain.MetricBeefWins:
		return int64(state.TotalBeefWins), nil
	}
	return 0, domain.ErrUnknownMetric
}
