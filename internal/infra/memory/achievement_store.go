package memory

import (
	"context"
	"sort"
	"sync"

	"qlo-rating-service/internal/domain"
)

// AchievementStore keeps the definition catalog and grant log in memory.
// Grants honor the at-most-once (user, key) constraint.
type AchievementStore struct {
	mu     sync.RWMutex
	defs   []domain.AchievementDefinition
	grants map[string]map[string]domain.UserAchievementGrant
}

func NewAchievementStore(catalog []domain.AchievementDefinition) *AchievementStore {
	return &AchievementStore{
		defs:   append([]domain.AchievementDefinition(nil), catalog...),
		grants: make(map[string]map[string]domain.UserAchievementGrant),
	}
}

func (s *AchievementStore) Definitions(_ context.Context) ([]domain.AchievementDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.AchievementDefinition(nil), s.defs...), nil
}

func (s *AchievementStore) ActiveDefinitions(ctx context.Context) ([]domain.AchievementDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.AchievementDefinition, 0, len(s.defs))
	for _, def := range s.defs {
		if def.IsActive {
			out = append(out, def)
		}
	}
	return out, nil
}

func (s *AchievementStore) GrantedKeys(_ context.Context, userID string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool, len(s.grants[userID]))
	for key := range s.grants[userID] {
		out[key] = true
	}
	return out, nil
}

func (s *AchievementStore) Grant(_ context.Context, grant domain.UserAchievementGrant) (domain.GrantResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := false
	for _, def := range s.defs {
		if def.Key == grant.AchievementKey {
			known = true
			break
		}
	}
	if !known {
		return domain.GrantResult{}, domain.ErrAchievementNotFound
	}

	userGrants, ok := s.grants[grant.UserID]
	if !ok {
		userGrants = make(map[string]domain.UserAchievementGrant)
		s.grants[grant.UserID] = userGrants
	}
	if _, exists := userGrants[grant.AchievementKey]; exists {
		return domain.GrantResult{Success: true, AlreadyUnlocked: true}, nil
	}
	userGrants[grant.AchievementKey] = grant
	return domain.GrantResult{Success: true}, nil
}

func (s *AchievementStore) GrantsByUser(_ context.Context, userID string) ([]domain.UserAchievementGrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.UserAchievementGrant, 0, len(s.grants[userID]))
	for _, g := range s.grants[userID] {
		out = append(out, g)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UnlockedAt.Before(out[j].UnlockedAt) })
	return out, nil
}
