package memory

import (
	"context"
	"sort"
	"sync"

	"qlo-rating-service/internal/domain"
)

// HistoryStore keeps the append-only QLO audit log in memory.
type HistoryStore struct {
	mu      sync.RWMutex
	entries map[string][]domain.QLOHistoryEntry
}

func NewHistoryStore() *HistoryStore {
	return &HistoryStore{entries: make(map[string][]domain.QLOHistoryEntry)}
}

func (s *HistoryStore) Append(_ context.Context, entry domain.QLOHistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.UserID] = append(s.entries[entry.UserID], entry)
	return nil
}

func (s *HistoryStore) ListByUser(_ context.Context, userID string) ([]domain.QLOHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]domain.QLOHistoryEntry(nil), s.entries[userID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ChangedAt.Before(out[j].ChangedAt) })
	return out, nil
}
