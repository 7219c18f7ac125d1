package memory

import (
	"context"
	"sort"
	"sync"

	"qlo-rating-service/internal/domain"
)

// RecordStore keeps quiz/beef source records in memory.
type RecordStore struct {
	mu      sync.RWMutex
	quizzes map[string][]domain.QuizRecord
	beefs   map[string][]domain.BeefRecord
}

func NewRecordStore() *RecordStore {
	return &RecordStore{
		quizzes: make(map[string][]domain.QuizRecord),
		beefs:   make(map[string][]domain.BeefRecord),
	}
}

func (s *RecordStore) AddQuiz(_ context.Context, rec domain.QuizRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[rec.UserID] = append(s.quizzes[rec.UserID], rec)
	return nil
}

func (s *RecordStore) AddBeef(_ context.Context, rec domain.BeefRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beefs[rec.UserID] = append(s.beefs[rec.UserID], rec)
	return nil
}

func (s *RecordStore) QuizzesByUser(_ context.Context, userID string) ([]domain.QuizRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]domain.QuizRecord(nil), s.quizzes[userID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompletedAt.Before(out[j].CompletedAt) })
	return out, nil
}

func (s *RecordStore) BeefsByUser(_ context.Context, userID string) ([]domain.BeefRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]domain.BeefRecord(nil), s.beefs[userID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].FinishedAt.Before(out[j].FinishedAt) })
	return out, nil
}

func (s *RecordStore) CategoryPlays(_ context.Context, userID, category string) (int, error) {
	if category == "" {
		return 0, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, q := range s.quizzes[userID] {
		if q.Category == category {
			count++
		}
	}
	return count, nil
}
