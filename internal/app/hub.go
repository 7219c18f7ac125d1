package app

import (
	"sync"

	"qlo-rating-service/internal/domain"
)

// subscription is one live leaderboard stream. Windows are viewer-specific,
// so each subscriber carries its own query.
type subscription struct {
	query LeaderboardQuery

	mu     sync.Mutex
	closed bool
	ch     chan domain.LeaderboardView
}

// push delivers a view without blocking: a slow consumer loses stale frames,
// never stalls the broadcast.
func (s *subscription) push(view domain.LeaderboardView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- view:
	default:
		select {
		case <-s.ch:
		default:
		}
		select {
		case s.ch <- view:
		default:
		}
	}
}

func (s *subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// hub tracks live leaderboard subscriptions.
type hub struct {
	mu   sync.Mutex
	subs map[*subscription]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[*subscription]struct{})}
}

func (h *hub) subscribe(q LeaderboardQuery) (chan domain.LeaderboardView, func()) {
	sub := &subscription{query: q, ch: make(chan domain.LeaderboardView, 8)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subs, sub)
		h.mu.Unlock()
		sub.close()
	}
	return sub.ch, cancel
}

func (h *hub) subscriptions() []*subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*subscription, 0, len(h.subs))
	for sub := range h.subs {
		out = append(out, sub)
	}
	return out
}
