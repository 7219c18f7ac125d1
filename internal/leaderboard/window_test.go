package leaderboard

import (
	"fmt"
	"testing"

	"qlo-rating-service/internal/domain"
)

// population builds n entries where user-01 has the highest metric and
// user-<n> the lowest, already ranked.
func population(n int) []domain.RankedEntry {
	entries := make([]domain.RankedEntry, 0, n)
	for i := 1; i <= n; i++ {
		entries = append(entries, domain.RankedEntry{
			UserID:      fmt.Sprintf("user-%02d", i),
			MetricValue: int64(10000 - i*10),
		})
	}
	return Rank(entries)
}

func TestWindowTopNinePlusViewer(t *testing.T) {
	ranked := population(50)
	view := Window(ranked, "user-47")

	if view.TotalCount != 50 {
		t.Fatalf("expected total 50, got %d", view.TotalCount)
	}
	if len(view.Displayed) != 10 {
		t.Fatalf("expected 10 displayed entries, got %d", len(view.Displayed))
	}
	for i := 0; i < 9; i++ {
		if view.Displayed[i].Rank != i+1 {
			t.Fatalf("expected global rank %d at position %d, got %d", i+1, i, view.Displayed[i].Rank)
		}
	}
	last := view.Displayed[9]
	if last.UserID != "user-47" || last.Rank != 47 {
		t.Fatalf("expected viewer at true rank 47, got %+v", last)
	}
	if view.ViewerRank == nil || *view.ViewerRank != 47 {
		t.Fatalf("expected viewer rank 47, got %v", view.ViewerRank)
	}
}

func TestWindowSmallPopulationShowsEveryone(t *testing.T) {
	ranked := population(8)
	view := Window(ranked, "user-08")
	if len(view.Displayed) != 8 || view.TotalCount != 8 {
		t.Fatalf("expected all 8 entries, got %d of %d", len(view.Displayed), view.TotalCount)
	}
	if view.ViewerRank == nil || *view.ViewerRank != 8 {
		t.Fatalf("expected viewer rank 8, got %v", view.ViewerRank)
	}
}

func TestWindowViewerInTopNine(t *testing.T) {
	ranked := population(50)
	view := Window(ranked, "user-03")
	if len(view.Displayed) != 10 {
		t.Fatalf("expected verbatim top 10, got %d entries", len(view.Displayed))
	}
	if view.Displayed[9].Rank != 10 {
		t.Fatalf("expected 10th entry at rank 10, got %d", view.Displayed[9].Rank)
	}
	if view.ViewerRank == nil || *view.ViewerRank != 3 {
		t.Fatalf("expected viewer rank 3, got %v", view.ViewerRank)
	}
}

func TestWindowViewerAbsentFallsBackToTopTen(t *testing.T) {
	ranked := population(50)
	view := Window(ranked, "ghost")
	if view.ViewerRank != nil {
		t.Fatalf("expected nil viewer rank, got %d", *view.ViewerRank)
	}
	if len(view.Displayed) != 10 {
		t.Fatalf("expected top 10 fallback, got %d entries", len(view.Displayed))
	}
}

func TestRankTiesShareRankDeterministically(t *testing.T) {
	entries := []domain.RankedEntry{
		{UserID: "c", MetricValue: 100},
		{UserID: "a", MetricValue: 200},
		{UserID: "b", MetricValue: 200},
	}
	first := Rank(entries)
	second := Rank(entries)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("ranking is not deterministic at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
	if first[0].Rank != 1 || first[1].Rank != 1 {
		t.Fatalf("tied entries must share rank 1, got %d and %d", first[0].Rank, first[1].Rank)
	}
	if first[2].Rank != 3 {
		t.Fatalf("entry below a two-way tie ranks 3, got %d", first[2].Rank)
	}
}

func TestStandingMatchesWindowOrdering(t *testing.T) {
	ranked := population(20)
	for _, e := range ranked {
		rank, _, ok := Standing(ranked, e.UserID)
		if !ok {
			t.Fatalf("user %s missing from own population", e.UserID)
		}
		if rank != e.Rank {
			t.Fatalf("standing rank %d disagrees with ranked entry %d for %s", rank, e.Rank, e.UserID)
		}
	}
}

func TestStandingPercentile(t *testing.T) {
	ranked := population(50)

	rank, pct, ok := Standing(ranked, "user-01")
	if !ok || rank != 1 || pct != 100 {
		t.Fatalf("expected leader at rank 1, percentile 100, got rank=%d pct=%d ok=%v", rank, pct, ok)
	}

	// Rank 26: 25 strictly above of 50 → round((1-25/50)*100) = 50.
	rank, pct, ok = Standing(ranked, "user-26")
	if !ok || rank != 26 || pct != 50 {
		t.Fatalf("expected mid-pack percentile 50, got rank=%d pct=%d ok=%v", rank, pct, ok)
	}

	if _, _, ok := Standing(ranked, "ghost"); ok {
		t.Fatalf("expected absent user to report ok=false")
	}
}
