// Package leaderboard ranks a population and selects the bounded,
// viewer-inclusive display window.
package leaderboard

import (
	"math"
	"sort"

	"qlo-rating-service/internal/domain"
)

const (
	// topSize is how many leaders are always shown.
	topSize = 9
	// maxDisplay bounds the window: the top leaders plus one slot for the viewer.
	maxDisplay = 10
)

// Rank orders entries by metric value descending and assigns each its true
// global rank: one plus the number of strictly higher metric values, so tied
// entries share a rank. Ties are ordered by user ID ascending, which keeps the
// ordering deterministic for a given input.
func Rank(entries []domain.RankedEntry) []domain.RankedEntry {
	ranked := make([]domain.RankedEntry, len(entries))
	copy(ranked, entries)

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].MetricValue != ranked[j].MetricValue {
			return ranked[i].MetricValue > ranked[j].MetricValue
		}
		return ranked[i].UserID < ranked[j].UserID
	})

	for i := range ranked {
		if i > 0 && ranked[i].MetricValue == ranked[i-1].MetricValue {
			ranked[i].Rank = ranked[i-1].Rank
		} else {
			ranked[i].Rank = i + 1
		}
	}
	return ranked
}

// Window applies the "top-9 plus you" policy to a fully ranked population.
//
// Populations of up to ten members are shown whole. Larger populations show
// the top ten verbatim when the viewer is among the first nine positions;
// otherwise the viewer's own entry is appended after the top nine. Displayed
// rank numbers are always the entries' true global ranks ("#1..#9, #47"),
// never renumbered to the displayed position. A viewer absent from the
// population gets the plain top ten and a nil viewer rank.
func Window(ranked []domain.RankedEntry, viewerID string) domain.LeaderboardView {
	total := len(ranked)

	viewerIdx := -1
	for i := range ranked {
		if ranked[i].UserID == viewerID {
			viewerIdx = i
			break
		}
	}
	var viewerRank *int
	if viewerIdx >= 0 {
		r := ranked[viewerIdx].Rank
		viewerRank = &r
	}

	if total <= maxDisplay {
		return domain.LeaderboardView{
			Displayed:  append([]domain.RankedEntry(nil), ranked...),
			ViewerRank: viewerRank,
			TotalCount: total,
		}
	}

	if viewerIdx >= topSize {
		displayed := append([]domain.RankedEntry(nil), ranked[:topSize]...)
		displayed = append(displayed, ranked[viewerIdx])
		return domain.LeaderboardView{
			Displayed:  displayed,
			ViewerRank: viewerRank,
			TotalCount: total,
		}
	}

	return domain.LeaderboardView{
		Displayed:  append([]domain.RankedEntry(nil), ranked[:maxDisplay]...),
		ViewerRank: viewerRank,
		TotalCount: total,
	}
}

// Standing reports a user's rank and percentile within a ranked population.
// The rank equals one plus the number of strictly higher metric values, which
// matches the ordering Window displays. ok is false when the user is absent.
func Standing(ranked []domain.RankedEntry, userID string) (rank, percentile int, ok bool) {
	total := len(ranked)
	for i := range ranked {
		if ranked[i].UserID != userID {
			continue
		}
		rank = ranked[i].Rank
		strictlyAbove := rank - 1
		percentile = int(math.Round((1 - float64(strictlyAbove)/float64(total)) * 100))
		return rank, percentile, true
	}
	return 0, 0, false
}
