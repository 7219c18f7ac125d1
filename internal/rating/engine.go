// Package rating computes QLO skill-score updates from quiz outcomes.
package rating

import "math"

const (
	// KFactor scales how strongly one quiz moves the rating.
	KFactor = 24
	// ExpectedScore centers the rating around "competent" performance: a user
	// who always scores exactly 60% neither gains nor loses rating.
	ExpectedScore = 0.6
	// DiversificationBase is the numerator of the topic-diversification bonus.
	DiversificationBase = 25.0
	// ShortQuizThreshold is the minimum question count for full bonus credit.
	ShortQuizThreshold = 5
)

// Update is the outcome of one rating computation. NewQLO is clamped at a
// floor of zero; there is no ceiling.
type Update struct {
	NewQLO    int
	BaseDelta float64
	Bonus     float64
	Note      string
}

// ComputeUpdate derives the rating after one completed quiz.
//
// The base delta rewards scoring above the 60% baseline. The diversification
// bonus rewards trying a new or rarely-played category and decays
// logarithmically as the same category is replayed; it never reaches zero.
// Quizzes shorter than ShortQuizThreshold questions earn half the bonus.
func ComputeUpdate(priorQLO int, scorePercent float64, category string, priorPlaysInCategory, questionCount int) Update {
	baseDelta := KFactor * (scorePercent/100 - ExpectedScore)

	bonus := 0.0
	if category != "" {
		seen := priorPlaysInCategory - 1
		if seen < 0 {
			seen = 0
		}
		bonus = DiversificationBase / math.Log(float64(seen)+2)
		if questionCount < ShortQuizThreshold {
			bonus /= 2
		}
	}

	newQLO := int(math.Round(float64(priorQLO) + baseDelta + bonus))
	if newQLO < 0 {
		newQLO = 0
	}

	return Update{
		NewQLO:    newQLO,
		BaseDelta: baseDelta,
		Bonus:     bonus,
		Note:      category,
	}
}
