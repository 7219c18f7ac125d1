package streak

import "time"

// DefaultWindowDays is the rolling window used for streak statistics.
const DefaultWindowDays = 30

const dayKeyLayout = "2006-01-02"

// Result holds the streak figures for one user.
//
// Current is the number of consecutive active days ending at the reference
// date. Average smooths streak momentum over the window: every day carries the
// length of the consecutive run it belongs to (inactive days carry zero) and
// those per-day values are averaged across the whole window.
type Result struct {
	Current int
	Average float64
}

// DayKey returns the UTC calendar-day key for t. All streak computation uses
// UTC days so a user's streak does not depend on the serving region.
func DayKey(t time.Time) string {
	return t.UTC().Format(dayKeyLayout)
}

// DaySet collects the distinct UTC activity days of the given timestamps.
func DaySet(times []time.Time) map[string]struct{} {
	days := make(map[string]struct{}, len(times))
	for _, t := range times {
		days[DayKey(t)] = struct{}{}
	}
	return days
}

// Compute walks the window of windowDays calendar days ending at asOf and
// derives the current streak plus the windowed average described on Result.
// A single missing day resets the run to zero.
func Compute(activityDays map[string]struct{}, asOf time.Time, windowDays int) Result {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	last := asOf.UTC()
	active := make([]bool, windowDays)
	for i := 0; i < windowDays; i++ {
		day := last.AddDate(0, 0, -(windowDays - 1 - i))
		_, ok := activityDays[day.Format(dayKeyLayout)]
		active[i] = ok
	}

	// Forward pass: reset-on-gap run counter.
	runLen := make([]int, windowDays)
	run := 0
	for i, ok := range active {
		if ok {
			run++
		} else {
			run = 0
		}
		runLen[i] = run
	}

	// Backward pass: every day of a run carries the run's full length so the
	// average reflects how long each day's streak turned out to be.
	for i := windowDays - 2; i >= 0; i-- {
		if active[i] && active[i+1] {
			runLen[i] = runLen[i+1]
		}
	}

	sum := 0
	for _, v := range runLen {
		sum += v
	}

	return Result{
		Current: run,
		Average: float64(sum) / float64(windowDays),
	}
}
