package analytics

import (
	"time"

	"github.com/hamproductions/eventernote-report/internal/models"
)

// streakBucket is one calendar unit (a day or an ISO week) with at least one
// event. first and last are the earliest and latest event days inside it.
type streakBucket struct {
	index int
	first time.Time
	last  time.Time
}

// StreakStats computes daily and weekly attendance streaks. now decides
// whether the most recent streak is still running.
func StreakStats(events []models.EnhancedEvent, now time.Time) models.StreakStats {
	if len(events) == 0 {
		return models.StreakStats{}
	}

	today := calendarDay(now)
	days := eventDays(events)

	// days after today never count towards the current streak
	past := days
	for len(past) > 0 && past[len(past)-1].After(today) {
		past = past[:len(past)-1]
	}

	return models.StreakStats{
		Daily:  scanStreak(bucketize(days, dayIndex), bucketize(past, dayIndex), dayIndex(today)),
		Weekly: scanStreak(bucketize(days, weekIndex), bucketize(past, weekIndex), weekIndex(today)),
	}
}

// bucketize folds ascending days into ascending buckets using index
func bucketize(days []time.Time, index func(time.Time) int) []streakBucket {
	buckets := make([]streakBucket, 0, len(days))
	for _, day := range days {
		i := index(day)
		if n := len(buckets); n > 0 && buckets[n-1].index == i {
			buckets[n-1].last = day
			continue
		}
		buckets = append(buckets, streakBucket{index: i, first: day, last: day})
	}
	return buckets
}

// scanStreak finds runs of buckets whose indexes differ by exactly one.
// The longest run is taken over all buckets, the first of several equally
// long runs winning. The current run ends at the last bucket of past, the
// buckets built from days up to now, and only if that bucket is at most one
// unit before now. A later event in the week of now therefore neither
// activates the weekly streak nor moves its end date past now.
func scanStreak(all, past []streakBucket, nowIndex int) models.Streak {
	if len(all) == 0 {
		return models.Streak{}
	}

	longest, longestStart, longestEnd := 1, 0, 0
	runStart := 0
	for i := 1; i < len(all); i++ {
		if all[i].index-all[i-1].index != 1 {
			runStart = i
		}
		if run := i - runStart + 1; run > longest {
			longest, longestStart, longestEnd = run, runStart, i
		}
	}

	streak := models.Streak{
		LongestStreak:          longest,
		LongestStreakStartDate: models.DateOf(all[longestStart].first),
		LongestStreakEndDate:   models.DateOf(all[longestEnd].last),
	}

	latest := len(past) - 1
	if latest < 0 || nowIndex-past[latest].index > 1 {
		return streak
	}

	start := latest
	for start > 0 && past[start].index-past[start-1].index == 1 {
		start--
	}

	streak.IsActive = true
	streak.CurrentStreak = latest - start + 1
	streak.CurrentStreakStartDate = models.DateOf(past[start].first)
	streak.CurrentStreakEndDate = models.DateOf(past[latest].last)

	return streak
}
