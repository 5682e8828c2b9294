package analytics

import (
	"time"

	"github.com/hamproductions/eventernote-report/internal/models"
)

// Reference levels at which a radar dimension reaches 100. They are
// calibration constants and are kept as they are.
const (
	multiVenueReference   = 0.10 // share of active days spent at 2+ venues
	coreArtistReference   = 20.0 // number of core artists
	activityRateReference = 0.30 // share of days in range with an event
	consistencyReference  = 70.0 // consistency score
	intensityReference    = 0.5  // events per active day above 1.0

	// coreArtistZScore is the z-score above which an artist counts as core
	coreArtistZScore = 2.5

	// neutralConsistency is reported when there are fewer than two event days
	neutralConsistency = 50.0
)

// RadarStats derives the six profile dimensions. activity must be the
// ActivityStats of the same events.
func RadarStats(events []models.EnhancedEvent, activity models.ActivityStats) models.RadarStats {
	if len(events) == 0 || activity.UniqueDays == 0 {
		return models.RadarStats{}
	}

	uniqueDays := activity.UniqueDays

	multiVenueRatio := float64(activity.MultiEventDayStats.DaysWithMultipleVenues) / float64(uniqueDays)
	coreArtists := coreArtistCount(events)
	attendanceRatio := float64(uniqueDays) / float64(activity.TotalDaysInRange)
	consistencyScore, consistency := consistencyScores(eventDays(events))
	weekendPercentage := activity.WeekendStats.WeekendPercentage
	eventsPerDay := float64(len(events)) / float64(uniqueDays)

	return models.RadarStats{
		MultiVenueHustle:  round1(multiVenueRatio / multiVenueReference * 100),
		ActiveArtistsCore: round1(float64(coreArtists) / coreArtistReference * 100),
		ActivityRate:      round1(attendanceRatio / activityRateReference * 100),
		Consistency:       round1(consistency),
		WeekendWarrior:    round1(weekendPercentage),
		Intensity:         round1(max(0, (eventsPerDay-1)/intensityReference*100)),
		RawValues: models.RadarRawValues{
			MultiVenueDaysPercent:  round1(multiVenueRatio * 100),
			CoreArtistsCount:       coreArtists,
			AttendanceRatePercent:  round1(attendanceRatio * 100),
			ConsistencyScore:       round1(consistencyScore),
			WeekendActivityPercent: round1(weekendPercentage),
			EventsPerDay:           round2(eventsPerDay),
		},
	}
}

// coreArtistCount counts artists whose event count has a population z-score
// above coreArtistZScore
func coreArtistCount(events []models.EnhancedEvent) int {
	counts := newTally[string]()
	for _, e := range events {
		for _, artist := range e.Artists {
			counts.add(artist)
		}
	}

	values := make([]float64, 0, counts.len())
	for _, artist := range counts.keys {
		values = append(values, float64(counts.count(artist)))
	}

	mean, stdDev := meanStdDev(values)
	if stdDev == 0 {
		return 0
	}

	core := 0
	for _, v := range values {
		if (v-mean)/stdDev > coreArtistZScore {
			core++
		}
	}
	return core
}

// consistencyScores measures how regular the gaps between event days are.
// score is 100/(1+CV) of the gaps; scaled is score against its reference.
// With fewer than two days both are neutralConsistency.
func consistencyScores(days []time.Time) (score, scaled float64) {
	if len(days) < 2 {
		return neutralConsistency, neutralConsistency
	}

	gaps := make([]float64, 0, len(days)-1)
	for i := 1; i < len(days); i++ {
		gaps = append(gaps, float64(daysBetween(days[i-1], days[i])))
	}

	mean, stdDev := meanStdDev(gaps)
	cv := 0.0
	if mean > 0 {
		cv = stdDev / mean
	}

	score = 100 / (1 + cv)
	return score, score / consistencyReference * 100
}
