package models

import "time"

// All stats types below are value objects: built fresh for every call and
// never mutated afterwards. JSON field names are the dashboard contract.

// BasicStats holds the headline counts of an event list
type BasicStats struct {
	TotalEvents            int            `json:"totalEvents"`
	UniqueVenues           int            `json:"uniqueVenues"`
	UniqueArtists          int            `json:"uniqueArtists"`
	TotalArtistAppearances int            `json:"totalArtistAppearances"`
	DateRange              StatsDateRange `json:"dateRange"`
}

// StatsDateRange is the span of an event list as date keys ("" when empty)
type StatsDateRange struct {
	Earliest string `json:"earliest"`
	Latest   string `json:"latest"`
}

// MonthCount is the number of events in a "YYYY-MM" bucket
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// DayCount is the number of events on a weekday ("Monday", ...)
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// TemporalStats holds the month and weekday breakdowns
type TemporalStats struct {
	MonthlyBreakdown  []MonthCount `json:"monthlyBreakdown"` // newest month first
	BusiestMonth      *MonthCount  `json:"busiestMonth"`
	TopDayOfWeek      *DayCount    `json:"topDayOfWeek"`
	AvgEventsPerMonth string       `json:"avgEventsPerMonth"` // one decimal
}

// WeekendStats describes how much of the attendance falls on weekends.
// A weekend unit is a Saturday/Sunday pair keyed by its Saturday.
type WeekendStats struct {
	TotalWeekends          int     `json:"totalWeekends"`
	WeekendsWithEvents     int     `json:"weekendsWithEvents"`
	WeekendPercentage      float64 `json:"weekendPercentage"`
	WeekendEventCount      int     `json:"weekendEventCount"`
	WeekendEventPercentage float64 `json:"weekendEventPercentage"`
	WeekdayEventCount      int     `json:"weekdayEventCount"`
	WeekdayEventPercentage float64 `json:"weekdayEventPercentage"`
}

// MultiEventDayStats describes days with more than one event
type MultiEventDayStats struct {
	DaysWithMultipleEvents           int          `json:"daysWithMultipleEvents"`
	DaysWithMultipleEventsPercentage float64      `json:"daysWithMultipleEventsPercentage"`
	DaysWithMultipleVenues           int          `json:"daysWithMultipleVenues"`
	DaysWithMultipleVenuesPercentage float64      `json:"daysWithMultipleVenuesPercentage"`
	TotalDaysWithEvents              int          `json:"totalDaysWithEvents"`
	MaxEventsInDay                   int          `json:"maxEventsInDay"`
	MaxEventsInDayDate               NullableDate `json:"maxEventsInDayDate"`
	MaxVenuesInDay                   int          `json:"maxVenuesInDay"`
	MaxVenuesInDayDate               NullableDate `json:"maxVenuesInDayDate"`
}

// ActivityStats holds day-level activity metrics
type ActivityStats struct {
	UniqueDays          int                `json:"uniqueDays"`
	TotalDaysInRange    int                `json:"totalDaysInRange"`
	DaysSpentPercentage string             `json:"daysSpentPercentage"` // one decimal
	YearsSinceFirst     string             `json:"yearsSinceFirst"`     // one decimal
	DaysSinceFirst      int                `json:"daysSinceFirst"`
	WeekendStats        WeekendStats       `json:"weekendStats"`
	MultiEventDayStats  MultiEventDayStats `json:"multiEventDayStats"`
}

// Streak is the streak summary for one granularity (days or ISO weeks)
type Streak struct {
	CurrentStreak          int          `json:"currentStreak"`
	LongestStreak          int          `json:"longestStreak"`
	CurrentStreakStartDate NullableDate `json:"currentStreakStartDate"`
	CurrentStreakEndDate   NullableDate `json:"currentStreakEndDate"`
	LongestStreakStartDate NullableDate `json:"longestStreakStartDate"`
	LongestStreakEndDate   NullableDate `json:"longestStreakEndDate"`
	IsActive               bool         `json:"isActive"`
}

// StreakStats holds daily and weekly streaks
type StreakStats struct {
	Daily  Streak `json:"daily"`
	Weekly Streak `json:"weekly"`
}

// ArtistCount is an artist with the number of attended events
type ArtistCount struct {
	Artist string `json:"artist"`
	Count  int    `json:"count"`
}

// VenueEvents is a venue with every event attended there
type VenueEvents struct {
	Venue  string          `json:"venue"`
	Count  int             `json:"count"`
	Events []EnhancedEvent `json:"events"`
}

// TopLists holds the ranked artists and venues and the latest events
type TopLists struct {
	TopArtists   []ArtistCount   `json:"topArtists"`
	TopVenues    []VenueEvents   `json:"topVenues"`
	RecentEvents []EnhancedEvent `json:"recentEvents"`
}

// RadarRawValues are the unscaled metrics behind each radar dimension,
// shown in chart tooltips
type RadarRawValues struct {
	MultiVenueDaysPercent  float64 `json:"multiVenueDaysPercent"`
	CoreArtistsCount       int     `json:"coreArtistsCount"`
	AttendanceRatePercent  float64 `json:"attendanceRatePercent"`
	ConsistencyScore       float64 `json:"consistencyScore"`
	WeekendActivityPercent float64 `json:"weekendActivityPercent"`
	EventsPerDay           float64 `json:"eventsPerDay"`
}

// RadarStats holds the six normalized profile scores. 100 means the
// reference level was reached; values above 100 are clipped only when drawn.
type RadarStats struct {
	MultiVenueHustle  float64        `json:"multiVenueHustle"`
	ActiveArtistsCore float64        `json:"activeArtistsCore"`
	ActivityRate      float64        `json:"activityRate"`
	Consistency       float64        `json:"consistency"`
	WeekendWarrior    float64        `json:"weekendWarrior"`
	Intensity         float64        `json:"intensity"`
	RawValues         RadarRawValues `json:"rawValues"`
}

// CumulativePoint is the running per-artist event count at the end of a month
type CumulativePoint struct {
	Date   string         `json:"date"` // "YYYY-MM"
	Counts map[string]int `json:"counts"`
}

// ChartSeries holds the chart-only time series
type ChartSeries struct {
	DisplayedArtists     []string          `json:"displayedArtists"`
	CumulativeArtistData []CumulativePoint `json:"cumulativeArtistData"`
	DateEventMap         map[string]int    `json:"dateEventMap"` // date key -> events, no gap filling
}

// ComprehensiveAnalytics is the composite analytics record
type ComprehensiveAnalytics struct {
	Basic    BasicStats    `json:"basic"`
	Temporal TemporalStats `json:"temporal"`
	Activity ActivityStats `json:"activity"`
	Streaks  StreakStats   `json:"streaks"`
	TopLists TopLists      `json:"topLists"`
}

// ChartAnalytics extends ComprehensiveAnalytics with chart-specific fields
type ChartAnalytics struct {
	ComprehensiveAnalytics
	Radar       RadarStats  `json:"radar"`
	ChartSeries ChartSeries `json:"chartSeries"`
}

// ArtistStat is a ranked per-artist summary
type ArtistStat struct {
	ArtistName string          `json:"artistName"`
	EventCount int             `json:"eventCount"`
	Percentage float64         `json:"percentage"` // % of total events
	FirstSeen  time.Time       `json:"firstSeen"`
	LastSeen   time.Time       `json:"lastSeen"`
	Events     []EnhancedEvent `json:"-"`
	Rank       int             `json:"rank"`
}

// VenueStat is a ranked per-venue summary
type VenueStat struct {
	VenueName          string          `json:"venueName"`
	EventCount         int             `json:"eventCount"`
	Percentage         float64         `json:"percentage"`
	FirstVisit         time.Time       `json:"firstVisit"`
	LastVisit          time.Time       `json:"lastVisit"`
	UniqueArtistsCount int             `json:"uniqueArtistsCount"`
	Events             []EnhancedEvent `json:"-"`
	Rank               int             `json:"rank"`
}

// ReportSummary is the dashboard overview card
type ReportSummary struct {
	TotalEvents           int         `json:"totalEvents"`
	UniqueArtists         int         `json:"uniqueArtists"`
	UniqueVenues          int         `json:"uniqueVenues"`
	AverageEventsPerMonth float64     `json:"averageEventsPerMonth"`
	DateRange             DateRange   `json:"dateRange"`
	TopArtist             *ArtistStat `json:"topArtist"`
	TopVenue              *VenueStat  `json:"topVenue"`
	BusiestMonth          MonthCount  `json:"busiestMonth"`
	BusiestDayOfWeek      DayCount    `json:"busiestDayOfWeek"`
}

// ArtistStatsList is the ranked artist list of a user
type ArtistStatsList struct {
	Artists    []ArtistStat `json:"artists"`
	TotalCount int          `json:"totalCount"`
}

// VenueStatsList is the ranked venue list of a user
type VenueStatsList struct {
	Venues     []VenueStat `json:"venues"`
	TotalCount int         `json:"totalCount"`
}

// AnalyticsReport is the dashboard payload of one user after the period and
// filters were applied
type AnalyticsReport struct {
	UserID     string         `json:"userId"`
	DateRange  DateRange      `json:"dateRange"`
	Filters    FilterState    `json:"filters"`
	EventCount int            `json:"eventCount"`
	Analytics  ChartAnalytics `json:"analytics"`
	Summary    ReportSummary  `json:"summary"`
}
