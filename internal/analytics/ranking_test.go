package analytics

import (
	"testing"
)

func TestArtistStats(t *testing.T) {
	stats := ArtistStats(sampleEvents(t))

	if len(stats) != 3 {
		t.Fatalf("got %d artists, want 3", len(stats))
	}

	a := stats[0]
	if a.ArtistName != "A" || a.Rank != 1 || a.EventCount != 3 || a.Percentage != 60 {
		t.Errorf("stats[0] = %+v, want A rank 1 with 3 events (60%%)", a)
	}
	if a.FirstSeen.Format("2006-01-02") != "2024-01-06" || a.LastSeen.Format("2006-01-02") != "2024-01-10" {
		t.Errorf("A seen %v..%v, want 2024-01-06..2024-01-10", a.FirstSeen, a.LastSeen)
	}
	if stats[1].ArtistName != "B" || stats[1].Rank != 2 || stats[2].ArtistName != "C" || stats[2].Rank != 3 {
		t.Errorf("ranking = %s, %s, want B then C", stats[1].ArtistName, stats[2].ArtistName)
	}
}

func TestVenueStats(t *testing.T) {
	stats := VenueStats(sampleEvents(t))

	if len(stats) != 3 {
		t.Fatalf("got %d venues, want 3 (sentinel venue excluded)", len(stats))
	}
	budokan := stats[0]
	if budokan.VenueName != "Budokan" || budokan.EventCount != 2 || budokan.Percentage != 40 {
		t.Errorf("stats[0] = %+v, want Budokan with 2 events (40%%)", budokan)
	}
	if budokan.UniqueArtistsCount != 3 {
		t.Errorf("Budokan UniqueArtistsCount = %d, want 3", budokan.UniqueArtistsCount)
	}
	for _, v := range stats {
		if v.VenueName == "!_Online" {
			t.Error("sentinel venue must not be ranked")
		}
	}
}

func TestBusiest(t *testing.T) {
	events := sampleEvents(t)

	if got := BusiestDayOfWeek(events); got.Day != "Saturday" || got.Count != 3 {
		t.Errorf("BusiestDayOfWeek() = %+v, want Saturday with 3", got)
	}
	if got := BusiestMonth(events); got.Month != "January 2024" || got.Count != 5 {
		t.Errorf("BusiestMonth() = %+v, want January 2024 with 5", got)
	}
	if got := BusiestDayOfWeek(nil); got.Day != "N/A" || got.Count != 0 {
		t.Errorf("BusiestDayOfWeek(nil) = %+v, want N/A", got)
	}
	if got := BusiestMonth(nil); got.Month != "N/A" || got.Count != 0 {
		t.Errorf("BusiestMonth(nil) = %+v, want N/A", got)
	}
}

func TestSummary(t *testing.T) {
	summary := Summary(sampleEvents(t))

	if summary.TotalEvents != 5 || summary.UniqueArtists != 3 || summary.UniqueVenues != 3 {
		t.Errorf("totals = %d/%d/%d, want 5/3/3", summary.TotalEvents, summary.UniqueArtists, summary.UniqueVenues)
	}
	if summary.AverageEventsPerMonth != 5 {
		t.Errorf("AverageEventsPerMonth = %v, want 5", summary.AverageEventsPerMonth)
	}
	if summary.TopArtist == nil || summary.TopArtist.ArtistName != "A" {
		t.Errorf("TopArtist = %+v, want A", summary.TopArtist)
	}
	if summary.TopVenue == nil || summary.TopVenue.VenueName != "Budokan" {
		t.Errorf("TopVenue = %+v, want Budokan", summary.TopVenue)
	}
	if summary.DateRange.StartDate == nil || summary.DateRange.StartDate.Format("2006-01-02") != "2024-01-06" {
		t.Errorf("DateRange.StartDate = %v, want 2024-01-06", summary.DateRange.StartDate)
	}
	if summary.DateRange.EndDate == nil || summary.DateRange.EndDate.Format("2006-01-02") != "2024-01-13" {
		t.Errorf("DateRange.EndDate = %v, want 2024-01-13", summary.DateRange.EndDate)
	}
}

func TestSummary_Empty(t *testing.T) {
	summary := Summary(nil)

	if summary.TopArtist != nil || summary.TopVenue != nil {
		t.Error("expected no top artist or venue")
	}
	if summary.BusiestMonth.Month != "N/A" || summary.BusiestDayOfWeek.Day != "N/A" {
		t.Errorf("busiest = %+v / %+v, want N/A", summary.BusiestMonth, summary.BusiestDayOfWeek)
	}
	if summary.DateRange.StartDate != nil || summary.DateRange.EndDate != nil {
		t.Error("expected an open date range")
	}
}
