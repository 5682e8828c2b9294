package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/hamproductions/eventernote-report/internal/models"
	"github.com/hamproductions/eventernote-report/pkg/supabase"
)

type recordedRequest struct {
	method string
	path   string
	query  map[string]string
	prefer string
	body   string
}

// fakePostgREST records requests and answers GETs with rows
func fakePostgREST(t *testing.T, rows string) (*supabase.Client, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "key" || r.Header.Get("Authorization") != "Bearer key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, _ := io.ReadAll(r.Body)
		query := map[string]string{}
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}
		requests = append(requests, recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  query,
			prefer: r.Header.Get("Prefer"),
			body:   string(body),
		})

		if r.Method == http.MethodGet {
			w.Write([]byte(rows))
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(srv.Close)

	return supabase.NewClient(srv.URL, "key"), &requests
}

func TestEventSnapshotGetFresh(t *testing.T) {
	rows := `[
		{"eventernote_user_id":"alice","event_href":"/events/2","event_name":"Live","event_date":"2024-02-10 18:00","place":"Zepp","artists":["A","B"],"description":"desc","image_url":null,"expires_at":"2030-01-01T00:00:00Z"},
		{"eventernote_user_id":"alice","event_href":"/events/1","event_name":"Fes","event_date":"2024-01-06","place":"!_Online","artists":[],"description":null,"image_url":"https://img/1.jpg","expires_at":"2030-01-01T00:00:00Z"}
	]`
	client, requests := fakePostgREST(t, rows)
	repo := NewEventSnapshotRepository(client)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	events, found, err := repo.GetFresh(context.Background(), "alice", now)
	if err != nil {
		t.Fatalf("GetFresh() error = %v", err)
	}
	if !found || len(events) != 2 {
		t.Fatalf("GetFresh() = %d events, found=%v; want 2, true", len(events), found)
	}

	if events[0].DayOfWeek != "Saturday" || events[0].Description != "desc" || events[0].ImageURL != "" {
		t.Errorf("events[0] = %+v", events[0])
	}
	if events[1].ImageURL != "https://img/1.jpg" || len(events[1].Artists) != 0 {
		t.Errorf("events[1] = %+v", events[1])
	}

	req := (*requests)[0]
	if req.path != "/rest/v1/cached_events" {
		t.Errorf("path = %s", req.path)
	}
	if req.query["eventernote_user_id"] != "eq.alice" || req.query["expires_at"] != "gt.2024-03-01T12:00:00Z" {
		t.Errorf("query = %v", req.query)
	}
	if req.query["limit"] != "1000" || req.query["offset"] != "0" {
		t.Errorf("paging = limit %s offset %s, want 1000 and 0", req.query["limit"], req.query["offset"])
	}
}

func TestEventSnapshotGetFresh_Paged(t *testing.T) {
	const total, maxRows = 2500, 1000

	var offsets []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		offsets = append(offsets, offset)
		if limit == 0 || limit > maxRows {
			limit = maxRows
		}

		rows := []map[string]any{}
		for i := offset; i < total && i < offset+limit; i++ {
			rows = append(rows, map[string]any{
				"event_href": fmt.Sprintf("/events/%d", i),
				"event_name": "Live",
				"event_date": "2024-01-06",
				"place":      "Budokan",
				"artists":    []string{"A"},
			})
		}
		json.NewEncoder(w).Encode(rows)
	}))
	defer srv.Close()

	repo := NewEventSnapshotRepository(supabase.NewClient(srv.URL, "key"))
	events, found, err := repo.GetFresh(context.Background(), "alice", time.Now())
	if err != nil {
		t.Fatalf("GetFresh() error = %v", err)
	}
	if !found || len(events) != total {
		t.Fatalf("GetFresh() = %d events, found=%v; want %d, true", len(events), found, total)
	}
	if events[total-1].Href != fmt.Sprintf("/events/%d", total-1) {
		t.Errorf("last event = %s", events[total-1].Href)
	}
	if want := []int{0, 1000, 2000}; !slices.Equal(offsets, want) {
		t.Errorf("offsets = %v, want %v", offsets, want)
	}
}

func TestEventSnapshotGetFresh_ExactPageMultiple(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Query().Get("offset") != "0" {
			w.Write([]byte(`[]`))
			return
		}
		w.Write([]byte(`[{"event_href":"/events/1","event_name":"Fes","event_date":"2024-01-06","place":"Budokan","artists":[]},
			{"event_href":"/events/2","event_name":"Fes","event_date":"2024-01-07","place":"Budokan","artists":[]}]`))
	}))
	defer srv.Close()

	repo := &eventSnapshotRepository{client: supabase.NewClient(srv.URL, "key"), pageSize: 2}
	events, found, err := repo.GetFresh(context.Background(), "alice", time.Now())
	if err != nil || !found || len(events) != 2 {
		t.Fatalf("GetFresh() = (%d events, %v, %v), want 2, true, nil", len(events), found, err)
	}
	if requests != 2 {
		t.Errorf("requests = %d, want a second page to confirm the end", requests)
	}
}

func TestEventSnapshotGetFresh_Missing(t *testing.T) {
	client, _ := fakePostgREST(t, `[]`)
	repo := NewEventSnapshotRepository(client)

	events, found, err := repo.GetFresh(context.Background(), "nobody", time.Now())
	if err != nil || found || events != nil {
		t.Errorf("GetFresh() = (%v, %v, %v), want (nil, false, nil)", events, found, err)
	}
}

func TestEventSnapshotReplace(t *testing.T) {
	client, requests := fakePostgREST(t, `[]`)
	repo := NewEventSnapshotRepository(client)

	e, err := models.Enrich(models.Event{Href: "/events/1", Name: "Fes", Date: "2024-01-06", Place: "Budokan", Artists: []string{"A"}})
	if err != nil {
		t.Fatal(err)
	}
	expires := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)

	if err := repo.Replace(context.Background(), "alice", []models.EnhancedEvent{e}, expires); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	if len(*requests) != 2 {
		t.Fatalf("got %d requests, want delete then insert", len(*requests))
	}
	del, ins := (*requests)[0], (*requests)[1]
	if del.method != http.MethodDelete || del.query["eventernote_user_id"] != "eq.alice" {
		t.Errorf("first request = %+v, want delete of alice's rows", del)
	}
	if ins.method != http.MethodPost {
		t.Errorf("second request method = %s, want POST", ins.method)
	}

	var inserted []map[string]any
	if err := json.Unmarshal([]byte(ins.body), &inserted); err != nil {
		t.Fatalf("insert body is not a JSON array: %v", err)
	}
	if len(inserted) != 1 {
		t.Fatalf("inserted %d rows, want 1", len(inserted))
	}
	row := inserted[0]
	if row["event_href"] != "/events/1" || row["place"] != "Budokan" || row["description"] != nil {
		t.Errorf("row = %v", row)
	}
	if row["id"] == "" || !strings.HasPrefix(row["expires_at"].(string), "2024-03-01T18:00:00") {
		t.Errorf("row id/expires_at = %v / %v", row["id"], row["expires_at"])
	}
}

func TestEventSnapshotReplace_Empty(t *testing.T) {
	client, requests := fakePostgREST(t, `[]`)
	repo := NewEventSnapshotRepository(client)

	if err := repo.Replace(context.Background(), "alice", nil, time.Now()); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if len(*requests) != 1 || (*requests)[0].method != http.MethodDelete {
		t.Errorf("requests = %+v, want a single delete", *requests)
	}
}

func TestEventDetailsRepository(t *testing.T) {
	client, requests := fakePostgREST(t, `[{"event_href":"/events/9","artists":["A","C"],"description":"two nights","image_url":null}]`)
	repo := NewEventDetailsRepository(client)

	details, err := repo.Get(context.Background(), "/events/9", time.Now())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if details == nil || len(details.Artists) != 2 || details.Description != "two nights" {
		t.Errorf("Get() = %+v", details)
	}

	if err := repo.Save(context.Background(), "/events/9", models.EventDetails{Artists: []string{"A"}}, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	save := (*requests)[1]
	if save.query["on_conflict"] != "event_href" || !strings.Contains(save.prefer, "merge-duplicates") {
		t.Errorf("upsert request = %+v", save)
	}
}

func TestRepositoryPropagatesErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"message":"down"}`))
	}))
	defer srv.Close()

	repo := NewEventSnapshotRepository(supabase.NewClient(srv.URL, "key"))
	_, _, err := repo.GetFresh(context.Background(), "alice", time.Now())

	var apiErr *supabase.Error
	if err == nil || !errors.As(err, &apiErr) || apiErr.Status != http.StatusServiceUnavailable {
		t.Errorf("GetFresh() error = %v, want a wrapped 503 supabase.Error", err)
	}
}
