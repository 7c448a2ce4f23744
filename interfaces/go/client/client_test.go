package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const summaryJSON = `{"resourceType":"Observation","status":"final",
"valueQuantity":{"value":84,"unit":"beats/minute"},
"component":[{"code":{"text":"min"},"valueQuantity":{"value":70}},
{"code":{"text":"max"},"valueQuantity":{"value":90}},
{"code":{"text":"avg"},"valueQuantity":{"value":81.33}}],
"effectivePeriod":{"start":"2025-05-01T08:00:00Z","end":"2025-05-01T08:00:03Z","duration_seconds":3},
"extension":[{"url":"http://example.org/sessionData","valueString":"[]"}]}`

func TestLastSessionDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/session" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("X-Session-Id", "abc")
		_, _ = w.Write([]byte(summaryJSON))
	}))
	defer srv.Close()

	s, err := New(srv.URL + "/").LastSession(context.Background())
	if err != nil {
		t.Fatalf("last session: %v", err)
	}
	if s.SessionID != "abc" || s.Last != 84 || s.Min != 70 || s.Max != 90 || s.Avg != 81.33 {
		t.Fatalf("unexpected %+v", s)
	}
	want := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	if !s.Start.Equal(want) || s.End.Sub(s.Start) != 3*time.Second || s.Duration != 3*time.Second {
		t.Fatalf("period %s..%s (%s)", s.Start, s.End, s.Duration)
	}
	if s.Data != "[]" {
		t.Fatalf("data %q", s.Data)
	}
}

func TestLastSessionErrors(t *testing.T) {
	status := http.StatusNotFound
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":"No session data available."}`))
	}))
	defer srv.Close()
	c := New(srv.URL)

	if _, err := c.LastSession(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	status = http.StatusInternalServerError
	if _, err := c.LastSession(context.Background()); err == nil || errors.Is(err, ErrNoSession) {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestStreamDialFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	err := New(srv.URL).Stream(context.Background(), func(Tick) error { return nil })
	if err == nil {
		t.Fatalf("expected dial error")
	}
}
