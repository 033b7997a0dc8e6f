package tmdb_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tvrename/internal/identification/tmdb"
	"tvrename/internal/services"
)

func newClient(t *testing.T, url string) *tmdb.Client {
	t.Helper()
	client, err := tmdb.New("key", url, "en-US", tmdb.WithTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := tmdb.New("  ", "https://example.com", "en-US")
	if err == nil {
		t.Fatal("expected error when api key missing")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestSearchTVSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/tv" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("api_key") != "key" {
			t.Errorf("expected api_key query parameter, got %q", r.URL.RawQuery)
		}
		if q.Get("query") != "Some Show" {
			t.Errorf("expected query parameter, got %q", q.Get("query"))
		}
		if q.Get("language") != "en-US" {
			t.Errorf("expected language parameter, got %q", q.Get("language"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":7,"name":"Some Show"},{"id":8,"name":"Other"}]}`))
	}))
	t.Cleanup(server.Close)

	resp, err := newClient(t, server.URL).SearchTV(context.Background(), "Some Show")
	if err != nil {
		t.Fatalf("SearchTV returned error: %v", err)
	}
	if len(resp.Results) != 2 || resp.Results[0].ID != 7 || resp.Results[0].Name != "Some Show" {
		t.Fatalf("unexpected response: %#v", resp)
	}
}

func TestGetTVDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/42" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":42,"name":"Show","number_of_seasons":5}`))
	}))
	t.Cleanup(server.Close)

	details, err := newClient(t, server.URL).GetTVDetails(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetTVDetails returned error: %v", err)
	}
	if details.NumberOfSeasons != 5 {
		t.Fatalf("NumberOfSeasons = %d, want 5", details.NumberOfSeasons)
	}
}

func TestGetSeasonDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/42/season/2" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"season_number":2,"episodes":[{"season_number":2,"episode_number":1,"name":"Start"}]}`))
	}))
	t.Cleanup(server.Close)

	season, err := newClient(t, server.URL).GetSeasonDetails(context.Background(), 42, 2)
	if err != nil {
		t.Fatalf("GetSeasonDetails returned error: %v", err)
	}
	if len(season.Episodes) != 1 || season.Episodes[0].Name != "Start" {
		t.Fatalf("unexpected season: %#v", season)
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"not found", http.StatusNotFound, `{"status_code":34}`, services.ErrNotFound},
		{"server error", http.StatusInternalServerError, `{"status_code":500}`, services.ErrService},
		{"unauthorized", http.StatusUnauthorized, `{"status_code":7}`, services.ErrService},
		{"malformed json", http.StatusOK, `{"episodes":`, services.ErrService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(server.Close)

			_, err := newClient(t, server.URL).GetSeasonDetails(context.Background(), 1, 1)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNotFoundIsServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	_, err := newClient(t, server.URL).GetTVDetails(context.Background(), 1)
	if !errors.Is(err, services.ErrNotFound) || !errors.Is(err, services.ErrService) {
		t.Fatalf("expected not-found service error, got %v", err)
	}
}

func TestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newClient(t, url).SearchTV(context.Background(), "anything")
	if !errors.Is(err, services.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if strings.Contains(err.Error(), "api_key=key") {
		t.Fatalf("api key leaked into error: %v", err)
	}
}

func TestSearchTVEmptyQuery(t *testing.T) {
	client := newClient(t, "https://example.com")
	if _, err := client.SearchTV(context.Background(), "  "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty query, got %v", err)
	}
}

type countingTransport struct {
	calls int
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	c.calls++
	return http.DefaultTransport.RoundTrip(r)
}

func TestWithTimeoutLeavesCallerClientUntouched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"page":1,"results":[]}`))
	}))
	t.Cleanup(server.Close)

	transport := &countingTransport{}
	shared := &http.Client{Transport: transport}
	client, err := tmdb.New("key", server.URL, "", tmdb.WithHTTPClient(shared), tmdb.WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.SearchTV(context.Background(), "show"); err != nil {
		t.Fatalf("SearchTV: %v", err)
	}
	if shared.Timeout != 0 {
		t.Fatalf("caller client timeout changed to %v", shared.Timeout)
	}
	if transport.calls != 1 {
		t.Fatalf("caller transport used %d times, want 1", transport.calls)
	}
}
