package tags

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"taskflow-cli/internal/api"
)

func newTestCompleter(t *testing.T, quiet time.Duration, handler http.Handler) *Completer {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := api.New(srv.URL)
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	return newCompleter(c, DefaultLimit, quiet)
}

func TestBurstIssuesSingleCallForLastInput(t *testing.T) {
	var mu sync.Mutex
	var queries []string
	c := newTestCompleter(t, 30*time.Millisecond, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		queries = append(queries, r.URL.Query().Get("q"))
		mu.Unlock()
		json.NewEncoder(w).Encode(map[string][]string{"suggestions": {"milk"}})
	}))

	c.Input("m")
	c.Input("mi")
	c.Input("mil")

	waitFor(t, func() bool { return len(c.Suggestions()) == 1 })

	mu.Lock()
	if len(queries) != 1 || queries[0] != "mil" {
		t.Fatalf("queries: %v, want exactly [mil]", queries)
	}
	mu.Unlock()

	// A later input after the quiet period issues a second call.
	c.Input("milk")
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(queries) == 2
	})
	mu.Lock()
	if queries[1] != "milk" {
		t.Fatalf("second query: %q", queries[1])
	}
	mu.Unlock()
}

func TestEmptyInputClearsImmediately(t *testing.T) {
	fetched := make(chan struct{}, 1)
	c := newTestCompleter(t, 20*time.Millisecond, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetched <- struct{}{}
		json.NewEncoder(w).Encode(map[string][]string{"suggestions": {"milk"}})
	}))

	c.Input("mil")
	waitFor(t, func() bool { return len(c.Suggestions()) == 1 })

	c.Input("   ")
	if got := c.Suggestions(); len(got) != 0 {
		t.Fatalf("suggestions not cleared: %v", got)
	}

	// No new fetch may fire for the empty input.
	select {
	case <-fetched:
	default:
		t.Fatal("expected the first fetch to have happened")
	}
	time.Sleep(60 * time.Millisecond)
	select {
	case <-fetched:
		t.Fatal("a fetch fired for empty input")
	default:
	}
}

func TestFailureSwallowedAndSuggestionsEmptied(t *testing.T) {
	calls := 0
	c := newTestCompleter(t, 10*time.Millisecond, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			json.NewEncoder(w).Encode(map[string][]string{"suggestions": {"milk"}})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))

	c.Input("mil")
	waitFor(t, func() bool { return len(c.Suggestions()) == 1 })

	c.Input("milk")
	waitFor(t, func() bool { return len(c.Suggestions()) == 0 && !c.Searching() })
}

func TestStaleSuggestionResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	c := newTestCompleter(t, 5*time.Millisecond, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q == "old" {
			<-release
			json.NewEncoder(w).Encode(map[string][]string{"suggestions": {"old-suggestion"}})
			return
		}
		json.NewEncoder(w).Encode(map[string][]string{"suggestions": {"new-suggestion"}})
	}))

	c.Input("old")
	waitFor(t, func() bool { return c.Searching() })

	c.Input("new")
	waitFor(t, func() bool {
		got := c.Suggestions()
		return len(got) == 1 && got[0] == "new-suggestion"
	})

	close(release)
	// Give the stale response time to land; it must not overwrite.
	time.Sleep(50 * time.Millisecond)
	if got := c.Suggestions(); len(got) != 1 || got[0] != "new-suggestion" {
		t.Fatalf("stale response overwrote suggestions: %v", got)
	}
}

func TestCloseCancelsPendingFetch(t *testing.T) {
	fetched := make(chan struct{}, 1)
	c := newTestCompleter(t, 20*time.Millisecond, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetched <- struct{}{}
		json.NewEncoder(w).Encode(map[string][]string{"suggestions": {}})
	}))

	c.Input("mil")
	c.Close()
	time.Sleep(60 * time.Millisecond)
	select {
	case <-fetched:
		t.Fatal("fetch fired after Close")
	default:
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}
