package query

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"taskflow-cli/internal/api"
	"taskflow-cli/internal/filter"
	"taskflow-cli/internal/model"
	"taskflow-cli/internal/session"
	"taskflow-cli/internal/store"
)

type fixture struct {
	filters *filter.State
	tasks   *store.TaskStore
	sess    *session.Session

	mu      sync.Mutex
	queries []url.Values
}

// newFixture serves auth plus a task list whose single task's title echoes
// the encoded query, so assertions can tie the rendered collection to the
// exact parameter set that produced it.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/signin", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "taskflow_session", Value: "tok", Path: "/"})
		w.Write([]byte(`{"user":{"id":"u1","email":"a@b.c","name":""},"session":{"token":"tok"}}`))
	})
	mux.HandleFunc("/api/v1/tasks", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f.mu.Lock()
		f.queries = append(f.queries, q)
		f.mu.Unlock()
		page := model.TaskPage{
			Tasks:   []model.Task{{ID: 1, Title: q.Encode()}},
			Total:   1,
			Page:    1,
			PerPage: 20,
		}
		json.NewEncoder(w).Encode(page)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := api.New(srv.URL)
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	f.filters = filter.NewState()
	f.tasks = store.NewTaskStore(c)
	f.sess = session.New(c, "")
	New(context.Background(), f.filters, f.tasks, f.sess)
	return f
}

func (f *fixture) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func TestNoFetchBeforeSession(t *testing.T) {
	f := newFixture(t)

	f.filters.SetSearch("milk")
	f.filters.SetStatus(filter.StatusActive)
	time.Sleep(50 * time.Millisecond)

	if got := f.fetchCount(); got != 0 {
		t.Fatalf("fetched %d times before authentication", got)
	}
}

func TestSignInTriggersInitialFetch(t *testing.T) {
	f := newFixture(t)

	if err := f.sess.SignIn(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	want := url.Values{}
	want.Set("sort_by", "created_at")
	want.Set("sort_order", "desc")
	waitForTitle(t, f.tasks, want.Encode())
}

func TestFilterChangeRefetchesWithCanonicalParams(t *testing.T) {
	f := newFixture(t)
	if err := f.sess.SignIn(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	f.filters.SetStatus(filter.StatusActive)
	f.filters.TogglePriority(model.PriorityHigh)
	f.filters.SetSearch("milk")

	want := url.Values{}
	want.Set("completed", "false")
	want.Set("priority", "high")
	want.Set("search", "milk")
	want.Set("sort_by", "created_at")
	want.Set("sort_order", "desc")

	// Whatever interleaving the three in-flight fetches had, the rendered
	// collection must correspond to the final intent.
	waitForTitle(t, f.tasks, want.Encode())
}

func TestLastChangeWins(t *testing.T) {
	f := newFixture(t)
	if err := f.sess.SignIn(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	for _, q := range []string{"m", "mi", "mil", "milk"} {
		f.filters.SetSearch(q)
	}

	want := url.Values{}
	want.Set("search", "milk")
	want.Set("sort_by", "created_at")
	want.Set("sort_order", "desc")
	waitForTitle(t, f.tasks, want.Encode())

	// And it must stay that way once all in-flight responses have landed.
	time.Sleep(50 * time.Millisecond)
	got := f.tasks.Tasks()
	if len(got) != 1 || got[0].Title != want.Encode() {
		t.Fatalf("a stale response won: %+v", got)
	}
}

func waitForTitle(t *testing.T, s *store.TaskStore, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got := s.Tasks()
		if len(got) == 1 && got[0].Title == want {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("collection never reached params %q; have %+v", want, s.Tasks())
}
