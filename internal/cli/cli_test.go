package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// fakeServer mimics the TaskFlow backend closely enough for command-level
// tests: cookie auth, naive timestamps, the paged envelopes.
type fakeServer struct {
	*httptest.Server

	mu        sync.Mutex
	lastQuery url.Values
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()

	fs := &fakeServer{}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/auth/signin", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "taskflow_session", Value: "tok-1", Path: "/"})
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user":{"id":"u1","email":"you@example.com","name":"You"},"session":{"token":"tok-1"}}`))
	})
	mux.HandleFunc("GET /api/v1/auth/session", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("taskflow_session"); err != nil || c.Value != "tok-1" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"not authenticated"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user":{"id":"u1","email":"you@example.com","name":"You"},"session":{"token":"tok-1"}}`))
	})
	mux.HandleFunc("GET /api/v1/tasks", func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		fs.lastQuery = r.URL.Query()
		fs.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tasks":[{"id":1,"user_id":"u1","title":"Buy milk","completed":false,"priority":"high","created_at":"2024-01-02T03:04:05.123456","updated_at":"2024-01-02T03:04:05.123456","tags":[]}],"total":1,"page":1,"per_page":20}`))
	})
	mux.HandleFunc("POST /api/v1/tasks", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		json.NewDecoder(r.Body).Decode(&in)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id": 7, "user_id": "u1",
			"title":       in["title"],
			"description": in["description"],
			"completed":   false,
			"priority":    in["priority"],
			"created_at":  "2024-01-02T03:04:05",
			"updated_at":  "2024-01-02T03:04:05",
			"tags":        []any{},
		})
	})

	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fakeServer) query() url.Values {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.lastQuery
}

func decodeEnvelope(t *testing.T, stdout []byte) map[string]any {
	t.Helper()
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s", err, stdout)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("expected JSON envelope with data key; got:\n%s", stdout)
	}
	return env
}

func TestTasksListBuildsCanonicalParams(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := newFakeServer(t)

	stdout, stderr, err := runCLI(t, []string{
		"--server", srv.URL, "tasks", "list",
		"--status", "active",
		"--priority", "high", "--priority", "low",
		"--tag", "9", "--tag", "2",
		"--search", "milk",
	})
	if err != nil {
		t.Fatalf("tasks list: %v\nstderr:\n%s", err, stderr)
	}
	decodeEnvelope(t, stdout)

	q := srv.query()
	if got := q.Get("completed"); got != "false" {
		t.Fatalf("completed: got %q", got)
	}
	if got := q.Get("priority"); got != "high,low" {
		t.Fatalf("priority: got %q", got)
	}
	if got := q.Get("tag_ids"); got != "2,9" {
		t.Fatalf("tag_ids: got %q", got)
	}
	if got := q.Get("search"); got != "milk" {
		t.Fatalf("search: got %q", got)
	}
	if got := q.Get("sort_by"); got != "created_at" {
		t.Fatalf("sort_by: got %q", got)
	}
	if got := q.Get("sort_order"); got != "desc" {
		t.Fatalf("sort_order: got %q", got)
	}
}

func TestTasksAddReturnsServerEntity(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := newFakeServer(t)

	stdout, stderr, err := runCLI(t, []string{
		"--server", srv.URL, "tasks", "add",
		"--title", "Walk dog", "--priority", "high",
	})
	if err != nil {
		t.Fatalf("tasks add: %v\nstderr:\n%s", err, stderr)
	}
	env := decodeEnvelope(t, stdout)
	data, _ := env["data"].(map[string]any)
	if data["title"] != "Walk dog" {
		t.Fatalf("title: got %#v", data["title"])
	}
	if data["priority"] != "high" {
		t.Fatalf("priority: got %#v", data["priority"])
	}
}

func TestTasksAddRejectsBadPriority(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := newFakeServer(t)

	_, _, err := runCLI(t, []string{
		"--server", srv.URL, "tasks", "add",
		"--title", "Walk dog", "--priority", "urgent",
	})
	if err == nil {
		t.Fatal("expected invalid priority to fail before the request")
	}
}

func TestSignInPersistsSessionAcrossInvocations(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := newFakeServer(t)

	stdout, stderr, err := runCLI(t, []string{
		"--server", srv.URL, "auth", "signin",
		"--email", "you@example.com", "--password", "secret",
	})
	if err != nil {
		t.Fatalf("auth signin: %v\nstderr:\n%s", err, stderr)
	}
	env := decodeEnvelope(t, stdout)
	if data, _ := env["data"].(map[string]any); data["email"] != "you@example.com" {
		t.Fatalf("signin user: got %#v", env["data"])
	}

	// Fresh invocation, fresh App; the persisted cookie must carry the
	// session.
	stdout, stderr, err = runCLI(t, []string{"--server", srv.URL, "auth", "whoami"})
	if err != nil {
		t.Fatalf("auth whoami: %v\nstderr:\n%s", err, stderr)
	}
	env = decodeEnvelope(t, stdout)
	if data, _ := env["data"].(map[string]any); data["id"] != "u1" {
		t.Fatalf("whoami user: got %#v", env["data"])
	}
}

func TestWhoamiWithoutSessionFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := newFakeServer(t)

	_, stderr, err := runCLI(t, []string{"--server", srv.URL, "auth", "whoami"})
	if err == nil {
		t.Fatal("expected whoami without a session to fail")
	}
	if !bytes.Contains(stderr, []byte("not signed in")) {
		t.Fatalf("stderr: got %q", stderr)
	}
}
