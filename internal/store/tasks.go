package store

import (
	"context"
	"net/url"
	"sync"

	"taskflow-cli/internal/api"
	"taskflow-cli/internal/model"
)

type TaskStore struct {
	client *api.Client

	mu      sync.Mutex
	tasks   []model.Task
	loading bool
	errMsg  string

	fetchSeq uint64
	mutSeq   map[int]uint64

	subs []func()
}

func NewTaskStore(client *api.Client) *TaskStore {
	return &TaskStore{
		client: client,
		mutSeq: make(map[int]uint64),
	}
}

// Subscribe registers a callback fired after every state change. Callbacks
// run outside the store lock and may be invoked from network goroutines.
func (s *TaskStore) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *TaskStore) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// Tasks returns a copy of the current collection.
func (s *TaskStore) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *TaskStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the user-visible error message, or "" when there is none.
func (s *TaskStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Fetch replaces the collection with the server's page for params. The server
// response is the source of truth; there is no client-side merge.
//
// A 401 clears the collection silently and resolves to an empty page. If a
// newer fetch was issued while this one was in flight, the response is
// discarded wholesale — list, error, and loading effects alike.
func (s *TaskStore) Fetch(ctx context.Context, params url.Values) (model.TaskPage, error) {
	return s.finishFetch(ctx, s.beginFetch(), params)
}

// StartFetch issues the fetch token synchronously — so a fetch started after
// another always carries the newer token, whatever order their goroutines
// run in — and completes on its own goroutine. Use it from intent-change
// paths that must not block on the network.
func (s *TaskStore) StartFetch(ctx context.Context, params url.Values) {
	seq := s.beginFetch()
	go s.finishFetch(ctx, seq, params)
}

func (s *TaskStore) beginFetch() uint64 {
	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
	return seq
}

func (s *TaskStore) finishFetch(ctx context.Context, seq uint64, params url.Values) (model.TaskPage, error) {
	page, err := s.client.ListTasks(ctx, params)

	s.mu.Lock()
	if seq != s.fetchSeq {
		s.mu.Unlock()
		return page, err
	}
	s.loading = false
	switch {
	case err == nil:
		s.tasks = page.Tasks
	case isUnauthenticated(err):
		s.tasks = nil
		err = nil
		page = model.TaskPage{Page: 1, PerPage: 20}
	default:
		s.errMsg = errText(err)
	}
	s.mu.Unlock()
	s.notify()
	return page, err
}

// Create posts the new task and, on success, prepends the server's entity to
// the collection (newest-first, matching the default sort). Failure leaves
// the collection untouched.
func (s *TaskStore) Create(ctx context.Context, in model.TaskCreate) (model.Task, error) {
	s.beginMutation()

	task, err := s.client.CreateTask(ctx, in)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.errMsg = errText(err)
	} else {
		s.tasks = append([]model.Task{task}, s.tasks...)
	}
	s.mu.Unlock()
	s.notify()
	return task, err
}

// Update replaces the matching entity with the server's returned
// representation. The local collection never holds a locally-guessed value.
func (s *TaskStore) Update(ctx context.Context, id int, in model.TaskUpdate) (model.Task, error) {
	seq := s.beginIDMutation(id)

	task, err := s.client.UpdateTask(ctx, id, in)

	s.applyIDMutation(id, seq, err, func() {
		s.replaceLocked(task)
	})
	return task, err
}

// ToggleComplete flips completion server-side and reconciles the returned
// entity, so completion state propagates without a refetch.
func (s *TaskStore) ToggleComplete(ctx context.Context, id int) (model.Task, error) {
	seq := s.beginIDMutation(id)

	task, err := s.client.ToggleComplete(ctx, id)

	s.applyIDMutation(id, seq, err, func() {
		s.replaceLocked(task)
	})
	return task, err
}

// Delete removes the entity from the collection once the server confirms.
func (s *TaskStore) Delete(ctx context.Context, id int) error {
	seq := s.beginIDMutation(id)

	err := s.client.DeleteTask(ctx, id)

	s.applyIDMutation(id, seq, err, func() {
		s.removeLocked(id)
	})
	return err
}

func (s *TaskStore) beginMutation() {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
}

// beginIDMutation issues a fresh sequence token for id. Only the response
// carrying the latest token may touch the collection; see applyIDMutation.
func (s *TaskStore) beginIDMutation(id int) uint64 {
	s.mu.Lock()
	s.mutSeq[id]++
	seq := s.mutSeq[id]
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
	return seq
}

// applyIDMutation finishes a per-id mutation: it clears the loading flag and,
// when the token is still current, applies the collection effect or surfaces
// the error. A stale token means a newer operation for the same id was issued
// mid-flight; its completion owns the entity, so this one is dropped.
func (s *TaskStore) applyIDMutation(id int, seq uint64, err error, apply func()) {
	s.mu.Lock()
	stale := seq != s.mutSeq[id]
	s.loading = false
	if !stale {
		if err != nil {
			s.errMsg = errText(err)
		} else {
			apply()
		}
	}
	s.mu.Unlock()
	s.notify()
}

func (s *TaskStore) replaceLocked(task model.Task) {
	for i := range s.tasks {
		if s.tasks[i].ID == task.ID {
			s.tasks[i] = task
			return
		}
	}
}

func (s *TaskStore) removeLocked(id int) {
	out := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	s.tasks = out
}
