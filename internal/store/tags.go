package store

import (
	"context"
	"net/url"
	"sync"

	"taskflow-cli/internal/api"
	"taskflow-cli/internal/model"
)

type TagStore struct {
	client *api.Client

	mu      sync.Mutex
	tags    []model.Tag
	loading bool
	errMsg  string

	fetchSeq uint64
	mutSeq   map[int]uint64

	subs []func()
}

func NewTagStore(client *api.Client) *TagStore {
	return &TagStore{
		client: client,
		mutSeq: make(map[int]uint64),
	}
}

func (s *TagStore) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *TagStore) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

func (s *TagStore) Tags() []model.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Tag, len(s.tags))
	copy(out, s.tags)
	return out
}

func (s *TagStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *TagStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Fetch replaces the tag collection with the server's page. Same contract as
// the task store: 401 clears silently, stale responses are discarded.
func (s *TagStore) Fetch(ctx context.Context, params url.Values) (model.TagPage, error) {
	return s.finishFetch(ctx, s.beginFetch(), params)
}

// StartFetch issues the fetch token synchronously and completes on its own
// goroutine; see TaskStore.StartFetch.
func (s *TagStore) StartFetch(ctx context.Context, params url.Values) {
	seq := s.beginFetch()
	go s.finishFetch(ctx, seq, params)
}

func (s *TagStore) beginFetch() uint64 {
	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
	return seq
}

func (s *TagStore) finishFetch(ctx context.Context, seq uint64, params url.Values) (model.TagPage, error) {
	page, err := s.client.ListTags(ctx, params)

	s.mu.Lock()
	if seq != s.fetchSeq {
		s.mu.Unlock()
		return page, err
	}
	s.loading = false
	switch {
	case err == nil:
		s.tags = page.Tags
	case isUnauthenticated(err):
		s.tags = nil
		err = nil
		page = model.TagPage{Page: 1, PerPage: 100}
	default:
		s.errMsg = errText(err)
	}
	s.mu.Unlock()
	s.notify()
	return page, err
}

// Create posts the new tag and appends the server's entity on success.
// Tags are an unordered palette; appending keeps creation order stable.
func (s *TagStore) Create(ctx context.Context, name string) (model.Tag, error) {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()

	tag, err := s.client.CreateTag(ctx, name)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.errMsg = errText(err)
	} else {
		s.tags = append(s.tags, tag)
	}
	s.mu.Unlock()
	s.notify()
	return tag, err
}

// Delete removes the tag locally once the server confirms. A response for a
// superseded delete of the same id is dropped.
func (s *TagStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	s.mutSeq[id]++
	seq := s.mutSeq[id]
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()

	err := s.client.DeleteTag(ctx, id)

	s.mu.Lock()
	stale := seq != s.mutSeq[id]
	s.loading = false
	if !stale {
		if err != nil {
			s.errMsg = errText(err)
		} else {
			out := s.tags[:0]
			for _, t := range s.tags {
				if t.ID != id {
					out = append(out, t)
				}
			}
			s.tags = out
		}
	}
	s.mu.Unlock()
	s.notify()
	return err
}
