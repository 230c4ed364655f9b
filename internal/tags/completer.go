// Package tags implements the tag-name autocomplete pipeline: a rapid stream
// of partial inputs in, a low-frequency stream of suggestion lists out.
package tags

import (
	"context"
	"strings"
	"sync"
	"time"

	"taskflow-cli/internal/api"
	"taskflow-cli/internal/debounce"
)

const (
	// DefaultQuiet is the debounce window after the last keystroke.
	DefaultQuiet = 300 * time.Millisecond
	// DefaultLimit caps the suggestion list size requested from the server.
	DefaultLimit = 10
)

// Completer debounces partial tag queries against the autocomplete endpoint.
// Failures are swallowed — suggestions simply reset to empty — because
// autocomplete is an affordance, never a blocking operation. In-flight
// requests are not cancelled; a generation counter discards responses that a
// newer input has superseded.
type Completer struct {
	client *api.Client
	limit  int

	mu          sync.Mutex
	suggestions []string
	searching   bool
	gen         uint64

	deb  *debounce.Debouncer
	subs []func()
}

func NewCompleter(client *api.Client) *Completer {
	return newCompleter(client, DefaultLimit, DefaultQuiet)
}

func newCompleter(client *api.Client, limit int, quiet time.Duration) *Completer {
	c := &Completer{client: client, limit: limit}
	c.deb = debounce.New(quiet, c.fetch)
	return c
}

func (c *Completer) Subscribe(fn func()) {
	c.mu.Lock()
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}

func (c *Completer) notify() {
	c.mu.Lock()
	subs := make([]func(), len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

func (c *Completer) Suggestions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.suggestions))
	copy(out, c.suggestions)
	return out
}

func (c *Completer) Searching() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searching
}

// Input feeds one keystroke's worth of query text. Empty input clears the
// suggestions immediately and schedules nothing; anything else waits out the
// quiet period before hitting the server.
func (c *Completer) Input(q string) {
	q = strings.TrimSpace(q)
	if q == "" {
		c.deb.Cancel()
		c.mu.Lock()
		c.gen++ // invalidate anything still in flight
		c.suggestions = nil
		c.searching = false
		c.mu.Unlock()
		c.notify()
		return
	}
	c.deb.Call(q)
}

// Close cancels any pending fetch. Call on teardown so a stale input cannot
// fire after the consumer is gone.
func (c *Completer) Close() {
	c.deb.Cancel()
}

func (c *Completer) fetch(q string) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.searching = true
	c.mu.Unlock()
	c.notify()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	suggestions, err := c.client.AutocompleteTags(ctx, q, c.limit)
	if err != nil {
		suggestions = nil
	}

	c.mu.Lock()
	if gen != c.gen {
		// A newer input owns the state now.
		c.mu.Unlock()
		return
	}
	c.suggestions = suggestions
	c.searching = false
	c.mu.Unlock()
	c.notify()
}
