// Package query wires filter intent to task fetches: whenever the intent
// changes while a user is signed in, the current canonical parameters are
// snapshotted and a resync is issued. Correctness favors the unconditional
// resync over request minimization; the task store's fetch tokens make sure
// only the newest response is ever applied.
package query

import (
	"context"

	"taskflow-cli/internal/filter"
	"taskflow-cli/internal/session"
	"taskflow-cli/internal/store"
)

type Orchestrator struct {
	ctx     context.Context
	filters *filter.State
	tasks   *store.TaskStore
	sess    *session.Session
}

// New subscribes the orchestrator to filter and session changes. Fetches are
// issued on their own goroutines so intent setters never block on the
// network.
func New(ctx context.Context, filters *filter.State, tasks *store.TaskStore, sess *session.Session) *Orchestrator {
	o := &Orchestrator{
		ctx:     ctx,
		filters: filters,
		tasks:   tasks,
		sess:    sess,
	}
	filters.Subscribe(o.Refresh)
	sess.Subscribe(o.Refresh)
	return o
}

// Refresh re-derives the query parameters from the current intent and
// triggers a fetch. No fetch is attempted before a session is established.
// StartFetch allocates the fetch token before returning, so fetches issued by
// successive intent changes are ordered even though they complete
// asynchronously; fetch errors already live in the store's user-visible state.
func (o *Orchestrator) Refresh() {
	if !o.sess.Authenticated() {
		return
	}
	o.tasks.StartFetch(o.ctx, o.filters.Params())
}
