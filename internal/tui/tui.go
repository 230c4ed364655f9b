package tui

import (
	"context"

	"taskflow-cli/internal/api"
	"taskflow-cli/internal/debounce"
	"taskflow-cli/internal/filter"
	"taskflow-cli/internal/query"
	"taskflow-cli/internal/session"
	"taskflow-cli/internal/store"
	"taskflow-cli/internal/tags"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive dashboard. All server state flows through the
// stores; the bubbletea model only renders their snapshots and translates
// keys into intent changes and mutations.
func Run(client *api.Client, sess *session.Session) error {
	applyColorProfilePreference()
	applyThemePreference()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	filters := filter.NewState()
	taskStore := store.NewTaskStore(client)
	tagStore := store.NewTagStore(client)
	orch := query.New(ctx, filters, taskStore, sess)
	completer := tags.NewCompleter(client)
	defer completer.Close()

	m := newAppModel(ctx, appDeps{
		client:    client,
		sess:      sess,
		filters:   filters,
		tasks:     taskStore,
		tags:      tagStore,
		orch:      orch,
		completer: completer,
	})
	m.searchDeb = debounce.New(0, filters.SetSearch)
	defer m.searchDeb.Cancel()

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Store callbacks run on network goroutines; p.Send hands the change to
	// the Elm loop.
	notify := func() { p.Send(stateChangedMsg{}) }
	taskStore.Subscribe(notify)
	tagStore.Subscribe(notify)
	completer.Subscribe(notify)
	sess.Subscribe(func() {
		if sess.Authenticated() {
			tagStore.StartFetch(ctx, nil)
		}
		p.Send(stateChangedMsg{})
	})

	// Revive a persisted session before the first frame asks for sign-in.
	// The orchestrator fetches tasks on the session change by itself.
	go sess.Restore(ctx)

	_, err := p.Run()
	return err
}
