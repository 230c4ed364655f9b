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

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type view int

const (
	viewAuth view = iota
	viewList
	viewDetail
)

type modalKind int

const (
	modalNone modalKind = iota
	modalForm
	modalConfirmDelete
	modalTagFilter
)

type confirmModalFocus int

const (
	confirmFocusCancel confirmModalFocus = iota
	confirmFocusConfirm
)

// stateChangedMsg is pumped into the Elm loop whenever a store, the session,
// or the autocomplete collaborator changes.
type stateChangedMsg struct{}

// opDoneMsg reports a completed mutation command. Collection effects arrive
// via stateChangedMsg; err is only used to decide whether a modal may close.
type opDoneMsg struct {
	err error
}

type authDoneMsg struct {
	err error
}

type appDeps struct {
	client    *api.Client
	sess      *session.Session
	filters   *filter.State
	tasks     *store.TaskStore
	tags      *store.TagStore
	orch      *query.Orchestrator
	completer *tags.Completer
}

type appModel struct {
	ctx       context.Context
	deps      appDeps
	searchDeb *debounce.Debouncer

	width  int
	height int

	view  view
	modal modalKind

	taskList      list.Model
	searchInput   textinput.Model
	searchFocused bool

	auth authState
	form *formState

	tagFilterList   list.Model
	confirmDeleteID int
	confirmFocus    confirmModalFocus

	detailID int
}

type authMode int

const (
	authSignIn authMode = iota
	authSignUp
)

type authState struct {
	mode       authMode
	email      textinput.Model
	password   textinput.Model
	name       textinput.Model
	focus      int
	submitting bool
	errMsg     string
}

func newAppModel(ctx context.Context, deps appDeps) *appModel {
	l := list.New(nil, newTaskDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	// Search is server-side; the list's own fuzzy filter would fight it.
	l.SetFilteringEnabled(false)

	tagList := list.New(nil, newTagFilterDelegate(deps.filters), 0, 0)
	tagList.SetShowTitle(false)
	tagList.SetShowStatusBar(false)
	tagList.SetShowHelp(false)
	tagList.SetFilteringEnabled(false)

	search := textinput.New()
	search.Placeholder = "search title and description"
	search.Prompt = "/ "
	search.CharLimit = 200

	m := &appModel{
		ctx:           ctx,
		deps:          deps,
		view:          viewAuth,
		taskList:      l,
		tagFilterList: tagList,
		searchInput:   search,
		auth:          newAuthState(),
	}
	if deps.sess.Authenticated() {
		m.view = viewList
	}
	return m
}

func newAuthState() authState {
	email := textinput.New()
	email.Placeholder = "email"
	email.Prompt = "  "
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "  "
	password.EchoMode = textinput.EchoPassword

	name := textinput.New()
	name.Placeholder = "name (optional)"
	name.Prompt = "  "

	return authState{
		mode:     authSignIn,
		email:    email,
		password: password,
		name:     name,
	}
}

func (m *appModel) Init() tea.Cmd {
	return textinput.Blink
}

// selectedTask returns the task under the cursor, if any.
func (m *appModel) selectedTask() (taskItem, bool) {
	it, ok := m.taskList.SelectedItem().(taskItem)
	return it, ok
}

// syncFromStores rebuilds the visible snapshots after a state change.
func (m *appModel) syncFromStores() {
	idx := m.taskList.Index()
	m.taskList.SetItems(taskListItems(m.deps.tasks.Tasks()))
	if n := len(m.taskList.Items()); n > 0 && idx >= n {
		m.taskList.Select(n - 1)
	}

	if m.modal == modalTagFilter {
		m.tagFilterList.SetItems(tagFilterItems(m.deps.tags.Tags()))
	}

	if m.view == viewAuth && m.deps.sess.Authenticated() {
		m.view = viewList
		m.auth.submitting = false
		m.auth.errMsg = ""
	}
	if m.view != viewAuth && !m.deps.sess.Authenticated() {
		m.view = viewAuth
		m.modal = modalNone
		m.auth = newAuthState()
	}
}

func (m *appModel) storeErr() string {
	if e := m.deps.tasks.Err(); e != "" {
		return e
	}
	return m.deps.tags.Err()
}

func (m *appModel) loading() bool {
	return m.deps.tasks.Loading() || m.deps.tags.Loading()
}
