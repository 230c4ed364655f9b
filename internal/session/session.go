// Package session is the client's view of the authentication collaborator:
// who is signed in, sign-in/out pass-through, and a change signal for
// components that must react to the session appearing or going away. The
// server's session protocol itself (cookies) stays inside the api client.
package session

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"taskflow-cli/internal/api"
	"taskflow-cli/internal/model"
)

type Session struct {
	client *api.Client

	// cookieFile persists the session cookie between CLI invocations.
	// Empty disables persistence (tests, one-shot use).
	cookieFile string

	mu   sync.Mutex
	user *model.User
	subs []func()
}

func New(client *api.Client, cookieFile string) *Session {
	s := &Session{client: client, cookieFile: cookieFile}
	s.loadCookies()
	return s
}

// Subscribe registers a callback fired whenever the signed-in user changes.
func (s *Session) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Session) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

func (s *Session) CurrentUser() (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

func (s *Session) Authenticated() bool {
	_, ok := s.CurrentUser()
	return ok
}

func (s *Session) setUser(u *model.User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
	s.notify()
}

func (s *Session) SignIn(ctx context.Context, email, password string) error {
	payload, err := s.client.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	s.saveCookies()
	s.setUser(&payload.User)
	return nil
}

func (s *Session) SignUp(ctx context.Context, email, password, name string) error {
	payload, err := s.client.SignUp(ctx, email, password, name)
	if err != nil {
		return err
	}
	s.saveCookies()
	s.setUser(&payload.User)
	return nil
}

func (s *Session) SignOut(ctx context.Context) error {
	if err := s.client.SignOut(ctx); err != nil {
		return err
	}
	s.clearCookies()
	s.setUser(nil)
	return nil
}

// Restore asks the server to revive a persisted session cookie. Failure just
// means nobody is signed in; it is never surfaced as an error.
func (s *Session) Restore(ctx context.Context) bool {
	payload, err := s.client.Session(ctx)
	if err != nil || payload.User.ID == "" {
		return false
	}
	s.saveCookies()
	s.setUser(&payload.User)
	return true
}

// Cookie persistence is best-effort: a broken or missing file only costs the
// user a fresh sign-in.

func (s *Session) loadCookies() {
	if s.cookieFile == "" {
		return
	}
	b, err := os.ReadFile(s.cookieFile)
	if err != nil {
		return
	}
	var cookies []*http.Cookie
	if err := json.Unmarshal(b, &cookies); err != nil {
		return
	}
	s.client.RestoreCookies(cookies)
}

func (s *Session) saveCookies() {
	if s.cookieFile == "" {
		return
	}
	cookies := s.client.SessionCookies()
	if len(cookies) == 0 {
		return
	}
	b, err := json.Marshal(cookies)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.cookieFile), 0o700); err != nil {
		return
	}
	_ = os.WriteFile(s.cookieFile, b, 0o600)
}

func (s *Session) clearCookies() {
	if s.cookieFile == "" {
		return
	}
	_ = os.Remove(s.cookieFile)
}
