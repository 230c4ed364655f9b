package model

import (
	"fmt"
	"strings"
	"time"
)

// Priority levels as the TaskFlow API spells them. The server stores them
// uppercase but accepts and returns lowercase on the wire.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func ParsePriority(s string) (Priority, error) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityHigh:
		return PriorityHigh, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityLow:
		return PriorityLow, nil
	}
	return "", fmt.Errorf("invalid priority %q (want high|medium|low)", s)
}

// Priorities in display/query order, highest first.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

type SortField string

const (
	SortCreatedAt SortField = "created_at"
	SortUpdatedAt SortField = "updated_at"
	SortTitle     SortField = "title"
	SortPriority  SortField = "priority"
)

func ParseSortField(s string) (SortField, error) {
	switch SortField(strings.ToLower(strings.TrimSpace(s))) {
	case SortCreatedAt:
		return SortCreatedAt, nil
	case SortUpdatedAt:
		return SortUpdatedAt, nil
	case SortTitle:
		return SortTitle, nil
	case SortPriority:
		return SortPriority, nil
	}
	return "", fmt.Errorf("invalid sort field %q (want created_at|updated_at|title|priority)", s)
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case SortAsc:
		return SortAsc, nil
	case SortDesc:
		return SortDesc, nil
	}
	return "", fmt.Errorf("invalid sort order %q (want asc|desc)", s)
}

// Time wraps time.Time to survive the server's timestamp format. The backend
// emits naive ISO 8601 ("2006-01-02T15:04:05.999999") without a zone offset,
// which the stdlib RFC 3339 decoder rejects.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func (t *Time) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	var lastErr error
	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to parse timestamp %q: %w", s, lastErr)
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + t.Format(time.RFC3339Nano) + `"`), nil
}

type Task struct {
	ID          int      `json:"id"`
	UserID      string   `json:"user_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Completed   bool     `json:"completed"`
	Priority    Priority `json:"priority"`
	CreatedAt   Time     `json:"created_at"`
	UpdatedAt   Time     `json:"updated_at"`
	Tags        []Tag    `json:"tags"`
}

type Tag struct {
	ID     int    `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 1000
)

// TaskCreate is the body for POST /api/v1/tasks.
type TaskCreate struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    Priority `json:"priority"`
	TagIDs      []int    `json:"tag_ids,omitempty"`
}

func (c TaskCreate) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if len(c.Title) > MaxTitleLen {
		return fmt.Errorf("title exceeds %d characters", MaxTitleLen)
	}
	if len(c.Description) > MaxDescriptionLen {
		return fmt.Errorf("description exceeds %d characters", MaxDescriptionLen)
	}
	if _, err := ParsePriority(string(c.Priority)); err != nil {
		return err
	}
	return nil
}

// TaskUpdate is the body for PUT /api/v1/tasks/{id}. Nil fields are omitted
// so the server only touches what the caller set.
type TaskUpdate struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Completed   *bool     `json:"completed,omitempty"`
	TagIDs      []int     `json:"tag_ids,omitempty"`
}

func (u TaskUpdate) Validate() error {
	if u.Title != nil {
		if strings.TrimSpace(*u.Title) == "" {
			return fmt.Errorf("title cannot be empty")
		}
		if len(*u.Title) > MaxTitleLen {
			return fmt.Errorf("title exceeds %d characters", MaxTitleLen)
		}
	}
	if u.Description != nil && len(*u.Description) > MaxDescriptionLen {
		return fmt.Errorf("description exceeds %d characters", MaxDescriptionLen)
	}
	if u.Priority != nil {
		if _, err := ParsePriority(string(*u.Priority)); err != nil {
			return err
		}
	}
	return nil
}

// TaskPage is the envelope returned by GET /api/v1/tasks.
type TaskPage struct {
	Tasks   []Task `json:"tasks"`
	Total   int    `json:"total"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
}

// TagPage is the envelope returned by GET /api/v1/tags.
type TagPage struct {
	Tags    []Tag `json:"tags"`
	Total   int   `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthPayload is the session envelope returned by the auth endpoints.
type AuthPayload struct {
	User    User        `json:"user"`
	Session AuthSession `json:"session"`
}

type AuthSession struct {
	Token     string `json:"token"`
	ExpiresAt Time   `json:"expiresAt"`
}
