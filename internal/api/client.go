// Package api is the single chokepoint for talking to the TaskFlow server.
// No other package issues network calls.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"taskflow-cli/internal/model"
)

// Error is the normalized failure shape for every request: transport errors
// are wrapped by the caller-facing message, application errors carry the
// server's detail plus the HTTP status so callers can branch on it.
type Error struct {
	Message    string
	StatusCode int
	Code       string
}

func (e *Error) Error() string { return e.Message }

// wireError is the non-2xx body the server sends: {detail, error_code}.
type wireError struct {
	Detail    string `json:"detail"`
	ErrorCode string `json:"error_code"`
}

type Client struct {
	baseURL string
	hc      *http.Client
}

// New builds a client for the given server base URL. The client carries a
// cookie jar so the auth session cookie set by signin rides along on every
// subsequent request.
func New(baseURL string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("server URL is empty")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", baseURL, err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: baseURL,
		hc: &http.Client{
			Jar:     jar,
			Timeout: 15 * time.Second,
		},
	}, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// SessionCookies returns the cookies currently held for the server, so a
// caller can persist the session between CLI invocations.
func (c *Client) SessionCookies() []*http.Cookie {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil
	}
	return c.hc.Jar.Cookies(u)
}

// RestoreCookies seeds the jar with previously persisted session cookies.
func (c *Client) RestoreCookies(cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return
	}
	c.hc.Jar.SetCookies(u, cookies)
}

// do performs one request. On a non-2xx status it parses the server's error
// body, falling back to a generic message when the body is not parseable, and
// returns an *Error. A 204 (or empty body) resolves without decoding.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{
			Message:    fmt.Sprintf("HTTP error! status: %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
		var we wireError
		if json.Unmarshal(respBody, &we) == nil {
			if we.Detail != "" {
				apiErr.Message = we.Detail
			}
			apiErr.Code = we.ErrorCode
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// ListTasks fetches one page of tasks. params is the canonical query built by
// the filter state (completed, priority, tag_ids, search, sort_by, sort_order)
// plus optional page/per_page.
func (c *Client) ListTasks(ctx context.Context, params url.Values) (model.TaskPage, error) {
	var page model.TaskPage
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks", params, nil, &page); err != nil {
		return model.TaskPage{}, err
	}
	return page, nil
}

func (c *Client) GetTask(ctx context.Context, id int) (model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks/"+strconv.Itoa(id), nil, nil, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (c *Client) CreateTask(ctx context.Context, in model.TaskCreate) (model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodPost, "/api/v1/tasks", nil, in, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id int, in model.TaskUpdate) (model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodPut, "/api/v1/tasks/"+strconv.Itoa(id), nil, in, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/tasks/"+strconv.Itoa(id), nil, nil, nil)
}

func (c *Client) ToggleComplete(ctx context.Context, id int) (model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodPatch, "/api/v1/tasks/"+strconv.Itoa(id)+"/complete", nil, nil, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (c *Client) ListTags(ctx context.Context, params url.Values) (model.TagPage, error) {
	var page model.TagPage
	if err := c.do(ctx, http.MethodGet, "/api/v1/tags", params, nil, &page); err != nil {
		return model.TagPage{}, err
	}
	return page, nil
}

// AutocompleteTags returns name suggestions for a partial tag query.
func (c *Client) AutocompleteTags(ctx context.Context, q string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	params := url.Values{}
	params.Set("q", q)
	params.Set("limit", strconv.Itoa(limit))
	var resp struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/tags/autocomplete", params, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Suggestions, nil
}

func (c *Client) CreateTag(ctx context.Context, name string) (model.Tag, error) {
	var tag model.Tag
	body := map[string]string{"name": name}
	if err := c.do(ctx, http.MethodPost, "/api/v1/tags", nil, body, &tag); err != nil {
		return model.Tag{}, err
	}
	return tag, nil
}

func (c *Client) DeleteTag(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/tags/"+strconv.Itoa(id), nil, nil, nil)
}

func (c *Client) SignUp(ctx context.Context, email, password, name string) (model.AuthPayload, error) {
	body := map[string]string{"email": email, "password": password}
	if name != "" {
		body["name"] = name
	}
	var payload model.AuthPayload
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/signup", nil, body, &payload); err != nil {
		return model.AuthPayload{}, err
	}
	return payload, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (model.AuthPayload, error) {
	body := map[string]string{"email": email, "password": password}
	var payload model.AuthPayload
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/signin", nil, body, &payload); err != nil {
		return model.AuthPayload{}, err
	}
	return payload, nil
}

func (c *Client) SignOut(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/signout", nil, nil, nil)
}

// Session revives the current session from the cookie jar, if the server
// still honors it.
func (c *Client) Session(ctx context.Context) (model.AuthPayload, error) {
	var payload model.AuthPayload
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/session", nil, nil, &payload); err != nil {
		return model.AuthPayload{}, err
	}
	return payload, nil
}
