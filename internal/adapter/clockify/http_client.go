package clockify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"xbar-clockify/internal/domain"
)

// Client implements ports.ClockifyClient using the Clockify REST API v1.
type Client struct {
	baseURL   string
	apiToken  string
	workspace string
	user      string
	project   string
	http      *http.Client
	log       *slog.Logger
	now       func() time.Time
}

// Options configures a Client.
type Options struct {
	BaseURL     string
	APIToken    string
	WorkspaceID string
	UserID      string
	ProjectID   string
	Timeout     time.Duration
}

func NewClient(opts Options, log *slog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:   opts.BaseURL,
		apiToken:  opts.APIToken,
		workspace: opts.WorkspaceID,
		user:      opts.UserID,
		project:   opts.ProjectID,
		http: &http.Client{
			Timeout: timeout,
		},
		log: log,
		now: time.Now,
	}
}

// ClockIn starts a new entry on the configured project.
// Clockify v1: POST /v1/workspaces/{ws}/user/{user}/time-entries
func (c *Client) ClockIn(ctx context.Context) (domain.TimeEntry, error) {
	body := map[string]string{
		"start":     c.now().UTC().Format(time.RFC3339),
		"projectId": c.project,
	}
	var raw rawTimeEntry
	if err := c.do(ctx, "clocking in", http.MethodPost, c.userEntriesPath(), body, &raw); err != nil {
		return domain.TimeEntry{}, err
	}
	c.log.Info("clocked in", slog.String("entry", raw.ID))
	return raw.toDomain(), nil
}

// ClockOut stops the running entry.
// The running entry is looked up on the user-scoped listing, but Clockify only
// accepts updates on the workspace-scoped path:
// PATCH /v1/workspaces/{ws}/time-entries/{id}
func (c *Client) ClockOut(ctx context.Context) (domain.TimeEntry, error) {
	entries, err := c.TimeEntries(ctx)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	var active *domain.TimeEntry
	for i := range entries {
		if entries[i].Running() {
			active = &entries[i]
			break
		}
	}
	if active == nil {
		return domain.TimeEntry{}, &APIError{StatusCode: http.StatusNotFound, Message: "No active time entry found to clock out"}
	}

	body := map[string]string{"end": c.now().UTC().Format(time.RFC3339)}
	path := fmt.Sprintf("/v1/workspaces/%s/time-entries/%s", url.PathEscape(c.workspace), url.PathEscape(active.ID))
	var raw rawTimeEntry
	if err := c.do(ctx, "clocking out", http.MethodPatch, path, body, &raw); err != nil {
		return domain.TimeEntry{}, err
	}
	c.log.Info("clocked out", slog.String("entry", raw.ID))
	return raw.toDomain(), nil
}

// TimeEntries lists the user's entries. Only the first page returned by the
// API is read.
// Clockify v1: GET /v1/workspaces/{ws}/user/{user}/time-entries
func (c *Client) TimeEntries(ctx context.Context) ([]domain.TimeEntry, error) {
	var raw []rawTimeEntry
	if err := c.do(ctx, "fetching time entries", http.MethodGet, c.userEntriesPath(), nil, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.TimeEntry, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.toDomain())
	}
	c.log.Debug("fetched time entries", slog.Int("count", len(out)))
	return out, nil
}

func (c *Client) userEntriesPath() string {
	return fmt.Sprintf("/v1/workspaces/%s/user/%s/time-entries", url.PathEscape(c.workspace), url.PathEscape(c.user))
}

// do sends an authenticated JSON request and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	if c.apiToken == "" {
		return errors.New("missing api token")
	}
	var reqBody io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", c.apiToken)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	c.log.Debug("clockify request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("dur", time.Since(start)),
	)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "Failed to parse API response"}
	}
	return nil
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var eb ErrorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		apiErr.Body = &eb
	} else {
		// keep the message even when the rest of the payload has another shape
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &msg) == nil && msg.Message != "" {
			apiErr.Body = &ErrorBody{Message: msg.Message}
		}
	}
	switch {
	case apiErr.Body != nil && apiErr.Body.Message != "":
		apiErr.Message = apiErr.Body.Message
	case http.StatusText(resp.StatusCode) != "":
		apiErr.Message = http.StatusText(resp.StatusCode)
	default:
		apiErr.Message = "API request failed"
	}
	return apiErr
}

// rawTimeEntry mirrors the JSON from Clockify v1.
type rawTimeEntry struct {
	ID           string           `json:"id"`
	Description  string           `json:"description"`
	UserID       string           `json:"userId"`
	Billable     bool             `json:"billable"`
	ProjectID    *string          `json:"projectId"`
	TimeInterval rawTimeInterval  `json:"timeInterval"`
	WorkspaceID  string           `json:"workspaceId"`
	IsLocked     bool             `json:"isLocked"`
	Tags         []rawTag         `json:"tags"`
	CustomFields []rawCustomField `json:"customFields"`
}

type rawTimeInterval struct {
	Start    time.Time  `json:"start"`
	End      *time.Time `json:"end"`
	Duration *string    `json:"duration"`
}

type rawTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Value is a string, number, boolean or array depending on the field type.
type rawCustomField struct {
	CustomFieldID string          `json:"customFieldId"`
	Value         json.RawMessage `json:"value"`
}

func (f rawCustomField) text() string {
	v := bytes.TrimSpace(f.Value)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	return string(v)
}

func (r rawTimeEntry) toDomain() domain.TimeEntry {
	var endPtr *time.Time
	if r.TimeInterval.End != nil {
		end := *r.TimeInterval.End
		endPtr = &end
	}
	var projectPtr *string
	if r.ProjectID != nil && *r.ProjectID != "" {
		p := *r.ProjectID
		projectPtr = &p
	}
	var duration string
	if r.TimeInterval.Duration != nil {
		duration = *r.TimeInterval.Duration
	}
	e := domain.TimeEntry{
		ID:          r.ID,
		Description: r.Description,
		UserID:      r.UserID,
		Billable:    r.Billable,
		ProjectID:   projectPtr,
		Interval: domain.TimeInterval{
			Start:    r.TimeInterval.Start,
			End:      endPtr,
			Duration: duration,
		},
		WorkspaceID: r.WorkspaceID,
		IsLocked:    r.IsLocked,
	}
	for _, t := range r.Tags {
		e.Tags = append(e.Tags, domain.Tag{ID: t.ID, Name: t.Name})
	}
	for _, f := range r.CustomFields {
		e.CustomFields = append(e.CustomFields, domain.CustomField{CustomFieldID: f.CustomFieldID, Value: f.text()})
	}
	return e
}
