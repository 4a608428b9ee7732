package weekplansdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal Weekplan HTTP API client.
type Client struct {
	BaseURL    string
	ProductID  string
	ActorID    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL, productID string) *Client {
	return &Client{
		BaseURL:   baseURL,
		ProductID: productID,
		Timeout:   10 * time.Second,
	}
}

// Week is one entry of the week catalog.
type Week struct {
	ID            string `json:"id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Label         string `json:"label"`
	Slug          string `json:"slug"`
	IsCurrentWeek bool   `json:"is_current_week"`
}

// Task is a step under an objective.
type Task struct {
	ID          string  `json:"id"`
	ObjectiveID string  `json:"objective_id"`
	Title       string  `json:"title"`
	Assignee    *string `json:"assignee,omitempty"`
	Completed   bool    `json:"completed"`
	Position    int     `json:"position"`
}

// Objective is a weekly goal with derived progress.
type Objective struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	WeekID      string `json:"week_id"`
	Title       string `json:"title"`
	Progress    int    `json:"progress"`
	Position    int    `json:"position"`
	IsUrgent    bool   `json:"is_urgent"`
	IsImportant bool   `json:"is_important"`
	Category    string `json:"category"`
	Tasks       []Task `json:"tasks"`
}

// WeekStats is the weekly rollup.
type WeekStats struct {
	TotalObjectives int            `json:"total_objectives"`
	TotalTasks      int            `json:"total_tasks"`
	CompletedTasks  int            `json:"completed_tasks"`
	GlobalProgress  int            `json:"global_progress"`
	MemberStats     map[string]any `json:"member_stats"`
}

// Plan is the assembled view of one week.
type Plan struct {
	Week       Week        `json:"week"`
	Objectives []Objective `json:"objectives"`
	Stats      WeekStats   `json:"stats"`
}

// ShareLink is an issued read-only link.
type ShareLink struct {
	Token     string `json:"token"`
	Slug      string `json:"slug"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expires_at"`
}

// Event is a log entry.
type Event struct {
	ID         int64          `json:"id"`
	TS         string         `json:"ts"`
	Type       string         `json:"type"`
	ProductID  string         `json:"product_id"`
	EntityKind string         `json:"entity_kind"`
	EntityID   string         `json:"entity_id"`
	Payload    map[string]any `json:"payload"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// ResolveWeek resolves a week by a date (YYYY-MM-DD).
func (c *Client) ResolveWeek(ctx context.Context, date string) (Week, error) {
	var resp Week
	endpoint := fmt.Sprintf("v0/weeks/resolve?date=%s", url.QueryEscape(date))
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// Plan fetches the assembled plan for a week.
func (c *Client) Plan(ctx context.Context, weekID string) (Plan, error) {
	var resp Plan
	endpoint := c.productPath(fmt.Sprintf("weeks/%s/plan", url.PathEscape(weekID)))
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// CreateObjective adds an objective to a week.
func (c *Client) CreateObjective(ctx context.Context, weekID, title string, urgent, important bool) (Objective, error) {
	body := map[string]any{
		"title":        title,
		"is_urgent":    urgent,
		"is_important": important,
	}
	var resp Objective
	endpoint := c.productPath(fmt.Sprintf("weeks/%s/objectives", url.PathEscape(weekID)))
	err := c.do(ctx, http.MethodPost, endpoint, body, &resp)
	return resp, err
}

// CreateTask adds a task to an objective.
func (c *Client) CreateTask(ctx context.Context, objectiveID, title, assignee string) (Task, error) {
	body := map[string]any{"title": title}
	if assignee != "" {
		body["assignee"] = assignee
	}
	var resp Task
	endpoint := fmt.Sprintf("v0/objectives/%s/tasks", url.PathEscape(objectiveID))
	err := c.do(ctx, http.MethodPost, endpoint, body, &resp)
	return resp, err
}

// ToggleTask flips completion.
func (c *Client) ToggleTask(ctx context.Context, taskID string) (Task, error) {
	var resp Task
	endpoint := fmt.Sprintf("v0/tasks/%s/toggle", url.PathEscape(taskID))
	err := c.do(ctx, http.MethodPost, endpoint, struct{}{}, &resp)
	return resp, err
}

// ReorderObjectives moves an objective within a week.
func (c *Client) ReorderObjectives(ctx context.Context, weekID string, from, to int) ([]Objective, error) {
	body := map[string]any{"from_index": from, "to_index": to}
	var resp []Objective
	endpoint := c.productPath(fmt.Sprintf("weeks/%s/objectives/reorder", url.PathEscape(weekID)))
	err := c.do(ctx, http.MethodPost, endpoint, body, &resp)
	return resp, err
}

// Share issues a read-only link for a week plan.
func (c *Client) Share(ctx context.Context, weekID string) (ShareLink, error) {
	var resp ShareLink
	endpoint := c.productPath(fmt.Sprintf("weeks/%s/share", url.PathEscape(weekID)))
	err := c.do(ctx, http.MethodPost, endpoint, struct{}{}, &resp)
	return resp, err
}

// SharedPlan reads a plan through a share token.
func (c *Client) SharedPlan(ctx context.Context, token string) (Plan, error) {
	var resp Plan
	endpoint := fmt.Sprintf("v0/share/%s", url.PathEscape(token))
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// Events returns recent events for the product.
func (c *Client) Events(ctx context.Context, limit int) ([]Event, error) {
	endpoint := fmt.Sprintf("v0/events?product_id=%s", url.QueryEscape(c.ProductID))
	if limit > 0 {
		endpoint = fmt.Sprintf("%s&limit=%d", endpoint, limit)
	}
	var resp []Event
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.ActorID != "" {
		req.Header.Set("X-Actor-Id", c.ActorID)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) productPath(p string) string {
	product := url.PathEscape(c.ProductID)
	return fmt.Sprintf("v0/products/%s/%s", product, strings.TrimLeft(p, "/"))
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
