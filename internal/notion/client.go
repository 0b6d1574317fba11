package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"notioncal/internal/models"
)

const (
	apiBase    = "https://api.notion.com/v1"
	apiVersion = "2022-06-28"
)

// authTransport adds the integration token and API version headers to
// every request.
type authTransport struct {
	Token     string
	Transport http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+t.Token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("User-Agent", "notioncal/1.0")
	return t.Transport.RoundTrip(req)
}

// Client talks to the Notion REST API for a single tasks database.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	databaseID string
}

// NewClient creates a Notion client authenticated with an integration
// token. The database must be shared with that integration.
func NewClient(logger *slog.Logger, token, databaseID string) *Client {
	return &Client{
		httpClient: &http.Client{
			Transport: &authTransport{Token: token, Transport: http.DefaultTransport},
			Timeout:   30 * time.Second,
		},
		logger:     logger,
		baseURL:    apiBase,
		databaseID: databaseID,
	}
}

type queryResponse struct {
	Results []Page `json:"results"`
	HasMore bool   `json:"has_more"`
}

// QueryTasks fetches a single page of the tasks database and extracts
// a normalized task per record. The second return reports whether the
// database held more results than the one page fetched.
func (c *Client) QueryTasks(ctx context.Context) ([]models.Task, bool, error) {
	c.logger.Debug("Querying tasks database", "databaseID", c.databaseID)

	var resp queryResponse
	if err := c.do(ctx, http.MethodPost, "/databases/"+c.databaseID+"/query", map[string]any{}, &resp); err != nil {
		return nil, false, fmt.Errorf("failed to query tasks database: %w", err)
	}

	tasks := make([]models.Task, 0, len(resp.Results))
	for _, p := range resp.Results {
		tasks = append(tasks, ExtractTask(p))
	}
	return tasks, resp.HasMore, nil
}

// DomainName retrieves the referenced domain page and extracts its
// title using the same rule as task names.
func (c *Client) DomainName(ctx context.Context, ref string) (string, error) {
	var p Page
	if err := c.do(ctx, http.MethodGet, "/pages/"+ref, nil, &p); err != nil {
		return "", fmt.Errorf("failed to retrieve domain page %s: %w", ref, err)
	}
	name, ok := titleOf(p.Properties)
	if !ok {
		return "", fmt.Errorf("domain page %s has no title", ref)
	}
	return name, nil
}

// MarkSynced writes the created event id and a last-synced timestamp
// back onto the task page.
func (c *Client) MarkSynced(ctx context.Context, pageID, eventID string, at time.Time) error {
	patch := map[string]any{
		"properties": map[string]any{
			"GCal Event ID": map[string]any{
				"rich_text": []any{
					map[string]any{"text": map[string]any{"content": eventID}},
				},
			},
			"Last Synced": map[string]any{
				"date": map[string]any{"start": at.UTC().Format(time.RFC3339)},
			},
		},
	}
	if err := c.do(ctx, http.MethodPatch, "/pages/"+pageID, patch, nil); err != nil {
		return fmt.Errorf("failed to update task page %s: %w", pageID, err)
	}
	c.logger.Debug("Recorded event id on task", "pageID", pageID, "eventID", eventID)
	return nil
}

// do issues one API request and decodes the response into out when out
// is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Body: string(data)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// APIError is a non-2xx response from the Notion API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion api returned status %d: %s", e.Status, e.Body)
}
