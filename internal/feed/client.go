package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
)

const (
	csrfCookieName = "XSRF-TOKEN"
	csrfHeaderName = "X-XSRF-TOKEN"

	feedPath       = "/api/notifications"
	markAsReadPath = "/api/notifications/mark-as-read"
)

// Client talks to the notification endpoints. Requests ride on a cookie
// jar for session credentials; mutating calls echo the CSRF token cookie
// back in a request header.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient builds a feed client for the given base URL. When httpClient is
// nil a cookie-jar-backed default is used.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	if httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		httpClient = &http.Client{Jar: jar}
	}

	return &Client{base: base, http: httpClient}, nil
}

// FetchFeed retrieves the notification list and unread counter, scoped by
// filterType ("all" or a tab key).
func (c *Client) FetchFeed(ctx context.Context, filterType string) ([]*Notification, int, error) {
	u := *c.base
	u.Path = feedPath
	q := u.Query()
	q.Set("type", filterType)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, 0, fmt.Errorf("feed request returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read feed response: %w", err)
	}

	return DecodeFeed(body)
}

// MarkAsRead reports a read notification to the server. Only the HTTP
// status matters; the response body is ignored.
func (c *Client) MarkAsRead(ctx context.Context, leaveID string) error {
	payload := map[string]string{"leave_id": leaveID}
	resp, err := c.send(ctx, http.MethodPost, markAsReadPath, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mark-as-read returned status %d", resp.StatusCode)
	}
	return nil
}

// Act submits an approve/reject decision with an optional comment and
// returns the server's confirmation message.
func (c *Client) Act(ctx context.Context, leaveID, action string, comment *string) (string, error) {
	payload := map[string]interface{}{
		"leave_id": leaveID,
		"action":   action,
		"comment":  comment,
	}
	resp, err := c.send(ctx, http.MethodPut, feedPath, payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("action request returned status %d", resp.StatusCode)
	}

	var result struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		// A missing body is acceptable; the status code already confirmed.
		return "", nil
	}
	return result.Message, nil
}

func (c *Client) send(ctx context.Context, method, path string, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	u := *c.base
	u.Path = path

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if token := c.csrfToken(); token != "" {
		req.Header.Set(csrfHeaderName, token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// csrfToken reads the session's CSRF token from the client-visible cookie.
func (c *Client) csrfToken() string {
	if c.http.Jar == nil {
		return ""
	}
	for _, cookie := range c.http.Jar.Cookies(c.base) {
		if cookie.Name == csrfCookieName {
			return cookie.Value
		}
	}
	return ""
}
