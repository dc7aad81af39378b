package ombi

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

	"github.com/rs/zerolog"
)

// Client represents an Ombi API client scoped to one server and one user token.
// Commands construct a client per invocation from the user's stored server
// address and bearer token; the underlying http.Client can be shared.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets a shared http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the request timeout on the client's own http.Client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a new Ombi client. The token may be empty for Login calls.
func NewClient(serverAddress, token string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if serverAddress == "" {
		return nil, ErrNoServer
	}
	serverAddress = strings.TrimSuffix(serverAddress, "/")

	client := &Client{
		baseURL: serverAddress,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// doRequest performs an HTTP request with authentication
func (c *Client) doRequest(ctx context.Context, method, endpoint string, payload any) ([]byte, error) {
	reqURL := fmt.Sprintf("%s/api/v1%s", c.baseURL, endpoint)

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Msg("Ombi API request")

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       string(body),
		}
	}

	return body, nil
}

// Login authenticates against the server and returns a bearer token with its
// expiration. Uses the server's own account system, never the Plex admin.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	payload := map[string]any{
		"username":            username,
		"password":            password,
		"rememberMe":          true,
		"usePlexAdminAccount": false,
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/Token", payload)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	var login LoginResponse
	if err := json.Unmarshal(body, &login); err != nil {
		return nil, fmt.Errorf("failed to parse login response: %w", err)
	}
	if login.AccessToken == "" || login.Expiration == "" {
		return nil, fmt.Errorf("login response missing token or expiration")
	}

	return &login, nil
}

// Requests retrieves all requests of the given media type
func (c *Client) Requests(ctx context.Context, mediaType MediaType) ([]MediaRequest, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/Request/"+string(mediaType), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get requests: %w", err)
	}

	var requests []MediaRequest
	if err := json.Unmarshal(body, &requests); err != nil {
		return nil, fmt.Errorf("failed to parse requests: %w", err)
	}

	c.logger.Debug().
		Str("media_type", string(mediaType)).
		Int("count", len(requests)).
		Msg("Retrieved requests from Ombi")

	return requests, nil
}

// Search queries the server for candidate media matching the term
func (c *Client) Search(ctx context.Context, mediaType MediaType, term string) ([]SearchResult, error) {
	endpoint := fmt.Sprintf("/Search/%s/%s", mediaType, url.PathEscape(term))
	body, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var results []SearchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	c.logger.Debug().
		Str("media_type", string(mediaType)).
		Str("term", term).
		Int("count", len(results)).
		Msg("Retrieved search results from Ombi")

	return results, nil
}

// RequestMovie places a movie request by TheMovieDB id
func (c *Client) RequestMovie(ctx context.Context, theMovieDbID int) (*ActionResult, error) {
	payload := map[string]any{
		"theMovieDbId": theMovieDbID,
	}
	return c.postAction(ctx, "/Request/movie", payload)
}

// RequestTV places a show request for the selected season scope
func (c *Client) RequestTV(ctx context.Context, id int, scope SeasonScope) (*ActionResult, error) {
	payload := map[string]any{
		"id":           id,
		"firstSeason":  scope == SeasonScopeFirst,
		"latestSeason": scope == SeasonScopeLatest,
		"requestAll":   scope == SeasonScopeAll,
	}
	return c.postAction(ctx, "/Request/tv", payload)
}

// Approve approves a pending request
func (c *Client) Approve(ctx context.Context, mediaType MediaType, id int) (*ActionResult, error) {
	return c.postAction(ctx, fmt.Sprintf("/Request/%s/approve", mediaType), map[string]any{"id": id})
}

// Deny denies a pending request
func (c *Client) Deny(ctx context.Context, mediaType MediaType, id int) (*ActionResult, error) {
	return c.postAction(ctx, fmt.Sprintf("/Request/%s/deny", mediaType), map[string]any{"id": id})
}

// MarkAvailable marks a request as available on the media server
func (c *Client) MarkAvailable(ctx context.Context, mediaType MediaType, id int) (*ActionResult, error) {
	return c.postAction(ctx, fmt.Sprintf("/Request/%s/available", mediaType), map[string]any{"id": id})
}

// MarkUnavailable marks a request as unavailable on the media server
func (c *Client) MarkUnavailable(ctx context.Context, mediaType MediaType, id int) (*ActionResult, error) {
	return c.postAction(ctx, fmt.Sprintf("/Request/%s/unavailable", mediaType), map[string]any{"id": id})
}

// Delete removes a request entirely
func (c *Client) Delete(ctx context.Context, mediaType MediaType, id int) error {
	_, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/Request/%s/%d", mediaType, id), nil)
	if err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	return nil
}

// postAction performs a state-changing request and decodes Ombi's result body.
// An empty body counts as success; some endpoints return 200 with no content.
func (c *Client) postAction(ctx context.Context, endpoint string, payload any) (*ActionResult, error) {
	body, err := c.doRequest(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		return nil, err
	}

	var result ActionResult
	if len(body) > 0 {
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return &result, nil
}
