package launchpad

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/contribscope/backend/internal/provider"
)

const defaultBaseURL = "https://api.launchpad.net/1.0"

// Client resolves email addresses to canonical identities using the
// Launchpad people API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client with the default Launchpad API URL.
func NewClient(logger *slog.Logger) *Client {
	return NewClientWithURL(defaultBaseURL, 10*time.Second, logger)
}

// NewClientWithURL creates a Client with a custom base URL and timeout
// (for configuration and testing).
func NewClientWithURL(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "launchpad"),
	}
}

// apiPerson is the subset of the people API payload the pipeline needs.
type apiPerson struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// LookupByEmail resolves an email address to a canonical identity.
// Returns nil, nil when the person is unknown to the service (HTTP 404
// or an empty/null payload).
func (c *Client) LookupByEmail(ctx context.Context, email string) (*provider.IdentityResult, error) {
	reqURL := fmt.Sprintf("%s/people/?ws.op=getByEmail&email=%s", c.baseURL, url.QueryEscape(email))

	c.log.DebugContext(ctx, "identity lookup", slog.String("email", email))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("launchpad: create request: %w", err)
	}

	resp, err := c.doWithRetry(ctx, req, email)
	if err != nil {
		c.log.ErrorContext(ctx, "identity lookup failed", slog.String("email", email), slog.String("error", err.Error()))
		return nil, fmt.Errorf("launchpad: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("launchpad: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("launchpad: read body: %w", err)
	}

	if len(body) == 0 {
		return nil, nil
	}

	var person *apiPerson
	if err := json.Unmarshal(body, &person); err != nil {
		return nil, fmt.Errorf("launchpad: decode json: %w", err)
	}
	// A literal null body also means "unknown person".
	if person == nil || person.Name == "" {
		return nil, nil
	}

	c.log.DebugContext(ctx, "identity resolved",
		slog.String("email", email),
		slog.String("name", person.Name),
	)

	return &provider.IdentityResult{
		Name:        person.Name,
		DisplayName: person.DisplayName,
	}, nil
}

// doWithRetry executes the request with a single retry on 5xx or
// network errors. Retry policy lives here, in the collaborator; the
// enrichment engine itself never retries.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request, email string) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	// Don't retry if context is already cancelled.
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	c.log.WarnContext(ctx, "identity lookup retry", slog.String("email", email), slog.String("reason", reason))

	// Close body from the failed attempt before retrying.
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	time.Sleep(500 * time.Millisecond)

	return c.httpClient.Do(req)
}
