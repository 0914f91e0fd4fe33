package scopus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Elsevier API base URL.
	BaseURL = "https://api.elsevier.com"

	// RateLimit is 2 requests per second, well inside the standard quota.
	RateLimit = 2.0

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
)

// Common errors returned by the Scopus client.
var (
	// ErrNotFound indicates the resource was not found.
	ErrNotFound = errors.New("not found in Scopus")

	// ErrAuthError indicates a missing or invalid API key.
	ErrAuthError = errors.New("Scopus authentication error")

	// ErrRateLimited indicates the quota has been exceeded.
	ErrRateLimited = errors.New("Scopus rate limit exceeded")

	// ErrInvalidResponse indicates an unexpected API response.
	ErrInvalidResponse = errors.New("invalid response from Scopus")
)

// parentheticalRe strips parentheses and their contents from query values,
// since unbalanced parentheses break the Scopus query syntax.
var parentheticalRe = regexp.MustCompile(`\s*\(.*?\)`)

// Client is a rate-limited HTTP client for the Scopus search API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key for authenticated requests.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// NewClient creates a new Scopus API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}

	if key := os.Getenv("SCOPUS_API_KEY"); key != "" {
		c.apiKey = key
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// search performs a rate-limited query against one of the search endpoints.
func (c *Client) search(ctx context.Context, endpoint string, params url.Values) (*SearchResults, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	u := c.baseURL + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-ELS-APIKey", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contacting Scopus: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == 401 || resp.StatusCode == 403:
		return nil, fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	case resp.StatusCode == 404:
		return nil, ErrNotFound
	case resp.StatusCode == 429:
		return nil, fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: HTTP %d", ErrInvalidResponse, resp.StatusCode)
	}

	var results SearchResults
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return &results, nil
}

// cleanQueryValue removes parenthetical remarks from a name or affiliation
// before it is embedded in a query.
func cleanQueryValue(s string) string {
	return strings.TrimSpace(parentheticalRe.ReplaceAllString(s, ""))
}

// SearchAuthors searches author profiles by surname and given name.
func (c *Client) SearchAuthors(ctx context.Context, last, first string) ([]Entry, error) {
	query := fmt.Sprintf("authlast(%s) AND authfirst(%s)", cleanQueryValue(last), cleanQueryValue(first))
	return c.authorQuery(ctx, query)
}

// SearchAuthorsWithAffiliation searches author profiles by name restricted
// to an affiliation.
func (c *Client) SearchAuthorsWithAffiliation(ctx context.Context, last, first, affiliation string) ([]Entry, error) {
	query := fmt.Sprintf("authlast(%s) AND authfirst(%s) AND AFFIL(%q)",
		cleanQueryValue(last), cleanQueryValue(first), cleanAffiliation(affiliation))
	return c.authorQuery(ctx, query)
}

func (c *Client) authorQuery(ctx context.Context, query string) ([]Entry, error) {
	params := url.Values{}
	params.Set("query", query)

	results, err := c.search(ctx, "/content/search/author", params)
	if err != nil {
		return nil, err
	}
	return results.Results.Entries, nil
}

// cleanAffiliation reduces an affiliation string to its leading
// institution name.
func cleanAffiliation(s string) string {
	cleaned := parentheticalRe.ReplaceAllString(s, "")
	if i := strings.Index(cleaned, ","); i >= 0 {
		cleaned = cleaned[:i]
	}
	return strings.TrimSpace(cleaned)
}

// FindAuthorID locates an author profile ID by name, retrying with the
// affiliation filter when the plain name search has no hits. Returns ""
// with a nil error when neither search finds a profile.
func (c *Client) FindAuthorID(ctx context.Context, first, last, affiliation string) (string, error) {
	entries, err := c.SearchAuthors(ctx, last, first)
	if err != nil {
		return "", err
	}
	if id := firstAuthorID(entries); id != "" {
		return id, nil
	}

	if affiliation == "" {
		return "", nil
	}
	entries, err = c.SearchAuthorsWithAffiliation(ctx, last, first, affiliation)
	if err != nil {
		return "", err
	}
	return firstAuthorID(entries), nil
}

func firstAuthorID(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}
	return entries[0].AuthorID()
}

// GetWorkByDOI fetches the document record for a DOI with its complete
// author list.
func (c *Client) GetWorkByDOI(ctx context.Context, doi string) (*Entry, error) {
	params := url.Values{}
	params.Set("query", fmt.Sprintf("DOI(%q)", strings.TrimSpace(doi)))
	params.Set("count", "1")
	params.Set("view", "COMPLETE")
	params.Set("field", "dc:title,prism:doi,author")

	results, err := c.search(ctx, "/content/search/scopus", params)
	if err != nil {
		return nil, err
	}
	if len(results.Results.Entries) == 0 {
		return nil, ErrNotFound
	}
	return &results.Results.Entries[0], nil
}

// AuthorPosition returns the 1-based sequence of the given author ID on the
// document identified by DOI, or 0 when the author is not on it.
func (c *Client) AuthorPosition(ctx context.Context, doi, authorID string) (int, error) {
	entry, err := c.GetWorkByDOI(ctx, doi)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	for _, a := range entry.Authors {
		if a.AuthID == authorID {
			seq, err := strconv.Atoi(a.Seq)
			if err != nil {
				return 0, fmt.Errorf("%w: author seq %q", ErrInvalidResponse, a.Seq)
			}
			return seq, nil
		}
	}
	return 0, nil
}
