package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the OpenAlex REST API base URL.
	BaseURL = "https://api.openalex.org"

	// WebPrefix is the identifier prefix used on OpenAlex web profiles.
	// API calls use BaseURL paths instead.
	WebPrefix = "https://openalex.org/"

	// RateLimit is 10 requests per second, the polite-pool guidance.
	RateLimit = 10.0

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultPerPage is the page size for list endpoints.
	DefaultPerPage = 25

	// DefaultWorksLimit caps works fetched per author.
	DefaultWorksLimit = 200
)

// Client is a rate-limited HTTP client for the OpenAlex API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithMailto sets the contact address sent on every request, which routes
// traffic into the polite pool.
func WithMailto(email string) ClientOption {
	return func(c *Client) {
		c.mailto = email
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

// NewClient creates a new OpenAlex API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}

	if email := os.Getenv("OPENALEX_MAILTO"); email != "" {
		c.mailto = email
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs a rate-limited GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	if query == nil {
		query = url.Values{}
	}
	if c.mailto != "" {
		query.Set("mailto", c.mailto)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == 404:
		return ErrNotFound
	case resp.StatusCode == 429:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 400:
		return &APIError{StatusCode: resp.StatusCode, Message: "HTTP " + strconv.Itoa(resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// SearchAuthors searches for author profiles by name.
func (c *Client) SearchAuthors(ctx context.Context, name string) (*AuthorsResponse, error) {
	query := url.Values{}
	query.Set("search", name)

	var resp AuthorsResponse
	if err := c.get(ctx, "/authors", query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetAuthor fetches an author profile by ID. Both bare IDs ("A5074012726")
// and web-profile URLs are accepted.
func (c *Client) GetAuthor(ctx context.Context, id string) (*Author, error) {
	var author Author
	if err := c.get(ctx, "/authors/"+shortID(id), nil, &author); err != nil {
		return nil, err
	}
	if author.ID == "" {
		return nil, ErrNotFound
	}
	return &author, nil
}

// WorksForAuthor fetches up to limit works authored by the given author,
// following pagination.
func (c *Client) WorksForAuthor(ctx context.Context, authorID string, limit int) ([]Work, error) {
	if limit <= 0 {
		limit = DefaultWorksLimit
	}

	var works []Work
	for page := 1; len(works) < limit; page++ {
		query := url.Values{}
		query.Set("filter", "author.id:"+shortID(authorID))
		query.Set("per-page", strconv.Itoa(DefaultPerPage))
		query.Set("page", strconv.Itoa(page))

		var resp WorksResponse
		if err := c.get(ctx, "/works", query, &resp); err != nil {
			return nil, err
		}
		works = append(works, resp.Results...)
		if len(resp.Results) < DefaultPerPage || len(works) >= resp.Meta.Count {
			break
		}
	}

	if len(works) > limit {
		works = works[:limit]
	}
	return works, nil
}

// GetWorkByDOI fetches the canonical work record for a DOI.
func (c *Client) GetWorkByDOI(ctx context.Context, doi string) (*Work, error) {
	var work Work
	path := "/works/" + url.PathEscape("https://doi.org/"+strings.TrimSpace(doi))
	if err := c.get(ctx, path, nil, &work); err != nil {
		return nil, err
	}
	if work.ID == "" {
		return nil, ErrNotFound
	}
	return &work, nil
}

// WorkAuthors resolves a DOI to its work ID and ordered author IDs. It
// satisfies the cross-linker's source contract.
func (c *Client) WorkAuthors(ctx context.Context, doi string) (string, []string, error) {
	work, err := c.GetWorkByDOI(ctx, doi)
	if err != nil {
		return "", nil, err
	}

	ids := make([]string, len(work.Authorships))
	for i, a := range work.Authorships {
		ids[i] = a.Author.ID
	}
	return work.ID, ids, nil
}

// SearchInstitutions searches for institutions by name and returns their IDs
// in relevance order. It satisfies the institution resolver's source
// contract.
func (c *Client) SearchInstitutions(ctx context.Context, name string) ([]string, error) {
	query := url.Values{}
	query.Set("search", name)

	var resp InstitutionsResponse
	if err := c.get(ctx, "/institutions", query, &resp); err != nil {
		return nil, err
	}

	ids := make([]string, len(resp.Results))
	for i, inst := range resp.Results {
		ids[i] = inst.ID
	}
	return ids, nil
}

// shortID strips the web-profile prefix from an OpenAlex identifier.
func shortID(id string) string {
	return strings.TrimPrefix(strings.TrimSpace(id), WebPrefix)
}
