package crossref

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/matchlab/scholarmatch/internal/score"
)

const (
	// BaseURL is the CrossRef REST API base URL.
	BaseURL = "https://api.crossref.org"

	// RateLimit is the polite-pool request rate in requests per second.
	RateLimit = 5.0

	// DefaultRows is the number of works fetched per author query.
	DefaultRows = 100

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
)

// Common errors returned by the CrossRef client.
var (
	// ErrNotFound indicates the resource was not found.
	ErrNotFound = errors.New("not found in CrossRef")

	// ErrRateLimited indicates the polite-pool quota was exceeded.
	ErrRateLimited = errors.New("CrossRef rate limit exceeded")

	// ErrInvalidResponse indicates an unexpected API response.
	ErrInvalidResponse = errors.New("invalid response from CrossRef")
)

// Client is a rate-limited HTTP client for the CrossRef works API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithMailto sets the contact address for CrossRef's polite pool.
func WithMailto(mailto string) ClientOption {
	return func(c *Client) {
		c.mailto = mailto
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

// NewClient creates a new CrossRef API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}

	if mailto := os.Getenv("CROSSREF_MAILTO"); mailto != "" {
		c.mailto = mailto
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WorksByAuthor queries the works index by author name. rows <= 0 uses
// DefaultRows.
func (c *Client) WorksByAuthor(ctx context.Context, author string, rows int) ([]Work, error) {
	if rows <= 0 {
		rows = DefaultRows
	}

	params := url.Values{}
	params.Set("query.author", author)
	params.Set("rows", strconv.Itoa(rows))
	if c.mailto != "" {
		params.Set("mailto", c.mailto)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	u := c.baseURL + "/works?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contacting CrossRef: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == 404:
		return nil, ErrNotFound
	case resp.StatusCode == 429:
		return nil, fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: HTTP %d", ErrInvalidResponse, resp.StatusCode)
	}

	var wr WorksResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return wr.Message.Items, nil
}

// DocumentsByAuthor fetches works for an author name and shapes them for the
// composite scorer.
func (c *Client) DocumentsByAuthor(ctx context.Context, author string, rows int) ([]score.Document, error) {
	works, err := c.WorksByAuthor(ctx, author, rows)
	if err != nil {
		return nil, err
	}

	docs := make([]score.Document, len(works))
	for i, w := range works {
		docs[i] = ToDocument(w)
	}
	return docs, nil
}

// ToDocument flattens a registry work into the scorer's document shape.
func ToDocument(w Work) score.Document {
	doc := score.Document{
		DOI:         w.DOI,
		Title:       w.FirstTitle(),
		Publisher:   w.Publisher,
		CreatedYear: w.Created.Year(),
	}

	doc.Authors = make([]score.Author, len(w.Authors))
	for i, a := range w.Authors {
		sa := score.Author{Given: a.Given, Family: a.Family}
		for _, aff := range a.Affiliations {
			if aff.Name != "" {
				sa.Affiliations = append(sa.Affiliations, aff.Name)
			}
		}
		doc.Authors[i] = sa
	}
	return doc
}
