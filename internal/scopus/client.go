// Package scopus is a rate-limited client for the Scopus Search API.
// It uses only the search endpoint, which is available to free API
// keys (the author retrieval endpoints are not), and aggregates author
// data from the author's paper list.
package scopus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/kmitl-it/advisorkg/internal/professor"
	"github.com/kmitl-it/advisorkg/internal/topics"
)

const (
	// BaseURL is the Scopus content API base URL.
	BaseURL = "https://api.elsevier.com/content"

	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 10 * time.Second

	// RateLimit is requests per second. The documented Scopus search
	// quota allows more, but there is no reason to go faster for a
	// monthly batch job.
	RateLimit = 2.0

	// SearchResultCap is the most results one search query returns on
	// the free API tier.
	SearchResultCap = 25

	// searchFields limits the response to fields available to free
	// API keys.
	searchFields = "dc:title,prism:coverDate,prism:doi,citedby-count,dc:creator"
)

// Client is a rate-limited HTTP client for the Scopus Search API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
	extractor  topics.Extractor
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
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithTopicExtractor replaces the topic extraction strategy.
func WithTopicExtractor(e topics.Extractor) ClientOption {
	return func(c *Client) {
		c.extractor = e
	}
}

// NewClient creates a new Scopus client. The API key defaults to the
// SCOPUS_API_KEY environment variable.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		extractor:  topics.NewKeywordExtractor(),
	}

	if key := os.Getenv("SCOPUS_API_KEY"); key != "" {
		c.apiKey = key
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetAuthorData fetches an author's papers via one search query and
// aggregates name, document count, citation total, and extracted
// topics. maxPapers is capped at SearchResultCap; zero means the cap.
// Returns ErrNotFound when the author has no documents.
func (c *Client) GetAuthorData(ctx context.Context, authorID string, maxPapers int) (*AuthorData, error) {
	if maxPapers <= 0 || maxPapers > SearchResultCap {
		maxPapers = SearchResultCap
	}

	params := url.Values{
		"query": {fmt.Sprintf("AU-ID(%s)", authorID)},
		"count": {fmt.Sprintf("%d", maxPapers)},
		"sort":  {"-pubyear"},
		"field": {searchFields},
	}

	body, err := c.get(ctx, "/search/scopus", params, authorID)
	if err != nil {
		return nil, err
	}

	var results searchResults
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("%w: parsing search results: %v", ErrInvalidResponse, err)
	}

	data := &AuthorData{ScopusID: authorID}
	for _, entry := range results.SearchResults.Entry {
		if entry.Error != "" {
			continue
		}
		if data.Name == "" && entry.Creator != "" {
			data.Name = entry.Creator
		}
		p := entry.paper()
		data.CitationCount += p.Citations
		data.Papers = append(data.Papers, p)
	}
	data.DocumentCount = len(data.Papers)

	if data.DocumentCount == 0 {
		return nil, fmt.Errorf("%w: author %s has no documents", ErrNotFound, authorID)
	}

	data.Topics = c.extractor.Extract(data.Papers)
	return data, nil
}

// TestConnection verifies the API key with a minimal search query.
func (c *Client) TestConnection(ctx context.Context) error {
	params := url.Values{
		"query": {"TITLE(computer)"},
		"count": {"1"},
	}
	_, err := c.get(ctx, "/search/scopus", params, "")
	return err
}

// get performs one rate-limited API request and maps HTTP failures to
// the package's error taxonomy.
func (c *Client) get(ctx context.Context, path string, params url.Values, authorID string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-ELS-APIKey", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: status %d", ErrNotFound, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			AuthorID:   authorID,
			Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrNetworkError, err)
	}
	return body, nil
}

// MergeInto copies the fetched bibliographic data onto a directory
// record, producing the complete professor record the pipeline caches.
func (d *AuthorData) MergeInto(basic professor.BasicRecord, fetchedAt time.Time) *professor.Record {
	name := basic.Name
	if name == "" {
		name = d.Name
	}
	return &professor.Record{
		Name:          name,
		ThaiName:      basic.ThaiName,
		ScopusID:      d.ScopusID,
		ScopusURL:     basic.ScopusURL,
		ProfileURL:    basic.ProfileURL,
		ImageURL:      basic.ImageURL,
		Topics:        d.Topics,
		Papers:        d.Papers,
		DocumentCount: d.DocumentCount,
		CitationCount: d.CitationCount,
		FetchedAt:     fetchedAt.Format(time.RFC3339),
	}
}
