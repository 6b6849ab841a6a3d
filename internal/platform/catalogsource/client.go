package catalogsource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

var (
	// ErrUpstreamUnavailable covers transport failures and non-2xx replies.
	ErrUpstreamUnavailable = errors.New("catalog source unavailable")
	// ErrMalformedPayload is returned when the body is not a JSON array of records.
	ErrMalformedPayload = errors.New("malformed catalog payload")
)

// Record is one upstream book as published by the catalog source.
type Record struct {
	ID        int      `json:"id"`
	Title     string   `json:"title"`
	ISBN      *string  `json:"isbn"`
	PageCount int      `json:"pageCount"`
	Authors   []string `json:"authors"`
}

type Options struct {
	URL         string
	Timeout     time.Duration
	MinInterval time.Duration
	UserAgent   string
	// MaxBytes caps the response body; zero means DefaultMaxBytes.
	MaxBytes    int64
}

// DefaultMaxBytes is the body cap used when Options.MaxBytes is unset.
const DefaultMaxBytes = 16 << 20

type Client struct {
	httpClient *http.Client
	userAgent  string
	url        string
	maxBytes   int64
	limiter    *rate.Limiter
}

// NewClient builds a client that issues at most one request per
// MinInterval. A zero interval disables pacing.
func NewClient(opts Options) *Client {
	limit := rate.Inf
	if opts.MinInterval > 0 {
		limit = rate.Every(opts.MinInterval)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  opts.UserAgent,
		url:        opts.URL,
		maxBytes:   maxBytes,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// Fetch downloads the full catalog in one request. There are no retries.
func (c *Client) Fetch(ctx context.Context) ([]Record, error) {
	body, err := c.get(ctx)
	if err != nil {
		return nil, err
	}

	var records []Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if records == nil {
		// JSON null decodes without error but is not an array.
		return nil, fmt.Errorf("%w: expected an array", ErrMalformedPayload)
	}
	return records, nil
}

func (c *Client) get(ctx context.Context) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status code: %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUpstreamUnavailable, err)
	}
	if int64(len(body)) > c.maxBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrMalformedPayload, c.maxBytes)
	}
	return body, nil
}
