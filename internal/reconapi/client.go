package reconapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/theopenlane/httpsling"
	"golang.org/x/time/rate"

	"github.com/theopenlane/recon/internal/jsonvalue"
	"github.com/theopenlane/recon/internal/types"
)

const (
	// defaultRequestTimeout is the default timeout for recon service requests
	defaultRequestTimeout = 30 * time.Second
	// defaultMaxResponseSize caps how much of a response body is read
	defaultMaxResponseSize int64 = 10 * 1024 * 1024
)

// Client calls the remote recon service that performs IP, DNS and header scans
type Client struct {
	baseURL         string
	httpClient      *http.Client
	maxResponseSize int64
	limiter         *rate.Limiter
}

// Option configures the Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client for the recon client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithMaxResponseSize limits the number of body bytes read from a response
func WithMaxResponseSize(size int64) Option {
	return func(c *Client) {
		if size > 0 {
			c.maxResponseSize = size
		}
	}
}

// WithRateLimit caps outgoing requests at perSecond with the given burst; zero disables limiting
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			return
		}

		if burst < 1 {
			burst = 1
		}

		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// New creates a recon service client rooted at baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}

	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, ErrInvalidBaseURL
	}

	client := &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		httpClient:      &http.Client{Timeout: defaultRequestTimeout},
		maxResponseSize: defaultMaxResponseSize,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// BaseURL returns the root URL requests are made against
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ResourceURL returns the absolute URL scanned for the given type and domain
func (c *Client) ResourceURL(scanType types.ScanType, domain string) string {
	return c.baseURL + scanType.ResourcePath(url.PathEscape(domain))
}

// Fetch performs a single GET for the scan and returns the decoded JSON object.
// Failures are reported as *TransportError, *RemoteError or *DecodeError
func (c *Client) Fetch(ctx context.Context, scanType types.ScanType, domain string) (*jsonvalue.Object, error) {
	if !scanType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidScanType, scanType)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Err: err}
		}
	}

	requester := httpsling.MustNew(
		httpsling.URL(c.ResourceURL(scanType, domain)),
		httpsling.Get(),
		httpsling.WithHTTPClient(c.httpClient),
	)

	resp, err := requester.SendWithContext(ctx)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxResponseSize))

		return nil, &RemoteError{StatusCode: resp.StatusCode, StatusText: statusText(resp)}
	}

	data, err := jsonvalue.DecodeObject(io.LimitReader(resp.Body, c.maxResponseSize))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	return data, nil
}

// statusText extracts the reason phrase from the response status line
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}

	return text
}
