package fetch

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"golang.org/x/net/proxy"
	"golang.org/x/time/rate"
)

// Header values sent with every request. exploit-db serves the listing
// only to requests that look like its own XHR calls.
const (
	acceptHeader         = "application/json, text/javascript, */*; q=0.01"
	acceptLanguageHeader = "en-US"
	requestedWithHeader  = "XMLHttpRequest"
)

// Payload is the body of one successful GET.
type Payload struct {
	URL         string
	ContentType string
	Body        []byte

	// IsJSON is set when the caller asked for JSON or the server declared
	// a JSON content type.
	IsJSON bool
}

// Text returns the body as a string.
func (p *Payload) Text() string {
	return string(p.Body)
}

// Decode unmarshals a JSON body into v.
func (p *Payload) Decode(v any) error {
	if !p.IsJSON {
		return fmt.Errorf("%s: body is %q, not JSON", p.URL, p.ContentType)
	}
	return json.Unmarshal(p.Body, v)
}

// Fetcher performs a single GET.
type Fetcher interface {
	Fetch(ctx context.Context, url string, expectJSON bool) (*Payload, error)
}

// Client is the HTTP side of gdorking. It sends browser-like headers,
// paces requests, and falls back once to an unverified TLS connection
// when the server certificate cannot be validated.
type Client struct {
	httpClient     *http.Client
	insecureClient *http.Client
	userAgent      string
	timeout        time.Duration
	interval       time.Duration
	proxyAddress   string
	limiter        *rate.Limiter
	logger         *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithProxy routes every connection through the SOCKS5 proxy at addr
// ("host:port").
func WithProxy(addr string) Option {
	return func(c *Client) { c.proxyAddress = addr }
}

// WithRequestInterval enforces a minimum gap between requests.
// Zero disables pacing.
func WithRequestInterval(d time.Duration) Option {
	return func(c *Client) { c.interval = d }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithHTTPClient replaces the underlying http.Client. The insecure TLS
// fallback is only available when its transport is an *http.Transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Client. Defaults: 10 second timeout, no proxy,
// no pacing.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		timeout: 10 * time.Second,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.limiter = rate.NewLimiter(rate.Inf, 1)
	if c.interval > 0 {
		c.limiter = rate.NewLimiter(rate.Every(c.interval), 1)
	}

	if c.httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // DefaultTransport is always *http.Transport
		if c.proxyAddress != "" {
			dialer, err := proxy.SOCKS5("tcp", c.proxyAddress, nil, proxy.Direct)
			if err != nil {
				return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
			}
			contextDialer, ok := dialer.(proxy.ContextDialer)
			if !ok {
				return nil, errors.New("SOCKS5 dialer does not support contexts")
			}
			transport.Proxy = nil
			transport.DialContext = contextDialer.DialContext
		}
		c.httpClient = &http.Client{Transport: transport, Timeout: c.timeout}
	}

	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		insecure := transport.Clone()
		if insecure.TLSClientConfig == nil {
			insecure.TLSClientConfig = &tls.Config{} //nolint:gosec // MinVersion left to the default
		}
		insecure.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec // fallback after a failed verification
		c.insecureClient = &http.Client{
			Transport:     insecure,
			Timeout:       c.httpClient.Timeout,
			CheckRedirect: c.httpClient.CheckRedirect,
			Jar:           c.httpClient.Jar,
		}
	}

	return c, nil
}

// Fetch GETs url. A certificate validation failure is retried exactly
// once without verification; a second TLS failure is a TLSError.
func (c *Client) Fetch(ctx context.Context, url string, expectJSON bool) (*Payload, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting to request %s: %w", url, err)
	}

	c.logger.Debug("GET", "url", url)

	resp, err := c.get(ctx, c.httpClient, url)
	if err != nil && isCertificateError(err) {
		if c.insecureClient == nil {
			return nil, &TLSError{URL: url, Err: err}
		}
		c.logger.Warn("certificate verification failed, retrying without verification",
			"url", url, "error", err)
		resp, err = c.get(ctx, c.insecureClient, url)
		if err != nil && isCertificateError(err) {
			return nil, &TLSError{URL: url, Err: err}
		}
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("request %s: %w", url, ctxErr)
		}
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck // best effort
		return nil, &HTTPStatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}

	contentType := resp.Header.Get("Content-Type")
	return &Payload{
		URL:         url,
		ContentType: contentType,
		Body:        body,
		IsJSON:      expectJSON || isJSONContentType(contentType),
	}, nil
}

func (c *Client) get(ctx context.Context, hc *http.Client, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", acceptLanguageHeader)
	req.Header.Set("X-Requested-With", requestedWithHeader)
	return hc.Do(req)
}

func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}
