package probe

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vidsweep/internal/settings"
)

// MaxRedirects is the number of redirects followed before a request fails.
const MaxRedirects = 3

// UserAgent returns the user agent sent by a build of the given version.
func UserAgent(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		version = "dev"
	}
	return "vidsweep/" + version + " (+link checker)"
}

var errTooManyRedirects = errors.New("too many redirects")

// Result is the classification of one URL.
type Result struct {
	Broken bool
	// Status is the final HTTP status, or 0 when no response was received.
	Status int
	// Method is the method of the request that produced Status.
	Method string
	// Err is an *InvalidURLError or *RequestError when the URL was judged
	// broken without a usable status, or the context error when ctx ended
	// before a status arrived. A cancelled check is never broken.
	Err error
}

// Checker probes URLs. The zero value is not usable; call NewChecker.
type Checker struct {
	userAgent string
	transport http.RoundTripper
}

// Option configures a Checker.
type Option func(*Checker)

// WithTransport replaces the HTTP transport, mainly for tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Checker) {
		if rt != nil {
			c.transport = rt
		}
	}
}

// NewChecker builds a Checker sending userAgent on every request. An empty
// userAgent falls back to UserAgent("dev").
func NewChecker(userAgent string, opts ...Option) *Checker {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		userAgent = UserAgent("")
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // media hosts often carry self-signed certs
	c := &Checker{userAgent: userAgent, transport: transport}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check probes rawURL under the timeout and broken status codes in s.
func (c *Checker) Check(ctx context.Context, rawURL string, s settings.ScanSettings) Result {
	if !validURL(rawURL) {
		requestsTotal.WithLabelValues("none", outcomeInvalid).Inc()
		return Result{Broken: true, Err: &InvalidURLError{URL: rawURL}}
	}

	client := &http.Client{
		Transport: c.transport,
		Timeout:   s.HTTPTimeout(),
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) > MaxRedirects {
				return errTooManyRedirects
			}
			return nil
		},
	}

	status, err := c.do(ctx, client, http.MethodHead, rawURL, s)
	if err == nil && status != 0 {
		return Result{Broken: s.IsBroken(status), Status: status, Method: http.MethodHead}
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{Method: http.MethodHead, Err: ctxErr}
	}

	status, err = c.do(ctx, client, http.MethodGet, rawURL, s)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{Method: http.MethodGet, Err: ctxErr}
	}
	if err != nil {
		return Result{Broken: true, Method: http.MethodGet, Err: &RequestError{URL: rawURL, Err: err}}
	}
	if status == 0 {
		return Result{Broken: true, Method: http.MethodGet, Err: &RequestError{URL: rawURL, Err: errors.New("no status code in response")}}
	}
	return Result{Broken: s.IsBroken(status), Status: status, Method: http.MethodGet}
}

func (c *Checker) do(ctx context.Context, client *http.Client, method, rawURL string, s settings.ScanSettings) (int, error) {
	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		requestsTotal.WithLabelValues(method, outcomeError).Inc()
		return 0, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := client.Do(req)
	if err != nil {
		requestsTotal.WithLabelValues(method, outcomeError).Inc()
		return 0, err
	}
	_ = resp.Body.Close()

	outcome := outcomeHealthy
	if s.IsBroken(resp.StatusCode) {
		outcome = outcomeBroken
	}
	requestsTotal.WithLabelValues(method, outcome).Inc()
	return resp.StatusCode, nil
}

func validURL(raw string) bool {
	if strings.TrimSpace(raw) != raw || raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}
