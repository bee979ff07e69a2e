// Package service is the generic HTTP plumbing shared by the translator
// client: request descriptors, authentication, execution and the error
// taxonomy surfaced to callers.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/valpere/langtranslator/internal/metrics"
)

const defaultUserAgent = "langtranslator-go"

// Client executes Requests against one service endpoint. It is safe for
// concurrent use; nothing is mutated after NewClient returns.
type Client struct {
	endpoint  string
	auth      Authenticator
	client    *http.Client
	logger    *logrus.Entry
	metrics   *metrics.Metrics
	userAgent string
	headers   http.Header
	timeout   time.Duration
}

// Option customises a Client.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithTimeout sets the per-request timeout. It applies to whichever HTTP
// client ends up configured, regardless of option order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithLogger(l *logrus.Entry) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers.Set(key, value) }
}

// NewClient returns a client for endpoint. A nil auth sends unauthenticated
// requests.
func NewClient(endpoint string, auth Authenticator, opts ...Option) (*Client, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, InvalidArgument("endpoint is empty")
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return nil, InvalidArgument("endpoint %q must start with http:// or https://", endpoint)
	}
	if auth == nil {
		auth = NoAuth{}
	}

	c := &Client{
		endpoint:  endpoint,
		auth:      auth,
		client:    &http.Client{Timeout: 60 * time.Second},
		logger:    logrus.WithField("component", "service"),
		userAgent: defaultUserAgent,
		headers:   http.Header{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		// Copy so a caller's client is never modified.
		hc := *c.client
		hc.Timeout = c.timeout
		c.client = &hc
	}
	return c, nil
}

// Endpoint returns the base URL requests are resolved against.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// URL resolves req against the endpoint.
func (c *Client) URL(req *Request) string {
	u := c.endpoint + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}
	return u
}

// Do sends req and decodes a successful JSON response into out. A nil out
// discards the body.
func (c *Client) Do(ctx context.Context, req *Request, out any) error {
	target := c.URL(req)

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	for k, vs := range c.headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	for k, vs := range req.Header {
		httpReq.Header.Del(k)
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Accept", ContentTypeJSON)
	httpReq.Header.Set("User-Agent", c.userAgent)
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}

	if err := c.auth.Authenticate(httpReq); err != nil {
		return err
	}

	log := c.logger.WithFields(logrus.Fields{
		"operation": req.Operation,
		"method":    req.Method,
		"path":      req.Path,
	})

	done := c.metrics.Begin()
	start := time.Now()
	resp, err := c.client.Do(httpReq)
	elapsed := time.Since(start)
	done()

	if err != nil {
		c.metrics.Observe(req.Operation, "transport_error", elapsed)
		log.WithError(err).Warn("request failed")
		return &TransportError{Method: req.Method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	c.metrics.Observe(req.Operation, strconv.Itoa(resp.StatusCode), elapsed)
	log = log.WithFields(logrus.Fields{"status": resp.StatusCode, "latency": elapsed})

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.WithError(err).Warn("failed to read response")
		return &TransportError{Method: req.Method, URL: target, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := newServiceError(resp, data)
		log.Warnf("service error: %s", se.Message)
		return se
	}
	log.Debug("request completed")

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &DecodeError{Err: err, Body: data}
	}
	return nil
}
