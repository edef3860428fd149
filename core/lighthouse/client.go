package lighthouse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// maxBodyBytes caps how much of a response is read. Larger responses are rejected.
var maxBodyBytes int64 = 64 << 20

// Fetcher retrieves the raw ticket list for a search query.
type Fetcher interface {
	Fetch(ctx context.Context, query string) ([]byte, error)
}

// Client fetches tickets.xml from the Lighthouse API.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a new Lighthouse client based on the configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("lighthouse project id is required")
	}
	if _, err := url.Parse(cfg.Endpoint); err != nil || cfg.Endpoint == "" {
		return nil, fmt.Errorf("invalid lighthouse endpoint %q", cfg.Endpoint)
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ResponseHeaderTimeout: timeoutDuration,
	}

	return &Client{
		cfg:  cfg,
		http: &http.Client{Transport: transport, Timeout: timeoutDuration},
	}, nil
}

// TicketsURL builds the tickets.xml URL for query. The token is passed as the _token parameter.
func (c *Client) TicketsURL(query string) string {
	params := url.Values{}
	params.Set("q", query)
	if c.cfg.Token != "" {
		params.Set("_token", c.cfg.Token)
	}
	if c.cfg.Limit > 0 {
		params.Set("limit", strconv.Itoa(c.cfg.Limit))
	}

	base := strings.TrimRight(c.cfg.Endpoint, "/")
	return base + "/projects/" + url.PathEscape(c.cfg.ProjectID) + "/tickets.xml?" + params.Encode()
}

// Fetch downloads the ticket list for query. Every failure wraps ErrTransport.
func (c *Client) Fetch(ctx context.Context, query string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.TicketsURL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, redact(err, c.cfg.Token))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrTransport, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %v", ErrTransport, err)
	}
	if int64(len(body)) > maxBodyBytes {
		return nil, fmt.Errorf("%w: response too large (over %d bytes)", ErrTransport, maxBodyBytes)
	}
	return body, nil
}

// redact removes the token from errors that echo the request URL.
func redact(err error, token string) string {
	msg := err.Error()
	if token == "" {
		return msg
	}
	msg = strings.ReplaceAll(msg, url.QueryEscape(token), "REDACTED")
	return strings.ReplaceAll(msg, token, "REDACTED")
}
