// Package chms is the HTTP gateway to the church-management API (a
// Planning-Center-shaped JSON:API). It owns authentication, pagination,
// rate-limit retries and the sandbox marker; callers above it only see
// people records in and partial updates out.
package chms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strconv"
	"time"

	"github.com/kundihq/kundi/core"
	"github.com/kundihq/kundi/core/editing"
	"github.com/kundihq/kundi/core/roster"
)

const (
	peopleEndpoint = "/people/v2/people"

	// SandboxHeader marks a request as simulated. An intercepting layer
	// (dev proxy, service worker, test server) synthesizes the success
	// response; the client neither knows nor cares how.
	SandboxHeader = "X-Kundi-Sandbox"
)

var (
	maxRetries = 3
	sleepFunc  = time.Sleep // mockable
)

type Client struct {
	baseURL  string
	appID    string
	secret   string
	sandbox  bool
	pageSize int
	http     *http.Client
	logger   core.Logger
}

var (
	_ roster.ReadGateway   = (*Client)(nil)
	_ editing.WriteGateway = (*Client)(nil)
)

func NewClient(conf *core.Config, logger core.Logger) *Client {
	return &Client{
		baseURL:  conf.Chms.BaseURL,
		appID:    conf.Chms.AppID,
		secret:   conf.Chms.Secret,
		sandbox:  conf.Chms.Sandbox,
		pageSize: conf.Chms.PageSize,
		http:     &http.Client{},
		logger:   logger,
	}
}

// APIError is a non-2xx response from the ChMS.
type APIError struct {
	StatusCode int
	Status     string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return "chms: " + e.Status
	}
	return "chms: " + e.Status + ": " + e.Detail
}

// do runs one request with the retry contract: HTTP 429 is retried up to 3
// additional times, waiting Retry-After seconds when the header is present
// and exponential backoff from 1s otherwise. Anything else — success, other
// status codes, transport errors — is returned as-is on the first attempt.
func (c *Client) do(ctx context.Context, method, rawurl string, body []byte) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		var rdr io.Reader
		if body != nil {
			rdr = bytes.NewReader(body)
		}
		req, err := http.NewRequest(method, rawurl, rdr)
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)
		req.SetBasicAuth(c.appID, c.secret)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.sandbox {
			req.Header.Set(SandboxHeader, "true")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		wait := retryWait(resp, attempt)
		_ = resp.Body.Close()
		c.logger.Warn(fmt.Sprintf("chms: rate limited, retrying in %v (attempt %d/%d)", wait, attempt+1, maxRetries))
		sleepFunc(wait)
	}
}

func retryWait(resp *http.Response, attempt int) time.Duration {
	if ra := resp.Header.Get("Retry-After"); ra != "" {
		if secs, err := strconv.Atoi(ra); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return time.Second << attempt // 1s, 2s, 4s...
}

// checkStatus drains a snippet of a non-2xx body into an *APIError.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := ioutil.ReadAll(io.LimitReader(resp.Body, 512))
	return &APIError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Detail:     string(bytes.TrimSpace(snippet)),
	}
}

// Verify probes the API with the given credential pair; used by the login
// flow before a session token is issued.
func (c *Client) Verify(appID, secret string) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+peopleEndpoint+"?per_page=1", nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(appID, secret)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	return checkStatus(resp)
}

func decodeInto(resp *http.Response, v interface{}) error {
	defer func() { _ = resp.Body.Close() }()
	if err := checkStatus(resp); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
