package polly

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Najib632/Polly-API/internal/domain"
	"github.com/Najib632/Polly-API/pkg/httpclient"
)

const (
	// DefaultBaseURL points at a locally running Polly API.
	DefaultBaseURL = "http://localhost:8000"

	OperationRegister  = "register"
	OperationListPolls = "list_polls"

	registerPath = "/register"
	pollsPath    = "/polls"
)

// Client issues calls against a single Polly API base address.
type Client struct {
	baseURL string
	http    httpclient.Client
	log     Logger
}

// NewClient validates the base address and wires the transport. A nil
// transport gets a resty client with the library default timeout.
func NewClient(baseURL string, httpClient httpclient.Client, log Logger) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base url must not be empty")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must use http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q has no host", baseURL)
	}
	if httpClient == nil {
		httpClient = httpclient.NewRestyClient(0)
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		log:     ensureLogger(log),
	}, nil
}

// BaseURL returns the normalised base address.
func (c *Client) BaseURL() string { return c.baseURL }

// RegisterUser posts the credentials to /register.
func (c *Client) RegisterUser(ctx context.Context, creds domain.Credentials) Outcome {
	start := time.Now()
	resp, err := c.http.Post(ctx, c.endpoint(registerPath), creds, nil)
	return c.classify(OperationRegister, start, resp, err)
}

// ListPolls fetches one page of polls from /polls.
func (c *Client) ListPolls(ctx context.Context, page domain.PageRequest) Outcome {
	query := map[string]string{
		"skip":  strconv.Itoa(page.Skip),
		"limit": strconv.Itoa(page.Limit),
	}
	start := time.Now()
	resp, err := c.http.Get(ctx, c.endpoint(pollsPath), query, nil)
	return c.classify(OperationListPolls, start, resp, err)
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}

func (c *Client) classify(op string, start time.Time, resp httpclient.Response, err error) Outcome {
	out := Outcome{Operation: op, Elapsed: time.Since(start)}

	if err != nil || resp == nil {
		if err == nil {
			err = fmt.Errorf("empty response")
		}
		out.Kind = KindTransportError
		out.Err = err
		c.log.WarnObj("request failed without a response", "polly_transport_error", map[string]any{
			"operation": op,
			"base_url":  c.baseURL,
			"error":     err.Error(),
		})
		return out
	}

	out.StatusCode = resp.StatusCode()
	out.Body = resp.Body()
	if h := resp.Header(); h != nil {
		out.ContentType = h.Get("Content-Type")
	}
	out.Kind = classifyStatus(out.StatusCode)

	if out.Kind == KindHTTPError {
		c.log.WarnObj("http error response", "polly_http_error", map[string]any{
			"operation":   op,
			"status_code": out.StatusCode,
			"status":      out.Message(),
		})
		return out
	}

	c.log.DebugObj("request completed", "polly_response", map[string]any{
		"operation":   op,
		"status_code": out.StatusCode,
		"elapsed_ms":  out.Elapsed.Milliseconds(),
	})
	return out
}
