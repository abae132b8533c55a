// Package apiclient talks to the employee REST backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-console/internal/domain/auth"
	"github.com/cmlabs-hris/hris-console/internal/domain/session"
	"golang.org/x/oauth2"
)

const maxErrorBody = 64 << 10

// APIError is a non-2xx answer from the backend. A 401 wraps auth.ErrSessionExpired.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("employee API error [%d]", e.StatusCode)
	}
	return fmt.Sprintf("employee API error [%d]: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the underlying client used for every request.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds every request. Zero keeps transport defaults.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q: scheme and host are required", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// authorized returns a client that attaches the session's bearer token.
// It fails with auth.ErrUnauthenticated before any I/O when there is no token.
func (c *Client) authorized(sess *session.Session) (*http.Client, error) {
	if !sess.Authenticated() {
		return nil, auth.ErrUnauthenticated
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: sess.AccessToken,
		TokenType:   "Bearer",
	})
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: src,
			Base:   c.httpClient.Transport,
		},
		Timeout: c.httpClient.Timeout,
	}, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do sends req and decodes a JSON body into out when out is non-nil.
func (c *Client) do(hc *http.Client, req *http.Request, out any) error {
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    errorMessage(body),
	}
	if resp.StatusCode == http.StatusUnauthorized {
		apiErr.Err = auth.ErrSessionExpired
	}
	return apiErr
}

// errorMessage pulls a human readable message from either {"message": ...}
// or {"error": {"message": ...}} bodies.
func errorMessage(body []byte) string {
	var flat struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &flat); err != nil {
		return ""
	}
	if flat.Message != "" {
		return flat.Message
	}
	var nested struct {
		Message string `json:"message"`
	}
	if len(flat.Error) > 0 && json.Unmarshal(flat.Error, &nested) == nil {
		return nested.Message
	}
	var s string
	if len(flat.Error) > 0 && json.Unmarshal(flat.Error, &s) == nil {
		return s
	}
	return ""
}
