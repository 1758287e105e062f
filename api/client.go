// Package api is the HTTP client for the remote HR platform API: login
// challenges, password submission, token exchange, userinfo, and tenant
// resolution. It is the only package that talks to the wire; every transport
// or HTTP failure is re-surfaced here as one of the internal/errors kinds, so
// nothing above this boundary ever sees a raw transport error.
package api

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

	hrerrors "github.com/hroffice/go-hrclient/internal/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultTimeout = 15 * time.Second

// Client issues requests against the HR API base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (primarily for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.log = logger
	}
}

// New creates a Client for the given base URL (e.g. "https://api.hroffice.com").
func New(baseURL string, options ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("[api.New] baseURL is required")
	}

	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        log.Logger,
	}
	for _, opt := range options {
		opt(client)
	}
	return client, nil
}

// TokenURL returns the absolute token endpoint, used to configure the OAuth2
// code-exchange and refresh flows.
func (c *Client) TokenURL() string {
	return c.baseURL + tokenPath
}

// errorBody is the error payload the API attaches to non-2xx responses.
type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"message"`
}

func (e errorBody) text() string {
	switch {
	case e.ErrorDescription != "":
		return e.ErrorDescription
	case e.Message != "":
		return e.Message
	default:
		return e.Error
	}
}

// do performs one JSON request/response round trip. body and out may be nil;
// bearer, when non-empty, is attached as the Authorization credential.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, bearer string, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return hrerrors.Wrapf(hrerrors.ErrInternal, "[api.do] encode request: %v", err)
		}
		reqBody = bytes.NewReader(data)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return hrerrors.Wrapf(hrerrors.ErrInternal, "[api.do] build request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return hrerrors.Wrapf(hrerrors.ErrNetwork, "[api.do] %s %s: %v", method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(method, path, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return hrerrors.Wrapf(hrerrors.ErrNetwork, "[api.do] decode %s %s response: %v", method, path, err)
	}
	return nil
}

// statusError maps an HTTP failure status onto the error taxonomy. The server
// error body is folded into the message when one is present.
func (c *Client) statusError(method, path string, resp *http.Response) error {
	var body errorBody
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body)

	kind := hrerrors.ErrNetwork
	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = hrerrors.ErrValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = hrerrors.ErrAuth
	case http.StatusNotFound:
		kind = hrerrors.ErrNotFound
	case http.StatusGone:
		kind = hrerrors.ErrChallengeExpired
	}

	c.log.Debug().Int("status", resp.StatusCode).Str("method", method).Str("path", path).Str("error", body.text()).Msg("api request failed")

	if text := body.text(); text != "" {
		return hrerrors.Wrapf(kind, "%s %s: %s (status %d)", method, path, text, resp.StatusCode)
	}
	return hrerrors.Wrapf(kind, "%s %s: status %d", method, path, resp.StatusCode)
}
