package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/tharun-r1705/data-frontend-new/storage/credstore"
)

type (
	// Options configures the Client. Creds is read on every request to attach
	// the bearer credential; OnAuthInvalid is invoked (after the store has
	// been cleared) whenever any response comes back unauthorized; it is the
	// injectable stand-in for the hard navigation to the login screen.
	Options struct {
		BaseURL       string
		Timeout       time.Duration
		Creds         credstore.Store
		OnAuthInvalid func()

		// Base is the underlying round tripper; defaults to http.DefaultTransport.
		Base http.RoundTripper
	}

	// Client performs all HTTP requests against the remote API with uniform
	// request augmentation and response inspection.
	Client struct {
		base          *url.URL
		http          *http.Client
		creds         credstore.Store
		onAuthInvalid func()
	}
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is the server rejecting the credential.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized
	}
	return false
}

func NewClient(opts *Options) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/"))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing base URL %q", opts.BaseURL)
	}

	rt := opts.Base
	if rt == nil {
		rt = http.DefaultTransport
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	onAuthInvalid := opts.OnAuthInvalid
	if onAuthInvalid == nil {
		onAuthInvalid = func() {}
	}

	return &Client{
		base: base,
		http: &http.Client{
			Timeout:   timeout,
			Transport: &authTransport{base: rt, creds: opts.Creds},
		},
		creds:         opts.Creds,
		onAuthInvalid: onAuthInvalid,
	}, nil
}

// authTransport is the outgoing interception point: a pure request-mutation
// step attaching the stored token as a bearer credential.
type authTransport struct {
	base  http.RoundTripper
	creds credstore.Store
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if token, _, err := t.creds.Read(); err == nil {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return t.base.RoundTrip(req)
}

func (c *Client) url(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(path, "/")
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do performs one JSON request/response round trip. Any unauthorized response
// clears the credential store and fires the auth-invalid hook before the
// error reaches the caller; all other errors pass through for local handling.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), body)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	setDefaultHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "performing request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		// global, non-negotiable: any unauthorized response forces logout.
		_ = c.creds.Clear()
		c.onAuthInvalid()
		return &APIError{Status: resp.StatusCode, Message: decodeErrorMessage(resp)}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{Status: resp.StatusCode, Message: decodeErrorMessage(resp)}
	}

	if out == nil {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decoding response body")
	}
	return nil
}

// download performs a raw byte fetch, returning the payload and the server's
// suggested filename (from Content-Disposition) when present.
func (c *Client) download(ctx context.Context, path string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path, nil), nil)
	if err != nil {
		return nil, "", errors.Wrap(err, "building request")
	}
	setDefaultHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", errors.Wrap(err, "performing request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		_ = c.creds.Clear()
		c.onAuthInvalid()
		return nil, "", &APIError{Status: resp.StatusCode, Message: decodeErrorMessage(resp)}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, "", &APIError{Status: resp.StatusCode, Message: decodeErrorMessage(resp)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", errors.Wrap(err, "reading response body")
	}
	return data, suggestedFilename(resp), nil
}

func setDefaultHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Expires", "0")
}

func suggestedFilename(resp *http.Response) string {
	cd := resp.Header.Get("Content-Disposition")
	if cd == "" {
		return ""
	}
	if _, params, err := mime.ParseMediaType(cd); err == nil {
		return params["filename"]
	}
	return ""
}

// decodeErrorMessage pulls a human message out of an error body; the server
// answers with an "error" or "message" key depending on the endpoint.
func decodeErrorMessage(resp *http.Response) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return http.StatusText(resp.StatusCode)
}
