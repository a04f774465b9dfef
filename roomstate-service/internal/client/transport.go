package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrUnexpectedStatus is returned when the upstream answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected upstream status")

// maxBodySize bounds the panel markup read from upstream.
const maxBodySize = 2 << 20

// Transport is the capability the controller needs from the upstream
// session: fetching markup and re-opening the room page.
type Transport interface {
	Fetch(ctx context.Context, rawURL string, query map[string]string) (string, error)
	Navigate(ctx context.Context, room string) error
}

// HTTPTransport implements Transport over plain HTTP against the upstream site.
type HTTPTransport struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// NewHTTPTransport creates a transport resolving relative URLs against baseURL.
func NewHTTPTransport(baseURL string, timeout time.Duration) (*HTTPTransport, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream base url: %w", err)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPTransport{
		baseURL: u,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Fetch GETs rawURL with query merged into its existing query string and
// returns the body.
func (t *HTTPTransport) Fetch(ctx context.Context, rawURL string, query map[string]string) (string, error) {
	ref, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid fetch url: %w", err)
	}
	u := t.baseURL.ResolveReference(ref)

	q := u.Query()
	for k, v := range query {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	return t.get(ctx, u.String())
}

// Navigate loads the room page so the upstream session follows the room.
func (t *HTTPTransport) Navigate(ctx context.Context, room string) error {
	u := t.baseURL.ResolveReference(&url.URL{Path: "/" + url.PathEscape(room) + "/"})
	_, err := t.get(ctx, u.String())
	return err
}

func (t *HTTPTransport) get(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %d from %s", ErrUnexpectedStatus, resp.StatusCode, target)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	return string(body), nil
}
