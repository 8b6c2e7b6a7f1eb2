package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Transport issues one API request and returns the raw response body.
// Implementations own authentication, connection reuse, and wire-level
// retries; the client only marks "request failed" or "request canceled"
// from the returned error.
type Transport interface {
	Do(ctx context.Context, endpoint string, body []byte) ([]byte, error)
}

// HTTPTransport posts binary request bodies to an API base URL.
type HTTPTransport struct {
	// BaseURL is the API root, e.g. "https://chat.example.com/api/v1".
	BaseURL string
	// Header is attached to every request, typically auth cookies.
	Header http.Header
	// Client defaults to a client with a 30s timeout.
	Client *http.Client
}

// NewHTTPTransport creates a transport for an API base URL.
func NewHTTPTransport(baseURL string, header http.Header) *HTTPTransport {
	return &HTTPTransport{
		BaseURL: baseURL,
		Header:  header,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Do posts body to baseURL/endpoint and returns the response body.
// A non-2xx status is a transport-level error; application-level
// failures travel inside the decoded response header.
func (t *HTTPTransport) Do(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	u, err := url.JoinPath(t.BaseURL, endpoint)
	if err != nil {
		return nil, fmt.Errorf("build request url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-protobuf")
	for k, vs := range t.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: unexpected status %s", endpoint, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
