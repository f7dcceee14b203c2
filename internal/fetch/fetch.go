// ABOUTME: HTTP data loader that retrieves raw feed and OPML bytes
// ABOUTME: Applies a size cap, status checks, and refuses private network targets

package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

// MaxResponseSize caps how much of a response body is read.
const MaxResponseSize = 10 * 1024 * 1024 // 10MB

// UserAgent identifies podfeed to feed hosts.
const UserAgent = "podfeed/1.0 (podcast client)"

var (
	ErrPrivateAddress = errors.New("access to private IP ranges is not allowed")
	ErrTooLarge       = fmt.Errorf("response too large (exceeds %d bytes)", MaxResponseSize)
)

// Client loads documents over HTTP. The zero value is not usable; use NewClient.
type Client struct {
	httpClient *http.Client
	maxSize    int64
}

// NewClient returns a Client whose requests time out after timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		maxSize:    MaxResponseSize,
	}
}

// isPrivateIP checks if an IP address is in a private range (excluding loopback for tests).
func isPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() {
		return false
	}
	return ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast()
}

// Load retrieves urlStr and returns the response body.
// Non-200 responses and bodies larger than MaxResponseSize are errors.
func (c *Client) Load(ctx context.Context, urlStr string) ([]byte, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	if ips, err := net.DefaultResolver.LookupIP(ctx, "ip", parsedURL.Hostname()); err == nil {
		for _, ip := range ips {
			if isPrivateIP(ip) {
				return nil, ErrPrivateAddress
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, */*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > c.maxSize {
		return nil, ErrTooLarge
	}

	return body, nil
}
