// Package media downloads remote card resources into memory so they can be
// re-sent to the platform as binary attachments.
package media

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Fetcher downloads a resource into memory.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher is the resty-backed Fetcher used in production. Downloads
// larger than maxBytes are rejected rather than truncated.
type HTTPFetcher struct {
	http     *resty.Client
	maxBytes int64
}

func NewHTTPFetcher(timeout time.Duration, maxBytes int64) *HTTPFetcher {
	return &HTTPFetcher{
		http:     resty.New().SetTimeout(timeout),
		maxBytes: maxBytes,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch media: %s: %w", url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch media: %s: status %d", url, resp.StatusCode())
	}
	body := resp.Body()
	if f.maxBytes > 0 && int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("media too large: %s: %d bytes (limit %d)", url, len(body), f.maxBytes)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("empty media response: %s", url)
	}
	return body, nil
}
