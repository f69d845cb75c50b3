package assets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Fetcher downloads remote binaries with the fiber HTTP client.
type Fetcher struct {
	timeout      time.Duration
	maxBytes     int
	maxRedirects int
}

// NewFetcher creates a fetcher bounding every download by timeout and
// maxBytes. A non-positive maxBytes leaves the size unbounded.
func NewFetcher(timeout time.Duration, maxBytes int) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{timeout: timeout, maxBytes: maxBytes, maxRedirects: 5}
}

// Fetch downloads url. Non-200 responses and bodies larger than the size
// cap are errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := f.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	agent := fiber.Get(url)
	agent.Timeout(timeout)
	agent.MaxRedirectsCount(f.maxRedirects)
	if err := agent.Parse(); err != nil {
		return nil, fmt.Errorf("invalid url %s: %w", url, err)
	}
	if f.maxBytes > 0 {
		agent.MaxResponseBodySize = f.maxBytes
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, errors.Join(errs...))
	}
	if code != fiber.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %d", url, code)
	}
	return body, nil
}
