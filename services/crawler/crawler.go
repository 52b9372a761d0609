package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"pso2-news/models/constants"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
)

func New(userAgent string, timeout time.Duration) *Impl {
	return &Impl{
		client:    &http.Client{},
		userAgent: userAgent,
		timeout:   timeout,
	}
}

// Fetch downloads one page, bounded by the crawler timeout and by ctx.
func (service *Impl) Fetch(ctx context.Context, url string) ([]byte, error) {
	if service.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, service.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", ErrFetch, err)
	}
	if service.userAgent != "" {
		req.Header.Set("User-Agent", service.userAgent)
	}

	start := time.Now()
	resp, err := service.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %w", ErrFetch, err)
	}

	log.Debug().
		Str(constants.LogURL, url).
		Str(constants.LogBodySize, humanize.Bytes(uint64(len(body)))).
		Dur(constants.LogDuration, time.Since(start)).
		Msg("News page fetched")

	return body, nil
}
