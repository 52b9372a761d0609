package crawler

import (
	"context"
	"errors"
	"net/http"
	"time"
)

const (
	maxBodySize = 8 << 20
)

var (
	ErrFetch = errors.New("news page fetch failed")
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type Impl struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
}
