package dispatcher

import (
	"context"
	"errors"
	"pso2-news/models/constants"
	"pso2-news/models/entities"

	"golang.org/x/sync/semaphore"
)

const (
	defaultConcurrency = 8
)

var (
	ErrDelivery = errors.New("notification delivery failed")
)

type Service interface {
	Dispatch(ctx context.Context, item entities.NewsItem) Report
}

// Deliverer sends a notification to a chat.
type Deliverer interface {
	Deliver(ctx context.Context, chatID int64, notification entities.Notification) error
}

type Subscribers interface {
	All() []entities.Subscriber
	SetDelivered(chatID int64, category constants.NewsCategory, delivered bool) error
}

type Report struct {
	Delivered int
	Failed    int
	Skipped   int
}

type Impl struct {
	subscribers Subscribers
	deliverer   Deliverer
	slots       *semaphore.Weighted
}
