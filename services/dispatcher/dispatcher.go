package dispatcher

import (
	"context"
	"fmt"
	"pso2-news/models/constants"
	"pso2-news/models/entities"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

func New(subscribers Subscribers, deliverer Deliverer, concurrency int) *Impl {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &Impl{
		subscribers: subscribers,
		deliverer:   deliverer,
		slots:       semaphore.NewWeighted(int64(concurrency)),
	}
}

// Dispatch relays item to every subscriber having an alert chat and not
// having received it yet. A failed delivery leaves the flag unset so the
// next call tries again.
func (service *Impl) Dispatch(ctx context.Context, item entities.NewsItem) Report {
	notification := NewNotification(item)

	var (
		wg     sync.WaitGroup
		mutex  sync.Mutex
		report Report
	)
	count := func(field *int) {
		mutex.Lock()
		*field++
		mutex.Unlock()
	}

	for _, subscriber := range service.subscribers.All() {
		if !subscriber.HasAlertChat() || subscriber.Delivered[item.Category] {
			count(&report.Skipped)
			continue
		}

		if err := service.slots.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).
				Str(constants.LogCategory, string(item.Category)).
				Int64(constants.LogChatID, subscriber.ChatID).
				Msg("Dispatch interrupted, delivery postponed")
			count(&report.Failed)
			continue
		}

		wg.Add(1)
		go func(subscriber entities.Subscriber) {
			defer wg.Done()
			defer service.slots.Release(1)

			if err := service.deliver(ctx, subscriber, notification); err != nil {
				count(&report.Failed)
				return
			}
			count(&report.Delivered)
		}(subscriber)
	}

	wg.Wait()
	return report
}

func (service *Impl) deliver(ctx context.Context, subscriber entities.Subscriber, notification entities.Notification) error {
	logger := log.With().
		Str(constants.LogCategory, string(notification.Category)).
		Int64(constants.LogChatID, subscriber.ChatID).
		Int64(constants.LogAlertChatID, subscriber.AlertChatID).
		Logger()

	if err := service.deliverer.Deliver(ctx, subscriber.AlertChatID, notification); err != nil {
		logger.Error().Err(err).Msg("Cannot deliver notification, retrying next time")
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	if err := service.subscribers.SetDelivered(subscriber.ChatID, notification.Category, true); err != nil {
		logger.Error().Err(err).Msg("Notification delivered but not recorded, it might be sent again")
		return err
	}

	logger.Debug().Msg("Notification delivered")
	return nil
}

func NewNotification(item entities.NewsItem) entities.Notification {
	style := item.Category.Style()
	return entities.Notification{
		Category:    item.Category,
		Color:       style.Color,
		Emoji:       style.Emoji,
		Title:       item.Title,
		URL:         item.DetailURL,
		Description: item.Description,
		ImageURL:    item.ImageURL,
		Footer:      footer(item.Tag, item.PublishedLabel),
	}
}

func footer(tag, date string) string {
	parts := make([]string, 0, 2)
	for _, part := range []string{tag, date} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " | ")
}
