package detector

import (
	"context"
	"fmt"
	"pso2-news/models/constants"
	"pso2-news/models/entities"
	"pso2-news/repositories/feedstates"

	"github.com/rs/zerolog/log"
)

func New(feedStateRepo feedstates.Repository, flags FlagWriter, deliverOnFirstSighting bool) *Impl {
	return &Impl{
		feedStateRepo:          feedStateRepo,
		flags:                  flags,
		deliverOnFirstSighting: deliverOnFirstSighting,
	}
}

// Detect reports whether item is a new one for its category. On a change the
// flags are written before the feed state: if the state write fails, the next
// crawl sees the same change again.
func (service *Impl) Detect(_ context.Context, item entities.NewsItem) (bool, error) {
	state, err := service.feedStateRepo.Get(item.Category)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	if state != nil && state.LastSeenID == item.ExternalID {
		return false, nil
	}

	isNew := true
	if state == nil {
		isNew = service.deliverOnFirstSighting
	}

	if err := service.flags.SetCategory(item.Category, !isNew); err != nil {
		return false, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	if err := service.feedStateRepo.Upsert(item.Category, item.ExternalID); err != nil {
		return false, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	event := log.Info().
		Str(constants.LogCategory, string(item.Category)).
		Str(constants.LogExternalID, item.ExternalID).
		Bool(constants.LogIsNew, isNew)
	if state == nil {
		event.Msg("First item seen for category")
	} else {
		event.Str(constants.LogPreviousID, state.LastSeenID).Msg("New item detected")
	}

	return isNew, nil
}
