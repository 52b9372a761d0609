package registry

import (
	"fmt"
	"pso2-news/models/constants"
	"pso2-news/models/entities"
	"pso2-news/pkg/observer"
	"pso2-news/repositories/subscribers"
	"strconv"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

func New(repository subscribers.Repository, categories []constants.NewsCategory) *Impl {
	return &Impl{
		repository: repository,
		categories: categories,
		cache:      cache.New(cache.NoExpiration, 0),
	}
}

// LoadAll replaces the cache content with the stored subscribers. Flags of
// categories a subscriber has never seen are created as undelivered.
func (service *Impl) LoadAll() error {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	stored, err := service.repository.FetchAll()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	service.cache.Flush()
	for _, subscriber := range stored {
		missing := service.missingCategories(subscriber)
		subscriber.Normalize(service.categories)
		for _, category := range missing {
			if errSave := service.repository.SaveDelivered(subscriber.ChatID, category, false); errSave != nil {
				log.Warn().Err(errSave).
					Int64(constants.LogChatID, subscriber.ChatID).
					Str(constants.LogCategory, string(category)).
					Msg("Cannot reconcile delivery flag, kept in memory only")
			}
		}
		service.cache.Set(key(subscriber.ChatID), subscriber, cache.NoExpiration)
	}

	log.Info().Int(constants.LogSubscriberNb, len(stored)).Msg("Subscribers loaded")
	return nil
}

func (service *Impl) Get(chatID int64) (entities.Subscriber, bool) {
	subscriber, found := service.get(chatID)
	if !found {
		return entities.Subscriber{}, false
	}
	return subscriber.Clone(), true
}

func (service *Impl) Insert(subscriber entities.Subscriber) error {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	return service.insert(subscriber)
}

// Ensure inserts a subscriber with default settings when it is not known yet
// and reports whether it did.
func (service *Impl) Ensure(chatID int64, name string) (bool, error) {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	if _, found := service.get(chatID); found {
		return false, nil
	}

	if err := service.insert(entities.NewSubscriber(chatID, name, service.categories)); err != nil {
		return false, err
	}

	return true, nil
}

func (service *Impl) Remove(chatID int64) error {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	if _, found := service.get(chatID); !found {
		return nil
	}

	if err := service.repository.Delete(chatID); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	service.cache.Delete(key(chatID))
	return nil
}

func (service *Impl) UpdateAlertChat(chatID, alertChatID int64) error {
	return service.update(chatID, func() error {
		return service.repository.UpdateAlertChat(chatID, alertChatID)
	}, func(subscriber *entities.Subscriber) {
		subscriber.AlertChatID = alertChatID
	})
}

func (service *Impl) SetDelivered(chatID int64, category constants.NewsCategory, delivered bool) error {
	return service.update(chatID, func() error {
		return service.repository.SaveDelivered(chatID, category, delivered)
	}, func(subscriber *entities.Subscriber) {
		subscriber.Delivered[category] = delivered
	})
}

// SetCategory writes the flag of one category for every cached subscriber.
func (service *Impl) SetCategory(category constants.NewsCategory, delivered bool) error {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	items := service.cache.Items()
	chatIDs := make([]int64, 0, len(items))
	for _, item := range items {
		chatIDs = append(chatIDs, item.Object.(entities.Subscriber).ChatID)
	}

	if err := service.repository.SaveCategory(chatIDs, category, delivered); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	for _, item := range items {
		subscriber := item.Object.(entities.Subscriber).Clone()
		subscriber.Delivered[category] = delivered
		service.cache.Set(key(subscriber.ChatID), subscriber, cache.NoExpiration)
	}

	return nil
}

// All returns a copy of the cached subscribers; later mutations are not
// reflected in it.
func (service *Impl) All() []entities.Subscriber {
	items := service.cache.Items()
	snapshot := make([]entities.Subscriber, 0, len(items))
	for _, item := range items {
		snapshot = append(snapshot, item.Object.(entities.Subscriber).Clone())
	}
	return snapshot
}

func (service *Impl) Count() int {
	return service.cache.ItemCount()
}

func (service *Impl) OnNotify(e observer.Event) {
	switch e.E {
	case observer.SubscriberJoinedEvent:
		added, err := service.Ensure(e.ChatID, e.Name)
		if err != nil {
			log.Error().Err(err).Int64(constants.LogChatID, e.ChatID).Msg("Cannot register subscriber")
			return
		}
		if added {
			log.Info().Int64(constants.LogChatID, e.ChatID).Str(constants.LogChatName, e.Name).Msg("Subscriber registered")
		}
	case observer.SubscriberLeftEvent:
		if err := service.Remove(e.ChatID); err != nil {
			log.Error().Err(err).Int64(constants.LogChatID, e.ChatID).Msg("Cannot unregister subscriber")
			return
		}
		log.Info().Int64(constants.LogChatID, e.ChatID).Msg("Subscriber unregistered")
	}
}

func (service *Impl) insert(subscriber entities.Subscriber) error {
	subscriber = subscriber.Clone()
	subscriber.Normalize(service.categories)

	if err := service.repository.Create(subscriber); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	service.cache.Set(key(subscriber.ChatID), subscriber, cache.NoExpiration)
	return nil
}

// update persists then applies a change to a cached subscriber. Unknown
// subscribers are left alone so a stale caller cannot bring one back.
func (service *Impl) update(chatID int64, persist func() error, apply func(*entities.Subscriber)) error {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	subscriber, found := service.get(chatID)
	if !found {
		return nil
	}

	if err := persist(); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	subscriber = subscriber.Clone()
	apply(&subscriber)
	service.cache.Set(key(chatID), subscriber, cache.NoExpiration)
	return nil
}

func (service *Impl) get(chatID int64) (entities.Subscriber, bool) {
	x, found := service.cache.Get(key(chatID))
	if !found {
		return entities.Subscriber{}, false
	}
	return x.(entities.Subscriber), true
}

func (service *Impl) missingCategories(subscriber entities.Subscriber) []constants.NewsCategory {
	var missing []constants.NewsCategory
	for _, category := range service.categories {
		if _, found := subscriber.Delivered[category]; !found {
			missing = append(missing, category)
		}
	}
	return missing
}

func key(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
