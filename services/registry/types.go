package registry

import (
	"errors"
	"pso2-news/models/constants"
	"pso2-news/models/entities"
	"pso2-news/pkg/observer"
	"pso2-news/repositories/subscribers"
	"sync"

	"github.com/patrickmn/go-cache"
)

var (
	ErrStorage = errors.New("subscriber storage failure")
)

type Service interface {
	observer.Observer
	LoadAll() error
	Get(chatID int64) (entities.Subscriber, bool)
	Insert(subscriber entities.Subscriber) error
	Ensure(chatID int64, name string) (bool, error)
	Remove(chatID int64) error
	UpdateAlertChat(chatID, alertChatID int64) error
	SetDelivered(chatID int64, category constants.NewsCategory, delivered bool) error
	SetCategory(category constants.NewsCategory, delivered bool) error
	All() []entities.Subscriber
	Count() int
}

type Impl struct {
	repository subscribers.Repository
	categories []constants.NewsCategory
	cache      *cache.Cache
	// mutations read, persist then write back one cached record
	mutex sync.Mutex
}
