package dispatcher

import (
	"context"
	"errors"
	"pso2-news/models/constants"
	"pso2-news/models/entities"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscribers struct {
	mutex       sync.Mutex
	subscribers map[int64]entities.Subscriber
	failSave    bool
}

func newFakeSubscribers(subscribers ...entities.Subscriber) *fakeSubscribers {
	fake := &fakeSubscribers{subscribers: make(map[int64]entities.Subscriber)}
	for _, subscriber := range subscribers {
		fake.subscribers[subscriber.ChatID] = subscriber.Clone()
	}
	return fake
}

func (fake *fakeSubscribers) All() []entities.Subscriber {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	var all []entities.Subscriber
	for _, subscriber := range fake.subscribers {
		all = append(all, subscriber.Clone())
	}
	return all
}

func (fake *fakeSubscribers) SetDelivered(chatID int64, category constants.NewsCategory, delivered bool) error {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	if fake.failSave {
		return errors.New("broken storage")
	}
	subscriber := fake.subscribers[chatID].Clone()
	subscriber.Delivered[category] = delivered
	fake.subscribers[chatID] = subscriber
	return nil
}

func (fake *fakeSubscribers) delivered(chatID int64, category constants.NewsCategory) bool {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	return fake.subscribers[chatID].Delivered[category]
}

type fakeDeliverer struct {
	mutex    sync.Mutex
	sent     map[int64][]entities.Notification
	failing  map[int64]bool
	delay    time.Duration
	inFlight int
	maxLoad  int
}

func newFakeDeliverer() *fakeDeliverer {
	return &fakeDeliverer{sent: make(map[int64][]entities.Notification), failing: make(map[int64]bool)}
}

func (fake *fakeDeliverer) Deliver(_ context.Context, chatID int64, notification entities.Notification) error {
	fake.mutex.Lock()
	fake.inFlight++
	if fake.inFlight > fake.maxLoad {
		fake.maxLoad = fake.inFlight
	}
	fake.mutex.Unlock()

	time.Sleep(fake.delay)

	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	fake.inFlight--
	if fake.failing[chatID] {
		return errors.New("forbidden: bot was kicked")
	}
	fake.sent[chatID] = append(fake.sent[chatID], notification)
	return nil
}

func (fake *fakeDeliverer) count(chatID int64) int {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	return len(fake.sent[chatID])
}

func subscriber(chatID, alertChatID int64) entities.Subscriber {
	s := entities.NewSubscriber(chatID, "chat", constants.GetNewsCategories())
	s.AlertChatID = alertChatID
	return s
}

var blogItem = entities.NewsItem{
	Category:       constants.Blogs,
	ExternalID:     "1001",
	Title:          "Alpha",
	Description:    "desc",
	ImageURL:       "https://pso2.com/images/1001.jpg",
	Tag:            "Blog",
	PublishedLabel: "10/14/2026",
	DetailURL:      "https://pso2.com/news/blogs/1001",
}

func TestDispatch_SkipsSubscribersWithoutAlertChat(t *testing.T) {
	subscribers := newFakeSubscribers(subscriber(1, 0), subscriber(2, 20))
	deliverer := newFakeDeliverer()

	report := New(subscribers, deliverer, 4).Dispatch(context.Background(), blogItem)

	assert.Equal(t, Report{Delivered: 1, Skipped: 1}, report)
	assert.Equal(t, 1, deliverer.count(20))
	assert.False(t, subscribers.delivered(1, constants.Blogs))
	assert.True(t, subscribers.delivered(2, constants.Blogs))
}

func TestDispatch_AtMostOnce(t *testing.T) {
	subscribers := newFakeSubscribers(subscriber(1, 10), subscriber(2, 20))
	deliverer := newFakeDeliverer()
	service := New(subscribers, deliverer, 4)

	first := service.Dispatch(context.Background(), blogItem)
	second := service.Dispatch(context.Background(), blogItem)

	assert.Equal(t, 2, first.Delivered)
	assert.Equal(t, Report{Skipped: 2}, second)
	assert.Equal(t, 1, deliverer.count(10))
	assert.Equal(t, 1, deliverer.count(20))
}

func TestDispatch_RetryOnFailure(t *testing.T) {
	subscribers := newFakeSubscribers(subscriber(1, 10), subscriber(2, 20))
	deliverer := newFakeDeliverer()
	deliverer.failing[20] = true
	service := New(subscribers, deliverer, 4)

	report := service.Dispatch(context.Background(), blogItem)
	assert.Equal(t, Report{Delivered: 1, Failed: 1}, report)
	assert.True(t, subscribers.delivered(1, constants.Blogs), "a failing subscriber does not block the others")
	assert.False(t, subscribers.delivered(2, constants.Blogs))

	deliverer.mutex.Lock()
	deliverer.failing[20] = false
	deliverer.mutex.Unlock()

	report = service.Dispatch(context.Background(), blogItem)
	assert.Equal(t, Report{Delivered: 1, Skipped: 1}, report)
	assert.True(t, subscribers.delivered(2, constants.Blogs))
	assert.Equal(t, 1, deliverer.count(10))
	assert.Equal(t, 1, deliverer.count(20))
}

func TestDispatch_UnrecordedDeliveryIsFailure(t *testing.T) {
	subscribers := newFakeSubscribers(subscriber(1, 10))
	subscribers.failSave = true

	report := New(subscribers, newFakeDeliverer(), 4).Dispatch(context.Background(), blogItem)

	assert.Equal(t, Report{Failed: 1}, report)
	assert.False(t, subscribers.delivered(1, constants.Blogs))
}

func TestDispatch_OnlyTouchesItemCategory(t *testing.T) {
	subscribers := newFakeSubscribers(subscriber(1, 10))

	New(subscribers, newFakeDeliverer(), 4).Dispatch(context.Background(), blogItem)

	assert.True(t, subscribers.delivered(1, constants.Blogs))
	for _, category := range []constants.NewsCategory{constants.Announcements, constants.ServerInfo, constants.UrgentQuests} {
		assert.False(t, subscribers.delivered(1, category))
	}
}

func TestDispatch_BoundedConcurrency(t *testing.T) {
	var all []entities.Subscriber
	for i := int64(1); i <= 12; i++ {
		all = append(all, subscriber(i, i*10))
	}
	subscribers := newFakeSubscribers(all...)
	deliverer := newFakeDeliverer()
	deliverer.delay = 20 * time.Millisecond

	report := New(subscribers, deliverer, 3).Dispatch(context.Background(), blogItem)

	assert.Equal(t, 12, report.Delivered)
	assert.LessOrEqual(t, deliverer.maxLoad, 3)
	assert.Greater(t, deliverer.maxLoad, 1)
}

func TestNewNotification(t *testing.T) {
	notification := NewNotification(blogItem)

	assert.Equal(t, constants.Blogs, notification.Category)
	assert.Equal(t, "#FCA400", notification.Color)
	assert.Equal(t, "Alpha", notification.Title)
	assert.Equal(t, "https://pso2.com/news/blogs/1001", notification.URL)
	assert.Equal(t, "https://pso2.com/images/1001.jpg", notification.ImageURL)
	assert.Equal(t, "Blog | 10/14/2026", notification.Footer)
}

func TestNewNotification_PartialFooter(t *testing.T) {
	item := blogItem
	item.Tag = ""
	require.Equal(t, "10/14/2026", NewNotification(item).Footer)

	item.PublishedLabel = ""
	require.Empty(t, NewNotification(item).Footer)
}
