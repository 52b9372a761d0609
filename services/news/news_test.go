package news

import (
	"context"
	"fmt"
	"path/filepath"
	"pso2-news/models/constants"
	"pso2-news/models/entities"
	"pso2-news/repositories/feedstates"
	"pso2-news/repositories/subscribers"
	"pso2-news/services/crawler"
	"pso2-news/services/detector"
	"pso2-news/services/dispatcher"
	"pso2-news/services/extractor"
	"pso2-news/services/registry"
	"pso2-news/utils/databases"
	"sync"
	"testing"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseURL = "https://pso2.com/news"

func page(externalID, title string) []byte {
	return []byte(fmt.Sprintf(`<div class="all-news-section-wrapper"><ul>
		<li class="news-item">
			<a class="image" onclick="ShowDetails('%s')" style="background-image: url('/images/%s.jpg')"></a>
			<p class="tag">Blog</p><h3 class="title">%s</h3><p class="date">10/14/2026</p>
		</li>
	</ul></div>`, externalID, externalID, title))
}

type fakeFetcher struct {
	mutex   sync.Mutex
	pages   map[string][]byte
	panics  map[string]bool
	fetched []string
}

func (fake *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	fake.fetched = append(fake.fetched, url)
	if fake.panics[url] {
		panic("unexpected markup")
	}
	body, ok := fake.pages[url]
	if !ok {
		return nil, fmt.Errorf("%w: unexpected status code 503", crawler.ErrFetch)
	}
	return body, nil
}

func (fake *fakeFetcher) set(category constants.NewsCategory, body []byte) {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	fake.pages[fmt.Sprintf("%s/%s?page=1", baseURL, category)] = body
}

type fakeDeliverer struct {
	mutex sync.Mutex
	sent  []entities.Notification
}

func (fake *fakeDeliverer) Deliver(_ context.Context, chatID int64, notification entities.Notification) error {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	fake.sent = append(fake.sent, notification)
	return nil
}

func (fake *fakeDeliverer) notifications() []entities.Notification {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	return append([]entities.Notification(nil), fake.sent...)
}

type fixture struct {
	service   *Impl
	fetcher   *fakeFetcher
	deliverer *fakeDeliverer
	registry  *registry.Impl
	states    *feedstates.Impl
}

func newFixture(t *testing.T, categories ...constants.NewsCategory) fixture {
	t.Helper()
	db := databases.NewSqlite(filepath.Join(t.TempDir(), "news.db"))
	require.NoError(t, db.Run())
	t.Cleanup(db.Shutdown)
	require.NoError(t, db.GetDB().AutoMigrate(&entities.FeedState{}, &entities.Subscriber{}, &entities.Delivery{}))

	reg := registry.New(subscribers.New(db), constants.GetNewsCategories())
	require.NoError(t, reg.LoadAll())
	_, err := reg.Ensure(1, "with target")
	require.NoError(t, err)
	require.NoError(t, reg.UpdateAlertChat(1, 10))
	_, err = reg.Ensure(2, "without target")
	require.NoError(t, err)

	states := feedstates.New(db)
	ext, err := extractor.New(baseURL)
	require.NoError(t, err)

	scheduler, err := gocron.NewScheduler()
	require.NoError(t, err)
	t.Cleanup(func() { _ = scheduler.Shutdown() })

	fetcher := &fakeFetcher{pages: make(map[string][]byte), panics: make(map[string]bool)}
	deliverer := &fakeDeliverer{}
	service, err := New(scheduler, fetcher, ext, detector.New(states, reg, true),
		dispatcher.New(reg, deliverer, 2), categories, baseURL+"/", time.Hour, time.Minute, false)
	require.NoError(t, err)

	return fixture{service: service, fetcher: fetcher, deliverer: deliverer, registry: reg, states: states}
}

func TestTick_FirstCrawlDeliversOnce(t *testing.T) {
	f := newFixture(t, constants.Blogs)
	f.fetcher.set(constants.Blogs, page("1001", "Alpha"))

	f.service.Tick(context.Background())

	sent := f.deliverer.notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, "Alpha", sent[0].Title)
	assert.Equal(t, "https://pso2.com/news/blogs/1001", sent[0].URL)
	assert.Equal(t, "https://pso2.com/images/1001.jpg", sent[0].ImageURL)

	state, err := f.states.Get(constants.Blogs)
	require.NoError(t, err)
	assert.Equal(t, "1001", state.LastSeenID)

	withTarget, _ := f.registry.Get(1)
	assert.True(t, withTarget.Delivered[constants.Blogs])
	withoutTarget, _ := f.registry.Get(2)
	assert.False(t, withoutTarget.Delivered[constants.Blogs])

	f.service.Tick(context.Background())
	assert.Len(t, f.deliverer.notifications(), 1, "an unchanged item is never relayed twice")
}

func TestTick_NewItemIsRelayed(t *testing.T) {
	f := newFixture(t, constants.Blogs)
	f.fetcher.set(constants.Blogs, page("1001", "Alpha"))
	f.service.Tick(context.Background())

	f.fetcher.set(constants.Blogs, page("1002", "Beta"))
	f.service.Tick(context.Background())

	sent := f.deliverer.notifications()
	require.Len(t, sent, 2)
	assert.Equal(t, "Beta", sent[1].Title)
}

func TestTick_CategoriesAreIsolated(t *testing.T) {
	f := newFixture(t, constants.Announcements, constants.ServerInfo, constants.Blogs)
	f.fetcher.set(constants.Blogs, page("1001", "Alpha"))
	f.fetcher.set(constants.ServerInfo, []byte("<html><body>maintenance</body></html>"))
	f.fetcher.mutex.Lock()
	f.fetcher.panics[baseURL+"/announcements?page=1"] = true
	f.fetcher.mutex.Unlock()

	f.service.Tick(context.Background())

	sent := f.deliverer.notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, constants.Blogs, sent[0].Category)
	assert.Len(t, f.fetcher.fetched, 3)

	for _, category := range []constants.NewsCategory{constants.Announcements, constants.ServerInfo} {
		state, err := f.states.Get(category)
		require.NoError(t, err)
		assert.Nil(t, state)
	}
}

func TestNew_RegistersJob(t *testing.T) {
	scheduler, err := gocron.NewScheduler()
	require.NoError(t, err)
	defer func() { _ = scheduler.Shutdown() }()

	_, err = New(scheduler, &fakeFetcher{}, nil, nil, nil, nil, baseURL, time.Minute, time.Minute, true)
	require.NoError(t, err)

	jobs := scheduler.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, jobName, jobs[0].Name())
}

func TestJobOptions_OverlapGate(t *testing.T) {
	assert.Len(t, jobOptions(true), 2)
	assert.Len(t, jobOptions(false), 3, "singleton mode is added when overlap is not allowed")
}

func TestStep(t *testing.T) {
	assert.Equal(t, stepFetch, step(fmt.Errorf("%w: timeout", crawler.ErrFetch)))
	assert.Equal(t, stepExtract, step(fmt.Errorf("%w: no item", extractor.ErrExtraction)))
	assert.Equal(t, stepDetect, step(fmt.Errorf("%w: locked", detector.ErrStorage)))
	assert.Equal(t, stepInternal, step(assert.AnError))
}
