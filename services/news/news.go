package news

import (
	"context"
	"errors"
	"fmt"
	"pso2-news/models/constants"
	"pso2-news/services/crawler"
	"pso2-news/services/detector"
	"pso2-news/services/dispatcher"
	"pso2-news/services/extractor"
	"pso2-news/utils/insights"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func New(scheduler gocron.Scheduler, fetcher crawler.Fetcher, extractor extractor.Extractor,
	detector detector.Service, dispatcher dispatcher.Service, categories []constants.NewsCategory,
	baseURL string, interval, tickTimeout time.Duration, allowOverlap bool) (*Impl, error) {
	service := &Impl{
		fetcher:     fetcher,
		extractor:   extractor,
		detector:    detector,
		dispatcher:  dispatcher,
		categories:  categories,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		tickTimeout: tickTimeout,
	}

	_, errJob := scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { service.Tick(context.Background()) }),
		jobOptions(allowOverlap)...,
	)
	if errJob != nil {
		return nil, errJob
	}

	return service, nil
}

func jobOptions(allowOverlap bool) []gocron.JobOption {
	options := []gocron.JobOption{
		gocron.WithName(jobName),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	}
	if !allowOverlap {
		// a run still in progress makes the next one skip
		options = append(options, gocron.WithSingletonMode(gocron.LimitModeReschedule))
	}
	return options
}

// Tick polls every category once. Categories run concurrently and a failure
// in one of them never reaches the others.
func (service *Impl) Tick(ctx context.Context) {
	tickID := uuid.NewString()
	start := time.Now()
	insights.TicksTotal.Inc()

	if service.tickTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, service.tickTimeout)
		defer cancel()
	}

	var wg sync.WaitGroup
	for _, category := range service.categories {
		wg.Add(1)
		go func(category constants.NewsCategory) {
			defer wg.Done()
			logger := log.With().
				Str(constants.LogTickID, tickID).
				Str(constants.LogCategory, string(category)).
				Logger()

			defer func() {
				if r := recover(); r != nil {
					insights.CrawlFailuresTotal.WithLabelValues(string(category), stepInternal).Inc()
					logger.Error().Interface(constants.LogPanic, r).Msg("Category poll crashed, skipped until next tick")
				}
			}()

			if err := service.poll(ctx, logger, category); err != nil {
				insights.CrawlFailuresTotal.WithLabelValues(string(category), step(err)).Inc()
				logger.Error().Err(err).Str(constants.LogStep, step(err)).Msg("Category poll failed, skipped until next tick")
			}
		}(category)
	}
	wg.Wait()

	elapsed := time.Since(start)
	insights.TickDuration.Observe(elapsed.Seconds())
	log.Debug().Str(constants.LogTickID, tickID).Dur(constants.LogDuration, elapsed).Msg("News poll done")
}

func (service *Impl) poll(ctx context.Context, logger zerolog.Logger, category constants.NewsCategory) error {
	document, err := service.fetcher.Fetch(ctx, service.pageURL(category))
	if err != nil {
		return err
	}

	item, err := service.extractor.Extract(document, category)
	if err != nil {
		return err
	}

	isNew, err := service.detector.Detect(ctx, item)
	if err != nil {
		return err
	}
	if isNew {
		insights.NewItemsTotal.WithLabelValues(string(category)).Inc()
	}

	// runs on every tick so that failed deliveries are retried
	report := service.dispatcher.Dispatch(ctx, item)
	insights.DeliveriesTotal.WithLabelValues(string(category), "delivered").Add(float64(report.Delivered))
	insights.DeliveriesTotal.WithLabelValues(string(category), "failed").Add(float64(report.Failed))

	event := logger.Debug()
	if report.Delivered > 0 || report.Failed > 0 {
		event = logger.Info()
	}
	event.Str(constants.LogExternalID, item.ExternalID).
		Int(constants.LogDeliveredNb, report.Delivered).
		Int(constants.LogFailedNb, report.Failed).
		Int(constants.LogSkippedNb, report.Skipped).
		Msg("Category polled")

	return nil
}

func (service *Impl) pageURL(category constants.NewsCategory) string {
	return fmt.Sprintf("%s/%s?page=1", service.baseURL, category)
}

func step(err error) string {
	switch {
	case errors.Is(err, crawler.ErrFetch):
		return stepFetch
	case errors.Is(err, extractor.ErrExtraction):
		return stepExtract
	case errors.Is(err, detector.ErrStorage):
		return stepDetect
	default:
		return stepInternal
	}
}
