package news

import (
	"context"
	"pso2-news/models/constants"
	"pso2-news/services/crawler"
	"pso2-news/services/detector"
	"pso2-news/services/dispatcher"
	"pso2-news/services/extractor"
	"time"
)

const (
	jobName = "Poll news"

	stepFetch    = "fetch"
	stepExtract  = "extract"
	stepDetect   = "detect"
	stepInternal = "internal"
)

type Service interface {
	Tick(ctx context.Context)
}

type Impl struct {
	fetcher     crawler.Fetcher
	extractor   extractor.Extractor
	detector    detector.Service
	dispatcher  dispatcher.Service
	categories  []constants.NewsCategory
	baseURL     string
	tickTimeout time.Duration
}
