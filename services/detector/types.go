package detector

import (
	"context"
	"errors"
	"pso2-news/models/constants"
	"pso2-news/models/entities"
	"pso2-news/repositories/feedstates"
)

var (
	ErrStorage = errors.New("feed state storage failure")
)

type Service interface {
	Detect(ctx context.Context, item entities.NewsItem) (bool, error)
}

// FlagWriter resets delivery flags of one category for every subscriber.
type FlagWriter interface {
	SetCategory(category constants.NewsCategory, delivered bool) error
}

type Impl struct {
	feedStateRepo          feedstates.Repository
	flags                  FlagWriter
	deliverOnFirstSighting bool
}
