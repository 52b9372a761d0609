package feedstates

import (
	"pso2-news/models/constants"
	"pso2-news/models/entities"
	"pso2-news/utils/databases"
)

type Repository interface {
	Get(category constants.NewsCategory) (*entities.FeedState, error)
	Upsert(category constants.NewsCategory, externalID string) error
}

type Impl struct {
	db databases.SqlConnection
}
