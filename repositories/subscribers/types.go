package subscribers

import (
	"pso2-news/models/constants"
	"pso2-news/models/entities"
	"pso2-news/utils/databases"
)

type Repository interface {
	FetchAll() ([]entities.Subscriber, error)
	Create(subscriber entities.Subscriber) error
	Delete(chatID int64) error
	UpdateAlertChat(chatID, alertChatID int64) error
	SaveDelivered(chatID int64, category constants.NewsCategory, delivered bool) error
	SaveCategory(chatIDs []int64, category constants.NewsCategory, delivered bool) error
}

type Impl struct {
	db databases.SqlConnection
}
