package subscribers

import (
	"fmt"
	"pso2-news/models/constants"
	"pso2-news/models/entities"
	"pso2-news/utils/databases"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func New(db databases.SqlConnection) *Impl {
	return &Impl{db: db}
}

// FetchAll returns every subscriber with its flags rebuilt from the
// deliveries table.
func (repo *Impl) FetchAll() ([]entities.Subscriber, error) {
	var subscribers []entities.Subscriber
	result := repo.db.GetDB().Preload("Deliveries").Find(&subscribers)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to fetch subscribers: %w", result.Error)
	}

	for i := range subscribers {
		subscribers[i].Delivered = make(entities.DeliveredFlags, len(subscribers[i].Deliveries))
		for _, delivery := range subscribers[i].Deliveries {
			subscribers[i].Delivered[constants.NewsCategory(delivery.Category)] = delivery.Delivered
		}
		subscribers[i].Deliveries = nil
	}

	return subscribers, nil
}

func (repo *Impl) Create(subscriber entities.Subscriber) error {
	deliveries := toDeliveries(subscriber.ChatID, subscriber.Delivered)
	subscriber.Deliveries = nil

	err := repo.db.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&subscriber).Error; err != nil {
			return err
		}
		if len(deliveries) == 0 {
			return nil
		}
		return tx.Create(&deliveries).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create subscriber: %w", err)
	}

	return nil
}

func (repo *Impl) Delete(chatID int64) error {
	err := repo.db.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", chatID).Delete(&entities.Delivery{}).Error; err != nil {
			return err
		}
		return tx.Where("chat_id = ?", chatID).Delete(&entities.Subscriber{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete subscriber: %w", err)
	}

	return nil
}

func (repo *Impl) UpdateAlertChat(chatID, alertChatID int64) error {
	err := repo.db.GetDB().
		Model(&entities.Subscriber{}).
		Where("chat_id = ?", chatID).
		Update("alert_chat_id", alertChatID).
		Error
	if err != nil {
		return fmt.Errorf("failed to update alert chat: %w", err)
	}

	return nil
}

func (repo *Impl) SaveDelivered(chatID int64, category constants.NewsCategory, delivered bool) error {
	delivery := entities.Delivery{ChatID: chatID, Category: string(category), Delivered: delivered}
	if err := upsertDeliveries(repo.db.GetDB(), []entities.Delivery{delivery}); err != nil {
		return fmt.Errorf("failed to save delivery: %w", err)
	}

	return nil
}

// SaveCategory writes the same flag for every given subscriber, creating
// missing rows.
func (repo *Impl) SaveCategory(chatIDs []int64, category constants.NewsCategory, delivered bool) error {
	if len(chatIDs) == 0 {
		return nil
	}

	deliveries := make([]entities.Delivery, 0, len(chatIDs))
	for _, chatID := range chatIDs {
		deliveries = append(deliveries, entities.Delivery{ChatID: chatID, Category: string(category), Delivered: delivered})
	}

	if err := upsertDeliveries(repo.db.GetDB(), deliveries); err != nil {
		return fmt.Errorf("failed to save deliveries: %w", err)
	}

	return nil
}

func upsertDeliveries(db *gorm.DB, deliveries []entities.Delivery) error {
	return db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chat_id"}, {Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"delivered"}),
		}).
		Create(&deliveries).
		Error
}

func toDeliveries(chatID int64, flags entities.DeliveredFlags) []entities.Delivery {
	deliveries := make([]entities.Delivery, 0, len(flags))
	for category, delivered := range flags {
		deliveries = append(deliveries, entities.Delivery{ChatID: chatID, Category: string(category), Delivered: delivered})
	}
	return deliveries
}
