package entities

import "pso2-news/models/constants"

// DeliveredFlags tells, per category, whether the current item of the
// category has been relayed to a subscriber.
type DeliveredFlags map[constants.NewsCategory]bool

type Subscriber struct {
	ChatID      int64 `gorm:"primaryKey;autoIncrement:false"`
	Name        string
	AlertChatID int64
	Deliveries  []Delivery     `gorm:"foreignKey:ChatID;references:ChatID"`
	Delivered   DeliveredFlags `gorm:"-"`
}

type Delivery struct {
	ChatID    int64  `gorm:"primaryKey;autoIncrement:false"`
	Category  string `gorm:"primaryKey"`
	Delivered bool   `gorm:"not null"`
}

func NewSubscriber(chatID int64, name string, categories []constants.NewsCategory) Subscriber {
	subscriber := Subscriber{ChatID: chatID, Name: name}
	subscriber.Normalize(categories)
	return subscriber
}

func (s Subscriber) HasAlertChat() bool {
	return s.AlertChatID != 0
}

// Normalize gives the subscriber exactly one flag per category, missing ones
// being false.
func (s *Subscriber) Normalize(categories []constants.NewsCategory) {
	flags := make(DeliveredFlags, len(categories))
	for _, category := range categories {
		flags[category] = s.Delivered[category]
	}
	s.Delivered = flags
}

// Clone returns a copy sharing nothing with s.
func (s Subscriber) Clone() Subscriber {
	clone := Subscriber{ChatID: s.ChatID, Name: s.Name, AlertChatID: s.AlertChatID}
	clone.Delivered = make(DeliveredFlags, len(s.Delivered))
	for category, delivered := range s.Delivered {
		clone.Delivered[category] = delivered
	}
	return clone
}
