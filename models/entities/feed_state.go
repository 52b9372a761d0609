package entities

import "time"

type FeedState struct {
	Category   string `gorm:"primaryKey"`
	LastSeenID string `gorm:"not null"`
	UpdatedAt  time.Time
}
