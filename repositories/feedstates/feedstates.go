package feedstates

import (
	"errors"
	"fmt"
	"pso2-news/models/constants"
	"pso2-news/models/entities"
	"pso2-news/utils/databases"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func New(db databases.SqlConnection) *Impl {
	return &Impl{db: db}
}

// Get returns nil without error when the category has never been crawled.
func (repo *Impl) Get(category constants.NewsCategory) (*entities.FeedState, error) {
	var state entities.FeedState
	result := repo.db.GetDB().Where("category = ?", string(category)).First(&state)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read feed state: %w", result.Error)
	}

	return &state, nil
}

func (repo *Impl) Upsert(category constants.NewsCategory, externalID string) error {
	state := entities.FeedState{
		Category:   string(category),
		LastSeenID: externalID,
		UpdatedAt:  time.Now().UTC(),
	}

	err := repo.db.GetDB().
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_seen_id", "updated_at"}),
		}).
		Create(&state).
		Error
	if err != nil {
		return fmt.Errorf("failed to save feed state: %w", err)
	}

	return nil
}
