package entities

import "pso2-news/models/constants"

type NewsItem struct {
	Category       constants.NewsCategory
	ExternalID     string
	Title          string
	Description    string
	ImageURL       string
	Tag            string
	PublishedLabel string
	DetailURL      string
}

type Notification struct {
	Category    constants.NewsCategory
	Color       string
	Emoji       string
	Title       string
	URL         string
	Description string
	ImageURL    string
	Footer      string
}
