package constants

import (
	"fmt"
	"strings"
)

type NewsCategory string

const (
	Announcements NewsCategory = "announcements"
	ServerInfo    NewsCategory = "server-info"
	UrgentQuests  NewsCategory = "urgent-quests"
	Blogs         NewsCategory = "blogs"

	defaultAccentColor = "#FFFFFF"
	defaultAccentEmoji = "⚪"
)

type NewsCategoryStyle struct {
	Color string
	Emoji string
	Label string
}

var newsCategoryStyles = map[NewsCategory]NewsCategoryStyle{
	Announcements: {Color: "#0099E0", Emoji: "🔵", Label: "Announcements"},
	ServerInfo:    {Color: "#00D42E", Emoji: "🟢", Label: "Server Info"},
	UrgentQuests:  {Color: "#E00000", Emoji: "🔴", Label: "Urgent Quests"},
	Blogs:         {Color: "#FCA400", Emoji: "🟠", Label: "Blogs"},
}

func GetNewsCategories() []NewsCategory {
	return []NewsCategory{Announcements, ServerInfo, UrgentQuests, Blogs}
}

func (c NewsCategory) IsKnown() bool {
	_, found := newsCategoryStyles[c]
	return found
}

func (c NewsCategory) Style() NewsCategoryStyle {
	if style, found := newsCategoryStyles[c]; found {
		return style
	}

	return NewsCategoryStyle{Color: defaultAccentColor, Emoji: defaultAccentEmoji, Label: string(c)}
}

// ParseNewsCategories reads a comma separated list, rejecting unknown or
// duplicated categories.
func ParseNewsCategories(value string) ([]NewsCategory, error) {
	var categories []NewsCategory
	seen := make(map[NewsCategory]struct{})
	for _, raw := range strings.Split(value, ",") {
		category := NewsCategory(strings.ToLower(strings.TrimSpace(raw)))
		if category == "" {
			continue
		}
		if !category.IsKnown() {
			return nil, fmt.Errorf("unknown news category %q", category)
		}
		if _, found := seen[category]; found {
			return nil, fmt.Errorf("news category %q listed twice", category)
		}
		seen[category] = struct{}{}
		categories = append(categories, category)
	}

	if len(categories) == 0 {
		return nil, fmt.Errorf("no news category configured")
	}

	return categories, nil
}

func JoinNewsCategories(categories []NewsCategory) string {
	values := make([]string, 0, len(categories))
	for _, category := range categories {
		values = append(values, string(category))
	}
	return strings.Join(values, ",")
}
