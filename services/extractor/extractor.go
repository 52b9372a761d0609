package extractor

import (
	"bytes"
	"fmt"
	"net/url"
	"pso2-news/models/constants"
	"pso2-news/models/entities"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

func New(baseURL string) (*Impl, error) {
	base, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid news base URL: %w", err)
	}

	return &Impl{baseURL: base}, nil
}

// Extract reads the most recent item of a news page. Character references
// are decoded by the HTML parser.
func (service *Impl) Extract(document []byte, category constants.NewsCategory) (entities.NewsItem, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(document))
	if err != nil {
		return entities.NewsItem{}, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	container := doc.Find(containerSelector).First()
	if container.Length() == 0 {
		return entities.NewsItem{}, fmt.Errorf("%w: %s not found", ErrExtraction, containerSelector)
	}

	item := container.Find(itemSelector).First()
	if item.Length() == 0 {
		return entities.NewsItem{}, fmt.Errorf("%w: %s not found", ErrExtraction, itemSelector)
	}

	title := text(item, titleSelector)
	if title == "" {
		return entities.NewsItem{}, fmt.Errorf("%w: empty %s", ErrExtraction, titleSelector)
	}

	image := item.Find(imageSelector).First()
	if image.Length() == 0 {
		return entities.NewsItem{}, fmt.Errorf("%w: %s not found", ErrExtraction, imageSelector)
	}

	inline := inlineText(image)
	externalID := firstMatch(externalIDPattern.FindStringSubmatch(inline))
	if externalID == "" {
		return entities.NewsItem{}, fmt.Errorf("%w: no external identifier in %s", ErrExtraction, imageSelector)
	}

	return entities.NewsItem{
		Category:       category,
		ExternalID:     externalID,
		Title:          title,
		Description:    text(item, descriptionSelector),
		ImageURL:       service.resolve(firstMatch(imageURLPattern.FindStringSubmatch(inline))),
		Tag:            text(item, tagSelector),
		PublishedLabel: text(item, dateSelector),
		DetailURL:      service.DetailURL(category, externalID),
	}, nil
}

func (service *Impl) DetailURL(category constants.NewsCategory, externalID string) string {
	return service.baseURL.JoinPath(string(category), externalID).String()
}

func (service *Impl) resolve(raw string) string {
	if raw == "" {
		return ""
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return service.baseURL.ResolveReference(ref).String()
}

func text(item *goquery.Selection, selector string) string {
	return strings.TrimSpace(item.Find(selector).First().Text())
}

// inlineText gathers the attribute values and scripts of a node and its
// descendants, where the item identifier and picture are embedded.
func inlineText(selection *goquery.Selection) string {
	var builder strings.Builder
	selection.AddSelection(selection.Find("*")).Each(func(_ int, node *goquery.Selection) {
		for _, name := range scannedAttributes {
			if value, found := node.Attr(name); found {
				builder.WriteString(value)
				builder.WriteByte('\n')
			}
		}
		if goquery.NodeName(node) == "script" {
			builder.WriteString(node.Text())
			builder.WriteByte('\n')
		}
	})
	return builder.String()
}

func firstMatch(matches []string) string {
	if len(matches) < 2 {
		return ""
	}
	return strings.TrimSpace(matches[1])
}
