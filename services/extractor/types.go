package extractor

import (
	"errors"
	"net/url"
	"pso2-news/models/constants"
	"pso2-news/models/entities"
	"regexp"
)

const (
	containerSelector   = ".all-news-section-wrapper"
	itemSelector        = ".news-item"
	titleSelector       = ".title"
	descriptionSelector = ".description"
	tagSelector         = ".tag"
	dateSelector        = ".date"
	imageSelector       = ".image"
)

var (
	ErrExtraction = errors.New("news markup not understood")

	externalIDPattern = regexp.MustCompile(`ShowDetails\(\s*['"]([^'"]+)['"]`)
	imageURLPattern   = regexp.MustCompile(`url\(\s*['"]?([^'")]+?)['"]?\s*\)`)

	// attributes of the image node holding the inline call and style
	scannedAttributes = []string{"onclick", "href", "style", "data-src", "data-bg"}
)

type Extractor interface {
	Extract(document []byte, category constants.NewsCategory) (entities.NewsItem, error)
}

type Impl struct {
	baseURL *url.URL
}
