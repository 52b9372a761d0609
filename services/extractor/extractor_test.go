package extractor

import (
	"pso2-news/models/constants"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const newsPage = `<!DOCTYPE html>
<html>
<body>
<div class="featured"><div class="news-item"><h2 class="title">Featured, not listed</h2></div></div>
<div class="all-news-section-wrapper">
	<ul class="all-news">
		<li class="news-item all">
			<a class="image" onclick="ShowDetails('1001', 'blogs')" style="background-image: url(https://pso2.com/images/1001.jpg)"></a>
			<div class="content">
				<p class="tag"> Blog </p>
				<h3 class="title">
					&#x41;lpha &amp; Omega
				</h3>
				<p class="description">  The ARKS&#x27; newest report.  </p>
				<p class="date">10/14/2026</p>
			</div>
		</li>
		<li class="news-item all">
			<a class="image" onclick="ShowDetails('1000', 'blogs')" style="background-image: url(https://pso2.com/images/1000.jpg)"></a>
			<div class="content"><h3 class="title">Older</h3></div>
		</li>
	</ul>
</div>
</body>
</html>`

func newTestExtractor(t *testing.T) *Impl {
	t.Helper()
	service, err := New("https://pso2.com/news/")
	require.NoError(t, err)
	return service
}

func TestExtract(t *testing.T) {
	item, err := newTestExtractor(t).Extract([]byte(newsPage), constants.Blogs)
	require.NoError(t, err)

	assert.Equal(t, constants.Blogs, item.Category)
	assert.Equal(t, "1001", item.ExternalID)
	assert.Equal(t, "Alpha & Omega", item.Title)
	assert.Equal(t, "The ARKS' newest report.", item.Description)
	assert.Equal(t, "https://pso2.com/images/1001.jpg", item.ImageURL)
	assert.Equal(t, "Blog", item.Tag)
	assert.Equal(t, "10/14/2026", item.PublishedLabel)
	assert.Equal(t, "https://pso2.com/news/blogs/1001", item.DetailURL)
}

func TestExtract_DecodesCharacterReferences(t *testing.T) {
	page := `<div class="all-news-section-wrapper"><div class="news-item">
		<div class="image" onclick="ShowDetails('7', 'announcements')"></div>
		<span class="title">&#x41;lpha</span>
		<span class="description">&#66;eta &#x43;</span>
	</div></div>`

	item, err := newTestExtractor(t).Extract([]byte(page), constants.Announcements)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", item.Title)
	assert.Equal(t, "Beta C", item.Description)
	assert.Empty(t, item.ImageURL)
	assert.Empty(t, item.Tag)
}

func TestExtract_InlineVariants(t *testing.T) {
	page := `<div class="all-news-section-wrapper"><div class="news-item">
		<div class="image"><a href="javascript:ShowDetails(&quot;abc-42&quot;, 'urgent-quests')"><span style="background: url('/img/uq.png')"></span></a></div>
		<span class="title">Urgent</span>
	</div></div>`

	item, err := newTestExtractor(t).Extract([]byte(page), constants.UrgentQuests)
	require.NoError(t, err)
	assert.Equal(t, "abc-42", item.ExternalID)
	assert.Equal(t, "https://pso2.com/img/uq.png", item.ImageURL)
	assert.Equal(t, "https://pso2.com/news/urgent-quests/abc-42", item.DetailURL)
}

func TestExtract_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		document string
	}{
		{
			name:     "error page",
			document: `<html><body><h1>502 Bad Gateway</h1></body></html>`,
		},
		{
			name:     "empty body",
			document: ``,
		},
		{
			name:     "no item",
			document: `<div class="all-news-section-wrapper"><p>Nothing yet</p></div>`,
		},
		{
			name:     "no title",
			document: `<div class="all-news-section-wrapper"><div class="news-item"><div class="image" onclick="ShowDetails('1', 'blogs')"></div></div></div>`,
		},
		{
			name:     "no image",
			document: `<div class="all-news-section-wrapper"><div class="news-item"><p class="title">T</p></div></div>`,
		},
		{
			name:     "no identifier",
			document: `<div class="all-news-section-wrapper"><div class="news-item"><p class="title">T</p><div class="image" onclick="Open()"></div></div></div>`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newTestExtractor(t).Extract([]byte(tc.document), constants.Blogs)
			require.ErrorIs(t, err, ErrExtraction)
		})
	}
}
