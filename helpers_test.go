package youtube

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const testBaseURL = "http://yt.test"

func videoItem(videoID string, channelID string) string {
	return fmt.Sprintf(`{"videoRenderer":{"videoId":%q,"title":{"runs":[{"text":"Video %s"}]},`+
		`"navigationEndpoint":{"commandMetadata":{"webCommandMetadata":{"url":"/watch?v=%s"}}},`+
		`"ownerText":{"runs":[{"text":"Owner %s","navigationEndpoint":{"commandMetadata":{"webCommandMetadata":{"url":"/@%s"}},"browseEndpoint":{"browseId":%q}}}]},`+
		`"lengthText":{"accessibility":{"accessibilityData":{"label":"3 minutes, 2 seconds"}},"simpleText":"3:02"},`+
		`"publishedTimeText":{"simpleText":"2 days ago"},`+
		`"viewCountText":{"simpleText":"1,234 views"},`+
		`"shortViewCountText":{"accessibility":{"accessibilityData":{"label":"1.2K views"}},"simpleText":"1.2K views"},`+
		`"thumbnail":{"thumbnails":[{"url":"https://i.ytimg.test/%s.jpg","width":360,"height":202}]}}}`,
		videoID, videoID, videoID, channelID, channelID, channelID, videoID)
}

func channelItem(channelID string) string {
	return fmt.Sprintf(`{"channelRenderer":{"channelId":%q,"title":{"simpleText":"Channel %s"},`+
		`"navigationEndpoint":{"browseEndpoint":{"browseId":%q,"canonicalBaseUrl":"/@%s"}},`+
		`"subscriberCountText":{"accessibility":{"accessibilityData":{"label":"12.3K subscribers"}},"simpleText":"12.3K subscribers"},`+
		`"thumbnail":{"thumbnails":[{"url":"//yt3.test/%s.jpg","width":88,"height":88}]},`+
		`"ownerBadges":[{"metadataBadgeRenderer":{"icon":{"iconType":"CHECK_CIRCLE_THICK"},"tooltip":"Verified"}},{"metadataBadgeRenderer":{"style":"BADGE_STYLE_TYPE_SIMPLE"}}]}}`,
		channelID, channelID, channelID, channelID, channelID)
}

func playlistItem(playlistID string) string {
	return fmt.Sprintf(`{"playlistRenderer":{"playlistId":%q,"title":{"simpleText":"Playlist %s"},"videoCount":"12",`+
		`"navigationEndpoint":{"commandMetadata":{"webCommandMetadata":{"url":"/watch?v=abc&list=%s"}}},`+
		`"thumbnailRenderer":{"playlistVideoThumbnailRenderer":{"thumbnail":{"thumbnails":[{"url":"https://i.ytimg.test/p.jpg","width":480,"height":270}]}}}}}`,
		playlistID, playlistID, playlistID)
}

// resultsPage renders a results document embedding items, with a
// continuation command only when token is not empty.
func resultsPage(token string, items ...string) []byte {
	continuation := `{"continuationItemRenderer":{"trigger":"CONTINUATION_TRIGGER_ON_ITEM_SHOWN"}}`
	if token != "" {
		continuation = fmt.Sprintf(`{"continuationItemRenderer":{"continuationEndpoint":{"continuationCommand":{"token":%q,"request":"CONTINUATION_REQUEST_TYPE_SEARCH"}}}}`, token)
	}

	return []byte(`<!DOCTYPE html><html><head><title>YouTube</title></head><body><script>var ytInitialData = ` +
		`{"contents":{"twoColumnSearchResultsRenderer":{"primaryContents":{"sectionListRenderer":{"contents":[{"itemSectionRenderer":` +
		`{"contents":[` + strings.Join(items, ",") + `]}},` + continuation + `]}}}};</script></body></html>`)
}

//////////////////////////////////////////////////

type fetchCall struct {
	URL    string
	Header http.Header
}

type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]*Page
	errs  map[string]error
	calls []fetchCall
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages: make(map[string]*Page),
		errs:  make(map[string]error),
	}
}

func (f *fakeFetcher) serve(rawURL string, body []byte) *Page {
	f.mu.Lock()
	defer f.mu.Unlock()

	page := &Page{URL: rawURL, StatusCode: 200, Header: http.Header{}, Body: body}
	f.pages[rawURL] = page

	return page
}

func (f *fakeFetcher) FetchPage(ctx context.Context, rawURL string, header http.Header, session *Session) (*Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, fetchCall{URL: rawURL, Header: header.Clone()})

	if err := f.errs[rawURL]; err != nil {
		return nil, err
	}
	if page, ok := f.pages[rawURL]; ok {
		return page, nil
	}

	return &Page{URL: rawURL, StatusCode: 404, Header: http.Header{}}, nil
}

func (f *fakeFetcher) Calls() []fetchCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]fetchCall(nil), f.calls...)
}

func testSettings() CrawlerSettings {
	settings := DefaultSettings
	settings.BaseURL = testBaseURL
	settings.PageDelay = 0

	return settings
}

func newTestCrawler(t *testing.T, f PageFetcher, opts ...ConfigOption) *Crawler {
	t.Helper()

	opts = append([]ConfigOption{WithFetcher(f), WithSettings(testSettings())}, opts...)
	cr, err := NewCrawler(opts...)
	require.NoError(t, err)

	return cr
}
