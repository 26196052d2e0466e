package youtube

import (
	"strconv"

	"github.com/rubpy/crawly-search-youtube/internal/jpath"
	"github.com/rubpy/crawly-search-youtube/pageapi"
)

//////////////////////////////////////////////////

// recordMapper turns renderer items into records. URLs found in renderers
// are site-relative and get prefixed with base. A record whose renderer
// has no URL but a well-formed ID gets the canonical URL for that ID.
type recordMapper struct {
	base string
}

func (m recordMapper) absURL(path string) string {
	if path == "" {
		return ""
	}

	return m.base + path
}

// Returns absURL(path), or fallback(id) when path is absent and id is valid.
func (m recordMapper) recordURL(path string, id string, valid func(string) bool, fallback func(string) string) string {
	if path != "" {
		return m.absURL(path)
	}
	if id == "" || !valid(id) {
		return ""
	}

	return fallback(id)
}

// appendItems maps every known renderer of items into result. Unknown
// items are skipped.
func (m recordMapper) appendItems(result *SearchResult, items []RendererItem) {
	for _, item := range items {
		if x, ok := item["videoRenderer"].(map[string]any); ok {
			result.Videos = append(result.Videos, m.video(x))
		}
		if x, ok := item["channelRenderer"].(map[string]any); ok {
			result.Channels = append(result.Channels, m.channel(x))
		}
		if x, ok := item["playlistRenderer"].(map[string]any); ok {
			result.Playlists = append(result.Playlists, m.playlist(x))
		}
	}
}

func (m recordMapper) video(x map[string]any) Video {
	owner := jpath.Get(x, "ownerText", "runs", 0)
	id := jpath.String(x, "videoId")
	path := jpath.String(x, "navigationEndpoint", "commandMetadata", "webCommandMetadata", "url")
	urls := URLBuilder{Base: m.base}

	return Video{
		Title: jpath.String(x, "title", "runs", 0, "text"),
		ID:    id,
		URL:   m.recordURL(path, id, pageapi.IsValidVideoID, urls.VideoURL),
		Channel: VideoChannel{
			Name: jpath.String(owner, "text"),
			ID:   jpath.String(owner, "navigationEndpoint", "browseEndpoint", "browseId"),
			URL:  m.absURL(jpath.String(owner, "navigationEndpoint", "commandMetadata", "webCommandMetadata", "url")),
		},
		Duration: Duration{
			Text:   jpath.String(x, "lengthText", "simpleText"),
			Pretty: jpath.String(x, "lengthText", "accessibility", "accessibilityData", "label"),
		},
		Published: Published{
			Pretty: jpath.String(x, "publishedTimeText", "simpleText"),
		},
		Views: Views{
			Text:       jpath.String(x, "viewCountText", "simpleText"),
			Pretty:     jpath.String(x, "shortViewCountText", "simpleText"),
			PrettyLong: jpath.String(x, "shortViewCountText", "accessibility", "accessibilityData", "label"),
		},
		Thumbnails: thumbnails(jpath.Slice(x, "thumbnail", "thumbnails")),
	}
}

func (m recordMapper) channel(x map[string]any) Channel {
	return Channel{
		Name: jpath.String(x, "title", "simpleText"),
		ID:   jpath.String(x, "channelId"),
		URL:  m.absURL(jpath.String(x, "navigationEndpoint", "browseEndpoint", "canonicalBaseUrl")),
		Subscribers: Subscribers{
			Text:   jpath.String(x, "subscriberCountText", "simpleText"),
			Pretty: jpath.String(x, "subscriberCountText", "accessibility", "accessibilityData", "label"),
		},
		Icons:  thumbnails(jpath.Slice(x, "thumbnail", "thumbnails")),
		Badges: badges(jpath.Slice(x, "ownerBadges")),
	}
}

func (m recordMapper) playlist(x map[string]any) Playlist {
	id := jpath.String(x, "playlistId")
	path := jpath.String(x, "navigationEndpoint", "commandMetadata", "webCommandMetadata", "url")
	urls := URLBuilder{Base: m.base}

	return Playlist{
		Name:       jpath.String(x, "title", "simpleText"),
		ID:         id,
		URL:        m.recordURL(path, id, pageapi.IsValidPlaylistID, urls.PlaylistURL),
		Thumbnails: thumbnails(jpath.Slice(x, "thumbnailRenderer", "playlistVideoThumbnailRenderer", "thumbnail", "thumbnails")),
		VideoCount: scalarString(jpath.Get(x, "videoCount")),
		Published: Published{
			Pretty: jpath.String(x, "publishedTimeText", "simpleText"),
		},
	}
}

//////////////////////////////////////////////////

func thumbnails(items []any) []Thumbnail {
	if items == nil {
		return nil
	}

	thumbs := make([]Thumbnail, 0, len(items))
	for _, item := range items {
		width, _ := jpath.Int(item, "width")
		height, _ := jpath.Int(item, "height")

		thumbs = append(thumbs, Thumbnail{
			URL:    jpath.String(item, "url"),
			Width:  width,
			Height: height,
		})
	}

	return thumbs
}

// Only badges carrying a tooltip are kept; the tooltip is the badge name.
func badges(items []any) []string {
	names := []string{}
	for _, item := range items {
		if name := jpath.String(item, "metadataBadgeRenderer", "tooltip"); name != "" {
			names = append(names, name)
		}
	}

	return names
}

func scalarString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}

	return ""
}
