package youtube

import (
	"net/url"
	"strings"
)

//////////////////////////////////////////////////

const (
	DefaultBaseURL = "https://www.youtube.com"

	// Structured continuation endpoint. Pagination does not use it: the
	// HTML results page is re-requested with a continuation parameter
	// instead, which keeps the response shape identical across pages.
	SearchContinuationEndpoint = DefaultBaseURL + "/youtubei/v1/search?continuation="
)

type FilterType string

const (
	FilterVideo     FilterType = "video"
	FilterChannel   FilterType = "channel"
	FilterPlaylist  FilterType = "playlist"
	FilterFilm      FilterType = "film"
	FilterProgramme FilterType = "programme"
)

var searchFilters = map[FilterType]string{
	FilterVideo:     "&sp=EgIQAQ%253D%253D",
	FilterChannel:   "&sp=EgIQAg%253D%253D",
	FilterPlaylist:  "&sp=EgIQAw%253D%253D",
	FilterFilm:      "&sp=EgIQBA%253D%253D",
	FilterProgramme: "&sp=EgIQBQ%253D%253D",
}

// Valid reports whether f is one of the known search filters.
func (f FilterType) Valid() bool {
	_, ok := searchFilters[f]
	return ok
}

//////////////////////////////////////////////////

// URLBuilder produces the URLs requested by the crawler. The zero value
// uses DefaultBaseURL.
type URLBuilder struct {
	Base string
}

func (b URLBuilder) base() string {
	if b.Base == "" {
		return DefaultBaseURL
	}

	return strings.TrimSuffix(b.Base, "/")
}

func (b URLBuilder) SearchURL(terms string) string {
	return b.base() + "/results?search_query=" + encodeURIComponent(terms)
}

// WithFilter appends the suffix of filter to rawURL. Unknown filters leave
// rawURL unchanged.
func (b URLBuilder) WithFilter(rawURL string, filter FilterType) string {
	if suffix, ok := searchFilters[filter]; ok {
		return rawURL + suffix
	}

	return rawURL
}

func (b URLBuilder) ContinuationURL(terms string, token string) string {
	return b.SearchURL(terms) + "&continuation=" + token
}

func (b URLBuilder) VideoURL(videoID string) string {
	return b.base() + "/watch?v=" + encodeURIComponent(videoID)
}

func (b URLBuilder) PlaylistURL(playlistID string) string {
	return b.base() + "/playlist?list=" + encodeURIComponent(playlistID)
}

func (b URLBuilder) ChannelURL(channelID string) string {
	return b.base() + "/channel/" + url.PathEscape(channelID)
}

//////////////////////////////////////////////////

func SearchURL(terms string) string { return URLBuilder{}.SearchURL(terms) }

func WithFilter(rawURL string, filter FilterType) string {
	return URLBuilder{}.WithFilter(rawURL, filter)
}

func ContinuationURL(terms string, token string) string {
	return URLBuilder{}.ContinuationURL(terms, token)
}

//////////////////////////////////////////////////

const upperhex = "0123456789ABCDEF"

// Escapes everything except the unreserved marks kept by browsers'
// encodeURIComponent (letters, digits and -_.!~*'()). url.QueryEscape
// differs on spaces and on !*'().
func encodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]

		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') ||
			strings.IndexByte("-_.!~*'()", c) >= 0 {
			b.WriteByte(c)
			continue
		}

		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}

	return b.String()
}
