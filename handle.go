package youtube

import (
	"strconv"
	"strings"

	"github.com/rubpy/crawly"
)

//////////////////////////////////////////////////

// Handle identifies something the crawler can track: a search query, or a
// channel (by ID, or by a page URL that gets resolved to an ID).
type Handle struct {
	Type  HandleType
	Value string
}

func (h Handle) Valid() bool {
	return h.Type != 0 && h.Value != ""
}

func (h Handle) Equal(handle crawly.Handle) bool {
	if hh, ok := handle.(Handle); ok {
		return hh.Type == h.Type && hh.Value == h.Value
	}

	return false
}

func (h Handle) String() string {
	var s strings.Builder
	s.WriteRune('{')
	s.WriteString(h.Type.String())
	s.WriteString(":")
	s.WriteString(strconv.Quote(h.Value))
	s.WriteRune('}')

	return s.String()
}

type HandleType uint

const (
	HandleSearchTerms HandleType = (iota + 1)
	HandleChannelID
	HandleChannelURL
)

func (ht HandleType) String() string {
	switch ht {
	case HandleSearchTerms:
		return "SearchTerms"
	case HandleChannelID:
		return "ChannelID"
	case HandleChannelURL:
		return "ChannelURL"
	}

	return ""
}

//////////////////////////////////////////////////

func SearchTerms(terms string) Handle {
	return Handle{HandleSearchTerms, terms}
}

func ChannelID(channelID string) Handle {
	return Handle{HandleChannelID, channelID}
}

func ChannelURL(channelURL string) Handle {
	return Handle{HandleChannelURL, channelURL}
}

//////////////////////////////////////////////////

func (cr *Crawler) canonicalHandle(handle Handle) Handle {
	if handle.Type == HandleChannelURL {
		if channelID, ok := cr.loadChannelID(handle.Value); ok {
			handle = ChannelID(channelID)
		}
	}

	return handle
}

func (cr *Crawler) IsTracked(handle Handle) bool {
	return cr.Crawler.IsTracked(cr.canonicalHandle(handle))
}
