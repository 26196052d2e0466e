// Package pageapi extracts data out of server-rendered YouTube pages.
package pageapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/rubpy/crawly-search-youtube/internal/jpath"
)

//////////////////////////////////////////////////

type Thumbnail struct {
	URL    string
	Width  int
	Height int
}

// ChannelPage is what a channel's profile page tells about the channel.
type ChannelPage struct {
	ChannelID   string
	URL         string
	Title       string
	Description string

	SubscribersText  string
	SubscribersLabel string

	Avatars []Thumbnail
}

func (p ChannelPage) String() string {
	var s strings.Builder

	s.WriteString("{ChannelPage:[channelID:")
	s.WriteString(strconv.Quote(p.ChannelID))
	s.WriteString(", subscribers:")
	s.WriteString(strconv.Quote(p.SubscribersText))
	s.WriteString("]}")

	return s.String()
}

var (
	ErrEmptyPage       = errors.New("page is empty")
	ErrNoChannelID     = errors.New("no channel ID found on page")
	ErrNoInitialData   = errors.New("initial data not found")
	initialDataMarkers = [][]byte{
		[]byte("var ytInitialData = "),
		[]byte(`window["ytInitialData"] = `),
	}
)

// ParseChannelPage reads the head metadata (canonical link, Open Graph
// tags) and the inline initial data of a channel page. Only a missing
// channel ID is an error; everything else is best effort.
func ParseChannelPage(b []byte) (*ChannelPage, error) {
	if len(b) == 0 {
		return nil, ErrEmptyPage
	}

	page := &ChannelPage{}
	if err := parseHead(b, page); err != nil {
		return nil, fmt.Errorf("failed HTML extraction: %w", err)
	}

	if data, err := InitialData(b); err == nil {
		fillFromInitialData(data, page)
	}

	if page.ChannelID == "" {
		return nil, ErrNoChannelID
	}

	return page, nil
}

// InitialData decodes the page's inline initial data object.
func InitialData(b []byte) (map[string]any, error) {
	for _, marker := range initialDataMarkers {
		pos := bytes.Index(b, marker)
		if pos < 0 {
			continue
		}

		raw := balancedObject(b[pos+len(marker):])
		if raw == nil {
			continue
		}

		var data map[string]any
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("json.Unmarshal: %w", err)
		}

		return data, nil
	}

	return nil, ErrNoInitialData
}

//////////////////////////////////////////////////

func parseHead(b []byte, page *ChannelPage) error {
	z := html.NewTokenizer(bytes.NewReader(b))

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return err
			}
			return nil

		case html.EndTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == atom.Head {
				return nil
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if !hasAttr {
				continue
			}

			switch atom.Lookup(name) {
			case atom.Body:
				return nil
			case atom.Link:
				handleLink(tagAttrs(z), page)
			case atom.Meta:
				handleMeta(tagAttrs(z), page)
			}
		}
	}
}

func tagAttrs(z *html.Tokenizer) map[string]string {
	attrs := make(map[string]string)
	for {
		k, v, more := z.TagAttr()
		attrs[strings.ToLower(string(k))] = string(v)
		if !more {
			break
		}
	}

	return attrs
}

func handleLink(attrs map[string]string, page *ChannelPage) {
	rel := strings.ToLower(attrs["rel"])
	href := strings.TrimSpace(attrs["href"])

	switch {
	case rel == "canonical":
		if page.URL == "" {
			page.URL = href
		}
		if id := idAfter(href, "channel/", "/?"); id != "" && page.ChannelID == "" {
			page.ChannelID = id
		}

	case rel == "alternate" && strings.Contains(strings.ToLower(attrs["type"]), "rss"):
		if id := idAfter(href, "channel_id=", "&"); id != "" && page.ChannelID == "" {
			page.ChannelID = id
		}
	}
}

func handleMeta(attrs map[string]string, page *ChannelPage) {
	content := strings.TrimSpace(attrs["content"])
	if content == "" {
		return
	}

	switch strings.ToLower(attrs["property"]) {
	case "og:title":
		page.Title = content
	case "og:description":
		page.Description = content
	case "og:image":
		if len(page.Avatars) == 0 {
			page.Avatars = []Thumbnail{{URL: content}}
		}
	}

	if strings.ToLower(attrs["itemprop"]) == "identifier" && IsValidChannelID(content) && page.ChannelID == "" {
		page.ChannelID = content
	}
}

// Returns the valid channel ID following marker in s, cut at the first of
// terminators.
func idAfter(s string, marker string, terminators string) string {
	pos := strings.Index(s, marker)
	if pos < 0 {
		return ""
	}

	s = s[pos+len(marker):]
	if end := strings.IndexAny(s, terminators); end >= 0 {
		s = s[:end]
	}

	if !IsValidChannelID(s) {
		return ""
	}

	return s
}

func fillFromInitialData(data map[string]any, page *ChannelPage) {
	meta := jpath.Map(data, "metadata", "channelMetadataRenderer")
	if page.ChannelID == "" {
		if id := jpath.String(meta, "externalId"); IsValidChannelID(id) {
			page.ChannelID = id
		}
	}
	if page.Title == "" {
		page.Title = jpath.String(meta, "title")
	}
	if page.Description == "" {
		page.Description = jpath.String(meta, "description")
	}

	if c4 := jpath.Map(data, "header", "c4TabbedHeaderRenderer"); c4 != nil {
		page.SubscribersText = jpath.Text(c4, "subscriberCountText")
		page.SubscribersLabel = jpath.String(c4, "subscriberCountText", "accessibility", "accessibilityData", "label")

		if thumbs := thumbnails(jpath.Slice(c4, "avatar", "thumbnails")); len(thumbs) > 0 {
			page.Avatars = thumbs
		}

		return
	}

	vm := jpath.Map(data, "header", "pageHeaderRenderer", "content", "pageHeaderViewModel")
	for _, row := range jpath.Slice(vm, "metadata", "contentMetadataViewModel", "metadataRows") {
		for _, part := range jpath.Slice(row, "metadataParts") {
			text := jpath.String(part, "text", "content")
			if strings.Contains(strings.ToLower(text), "subscriber") {
				page.SubscribersText = text
				page.SubscribersLabel = jpath.String(part, "accessibilityLabel")
			}
		}
	}

	if thumbs := thumbnails(jpath.Slice(meta, "avatar", "thumbnails")); len(thumbs) > 0 {
		page.Avatars = thumbs
	}
}

func thumbnails(items []any) []Thumbnail {
	thumbs := make([]Thumbnail, 0, len(items))
	for _, item := range items {
		u := jpath.String(item, "url")
		if u == "" {
			continue
		}

		width, _ := jpath.Int(item, "width")
		height, _ := jpath.Int(item, "height")
		thumbs = append(thumbs, Thumbnail{URL: u, Width: width, Height: height})
	}

	return thumbs
}

// Returns the JSON object starting at b[0] (which must be '{'), tracking
// brace depth outside of strings. Nil if the object never closes.
func balancedObject(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}

	depth := 0
	inString := false
	escaped := false
	for i, c := range b {
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}

	return nil
}
