package youtube

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
)

//////////////////////////////////////////////////

// RendererItem is one entry of the results section, keyed by its renderer
// kind ("videoRenderer", "channelRenderer", "playlistRenderer", ...).
type RendererItem = map[string]any

// The results page embeds its state inline, with no schema. These anchors
// are the only coupling to that markup.
var (
	contentIslandStart = []byte(`"sectionListRenderer":{"contents":[{"itemSectionRenderer":`)
	contentIslandEnd   = []byte(`},{"continuationItemRenderer"`)

	continuationTokenPattern = regexp.MustCompile(`"continuationCommand":\{"token":"(.*?)"`)
)

// ExtractContentIsland isolates the item section of a results page and
// returns its renderer items, in page order.
//
// The island starts right after the last occurrence of the section marker
// and ends at the last continuation item wrapper.
func ExtractContentIsland(page []byte) ([]RendererItem, error) {
	startPos := bytes.LastIndex(page, contentIslandStart)
	if startPos < 0 {
		return nil, fmt.Errorf("start: %w", ErrMissingMarker)
	}
	startPos += len(contentIslandStart)

	endPos := bytes.LastIndex(page, contentIslandEnd)
	if endPos < 0 {
		return nil, fmt.Errorf("end: %w", ErrMissingMarker)
	}
	if endPos < startPos {
		return nil, fmt.Errorf("end before start: %w", ErrMissingMarker)
	}

	var section struct {
		Contents *[]RendererItem `json:"contents"`
	}
	if err := json.Unmarshal(page[startPos:endPos], &section); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}
	if section.Contents == nil {
		return nil, ErrMissingContents
	}

	return *section.Contents, nil
}

// ExtractContinuationToken scans the raw page for the first continuation
// command token.
func ExtractContinuationToken(page []byte) (token string, ok bool) {
	m := continuationTokenPattern.FindSubmatch(page)
	if len(m) < 2 || len(m[1]) == 0 {
		return "", false
	}

	return string(m[1]), true
}
