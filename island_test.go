package youtube

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractContentIsland_Fixture(t *testing.T) {
	page, err := os.ReadFile("testdata/results_page.html")
	require.NoError(t, err)

	items, err := ExtractContentIsland(page)
	require.NoError(t, err)
	require.Len(t, items, 5)

	assert.Contains(t, items[0], "adSlotRenderer")
	assert.Contains(t, items[1], "videoRenderer")
	assert.Contains(t, items[2], "channelRenderer")
	assert.Contains(t, items[3], "shelfRenderer")
	assert.Contains(t, items[4], "playlistRenderer")

	token, ok := ExtractContinuationToken(page)
	require.True(t, ok)
	assert.Equal(t, "EpMDEgRjYXRzGoYDU0JTQ0FRdGtVWGMwZHpsWFoxaGpVWUlC", token)
}

func TestExtractContentIsland_LastMarkers(t *testing.T) {
	// An earlier (stale) section must be skipped in favor of the last one.
	page := append([]byte(`"sectionListRenderer":{"contents":[{"itemSectionRenderer":{"broken":`),
		resultsPage("", channelItem("UCfirstfirstfirst"))...)

	items, err := ExtractContentIsland(page)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Contains(t, items[0], "channelRenderer")
}

func TestExtractContentIsland_Errors(t *testing.T) {
	valid := string(resultsPage("tok", videoItem("v1", "UC1")))

	t.Run("missing start marker", func(t *testing.T) {
		_, err := ExtractContentIsland([]byte(`<html>{"contents":[]},{"continuationItemRenderer":{}}</html>`))
		assert.ErrorIs(t, err, ErrMissingMarker)
	})

	t.Run("missing end marker", func(t *testing.T) {
		_, err := ExtractContentIsland([]byte(`"sectionListRenderer":{"contents":[{"itemSectionRenderer":{"contents":[]}}]`))
		assert.ErrorIs(t, err, ErrMissingMarker)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := ExtractContentIsland([]byte(`},{"continuationItemRenderer"` + `"sectionListRenderer":{"contents":[{"itemSectionRenderer":`))
		assert.ErrorIs(t, err, ErrMissingMarker)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ExtractContentIsland([]byte(`"sectionListRenderer":{"contents":[{"itemSectionRenderer":{"contents":[{]},{"continuationItemRenderer"`))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrMissingMarker)
	})

	t.Run("missing contents", func(t *testing.T) {
		_, err := ExtractContentIsland([]byte(`"sectionListRenderer":{"contents":[{"itemSectionRenderer":{"other":[]}},{"continuationItemRenderer"`))
		assert.ErrorIs(t, err, ErrMissingContents)
	})

	t.Run("empty contents", func(t *testing.T) {
		items, err := ExtractContentIsland([]byte(`"sectionListRenderer":{"contents":[{"itemSectionRenderer":{"contents":[]}},{"continuationItemRenderer"`))
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("valid", func(t *testing.T) {
		_, err := ExtractContentIsland([]byte(valid))
		assert.NoError(t, err)
	})
}

func TestExtractContinuationToken(t *testing.T) {
	_, ok := ExtractContinuationToken(resultsPage("", videoItem("v1", "UC1")))
	assert.False(t, ok)

	token, ok := ExtractContinuationToken(resultsPage("abc-123", videoItem("v1", "UC1")))
	require.True(t, ok)
	assert.Equal(t, "abc-123", token)

	// The scan does not depend on the island being well-formed.
	token, ok = ExtractContinuationToken([]byte(`garbage "continuationCommand":{"token":"xyz"} garbage`))
	require.True(t, ok)
	assert.Equal(t, "xyz", token)
}
