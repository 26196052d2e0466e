package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandle(t *testing.T) {
	h := SearchTerms("lofi")
	assert.True(t, h.Valid())
	assert.True(t, h.Equal(SearchTerms("lofi")))
	assert.False(t, h.Equal(ChannelID("lofi")))
	assert.Equal(t, `{SearchTerms:"lofi"}`, h.String())

	assert.False(t, SearchTerms("").Valid())
	assert.False(t, Handle{Value: "x"}.Valid())
	assert.Equal(t, `{ChannelURL:"https://www.youtube.com/@x"}`, ChannelURL("https://www.youtube.com/@x").String())
	assert.Equal(t, "ChannelID", HandleChannelID.String())
}
