package youtube

import (
	"encoding/json"
)

//////////////////////////////////////////////////

// SearchResult accumulates the records of every page of one search.
type SearchResult struct {
	Videos    []Video    `json:"videos"`
	Channels  []Channel  `json:"channels"`
	Playlists []Playlist `json:"playlists"`

	// Channels referenced anywhere in the result: by channel records and by
	// the owner of every video.
	UniqueChannelIDs ChannelIDSet `json:"uniqueChannelIds"`
}

func newSearchResult() *SearchResult {
	return &SearchResult{
		Videos:    []Video{},
		Channels:  []Channel{},
		Playlists: []Playlist{},
	}
}

// Rebuilds UniqueChannelIDs from scratch out of the accumulated records.
func (res *SearchResult) recomputeChannelIDs() {
	var set ChannelIDSet

	for _, channel := range res.Channels {
		set.add(channel.ID)
	}
	for _, video := range res.Videos {
		set.add(video.Channel.ID)
	}

	res.UniqueChannelIDs = set
}

//////////////////////////////////////////////////

// ChannelIDSet is a set of channel IDs which remembers insertion order.
// The zero value is an empty set.
type ChannelIDSet struct {
	ids  []string
	seen map[string]struct{}
}

func (set *ChannelIDSet) add(id string) {
	if id == "" {
		return
	}

	if set.seen == nil {
		set.seen = make(map[string]struct{})
	}
	if _, ok := set.seen[id]; ok {
		return
	}

	set.seen[id] = struct{}{}
	set.ids = append(set.ids, id)
}

func (set ChannelIDSet) Len() int { return len(set.ids) }

func (set ChannelIDSet) Has(id string) bool {
	_, ok := set.seen[id]
	return ok
}

// IDs returns the members in first-seen order.
func (set ChannelIDSet) IDs() []string {
	ids := make([]string, len(set.ids))
	copy(ids, set.ids)

	return ids
}

func (set ChannelIDSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(set.IDs())
}

func (set *ChannelIDSet) UnmarshalJSON(b []byte) error {
	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return err
	}

	*set = ChannelIDSet{}
	for _, id := range ids {
		set.add(id)
	}

	return nil
}
