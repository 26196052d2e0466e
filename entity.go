package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rubpy/crawly"
	"github.com/rubpy/crawly/clog"
)

//////////////////////////////////////////////////

type EntityData struct {
	// Tracked search terms.
	ChannelIDs    []string  `json:"channel_ids,omitempty"`
	NewChannelIDs []string  `json:"new_channel_ids,omitempty"`
	Videos        int       `json:"videos"`
	Channels      int       `json:"channels"`
	Playlists     int       `json:"playlists"`
	LastSearch    time.Time `json:"last_search"`

	// Tracked channels.
	Channel            *ChannelInfo `json:"channel,omitempty"`
	LastChannelRefresh time.Time    `json:"last_channel_refresh"`
}

func (cr *Crawler) entityHandler(ctx context.Context, entity *crawly.Entity, result *crawly.TrackingResult) error {
	handle, ok := entity.Handle.(Handle)
	if !ok || !handle.Valid() {
		return crawly.InvalidHandle
	}

	data, _ := entity.Data.(EntityData)
	defer func() {
		entity.Data = data
	}()

	settings := cr.loadSettings()

	switch handle.Type {
	case HandleSearchTerms:
		return cr.crawlSearchTerms(ctx, handle.Value, settings, &data)

	case HandleChannelID:
		minimumRefreshDelay := settings.MinimumChannelRefreshDelay
		if minimumRefreshDelay < time.Second {
			minimumRefreshDelay = time.Second
		}

		if data.Channel != nil && time.Since(data.LastChannelRefresh) < minimumRefreshDelay {
			return nil
		}

		info, err := cr.ChannelInfo(ctx, handle.Value)
		if err != nil {
			return fmt.Errorf("ChannelInfo: %w", err)
		}

		data.Channel = info
		data.LastChannelRefresh = time.Now()

		return nil
	}

	return crawly.InvalidHandle
}

// Re-runs the search for terms and records which channel IDs are new
// since the previous pass.
func (cr *Crawler) crawlSearchTerms(ctx context.Context, terms string, settings CrawlerSettings, data *EntityData) error {
	limit := settings.WatchLimit
	if limit < 0 {
		limit = 0
	}

	lp := clog.Params{
		Message: "crawlSearchTerms",
		Level:   slog.LevelDebug,

		Values: clog.ParamGroup{
			"terms": terms,
			"limit": limit,
		},
	}

	res, err := cr.Search(ctx, terms, limit, &SearchOptions{Filter: settings.WatchFilter})
	if err != nil {
		err = fmt.Errorf("Search: %w", err)

		lp.Err = err
		cr.Log(ctx, lp)

		return err
	}

	var previous ChannelIDSet
	for _, id := range data.ChannelIDs {
		previous.add(id)
	}

	ids := res.UniqueChannelIDs.IDs()
	fresh := []string{}
	if !data.LastSearch.IsZero() {
		for _, id := range ids {
			if !previous.Has(id) {
				fresh = append(fresh, id)
			}
		}
	}

	data.ChannelIDs = ids
	data.NewChannelIDs = fresh
	data.Videos = len(res.Videos)
	data.Channels = len(res.Channels)
	data.Playlists = len(res.Playlists)
	data.LastSearch = time.Now()

	lp.Set("uniqueChannels", len(ids))
	lp.Set("newChannels", len(fresh))
	cr.Log(ctx, lp)

	return nil
}
