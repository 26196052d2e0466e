package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/rubpy/crawly"
	"github.com/rubpy/crawly/clog"
)

//////////////////////////////////////////////////

type OrderData struct{}

func (cr *Crawler) orderHandler(ctx context.Context, order *crawly.Order, result *crawly.TrackingResult) error {
	handle, ok := order.Handle.(Handle)
	if !ok || !handle.Valid() {
		return crawly.InvalidHandle
	}

	data, _ := order.Data.(OrderData)
	defer func() {
		order.Data = data
	}()

	switch handle.Type {
	case HandleSearchTerms:
		terms := strings.TrimSpace(handle.Value)
		if terms == "" || !utf8.ValidString(terms) {
			return crawly.InvalidHandle
		}

		if terms != handle.Value {
			handle = SearchTerms(terms)
			result.Entity.Value.Handle = handle
		}

		return nil

	case HandleChannelURL:
		if !IsValidChannelURL(handle.Value) {
			return crawly.InvalidHandle
		}

		lp := clog.Params{
			Message: "resolveChannelURL",
			Level:   slog.LevelDebug,

			Values: clog.ParamGroup{
				"channelURL": handle.Value,
			},
		}

		channelID, err := cr.ResolveChannelURL(ctx, handle.Value)
		if err == nil {
			lp.Set("channelID", channelID)
		} else {
			err = fmt.Errorf("ResolveChannelURL: %w", err)
		}

		lp.Err = err
		cr.Log(ctx, lp)

		if err != nil {
			return err
		}

		handle = ChannelID(channelID)
		result.Entity.Value.Handle = handle
	}

	if handle.Type != HandleChannelID || !IsValidChannelID(handle.Value) {
		return crawly.InvalidHandle
	}

	return nil
}
