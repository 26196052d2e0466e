package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/rubpy/crawly/clog"
	"google.golang.org/api/youtube/v3"

	"github.com/rubpy/crawly-search-youtube/pageapi"
)

//////////////////////////////////////////////////

// ChannelInfo is a channel's profile as seen on its own page (or through
// the Data API, when the crawler has a service).
type ChannelInfo struct {
	ID          string      `json:"id"`
	Name        string      `json:"name,omitempty"`
	URL         string      `json:"url,omitempty"`
	Description string      `json:"description,omitempty"`
	Subscribers Subscribers `json:"subscribers"`
	Avatars     []Thumbnail `json:"avatars,omitempty"`
}

func (info ChannelInfo) String() string {
	var s strings.Builder

	s.WriteString("{ChannelInfo:[id:")
	s.WriteString(strconv.Quote(info.ID))
	s.WriteString(", subscribers:")
	s.WriteString(strconv.Quote(info.Subscribers.Text))
	s.WriteString("]}")

	return s.String()
}

var (
	InvalidChannelID  = errors.New("invalid channel ID")
	InvalidChannelURL = errors.New("invalid channel URL")
	ChannelNotFound   = errors.New("channel not found")
)

func IsValidChannelID(s string) bool  { return pageapi.IsValidChannelID(s) }
func IsValidChannelURL(s string) bool { return isValidURL(s) }

//////////////////////////////////////////////////

// ChannelInfo looks up the profile of channelID.
func (cr *Crawler) ChannelInfo(ctx context.Context, channelID string) (info *ChannelInfo, err error) {
	if channelID == "" || !IsValidChannelID(channelID) {
		err = InvalidChannelID
		return
	}

	if ctx == nil {
		ctx = context.Background()
	} else {
		if err = ctx.Err(); err != nil {
			return
		}
	}

	source := "page"
	if cr.service != nil {
		source = "api"
	}

	lp := clog.Params{
		Message: "channelInfo",
		Level:   slog.LevelDebug,

		Values: clog.ParamGroup{
			"channelID": channelID,
			"source":    source,
		},
	}

	if cr.service != nil {
		info, err = cr.channelInfoFromAPI(ctx, channelID)
	} else {
		settings := cr.loadSettings()
		info, err = cr.channelInfoFromPage(ctx, URLBuilder{Base: settings.BaseURL}.ChannelURL(channelID))
	}
	if err == nil {
		lp.Set("subscribers", info.Subscribers.Text)
	}

	cr.metrics.ObserveLookup(source, err)

	lp.Err = err
	cr.Log(ctx, lp)

	return
}

func (cr *Crawler) channelInfoFromAPI(ctx context.Context, channelID string) (*ChannelInfo, error) {
	if cr.service == nil {
		return nil, NilService
	}

	call := cr.service.Channels.List([]string{"snippet", "statistics"})
	call.Context(ctx)
	call.Id(channelID)

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("youtube.ChannelsService.List: %w", err)
	}

	for _, item := range resp.Items {
		if item.Id != channelID {
			continue
		}

		info := &ChannelInfo{
			ID:  item.Id,
			URL: URLBuilder{Base: cr.loadSettings().BaseURL}.ChannelURL(item.Id),
		}

		if sn := item.Snippet; sn != nil {
			info.Name = sn.Title
			info.Description = sn.Description

			if th := sn.Thumbnails; th != nil {
				for _, t := range []*youtube.Thumbnail{th.Default, th.Medium, th.High} {
					if t != nil && t.Url != "" {
						info.Avatars = append(info.Avatars, Thumbnail{URL: t.Url, Width: int(t.Width), Height: int(t.Height)})
					}
				}
			}
		}

		if st := item.Statistics; st != nil && !st.HiddenSubscriberCount {
			info.Subscribers.Text = strconv.FormatUint(st.SubscriberCount, 10)
		}

		return info, nil
	}

	return nil, ChannelNotFound
}

func (cr *Crawler) channelInfoFromPage(ctx context.Context, channelURL string) (*ChannelInfo, error) {
	page, err := cr.fetchChannelPage(ctx, channelURL)
	if err != nil {
		return nil, err
	}

	info := &ChannelInfo{
		ID:          page.ChannelID,
		Name:        page.Title,
		URL:         page.URL,
		Description: page.Description,
		Subscribers: Subscribers{
			Text:   page.SubscribersText,
			Pretty: page.SubscribersLabel,
		},
	}
	if info.URL == "" {
		info.URL = channelURL
	}
	for _, a := range page.Avatars {
		info.Avatars = append(info.Avatars, Thumbnail{URL: a.URL, Width: a.Width, Height: a.Height})
	}

	return info, nil
}

func (cr *Crawler) fetchChannelPage(ctx context.Context, channelURL string) (*pageapi.ChannelPage, error) {
	settings := cr.loadSettings()
	fetcher := cr.pageFetcher(settings)
	if fetcher == nil {
		return nil, NilClient
	}

	body, err := cr.fetch(ctx, fetcher, cr.session, channelURL, settings.UserAgent, nil)
	if err != nil {
		return nil, err
	}

	page, err := pageapi.ParseChannelPage(body)
	if err != nil {
		return nil, &ParseError{URL: channelURL, Err: err}
	}

	return page, nil
}

//////////////////////////////////////////////////

// ResolveChannelURL returns the ID of the channel whose page is at
// channelURL (e.g., an "@handle" URL). Resolved IDs are cached.
func (cr *Crawler) ResolveChannelURL(ctx context.Context, channelURL string) (channelID string, err error) {
	if channelURL == "" || !IsValidChannelURL(channelURL) {
		err = InvalidChannelURL
		return
	}

	if channelID, ok := cr.loadChannelID(channelURL); ok {
		return channelID, nil
	}

	if ctx == nil {
		ctx = context.Background()
	} else {
		if err = ctx.Err(); err != nil {
			return
		}
	}

	page, err := cr.fetchChannelPage(ctx, channelURL)
	if err != nil {
		return "", err
	}

	cr.storeChannelID(channelURL, page.ChannelID)

	return page.ChannelID, nil
}

func (cr *Crawler) loadChannelID(channelURL string) (channelID string, ok bool) {
	return cr.channelIDCache.Load(channelURL)
}

func (cr *Crawler) storeChannelID(channelURL string, channelID string) {
	cr.channelIDCache.Store(channelURL, channelID)
}

func isValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}

	if u.Scheme == "" {
		return false
	}

	return true
}
