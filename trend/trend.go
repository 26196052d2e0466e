// Package trend ranks the channels behind a search by audience size: one
// search, then a profile lookup for every unique channel it surfaced.
package trend

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	youtube "github.com/rubpy/crawly-search-youtube"
)

//////////////////////////////////////////////////

type Searcher interface {
	Search(ctx context.Context, terms string, limit int, opts *youtube.SearchOptions) (*youtube.SearchResult, error)
}

type Lookup interface {
	ChannelInfo(ctx context.Context, channelID string) (*youtube.ChannelInfo, error)
}

type Channel struct {
	youtube.ChannelInfo

	// Parsed from Subscribers.Text; 0 when unknown.
	SubscriberCount float64 `json:"subscriber_count"`
}

type Report struct {
	Terms    string           `json:"terms"`
	Channels []Channel        `json:"channels"`
	Failed   map[string]error `json:"-"`
}

//////////////////////////////////////////////////

type options struct {
	concurrency   int
	limiter       *rate.Limiter
	strict        bool
	searchOptions *youtube.SearchOptions
}

type Option func(o *options)

// WithConcurrency bounds the number of lookups in flight (default 8).
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithRate paces lookups to r per second with the given burst.
func WithRate(r rate.Limit, burst int) Option {
	return func(o *options) {
		o.limiter = rate.NewLimiter(r, burst)
	}
}

// WithStrict makes any failed lookup fail the whole run. By default failed
// channels are left out of the ranking and listed in Report.Failed.
func WithStrict() Option {
	return func(o *options) {
		o.strict = true
	}
}

func WithSearchOptions(opts *youtube.SearchOptions) Option {
	return func(o *options) {
		o.searchOptions = opts
	}
}

var (
	NilSearcher   = errors.New("searcher is nil")
	NilLookup     = errors.New("lookup is nil")
	NilLookupInfo = errors.New("lookup returned no channel info")
)

// Run searches for terms (stopping at limit unique channels, 0 for no
// limit), looks up every unique channel concurrently and returns them by
// subscriber count, largest first.
func Run(ctx context.Context, s Searcher, l Lookup, terms string, limit int, opts ...Option) (*Report, error) {
	if s == nil {
		return nil, NilSearcher
	}
	if l == nil {
		return nil, NilLookup
	}

	o := options{concurrency: 8}
	for _, opt := range opts {
		opt(&o)
	}
	if o.concurrency < 1 {
		o.concurrency = 1
	}

	res, err := s.Search(ctx, terms, limit, o.searchOptions)
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}

	ids := res.UniqueChannelIDs.IDs()
	report := &Report{
		Terms:    terms,
		Channels: make([]Channel, 0, len(ids)),
		Failed:   make(map[string]error),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for _, id := range ids {
		id := id

		g.Go(func() error {
			if o.limiter != nil {
				if err := o.limiter.Wait(gctx); err != nil {
					return err
				}
			}

			info, err := l.ChannelInfo(gctx, id)
			if err == nil && info == nil {
				err = NilLookupInfo
			}

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				if o.strict {
					return fmt.Errorf("ChannelInfo(%s): %w", id, err)
				}

				report.Failed[id] = err
				return nil
			}

			report.Channels = append(report.Channels, Channel{
				ChannelInfo:     *info,
				SubscriberCount: ParseSubscribers(info.Subscribers.Text),
			})

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(report.Channels, func(i, j int) bool {
		a, b := report.Channels[i], report.Channels[j]
		if a.SubscriberCount != b.SubscriberCount {
			return a.SubscriberCount > b.SubscriberCount
		}
		return a.ID < b.ID
	})

	return report, nil
}

//////////////////////////////////////////////////

var numberPattern = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)

// ParseSubscribers turns a subscriber count text ("1,234", "12.3K
// subscribers", "구독자 12.3만명", "1.2천") into a number. Unknown or empty
// text yields 0.
func ParseSubscribers(text string) float64 {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if text == "" {
		return 0
	}

	loc := numberPattern.FindStringIndex(text)
	if loc == nil {
		return 0
	}

	n, err := strconv.ParseFloat(text[loc[0]:loc[1]], 64)
	if err != nil {
		return 0
	}

	suffix := strings.TrimSpace(text[loc[1]:])
	switch {
	case strings.HasPrefix(suffix, "억"):
		n *= 100000000
	case strings.HasPrefix(suffix, "만"):
		n *= 10000
	case strings.HasPrefix(suffix, "천"):
		n *= 1000
	case strings.HasPrefix(suffix, "B"):
		n *= 1000000000
	case strings.HasPrefix(suffix, "M"):
		n *= 1000000
	case strings.HasPrefix(suffix, "K"), strings.HasPrefix(suffix, "k"):
		n *= 1000
	}

	return n
}
