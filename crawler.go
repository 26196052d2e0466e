package youtube

import (
	"google.golang.org/api/youtube/v3"

	"github.com/rubpy/crawly"
	"github.com/rubpy/crawly/cclient"
	"github.com/rubpy/crawly/csync"

	"github.com/rubpy/crawly-search-youtube/metrics"
)

//////////////////////////////////////////////////

type Crawler struct {
	crawly.Crawler

	client  cclient.Client
	fetcher PageFetcher
	service *youtube.Service
	session *Session
	metrics *metrics.Metrics

	channelIDCache csync.Map[string, string]

	settings csync.Value[CrawlerSettings]
}

func NewCrawler(opts ...ConfigOption) (*Crawler, error) {
	var cfg config

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	cr, err := buildCrawlerFromConfig(&cfg)
	if err != nil {
		return nil, err
	}

	return cr, nil
}

// Session returns the session shared by every call that does not bring its
// own.
func (cr *Crawler) Session() *Session {
	return cr.session
}

// Returns the injected fetcher, or one backed by the crawler's client.
func (cr *Crawler) pageFetcher(settings CrawlerSettings) PageFetcher {
	if cr.fetcher != nil {
		return cr.fetcher
	}
	if cr.client == nil {
		return nil
	}

	return NewClientFetcher(cr.client, settings.MaxRedirects)
}
