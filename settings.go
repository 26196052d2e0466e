package youtube

import (
	"time"

	"github.com/rubpy/crawly"
)

//////////////////////////////////////////////////

type CrawlerSettings struct {
	crawly.CrawlerSettings

	// Scheme and host every URL is built on (e.g., a local server in tests).
	BaseURL   string
	UserAgent string

	// Redirect hops followed per page by the default fetcher.
	MaxRedirects int

	// Pause between two consecutive result pages of a search.
	PageDelay time.Duration

	// A search stops (keeping what it has gathered) once it has been running
	// for longer than this.
	MaxSearchDuration time.Duration

	// Unique channel limit and filter used when a tracked search term is
	// crawled (0 means no limit; only MaxSearchDuration and the last page
	// end the search).
	WatchLimit  int
	WatchFilter FilterType

	MinimumChannelRefreshDelay time.Duration
}

var DefaultSettings = CrawlerSettings{
	CrawlerSettings: crawly.DefaultCrawlerSettings,

	BaseURL:      DefaultBaseURL,
	UserAgent:    "Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
	MaxRedirects: 5,

	PageDelay:         1 * time.Second,
	MaxSearchDuration: 20 * time.Minute,

	WatchLimit: 50,

	MinimumChannelRefreshDelay: 30 * time.Minute,
}

//////////////////////////////////////////////////

func (cr *Crawler) loadSettings() CrawlerSettings {
	return cr.settings.Load()
}

func (cr *Crawler) setSettings(settings CrawlerSettings) {
	cr.settings.Store(settings)
	crawly.SetCrawlerSettings(&cr.Crawler, settings.CrawlerSettings)
}

func (cr *Crawler) Settings() CrawlerSettings {
	return cr.loadSettings()
}

func (cr *Crawler) SetSettings(settings CrawlerSettings) {
	cr.setSettings(settings)
}
