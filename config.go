package youtube

import (
	"errors"
	"fmt"
	"log/slog"

	tlsclient "github.com/bogdanfinn/tls-client"
	"github.com/rubpy/crawly"
	"github.com/rubpy/crawly/cclient"
	"google.golang.org/api/youtube/v3"

	"github.com/rubpy/crawly-search-youtube/metrics"
)

//////////////////////////////////////////////////

type config struct {
	logger  *slog.Logger
	client  cclient.Client
	fetcher PageFetcher
	service *youtube.Service
	session *Session
	metrics *metrics.Metrics

	settings struct {
		v  CrawlerSettings
		ok bool
	}
}

var (
	NilConfig  = errors.New("config is nil")
	NilClient  = errors.New("client is nil")
	NilService = errors.New("service is nil")
)

func validateConfig(cfg *config) error {
	if cfg == nil {
		return NilConfig
	}

	return nil
}

func buildCrawlerFromConfig(cfg *config) (cr *Crawler, err error) {
	if cfg == nil {
		err = NilConfig
		return
	}

	cl := cfg.client
	if cl == nil && cfg.fetcher == nil {
		logger := cfg.logger
		if logger != nil {
			logger = logger.WithGroup("client")
		}

		cl, err = NewDefaultClient(logger)
		if err != nil {
			return nil, err
		}
	} else if cl != nil {
		if hc := cl.HTTPClient(); hc != nil {
			hc.SetFollowRedirect(false)
		}
	}

	session := cfg.session
	if session == nil {
		session = NewConsentSession()
	}

	cr = &Crawler{
		client:  cl,
		fetcher: cfg.fetcher,
		service: cfg.service,
		session: session,
		metrics: cfg.metrics,
	}

	cr.Crawler.SetLogger(cfg.logger)
	crawly.SetCrawlerHandlers(&cr.Crawler, crawly.CrawlerHandlers{
		Order:  cr.orderHandler,
		Entity: cr.entityHandler,
	})

	if cfg.settings.ok {
		cr.SetSettings(cfg.settings.v)
	} else {
		cr.SetSettings(DefaultSettings)
	}

	return cr, nil
}

type ConfigOption func(cfg *config)

// DefaultHTTPClientOptions are cclient's defaults minus redirect following
// and minus the cookie jar: redirects are counted by the page fetcher and
// cookies belong to a Session.
func DefaultHTTPClientOptions() []tlsclient.HttpClientOption {
	opts := make([]tlsclient.HttpClientOption, 0, len(cclient.DefaultHTTPClientOptions)+1)
	opts = append(opts, cclient.DefaultHTTPClientOptions...)
	opts = append(opts, tlsclient.WithNotFollowRedirects())

	return opts
}

// NewDefaultClient returns the client used when none is configured.
func NewDefaultClient(logger *slog.Logger) (cclient.Client, error) {
	cl, err := cclient.NewClient(
		cclient.WithLogger(logger),
		cclient.WithHTTPClientOptions(DefaultHTTPClientOptions()),
	)
	if err != nil {
		return nil, fmt.Errorf("cclient.NewClient: %w", err)
	}

	return cl, nil
}

//////////////////////////////////////////////////

func WithLogger(logger *slog.Logger) ConfigOption {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithClient sets the client behind the default page fetcher. Its redirect
// following is switched off. It must not carry a cookie jar: jar cookies
// would be sent regardless of the Session in use.
func WithClient(client cclient.Client) ConfigOption {
	return func(cfg *config) {
		cfg.client = client
	}
}

// WithFetcher replaces the client-backed page fetcher altogether.
func WithFetcher(fetcher PageFetcher) ConfigOption {
	return func(cfg *config) {
		cfg.fetcher = fetcher
	}
}

// WithService enables YouTube Data API lookups for channel profiles.
func WithService(service *youtube.Service) ConfigOption {
	return func(cfg *config) {
		cfg.service = service
	}
}

func WithSession(session *Session) ConfigOption {
	return func(cfg *config) {
		cfg.session = session
	}
}

func WithMetrics(m *metrics.Metrics) ConfigOption {
	return func(cfg *config) {
		cfg.metrics = m
	}
}

func WithSettings(settings CrawlerSettings) ConfigOption {
	return func(cfg *config) {
		cfg.settings.v = settings
		cfg.settings.ok = true
	}
}
