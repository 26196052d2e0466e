package youtube

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/rubpy/crawly/clog"
)

//////////////////////////////////////////////////

type SearchOptions struct {
	// Restricts results to one kind. Unknown values are ignored.
	Filter FilterType

	// Extra request headers, applied over the default User-Agent and Cookie.
	Header http.Header

	// Session used instead of the crawler's own.
	Session *Session

	// When set, a search aborted by an error still returns what the previous
	// pages had gathered, alongside the error. Otherwise the result is
	// discarded.
	KeepPartialResult bool
}

type StopReason string

const (
	StopDeadline      StopReason = "deadline"
	StopLimit         StopReason = "limit"
	StopLastPage      StopReason = "last_page"
	stopNotYetReached StopReason = ""
)

// Search pages through the results for terms until one of these holds
// after a page: the search has run longer than MaxSearchDuration, a
// positive limit of unique channel IDs has been reached, or the page
// carried no continuation token. Pages are fetched one at a time,
// PageDelay apart.
//
// Any fetch or parse failure aborts the whole search. Unless
// opts.KeepPartialResult is set, no result is returned in that case.
func (cr *Crawler) Search(ctx context.Context, terms string, limit int, opts *SearchOptions) (result *SearchResult, err error) {
	if !utf8.ValidString(terms) {
		return nil, &ValidationError{Field: "terms", Reason: "not valid UTF-8"}
	}
	if limit < 0 {
		return nil, &ValidationError{Field: "limit", Reason: "negative"}
	}
	if opts == nil {
		opts = &SearchOptions{}
	}

	settings := cr.loadSettings()
	fetcher := cr.pageFetcher(settings)
	if fetcher == nil {
		return nil, NilClient
	}

	if ctx == nil {
		ctx = context.Background()
	} else {
		if err = ctx.Err(); err != nil {
			return
		}
	}

	session := opts.Session
	if session == nil {
		session = cr.session
	}

	maxDuration := settings.MaxSearchDuration
	if maxDuration <= 0 {
		maxDuration = DefaultSettings.MaxSearchDuration
	}
	pageDelay := settings.PageDelay
	if pageDelay < 0 {
		pageDelay = 0
	}

	urls := URLBuilder{Base: settings.BaseURL}
	mapper := recordMapper{base: urls.base()}

	start := time.Now()
	res := newSearchResult()
	defer func() {
		if err != nil {
			cr.metrics.ObserveError(errorKind(err))
			if !opts.KeepPartialResult {
				result = nil
			}
			return
		}

		cr.metrics.ObserveSearch(time.Since(start), res.UniqueChannelIDs.Len())
	}()

	pageURL := urls.WithFilter(urls.SearchURL(terms), opts.Filter)
	for pageNum := 1; ; pageNum++ {
		var body []byte
		body, err = cr.fetch(ctx, fetcher, session, pageURL, settings.UserAgent, opts.Header)
		if err != nil {
			return res, err
		}

		var items []RendererItem
		items, err = ExtractContentIsland(body)
		if err != nil {
			return res, &ParseError{URL: pageURL, Err: err}
		}

		mapper.appendItems(res, items)
		res.recomputeChannelIDs()

		token, hasToken := ExtractContinuationToken(body)
		if hasToken {
			pageURL = urls.ContinuationURL(terms, token)
		}

		reason := stopNotYetReached
		switch {
		case time.Since(start) > maxDuration:
			reason = StopDeadline
		case limit > 0 && res.UniqueChannelIDs.Len() >= limit:
			reason = StopLimit
		case !hasToken:
			reason = StopLastPage
		}

		lp := clog.Params{
			Message: "searchPage",
			Level:   slog.LevelDebug,

			Values: clog.ParamGroup{
				"terms":          terms,
				"page":           pageNum,
				"items":          len(items),
				"uniqueChannels": res.UniqueChannelIDs.Len(),
			},
		}
		if reason != stopNotYetReached {
			lp.Set("stop", string(reason))
		}
		cr.Log(ctx, lp)

		if reason != stopNotYetReached {
			return res, nil
		}

		if err = sleep(ctx, pageDelay); err != nil {
			return res, err
		}
	}
}

// fetch performs one GET with the default headers, absorbs the response
// cookies into session and returns the body of a successful response.
func (cr *Crawler) fetch(ctx context.Context, fetcher PageFetcher, session *Session, rawURL string, userAgent string, extra http.Header) ([]byte, error) {
	header := http.Header{}
	if userAgent != "" {
		header.Set("User-Agent", userAgent)
	}
	if cookie := session.CookieHeaderValue(); cookie != "" {
		header.Set("Cookie", cookie)
	}
	for k, v := range extra {
		header[http.CanonicalHeaderKey(k)] = append([]string(nil), v...)
	}

	page, err := fetcher.FetchPage(ctx, rawURL, header, session)
	if err != nil {
		var fetchErr *FetchError
		if errors.As(err, &fetchErr) {
			return nil, err
		}

		return nil, &FetchError{URL: rawURL, Err: err}
	}
	if page == nil {
		return nil, &FetchError{URL: rawURL, Err: errors.New("no page")}
	}

	cr.metrics.ObservePage(page.StatusCode)
	if !page.OK() {
		return nil, &FetchError{URL: rawURL, StatusCode: page.StatusCode, Err: ErrBadStatus}
	}

	session.Ingest(page.Header)

	return page.Body, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func errorKind(err error) string {
	var (
		fetchErr *FetchError
		parseErr *ParseError
	)

	switch {
	case errors.As(err, &fetchErr):
		return "fetch"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "context"
	}

	return "other"
}
