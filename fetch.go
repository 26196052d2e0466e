package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rubpy/crawly/cclient"
)

//////////////////////////////////////////////////

// Page is the raw outcome of a single GET.
type Page struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (p *Page) OK() bool {
	return p != nil && p.StatusCode >= 200 && p.StatusCode < 300
}

// PageFetcher issues one GET and returns the final page. Status codes are
// not interpreted beyond redirect handling. When session is not nil, the
// cookies set by intermediate redirect hops are ingested into it and sent
// on the next hop; the final page's cookies are left to the caller.
type PageFetcher interface {
	FetchPage(ctx context.Context, rawURL string, header http.Header, session *Session) (*Page, error)
}

//////////////////////////////////////////////////

type clientFetcher struct {
	client       cclient.Client
	maxRedirects int
}

// NewClientFetcher returns a PageFetcher backed by client. Redirects are
// followed by hand, up to maxRedirects hops, so client must not follow
// them itself (see NewDefaultClient).
func NewClientFetcher(client cclient.Client, maxRedirects int) PageFetcher {
	if maxRedirects < 0 {
		maxRedirects = 0
	}

	return &clientFetcher{
		client:       client,
		maxRedirects: maxRedirects,
	}
}

func (f *clientFetcher) FetchPage(ctx context.Context, rawURL string, header http.Header, session *Session) (*Page, error) {
	if f.client == nil {
		return nil, NilClient
	}

	header = header.Clone()
	for hop := 0; ; hop++ {
		resp, err := f.client.Request(ctx, "GET", rawURL, nil, header)
		if err != nil {
			return nil, err
		}

		location := resp.Header.Get("Location")
		if isRedirect(resp.StatusCode) && location != "" {
			resp.Body.Close()

			if hop >= f.maxRedirects {
				return nil, ErrTooManyRedirects
			}

			next, err := resolveLocation(rawURL, location)
			if err != nil {
				return nil, err
			}

			if session != nil {
				session.Ingest(http.Header(resp.Header))
				if header == nil {
					header = http.Header{}
				}
				if cookie := session.CookieHeaderValue(); cookie != "" {
					header.Set("Cookie", cookie)
				} else {
					header.Del("Cookie")
				}
			}

			rawURL = next
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}

		h := http.Header(resp.Header.Clone())
		if h == nil {
			h = http.Header{}
		}

		return &Page{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Header:     h,
			Body:       body,
		}, nil
	}
}

func isRedirect(status int) bool {
	switch status {
	case 301, 302, 303, 307, 308:
		return true
	}

	return false
}

func resolveLocation(current string, location string) (string, error) {
	base, err := url.Parse(current)
	if err != nil {
		return "", fmt.Errorf("url.Parse: %w", err)
	}

	ref, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("url.Parse: %w", err)
	}

	return base.ResolveReference(ref).String(), nil
}
