package youtube

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

//////////////////////////////////////////////////

// Session holds the cookies sent with every request of a crawler (or of a
// single search, see SearchOptions.Session) and absorbs the cookies set by
// each response. It is safe for concurrent use, so independent searches
// may share one deliberately.
type Session struct {
	mu      sync.Mutex
	names   []string
	cookies map[string]*http.Cookie
}

func NewSession(cookies ...*http.Cookie) *Session {
	s := &Session{
		cookies: make(map[string]*http.Cookie),
	}

	for _, c := range cookies {
		s.set(c, time.Now())
	}

	return s
}

// NewConsentSession returns a session pre-seeded with the consent cookie,
// which spares the consent interstitial on EU egress.
func NewConsentSession() *Session {
	return NewSession(consentCookie())
}

// CookieHeaderValue renders the stored cookies as a Cookie header value,
// in first-set order.
func (s *Session) CookieHeaderValue() string {
	if s == nil {
		return ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var b strings.Builder
	for _, name := range s.names {
		c := s.cookies[name]
		if c == nil || expired(c, now) {
			continue
		}

		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString(c.Name)
		b.WriteByte('=')
		b.WriteString(c.Value)
	}

	return b.String()
}

// Ingest updates the session from the Set-Cookie headers of a response.
func (s *Session) Ingest(header http.Header) {
	if s == nil || len(header) == 0 {
		return
	}

	cookies := (&http.Response{Header: header}).Cookies()
	if len(cookies) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, c := range cookies {
		s.set(c, now)
	}
}

// Cookies returns a snapshot of the live cookies.
func (s *Session) Cookies() []*http.Cookie {
	if s == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	cookies := make([]*http.Cookie, 0, len(s.names))
	for _, name := range s.names {
		if c := s.cookies[name]; c != nil && !expired(c, now) {
			cc := *c
			cookies = append(cookies, &cc)
		}
	}

	return cookies
}

// NOTE: callers must hold s.mu (or own s exclusively).
func (s *Session) set(c *http.Cookie, now time.Time) {
	if c == nil || c.Name == "" {
		return
	}

	if expired(c, now) {
		if _, ok := s.cookies[c.Name]; ok {
			delete(s.cookies, c.Name)
			for i, name := range s.names {
				if name == c.Name {
					s.names = append(s.names[:i], s.names[i+1:]...)
					break
				}
			}
		}

		return
	}

	if _, ok := s.cookies[c.Name]; !ok {
		s.names = append(s.names, c.Name)
	}

	cc := *c
	if cc.MaxAge > 0 {
		cc.Expires = now.Add(time.Duration(cc.MaxAge) * time.Second)
	}
	s.cookies[c.Name] = &cc
}

func expired(c *http.Cookie, now time.Time) bool {
	if c.MaxAge < 0 {
		return true
	}

	return !c.Expires.IsZero() && !c.Expires.After(now)
}

func consentCookie() *http.Cookie {
	return &http.Cookie{
		Name:  "SOCS",
		Value: "CAESEwgDEgk0ODE3Nzk3MjQaAmVuIAEaBgiA_LyaBg",
	}
}
