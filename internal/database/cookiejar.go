package database

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

// CookieJar is an http.CookieJar that mirrors every cookie it receives into
// the cookies table, so a session opened by one command is reused by the
// next one.
type CookieJar struct {
	jar    *cookiejar.Jar
	logger *slog.Logger
}

// NewCookieJar returns a jar preloaded with the cookies stored for origin
func NewCookieJar(origin *url.URL, logger *slog.Logger) (*CookieJar, error) {
	if logger == nil {
		logger = slog.Default()
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	stored, err := GetCookies(origin.Host)
	if err != nil {
		return nil, fmt.Errorf("load cookies: %w", err)
	}
	jar.SetCookies(origin, stored)
	logger.Debug("cookies restored", slog.String("host", origin.Host), slog.Int("count", len(stored)))

	return &CookieJar{jar: jar, logger: logger}, nil
}

func (j *CookieJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.jar.SetCookies(u, cookies)

	now := time.Now()
	for _, c := range cookies {
		var err error
		if c.MaxAge < 0 || (!c.Expires.IsZero() && !c.Expires.After(now)) {
			err = DeleteCookie(u.Host, c.Name, c.Path)
		} else {
			err = SaveCookie(u.Host, c)
		}
		if err != nil {
			j.logger.Warn("cookie not persisted", slog.String("name", c.Name), slog.String("error", err.Error()))
		}
	}
}

func (j *CookieJar) Cookies(u *url.URL) []*http.Cookie {
	return j.jar.Cookies(u)
}
