package repositories

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// PersistentJar is an [http.CookieJar] backed by a [CookieRepository].
//
// Matching rules come from [cookiejar.Jar]; every cookie the backend sets or expires is mirrored to the database, and stored cookies are replayed into a fresh jar on construction.
// Persistence failures are logged, since [http.CookieJar] has no error return.
type PersistentJar struct {
	repo   *CookieRepository
	logger *log.Logger

	mu  sync.Mutex
	jar *cookiejar.Jar
}

var _ http.CookieJar = (*PersistentJar)(nil)

// NewPersistentJar creates a jar preloaded with the unexpired cookies in repo.
func NewPersistentJar(repo *CookieRepository, logger *log.Logger) (*PersistentJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = log.Default()
	}

	pj := &PersistentJar{repo: repo, logger: logger, jar: jar}
	if err := pj.load(); err != nil {
		return nil, err
	}

	return pj, nil
}

func (p *PersistentJar) load() error {
	if purged, err := p.repo.PurgeExpired(time.Now()); err != nil {
		return err
	} else if purged > 0 {
		p.logger.Debug("purged expired cookies", "count", purged)
	}

	stored, err := p.repo.All()
	if err != nil {
		return err
	}

	byOrigin := map[string][]*http.Cookie{}
	for _, s := range stored {
		scheme := "http"
		if s.Cookie.Secure {
			scheme = "https"
		}
		origin := scheme + "://" + s.Host
		byOrigin[origin] = append(byOrigin[origin], s.Cookie)
	}

	for origin, cookies := range byOrigin {
		u, err := url.Parse(origin)
		if err != nil {
			p.logger.Warn("skipping stored cookies with invalid host", "origin", origin, "error", err)
			continue
		}
		p.jar.SetCookies(u, cookies)
	}

	p.logger.Debug("loaded stored cookies", "count", len(stored))
	return nil
}

// SetCookies implements [http.CookieJar].
func (p *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.jar.SetCookies(u, cookies)

	now := time.Now()
	for _, c := range cookies {
		stored := *c
		if stored.Path == "" || stored.Path[0] != '/' {
			stored.Path = defaultPath(u.Path)
		}

		if c.MaxAge < 0 || (c.MaxAge == 0 && !c.Expires.IsZero() && !c.Expires.After(now)) {
			if err := p.repo.Delete(u.Host, stored.Name, stored.Path); err != nil {
				p.logger.Debug("no stored cookie to expire", "host", u.Host, "name", stored.Name, "error", err)
			}
			continue
		}

		if c.MaxAge > 0 {
			stored.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}

		if err := p.repo.Save(u.Host, &stored); err != nil {
			p.logger.Error("failed to persist cookie", "host", u.Host, "name", stored.Name, "error", err)
		}
	}
}

// Cookies implements [http.CookieJar].
func (p *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.jar.Cookies(u)
}

// Clear forgets every cookie, in memory and on disk.
func (p *PersistentJar) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.repo.Clear(); err != nil {
		return err
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	p.jar = jar
	return nil
}

// defaultPath is the cookie path used when the response omits one: the directory of the request path.
func defaultPath(path string) string {
	if path == "" || path[0] != '/' {
		return "/"
	}

	i := strings.LastIndex(path, "/")
	if i == 0 {
		return "/"
	}
	return path[:i]
}
