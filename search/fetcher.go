package search

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bstancham/capita-library-search/config"
	"github.com/gocolly/colly/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Fetcher retrieves catalogue pages one at a time. A fetch succeeds only when
// the response carries HTTP 200 and an HTML content type; anything else is a
// classified failure the caller is expected to log and absorb. Successful
// bodies are kept in an LRU cache so repeated searches (batch files in
// particular) do not hit the catalogue twice for the same page.
type Fetcher struct {
	cfg       *config.Config
	collector *colly.Collector
	cache     *lru.Cache[string, []byte]
	metrics   *Metrics

	// One request in flight at a time. The mutex also guards the capture
	// fields the collector handlers write into.
	mu          sync.Mutex
	body        []byte
	contentType string
	status      int
}

// NewFetcher builds a fetcher for the configured catalogue root.
func NewFetcher(cfg *config.Config, metrics *Metrics) (*Fetcher, error) {
	parsed, err := url.Parse(cfg.CatalogueRoot)
	if err != nil {
		return nil, fmt.Errorf("parse catalogue root: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("catalogue root must include a host")
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(parsed.Host),
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)

	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = !cfg.RespectRobotsTxt
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	cache, err := lru.New[string, []byte](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create page cache: %w", err)
	}

	f := &Fetcher{
		cfg:       cfg,
		collector: collector,
		cache:     cache,
		metrics:   metrics,
	}

	collector.OnRequest(func(r *colly.Request) {
		r.Ctx.Put("start", time.Now())
	})
	collector.OnResponse(func(r *colly.Response) {
		f.body = r.Body
		f.contentType = r.Headers.Get("Content-Type")
		f.status = r.StatusCode
		if f.metrics != nil {
			if start, ok := r.Request.Ctx.GetAny("start").(time.Time); ok {
				f.metrics.ObserveDuration(time.Since(start))
			}
		}
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			f.status = r.StatusCode
		}
	})

	return f, nil
}

// WithTransport replaces the underlying HTTP transport. Used by tests to
// inject a mock round tripper.
func (f *Fetcher) WithTransport(rt http.RoundTripper) {
	f.collector.WithTransport(rt)
}

// Fetch issues one GET for pageURL and returns the body bytes. The page
// label distinguishes listing from detail requests in the metrics.
func (f *Fetcher) Fetch(pageURL, page string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if body, ok := f.cache.Get(pageURL); ok {
		f.metrics.IncCacheHit()
		return body, nil
	}

	f.body = nil
	f.contentType = ""
	f.status = 0
	f.metrics.IncRequest(page)

	if err := f.collector.Visit(pageURL); err != nil {
		classified := classifyError(err, f.status)
		f.metrics.IncError(errorTypeLabel(classified))
		slog.Debug("fetch failed",
			slog.String("url", pageURL),
			slog.Any("error", classified),
		)
		return nil, classified
	}

	if f.status != http.StatusOK {
		err := ErrBadStatus{Code: f.status}
		f.metrics.IncError(errorTypeLabel(err))
		return nil, err
	}
	if !strings.Contains(strings.ToLower(f.contentType), "html") {
		err := ErrNotHTML{ContentType: f.contentType}
		f.metrics.IncError(errorTypeLabel(err))
		return nil, err
	}

	f.cache.Add(pageURL, f.body)
	return f.body, nil
}
