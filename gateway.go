// Package newsgateway implements a caching facade over an upstream news API.
//
// The Gateway type is the main entry point: create one with New, passing the
// upstream Provider and one cache per namespace, then call TopArticles,
// SearchByKeyword, FindByTitle or FindByAuthor. Each operation consults its
// own cache namespace before calling the upstream once.
//
// Title and author lookups are fetch-then-filter: a fixed batch of
// LookupBatchSize articles is fetched and filtered locally, so a matching
// article outside that batch is not found.
//
// Configuration for the server binaries is loaded from a YAML or JSON file
// with [LoadConfig].
package newsgateway

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ferro-labs/news-gateway/internal/cache"
	"github.com/ferro-labs/news-gateway/internal/logging"
	"github.com/ferro-labs/news-gateway/internal/metrics"
	"github.com/ferro-labs/news-gateway/providers"
)

// LookupBatchSize is the number of articles fetched for title and author
// lookups. Matches outside the batch are silently missed.
const LookupBatchSize = 100

// Defaults applied by New when the corresponding option is not given.
const (
	DefaultCountry  = "us"
	DefaultLanguage = "en"
	DefaultCount    = 10
)

// Gateway operation names, used as metric labels and log fields.
const (
	OpTopArticles  = "top_articles"
	OpSearch       = "search"
	OpFindByTitle  = "find_by_title"
	OpFindByAuthor = "find_by_author"
)

var (
	// ErrInvalidArgument is returned when an operation input is out of range
	// or blank.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNoResult is returned when the upstream produced no answer: it
	// failed, or replied without an article list.
	ErrNoResult = errors.New("no result from upstream")
)

// Caches holds one cache per namespace. Separate instances keep keys of
// different semantics (count 10 vs keyword "10") apart.
type Caches struct {
	Top    cache.Cache
	Search cache.Cache
	Title  cache.Cache
	Author cache.Cache
}

// NewMemoryCaches returns unbounded, non-expiring in-memory caches.
func NewMemoryCaches() Caches {
	return newCaches(func(name string) cache.Cache { return cache.NewMemory(name, 0, 0) })
}

// All returns the caches in endpoint order.
func (c Caches) All() []cache.Cache {
	return []cache.Cache{c.Top, c.Search, c.Title, c.Author}
}

func (c Caches) validate() error {
	for i, cc := range c.All() {
		if cc == nil {
			return fmt.Errorf("cache for namespace %q is required", cache.Namespaces[i])
		}
	}
	return nil
}

// Option customises a Gateway.
type Option func(*Gateway)

// WithCountry sets the market used for top articles.
func WithCountry(country string) Option {
	return func(g *Gateway) {
		if country != "" {
			g.country = country
		}
	}
}

// WithLanguage sets the language of the title/author lookup batch.
func WithLanguage(language string) Option {
	return func(g *Gateway) {
		if language != "" {
			g.language = language
		}
	}
}

// Gateway serves article queries from its caches and the upstream provider.
// It is safe for concurrent use. Lookups and cache population are not
// atomic: concurrent misses on the same key may each call the upstream.
type Gateway struct {
	upstream providers.Provider
	caches   Caches
	country  string
	language string
}

// New creates a Gateway over upstream with the given caches.
func New(upstream providers.Provider, caches Caches, opts ...Option) (*Gateway, error) {
	if upstream == nil {
		return nil, errors.New("upstream provider is required")
	}
	if err := caches.validate(); err != nil {
		return nil, err
	}
	g := &Gateway{
		upstream: upstream,
		caches:   caches,
		country:  DefaultCountry,
		language: DefaultLanguage,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Upstream returns the name of the upstream provider.
func (g *Gateway) Upstream() string { return g.upstream.Name() }

// CacheSizes reports the number of entries per cache namespace.
func (g *Gateway) CacheSizes(ctx context.Context) map[string]int {
	sizes := make(map[string]int, 4)
	for _, c := range g.caches.All() {
		sizes[c.Name()] = c.Len(ctx)
	}
	return sizes
}

// TopArticles returns the top count articles of the configured market.
func (g *Gateway) TopArticles(ctx context.Context, count int) ([]providers.Article, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive, got %d", ErrInvalidArgument, count)
	}
	q := providers.Query{PageSize: count, Country: g.country}
	return g.cached(ctx, OpTopArticles, g.caches.Top, strconv.Itoa(count), q, nil)
}

// SearchByKeyword returns the upstream's free-text search results for
// keyword. The cache key is the keyword exactly as given.
func (g *Gateway) SearchByKeyword(ctx context.Context, keyword string) ([]providers.Article, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, fmt.Errorf("%w: keyword is required", ErrInvalidArgument)
	}
	q := providers.Query{Keyword: keyword}
	return g.cached(ctx, OpSearch, g.caches.Search, keyword, q, nil)
}

// FindByTitle returns the articles of the lookup batch whose title equals
// title, ignoring case.
func (g *Gateway) FindByTitle(ctx context.Context, title string) ([]providers.Article, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}
	filter := func(a providers.Article) bool { return strings.EqualFold(a.Title, title) }
	return g.cached(ctx, OpFindByTitle, g.caches.Title, title, g.lookupQuery(), filter)
}

// FindByAuthor returns the articles of the lookup batch whose author equals
// author, ignoring case.
func (g *Gateway) FindByAuthor(ctx context.Context, author string) ([]providers.Article, error) {
	if strings.TrimSpace(author) == "" {
		return nil, fmt.Errorf("%w: author is required", ErrInvalidArgument)
	}
	filter := func(a providers.Article) bool { return strings.EqualFold(a.AuthorName(), author) }
	return g.cached(ctx, OpFindByAuthor, g.caches.Author, author, g.lookupQuery(), filter)
}

func (g *Gateway) lookupQuery() providers.Query {
	return providers.Query{PageSize: LookupBatchSize, Language: g.language}
}

// cached serves key from c, or fetches q upstream, applies keep (when set)
// and stores the outcome. An absent upstream result is stored as well and
// reported as ErrNoResult on every later hit.
func (g *Gateway) cached(ctx context.Context, op string, c cache.Cache, key string, q providers.Query, keep func(providers.Article) bool) ([]providers.Article, error) {
	log := logging.FromContext(ctx).With("operation", op, "namespace", c.Name(), "key", key)

	if articles, ok := c.Get(ctx, key); ok {
		metrics.CacheLookupsTotal.WithLabelValues(c.Name(), metrics.CacheHit).Inc()
		log.Debug("cache hit", "articles", len(articles))
		if articles == nil {
			return nil, ErrNoResult
		}
		return articles, nil
	}
	metrics.CacheLookupsTotal.WithLabelValues(c.Name(), metrics.CacheMiss).Inc()

	fetched := g.fetch(ctx, op, q)
	if fetched == nil {
		log.Error("no articles returned by upstream")
		c.Set(ctx, key, nil)
		return nil, ErrNoResult
	}
	log.Info("fetched articles", "articles", len(fetched))

	result := fetched
	if keep != nil {
		result = make([]providers.Article, 0, len(fetched))
		for _, a := range fetched {
			if keep(a) {
				result = append(result, a)
			}
		}
		log.Info("filtered articles", "articles", len(result))
	}

	c.Set(ctx, key, result)
	return result, nil
}

// fetch calls the upstream once. Every failure collapses to a nil result.
func (g *Gateway) fetch(ctx context.Context, op string, q providers.Query) []providers.Article {
	start := time.Now()
	articles, err := g.upstream.Fetch(ctx, q)
	metrics.UpstreamRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		metrics.UpstreamRequestsTotal.WithLabelValues(op, metrics.OutcomeError).Inc()
		logging.FromContext(ctx).Warn("upstream request failed",
			"operation", op, "provider", g.upstream.Name(), "error", err)
		return nil
	case articles == nil:
		metrics.UpstreamRequestsTotal.WithLabelValues(op, metrics.OutcomeEmpty).Inc()
		return nil
	default:
		metrics.UpstreamRequestsTotal.WithLabelValues(op, metrics.OutcomeSuccess).Inc()
		return articles
	}
}
