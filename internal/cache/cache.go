// Package cache provides the per-namespace query caches that sit in front of
// the upstream news API. Memory is the default in-process implementation;
// Redis shares entries between gateway replicas.
//
// A stored value is either an ordered article list or the absence marker
// (a nil list). Both are cache hits: callers must not confuse an absent
// entry with a missing one.
package cache

import (
	"context"

	"github.com/ferro-labs/news-gateway/providers"
)

// Cache defines one cache namespace.
type Cache interface {
	// Name returns the namespace, e.g. "top" or "search".
	Name() string
	Get(ctx context.Context, key string) ([]providers.Article, bool)
	Set(ctx context.Context, key string, articles []providers.Article)
	Len(ctx context.Context) int
}

// Namespaces used by the gateway, one per endpoint.
const (
	NamespaceTop    = "top"
	NamespaceSearch = "search"
	NamespaceTitle  = "title"
	NamespaceAuthor = "author"
)

// Namespaces lists every namespace in endpoint order.
var Namespaces = []string{NamespaceTop, NamespaceSearch, NamespaceTitle, NamespaceAuthor}
