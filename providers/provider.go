// Package providers defines the Provider interface and the article types
// shared by upstream news API implementations.
//
// A Provider issues exactly one upstream request per Fetch call and returns
// the articles in the order the upstream delivered them. Providers never
// retry and never cache; both concerns belong to the gateway.
//
// Core types: Article, Source, Query.
package providers

import (
	"context"
	"encoding/json"
	"errors"
)

// Provider defines the interface that every upstream news API must implement.
//
// Fetch returns (nil, nil) when the upstream answered but carried no article
// list at all. Any transport, status or decoding failure is returned as an
// error.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, q Query) ([]Article, error)
}

// Source identifies the publication an article came from. ID is null for
// sources the upstream has no identifier for.
type Source struct {
	ID   *string `json:"id"`
	Name string  `json:"name"`
}

// Article is a single news item as delivered by the upstream. Field names
// follow the upstream JSON so responses pass through unchanged. Nullable
// fields are pointers so that null survives a round trip, and PublishedAt
// keeps the upstream timestamp verbatim whatever its format.
type Article struct {
	Source      Source          `json:"source"`
	Author      *string         `json:"author"`
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	URL         string          `json:"url"`
	URLToImage  *string         `json:"urlToImage"`
	PublishedAt json.RawMessage `json:"publishedAt"`
	Content     *string         `json:"content"`
}

// AuthorName returns the article author, or "" when the upstream has none.
func (a Article) AuthorName() string {
	if a.Author == nil {
		return ""
	}
	return *a.Author
}

// Query is the set of upstream parameters for one Fetch. Zero-valued fields
// are left out of the outgoing request.
type Query struct {
	PageSize int
	Country  string
	Language string
	Keyword  string
}

// Validate reports whether q can be sent upstream.
func (q Query) Validate() error {
	if q.PageSize < 0 {
		return errors.New("page size must not be negative")
	}
	return nil
}
