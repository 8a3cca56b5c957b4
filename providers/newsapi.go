package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ferro-labs/news-gateway/internal/logging"
)

// DefaultNewsAPIURL is the endpoint used when no base URL is configured.
const DefaultNewsAPIURL = "https://newsapi.org/v2/top-headlines"

// NewsAPIProvider implements the Provider interface for NewsAPI-compatible
// upstreams. Every Fetch is a single GET against the configured endpoint.
type NewsAPIProvider struct {
	Base
	httpClient *http.Client
}

// NewsAPIOption customises a NewsAPIProvider.
type NewsAPIOption func(*NewsAPIProvider)

// WithHTTPClient replaces the HTTP client used for upstream calls.
func WithHTTPClient(c *http.Client) NewsAPIOption {
	return func(p *NewsAPIProvider) {
		if c != nil {
			p.httpClient = c
		}
	}
}

// WithTimeout sets an overall timeout on upstream calls. Zero keeps the
// client default (no timeout).
func WithTimeout(d time.Duration) NewsAPIOption {
	return func(p *NewsAPIProvider) {
		if d > 0 {
			p.httpClient.Timeout = d
		}
	}
}

// NewNewsAPI creates a new NewsAPI provider.
func NewNewsAPI(apiKey, baseURL string, opts ...NewsAPIOption) (*NewsAPIProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("newsapi: api key is required")
	}
	if baseURL == "" {
		baseURL = DefaultNewsAPIURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("newsapi: invalid base url: %w", err)
	}

	p := &NewsAPIProvider{
		Base:       Base{name: "newsapi", apiKey: apiKey, baseURL: baseURL},
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

type newsapiResponse struct {
	Status       string            `json:"status"`
	TotalResults int               `json:"totalResults"`
	Articles     []json.RawMessage `json:"articles"`
	Code         string            `json:"code"`
	Message      string            `json:"message"`
}

// requestURL builds the upstream URL for q, preserving any query parameters
// already present on the base URL.
func (p *NewsAPIProvider) requestURL(q Query) (string, error) {
	u, err := url.Parse(p.baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse base url: %w", err)
	}
	params := u.Query()
	params.Set("apiKey", p.apiKey)
	if q.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.Country != "" {
		params.Set("country", q.Country)
	}
	if q.Language != "" {
		params.Set("language", q.Language)
	}
	if q.Keyword != "" {
		params.Set("q", q.Keyword)
	}
	u.RawQuery = params.Encode()
	return u.String(), nil
}

// Fetch queries the upstream once and returns its articles in upstream order.
func (p *NewsAPIProvider) Fetch(ctx context.Context, q Query) ([]Article, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	target, err := p.requestURL(q)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debug("newsapi request", "url", RedactURL(target))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		// url.Error embeds the full request URL, key included.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return nil, fmt.Errorf("request failed: %w", uerr.Err)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		var errResp newsapiResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Message != "" {
			return nil, fmt.Errorf("newsapi error (%d %s): %s", httpResp.StatusCode, errResp.Code, errResp.Message)
		}
		return nil, fmt.Errorf("newsapi error (%d): %s", httpResp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var newsResp newsapiResponse
	if err := json.Unmarshal(respBody, &newsResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if newsResp.Status == "error" {
		return nil, fmt.Errorf("newsapi error (%s): %s", newsResp.Code, newsResp.Message)
	}

	return decodeArticles(ctx, newsResp.Articles), nil
}

// decodeArticles decodes each article on its own so a single malformed entry
// is dropped instead of failing the whole batch. A missing list stays nil.
func decodeArticles(ctx context.Context, raw []json.RawMessage) []Article {
	if raw == nil {
		return nil
	}
	articles := make([]Article, 0, len(raw))
	for i, item := range raw {
		var a Article
		if err := json.Unmarshal(item, &a); err != nil {
			logging.FromContext(ctx).Warn("skipping malformed upstream article", "index", i, "error", err)
			continue
		}
		articles = append(articles, a)
	}
	return articles
}
